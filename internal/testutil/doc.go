// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing review states, run contexts and seeded
// in-memory hosts. They are not intended for production usage.
package testutil
