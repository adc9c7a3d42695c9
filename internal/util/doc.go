// Package util holds small helpers shared by the pipeline packages: a
// reflection based JSON schema builder, prompt template rendering and
// placeholder expansion for PR titles and bodies.
package util
