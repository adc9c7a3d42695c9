// Package artifact contains implementations of core.ArtifactStore, used to
// retain the reports of finished pipeline runs.
//
// The interface lives in the core package to avoid dependency cycles. Callers
// should depend on the core interface rather than concrete types so they can
// substitute alternative persistence layers in tests or production.
package artifact
