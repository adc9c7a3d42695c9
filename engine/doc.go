// Package engine executes pipeline actions as tracked runs.
//
// Each run gets a fresh identifier, a deadline, a model-call budget and a
// logger tagged with the run ID. Concurrency across runs is bounded by a
// semaphore; runs beyond the limit wait until a slot frees up or their
// context ends. Active runs can be cancelled by ID.
//
// When a run finishes, successfully or not, the engine stores a
// core.RunReport as JSON under core.ReportArtifact in the configured
// artifact store and hands the same report back to the caller.
//
// # Callbacks
//
// Hooks registered with RegisterCallback run at three points:
//
//   - CallbackBeforeRun: before the root action starts; an error aborts the run
//   - CallbackAfterRun: after the report is stored
//   - CallbackOnError: when the root action fails
//
// Callback errors other than BeforeRun are logged and otherwise ignored.
package engine
