// Package core provides the foundational domain types, interfaces and execution
// contexts of the documentation pipeline. It defines:
//
//   - ReviewState, the versioned value threaded through every pipeline action
//   - The stage outputs (CodeAnalysis, DocStructure, UpdatePlan, GeneratedContent)
//   - DocConfig and its partial override merge
//   - Navigation, the typed manifest tree with structural Equal and Apply
//   - Action and RunContext (scoped execution for one pipeline run)
//   - ArtifactStore and RunReport for recording finished runs
//
// The package keeps transport concerns (LLM providers, the source-control
// host, HTTP) out of scope so that every action can be tested against plain
// values.
package core
