// Package mintlify implements the documentation update pipeline for
// Mintlify sites. Six actions run in order over a core.ReviewState:
//
//  1. AnalyzeCodeChanges reads the pull request diff and summarizes it
//  2. AnalyzeDocStructure walks the docs tree and reads the navigation manifest
//  3. PlanDocUpdates asks the model for a plan of page and navigation changes
//  4. GenerateContent writes the MDX body of every planned page
//  5. UpdateNavigation rewrites the manifest's navigation array
//  6. CreateDocsPR commits the result to a new branch and opens a pull request
//
// NewDocUpdateAgent wires them into an agent.SequentialAgent.
//
// Missing upstream state is fatal (core.ErrMissingState). Failures that only
// affect one file, directory or model answer are logged and the item is
// skipped or replaced by a documented default.
package mintlify
