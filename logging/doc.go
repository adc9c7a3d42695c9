// Package logging provides a tiny abstraction over slog so pipeline code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger.
//
// The package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - With for attaching run/action attributes
//   - LogLLMCall, LogHostCall and LogActionExecution domain helpers
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false, os.Stderr)
//	rt := spinai.New(func(o *spinai.Options) { o.Logger = logger })
package logging
