// Package logging provides a minimal logging interface and adapters for folio.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the orchestrator, flows, tools and HTTP handlers use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - FolioLogger with component / request scoping and domain helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	orch := chat.New(system, registry, selection, factory, func(o *chat.Options) { o.Logger = logger })
//
// Arguments after the message are key/value pairs, exactly like log/slog.
package logging
