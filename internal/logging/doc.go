// Package logging assembles structured slog loggers and formatting helpers used
// across coursesum.
//
// It owns the console and JSON handlers, the tee handler that mirrors console
// output into the daemon's log file, and the attribute helpers that keep field
// names consistent (component, event_type, error_hint, request_id). A no-op
// logger is provided for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits lines with the same shape.
package logging
