// Package logging assembles structured slog loggers and formatting helpers used
// across xbvrkit tasks.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so task code can automatically
// tag log lines with run IDs, task names, and item keys. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Logs are written to stderr; stdout belongs to the task's progress lines.
package logging
