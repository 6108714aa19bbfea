// Package logging assembles structured slog loggers and formatting helpers
// used across Verbatim.
//
// It centralizes level and output plumbing for the console/JSON handlers and
// exposes context-aware helpers so request code automatically tags log lines
// with tenant and correlation IDs. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
