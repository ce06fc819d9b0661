// Package logging assembles structured slog loggers for stdlnotify.
//
// It owns the console and JSON handlers, keeps every log line on stderr (and
// an optional file) so stdout carries only command output, and exposes
// context-aware helpers that tag lines with the invocation's correlation ID
// and the endpoint being contacted. A no-op logger is provided for tests.
package logging
