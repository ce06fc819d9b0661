// Package services defines shared utilities consumed by the stdl client, the
// journal, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and endpoints for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     transport or decode errors without losing the underlying cause.
//
// Use these helpers when adding new commands so error reporting stays uniform.
package services
