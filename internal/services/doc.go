// Package services defines shared utilities consumed by the editor and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, operation names, and stages for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (unsupported operation, missing tool, external tool failure) and map
//     them to process exit codes.
//
// Use these helpers when wiring new operations so error handling and
// observability stay uniform across commands.
package services
