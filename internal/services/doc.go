// Package services defines the error vocabulary and request context helpers
// shared by the API client, command parser, dispatcher and REPL.
//
// Key responsibilities:
//   - Sentinel error markers (authentication, unknown/malformed commands,
//     unexpected responses, data integrity, transport) plus typed errors that
//     carry diagnostics and unwrap to those markers.
//   - The Wrap helper that prefixes component/operation context while keeping
//     the marker visible to errors.Is.
//   - Context helpers that stamp the command name and a per-line correlation
//     identifier for logging.
//
// Classify failures through these markers rather than string matching so the
// REPL can report every error kind uniformly.
package services
