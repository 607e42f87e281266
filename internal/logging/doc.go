// Package logging assembles the slog loggers used by the sylva client.
//
// Two handlers are available: a compact console handler meant for a human
// sitting at the prompt, and a JSON handler for piping sessions into other
// tools. Both write to a caller-supplied writer (stderr by default) so log
// lines never interleave with rendered tables on stdout.
//
// Context helpers attach the active command name and request ID to every
// record emitted while that command runs.
package logging
