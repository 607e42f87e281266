// Package main hosts the sylva CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration, sets up structured
// logging on stderr, establishes the tree hollow session (stored token,
// SYLVA_TOKEN, or the interactive phone login) and then either runs the
// interactive REPL or executes a single command line.
//
// Keep this package lean: command semantics live in internal/command and
// internal/dispatch; this package only wires them to the terminal.
package main
