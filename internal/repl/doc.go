// Package repl runs the interactive read-parse-dispatch loop.
//
// Each input line is tokenized, parsed and executed before the next line is
// read. Errors are logged and the loop continues; end of input or an
// interrupt while waiting for input ends the session cleanly. An interrupt
// during a command cancels only that command's context.
package repl
