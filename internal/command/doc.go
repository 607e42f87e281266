// Package command turns an input line into a typed Command.
//
// Tokenize splits on whitespace while keeping quoted runs together; Parse
// matches the tokens against the grammar table and returns one of the
// concrete command structs. Argument validation (ids, page sizes, list
// types, device uuids, key/value pairs) happens here so the dispatcher only
// ever sees well-formed commands.
package command
