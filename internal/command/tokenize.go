package command

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits line into tokens. A run enclosed in matching single or
// double quotes that starts a token is one token with the quotes removed. An
// unterminated quote yields the rest of the line as the final token.
func Tokenize(line string) []string {
	tokens := []string{}
	i := 0
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		if r == '"' || r == '\'' {
			rest := line[i+size:]
			end := strings.IndexRune(rest, r)
			if end < 0 {
				tokens = append(tokens, rest)
				break
			}
			tokens = append(tokens, rest[:end])
			i += size + end + size
			continue
		}
		start := i
		for i < len(line) {
			r, size = utf8.DecodeRuneInString(line[i:])
			if unicode.IsSpace(r) {
				break
			}
			i += size
		}
		tokens = append(tokens, line[start:i])
	}
	return tokens
}
