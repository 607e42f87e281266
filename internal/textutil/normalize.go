package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// Normalize trims s and converts it to Unicode NFC so that visually equal
// names compare equal.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeSet builds a lookup set from values, skipping blanks.
func NormalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// SingleLine collapses all whitespace runs, including newlines, to one space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most width terminal cells, appending "…" when
// anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// Width reports the number of terminal cells s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Wrap breaks s into lines no wider than width terminal cells. Existing line
// breaks are kept, words are moved whole where possible and words wider than
// width are split. No visible characters are dropped.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	line = strings.ReplaceAll(line, "\t", "    ")
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	var lines []string
	cur, curW := "", 0
	for _, word := range strings.Fields(line) {
		w := runewidth.StringWidth(word)
		if curW > 0 && curW+1+w <= width {
			cur += " " + word
			curW += 1 + w
			continue
		}
		if curW > 0 {
			lines = append(lines, cur)
			cur, curW = "", 0
		}
		if w <= width {
			cur, curW = word, w
			continue
		}
		pieces := strings.Split(runewidth.Wrap(word, width), "\n")
		lines = append(lines, pieces[:len(pieces)-1]...)
		cur = pieces[len(pieces)-1]
		curW = runewidth.StringWidth(cur)
	}
	if curW > 0 || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}
