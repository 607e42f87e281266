package textutil

import (
	"path"
	"strings"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// BaseName returns the sanitized last path segment of a URL-ish source such
// as "2022/03/abc.jpeg". It returns "" when nothing usable remains.
func BaseName(src string) string {
	src = strings.TrimSpace(src)
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	src = strings.TrimRight(strings.ReplaceAll(src, "\\", "/"), "/")
	if src == "" {
		return ""
	}
	name := SanitizeFileName(path.Base(src))
	switch name {
	case "", ".", "..":
		return ""
	}
	return name
}
