//go:build !unix

package render

import (
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalWidth returns the column count of w when it is a terminal.
func TerminalWidth(w io.Writer) (int, bool) {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}
