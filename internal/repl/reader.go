package repl

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// lineReader yields one input line per call and io.EOF at end of input.
type lineReader interface {
	ReadLine() (string, error)
}

// newLineReader picks x/term line editing when in is a terminal, else a
// plain buffered reader that echoes the prompt to out.
func newLineReader(in io.Reader, out io.Writer, prompt string) lineReader {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return newTermReader(f, out, prompt)
	}
	return &scanReader{in: bufio.NewReader(in), out: out, prompt: prompt}
}

type scanReader struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
}

func (r *scanReader) ReadLine() (string, error) {
	if r.out != nil && r.prompt != "" {
		_, _ = io.WriteString(r.out, r.prompt)
	}
	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// termReader puts the terminal in raw mode only while a line is being edited
// so command output and SIGINT behave normally between prompts.
type termReader struct {
	fd   int
	term *term.Terminal
}

func newTermReader(f *os.File, out io.Writer, prompt string) *termReader {
	if out == nil {
		out = os.Stdout
	}
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{f, out}, prompt)
	fd := int(f.Fd())
	if w, h, err := term.GetSize(fd); err == nil {
		_ = t.SetSize(w, h)
	}
	return &termReader{fd: fd, term: t}
}

// ReadLine returns io.EOF for both Ctrl-D on an empty line and Ctrl-C.
func (r *termReader) ReadLine() (string, error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return "", err
	}
	defer func() { _ = term.Restore(r.fd, state) }()
	if w, h, err := term.GetSize(r.fd); err == nil {
		_ = r.term.SetSize(w, h)
	}
	line, err := r.term.ReadLine()
	if errors.Is(err, term.ErrPasteIndicator) {
		err = nil
	}
	return line, err
}
