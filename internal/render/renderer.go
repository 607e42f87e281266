package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"sylva/internal/config"
)

// DefaultWidth is used when neither the terminal nor the caller supplies one.
const DefaultWidth = 100

const minWidth = 40

// Options configures a Renderer.
type Options struct {
	// Width is the total table width. Zero selects the terminal width when
	// the sink is a terminal, else DefaultWidth.
	Width int
	Color bool
	Now   func() time.Time
}

// Renderer writes tables to a sink.
type Renderer struct {
	out   io.Writer
	width int
	theme theme
	now   func() time.Time
}

// New constructs a Renderer writing to out.
func New(out io.Writer, opts Options) *Renderer {
	if out == nil {
		out = io.Discard
	}
	width := opts.Width
	if width <= 0 {
		if w, ok := TerminalWidth(out); ok {
			width = w
		} else {
			width = DefaultWidth
		}
	}
	if width < minWidth {
		width = minWidth
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Renderer{out: out, width: width, theme: theme{enabled: opts.Color}, now: now}
}

// NewFromConfig builds a Renderer for out using the [render] section. The
// terminal width wins over render.width when out is a terminal.
func NewFromConfig(out io.Writer, cfg *config.Config) *Renderer {
	width := DefaultWidth
	mode := config.ColorAuto
	if cfg != nil {
		width = cfg.Render.Width
		mode = cfg.Render.Color
	}
	if w, ok := TerminalWidth(out); ok {
		width = w
	}
	return New(out, Options{Width: width, Color: ShouldColorize(out, mode)})
}

// Width returns the table width in terminal cells.
func (r *Renderer) Width() int { return r.width }

// Color reports whether ANSI colours are emitted.
func (r *Renderer) Color() bool { return r.theme.enabled }

// Printf writes a single confirmation line.
func (r *Renderer) Printf(format string, args ...any) error {
	line := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, err := io.WriteString(r.out, line)
	return err
}

func (r *Renderer) write(rendered string) error {
	if rendered == "" {
		return nil
	}
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	_, err := io.WriteString(r.out, rendered)
	return err
}

// ShouldColorize resolves a render.color mode against the sink.
func ShouldColorize(w io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
