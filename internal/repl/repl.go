package repl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"sylva/internal/command"
	"sylva/internal/history"
	"sylva/internal/logging"
	"sylva/internal/services"
)

// DefaultPrompt is shown before every input line.
const DefaultPrompt = "> "

// Executor runs parsed commands. *dispatch.Dispatcher satisfies it.
type Executor interface {
	Execute(ctx context.Context, cmd command.Command) error
	Debug() bool
}

// Recorder persists input lines. A nil *history.Store is a valid Recorder.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Options configures a REPL.
type Options struct {
	In       io.Reader
	Out      io.Writer
	Executor Executor
	History  Recorder
	Logger   *slog.Logger
	Prompt   string
	Color    bool
	// Interrupts overrides the SIGINT subscription, for tests.
	Interrupts <-chan os.Signal
	Now        func() time.Time
}

// REPL is the interactive loop.
type REPL struct {
	in         io.Reader
	out        io.Writer
	exec       Executor
	history    Recorder
	logger     *slog.Logger
	prompt     string
	interrupts <-chan os.Signal
	now        func() time.Time
}

// New constructs a REPL.
func New(opts Options) *REPL {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	prompt := opts.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	if opts.Color {
		c := color.New(color.FgGreen, color.Bold)
		c.EnableColor()
		prompt = c.Sprint(prompt)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &REPL{
		in:         in,
		out:        opts.Out,
		exec:       opts.Executor,
		history:    opts.History,
		logger:     logging.NewComponentLogger(opts.Logger, "repl"),
		prompt:     prompt,
		interrupts: opts.Interrupts,
		now:        now,
	}
}

type readResult struct {
	line string
	err  error
}

// Run reads and executes lines until end of input, an interrupt while
// waiting for input, or cancellation of ctx. The first two return nil.
func (r *REPL) Run(ctx context.Context) error {
	interrupts := r.interrupts
	if interrupts == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		defer signal.Stop(ch)
		interrupts = ch
	}

	reader := newLineReader(r.in, r.out, r.prompt)
	lines := make(chan readResult, 1)
	for {
		go func() {
			line, err := reader.ReadLine()
			lines <- readResult{line: line, err: err}
		}()

		var res readResult
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-interrupts:
			r.endOfInput()
			return nil
		case res = <-lines:
		}
		if res.err != nil {
			if errors.Is(res.err, io.EOF) {
				r.endOfInput()
				return nil
			}
			return res.err
		}

		r.runLine(ctx, interrupts, res.line)
	}
}

func (r *REPL) endOfInput() {
	if r.out != nil {
		_, _ = io.WriteString(r.out, "\n")
	}
	r.logger.Debug("input closed")
}

// runLine executes one line with a context that an interrupt cancels.
func (r *REPL) runLine(ctx context.Context, interrupts <-chan os.Signal, line string) {
	cmdCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		select {
		case <-interrupts:
			cancel()
		case <-done:
		}
	}()
	_ = r.HandleLine(cmdCtx, line)
	close(done)
	cancel()
}

// HandleLine parses and executes line, logs any failure, and records the
// outcome in history. It returns the command error so callers such as the
// run subcommand can set an exit status.
func (r *REPL) HandleLine(ctx context.Context, line string) error {
	started := r.now()
	ctx = services.WithRequestID(ctx, uuid.NewString())

	name := ""
	cmd, err := command.ParseLine(line)
	if err == nil {
		name = cmd.Name()
		err = r.exec.Execute(ctx, cmd)
	} else if tokens := command.Tokenize(line); len(tokens) > 0 {
		name = strings.ToLower(tokens[0])
	}
	if name != "" {
		ctx = services.WithCommand(ctx, name)
	}
	logger := logging.WithContext(ctx, r.logger)

	if err != nil {
		r.report(logger, err)
	} else {
		logger.Debug("command completed", logging.Duration("elapsed", r.now().Sub(started)))
	}

	if r.history != nil && name != "history" {
		entry := history.Entry{
			Line:      line,
			Command:   name,
			Outcome:   services.Kind(err),
			CreatedAt: started,
		}
		if err != nil {
			entry.Error = err.Error()
		}
		// Recording must not depend on the command context, which an
		// interrupt may have cancelled.
		if recErr := r.history.Record(context.WithoutCancel(ctx), entry); recErr != nil {
			logger.Warn("history record failed", logging.Error(recErr))
		}
	}
	return err
}

// report logs err. Debug mode adds the error kind, each wrapped cause and
// the full response body.
func (r *REPL) report(logger *slog.Logger, err error) {
	if errors.Is(err, context.Canceled) {
		logger.Warn("command interrupted")
		return
	}
	if !r.exec.Debug() {
		logger.Error(err.Error())
		return
	}
	attrs := []logging.Attr{
		logging.String(logging.FieldErrorKind, services.Kind(err)),
	}
	for i, cause := range causes(err) {
		attrs = append(attrs, logging.String("cause_"+strconv.Itoa(i+1), cause))
	}
	var unexpected *services.UnexpectedResponseError
	if errors.As(err, &unexpected) {
		attrs = append(attrs,
			logging.Int(logging.FieldStatus, unexpected.Status),
			logging.String("body", unexpected.BodyJSON()),
		)
	}
	logger.Error(err.Error(), logging.Args(attrs...)...)
}
