package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"sylva/internal/config"
	"sylva/internal/dispatch"
	"sylva/internal/history"
	"sylva/internal/logging"
	"sylva/internal/render"
	"sylva/internal/repl"
	"sylva/internal/services"
	"sylva/internal/treehollow"
)

// app is the wired client stack shared by the REPL and the one-shot commands.
type app struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	client     *treehollow.Client
	history    *history.Store
	renderer   *render.Renderer
	dispatcher *dispatch.Dispatcher
	in         io.Reader
	out        io.Writer
}

func newApp(cmd *cobra.Command, ctx *commandContext) (*app, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.newLogger(cmd)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:        cfg,
		configPath: ctx.configPath,
		logger:     logger,
		client:     treehollow.NewFromConfig(cfg, logger),
		in:         ctx.inputReader(cmd),
		out:        cmd.OutOrStdout(),
	}
	if cfg.History.Enabled {
		store, err := history.Open(cmd.Context(), cfg.Paths.HistoryDB, cfg.History.MaxEntries)
		switch {
		case errors.Is(err, history.ErrSchemaMismatch):
			logger.Warn("history database written by another version; continuing without it",
				logging.String("path", cfg.Paths.HistoryDB),
				logging.Error(err),
			)
		case err != nil:
			logger.Warn("history unavailable; continuing without it",
				logging.String("path", cfg.Paths.HistoryDB),
				logging.Error(err),
			)
		default:
			a.history = store
		}
	}

	a.renderer = render.NewFromConfig(a.out, cfg)
	opts := dispatch.Options{
		API:      a.client,
		Renderer: a.renderer,
		ImageDir: cfg.Paths.ImageDir,
		Logger:   logger,
		Debug:    ctx.debug(),
	}
	if a.history != nil {
		opts.History = a.history
	}
	a.dispatcher = dispatch.New(opts)
	return a, nil
}

func (a *app) Close() error {
	return a.history.Close()
}

func (a *app) newREPL() *repl.REPL {
	return repl.New(repl.Options{
		In:       a.in,
		Out:      a.out,
		Executor: a.dispatcher,
		History:  a.history,
		Logger:   a.logger,
		Color:    a.renderer.Color(),
	})
}

// authenticate installs the stored token, or runs the interactive login and
// persists the new token when there is none or force is set.
func (a *app) authenticate(ctx context.Context, force bool) error {
	if !force && a.cfg.Auth.Token != "" {
		a.client.SetToken(a.cfg.Auth.Token)
		a.logger.Debug("using stored token", logging.Bool("from_env", a.cfg.TokenFromEnv))
		return nil
	}

	token, err := treehollow.Login(ctx, a.client, a.prompter())
	if err != nil {
		return err
	}
	if err := config.SaveToken(a.configPath, token); err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "login", "persist token", err)
	}
	a.cfg.Auth.Token = token
	a.cfg.TokenFromEnv = false
	a.logger.Info("login succeeded", logging.String("config", a.configPath))
	return nil
}

func (a *app) prompter() treehollow.Prompter {
	return treehollow.PrompterFunc(func(ctx context.Context, label string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(a.out, label)
		return readLine(a.in)
	})
}

// readLine reads one line without consuming input beyond it unless in is
// already buffered.
func readLine(in io.Reader) (string, error) {
	if br, ok := in.(*bufio.Reader); ok {
		line, err := br.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return strings.TrimRight(sb.String(), "\r"), nil
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
	}
}

func runREPL(cmd *cobra.Command, ctx *commandContext) error {
	a, err := newApp(cmd, ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.authenticate(cmd.Context(), false); err != nil {
		return err
	}
	return a.newREPL().Run(cmd.Context())
}
