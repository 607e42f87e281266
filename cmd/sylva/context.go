package main

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"sylva/internal/config"
	"sylva/internal/logging"
	"sylva/internal/render"
)

type commandContext struct {
	configFlag *string
	debugFlag  *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	inputOnce sync.Once
	input     io.Reader
}

func newCommandContext(configFlag *string, debugFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		debugFlag:  debugFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) debug() bool {
	return c.debugFlag != nil && *c.debugFlag
}

// newLogger writes to the command's stderr so table output stays clean.
func (c *commandContext) newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	w := cmd.ErrOrStderr()
	return logging.NewFromConfig(cfg, w, render.ShouldColorize(w, cfg.Render.Color), c.debug())
}

// inputReader returns stdin shared by the login prompts and the REPL. Non
// terminal input is buffered once so neither consumer loses read-ahead.
func (c *commandContext) inputReader(cmd *cobra.Command) io.Reader {
	c.inputOnce.Do(func() {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			c.input = f
			return
		}
		c.input = bufio.NewReader(in)
	})
	return c.input
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
