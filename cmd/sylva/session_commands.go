package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sylva/internal/config"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in with a phone verification code and store the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.authenticate(cmd.Context(), true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", a.configPath)
			return nil
		},
	}
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke this device and clear the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.cfg.Auth.Token == "" {
				return errors.New("not logged in")
			}
			a.client.SetToken(a.cfg.Auth.Token)
			resp, err := a.client.Logout(cmd.Context())
			if err != nil {
				return err
			}
			if !resp.Success() {
				return resp.Unexpected()
			}
			if err := config.ClearToken(a.configPath); err != nil {
				return fmt.Errorf("clear stored token: %w", err)
			}
			if a.cfg.TokenFromEnv {
				a.logger.Warn("SYLVA_TOKEN is still set in the environment")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run <command line...>",
		Short: "Execute a single command line and exit",
		Example: `  sylva run list 10
  sylva run create "hello world" tag news`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.authenticate(cmd.Context(), false); err != nil {
				return err
			}
			if err := a.newREPL().HandleLine(cmd.Context(), joinArgs(args)); err != nil {
				return &reportedError{err: err}
			}
			return nil
		},
	}
}

// joinArgs rebuilds a command line, quoting arguments the shell already
// unquoted so they stay single tokens.
func joinArgs(args []string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		switch {
		case arg != "" && !strings.ContainsAny(arg, " \t\r\n\"'"):
			parts[i] = arg
		case !strings.Contains(arg, `"`):
			parts[i] = `"` + arg + `"`
		default:
			parts[i] = "'" + arg + "'"
		}
	}
	return strings.Join(parts, " ")
}
