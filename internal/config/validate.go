package config

import (
	"errors"
	"fmt"
	"net/url"
)

const minRenderWidth = 40

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAPI() error {
	if err := validateBaseURL("api.root", c.API.Root); err != nil {
		return err
	}
	if err := validateBaseURL("api.image_root", c.API.ImageRoot); err != nil {
		return err
	}
	if c.API.TimeoutSeconds > 600 {
		return errors.New("api.timeout_seconds must be at most 600")
	}
	return nil
}

func validateBaseURL(field, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL, got %q", field, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", field, value)
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.MaxEntries < 0 {
		return errors.New("history.max_entries must be zero (unbounded) or positive")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.Width < minRenderWidth {
		return fmt.Errorf("render.width must be at least %d", minRenderWidth)
	}
	switch c.Render.Color {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return fmt.Errorf("render.color: unsupported value %q (use auto, always or never)", c.Render.Color)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
