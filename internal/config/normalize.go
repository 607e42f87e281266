package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAPI()
	c.normalizeAuth()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRender()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeAPI() {
	if value, ok := os.LookupEnv("SYLVA_API_ROOT"); ok && strings.TrimSpace(value) != "" {
		c.API.Root = value
	}
	c.API.Root = strings.TrimRight(strings.TrimSpace(c.API.Root), "/")
	if c.API.Root == "" {
		c.API.Root = defaultAPIRoot
	}
	c.API.ImageRoot = strings.TrimRight(strings.TrimSpace(c.API.ImageRoot), "/")
	if c.API.ImageRoot == "" {
		c.API.ImageRoot = defaultImageRoot
	}
	c.API.ModelName = strings.TrimSpace(c.API.ModelName)
	if c.API.ModelName == "" {
		c.API.ModelName = defaultModelName
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeAuth() {
	c.Auth.Token = strings.TrimSpace(c.Auth.Token)
	if value, ok := os.LookupEnv("SYLVA_TOKEN"); ok && strings.TrimSpace(value) != "" {
		c.Auth.Token = strings.TrimSpace(value)
		c.TokenFromEnv = true
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ImageDir) == "" {
		c.Paths.ImageDir = defaultImageDir
	}
	if c.Paths.ImageDir, err = expandPath(c.Paths.ImageDir); err != nil {
		return fmt.Errorf("paths.image_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = filepath.Join(defaultDataDir(), defaultHistoryFile)
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeRender() {
	c.Render.Color = strings.ToLower(strings.TrimSpace(c.Render.Color))
	if c.Render.Color == "" {
		c.Render.Color = defaultColorMode
	}
	if c.Render.Width == 0 {
		c.Render.Width = defaultRenderWidth
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
