package config

import (
	"path/filepath"
	"time"
)

const (
	defaultConfigPath     = "~/.config/sylva/config.toml"
	defaultAPIRoot        = "https://api.treehollow.net/v5"
	defaultImageRoot      = "https://img.treehollow.net"
	defaultModelName      = "Sylva CLI"
	defaultTimeoutSeconds = 15
	defaultImageDir       = "images"
	defaultHistoryFile    = "history.db"
	defaultHistoryMax     = 1000
	defaultRenderWidth    = 100
	defaultColorMode      = ColorAuto
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Color modes accepted by render.color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			Root:           defaultAPIRoot,
			ImageRoot:      defaultImageRoot,
			ModelName:      defaultModelName,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Paths: Paths{
			ImageDir:  defaultImageDir,
			HistoryDB: filepath.Join(defaultDataDir(), defaultHistoryFile),
		},
		History: History{
			Enabled:    true,
			MaxEntries: defaultHistoryMax,
		},
		Render: Render{
			Width: defaultRenderWidth,
			Color: defaultColorMode,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
