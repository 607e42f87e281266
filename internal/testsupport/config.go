package testsupport

import (
	"path/filepath"
	"testing"

	"sylva/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Colour is disabled and the token is empty unless an option sets one.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ImageDir = filepath.Join(base, "images")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "data", "history.db")
	cfgVal.Render.Color = config.ColorNever
	cfgVal.Render.Width = 100
	cfgVal.API.TimeoutSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithToken stores token in the auth section.
func WithToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Auth.Token = token
	}
}

// WithServer points the API and image roots at a fake server.
func WithServer(srv *FakeAPI) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.Root = srv.URL()
		b.cfg.API.ImageRoot = srv.URL() + ImagePrefix
	}
}

// WithoutHistory disables the history store.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ImageDir)
}
