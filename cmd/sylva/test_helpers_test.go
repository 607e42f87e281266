package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"sylva/internal/config"
	"sylva/internal/testsupport"
)

type cliTestEnv struct {
	api        *testsupport.FakeAPI
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("SYLVA_TOKEN", "")
	t.Setenv("SYLVA_API_ROOT", "")
	t.Setenv("NO_COLOR", "1")
	t.Chdir(t.TempDir())

	api := testsupport.NewFakeAPI(t)
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithServer(api)}, opts...)...)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{api: api, cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func storedToken(t *testing.T, path string) string {
	t.Helper()
	var doc struct {
		Auth struct {
			Token string `toml:"token"`
		} `toml:"auth"`
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	return doc.Auth.Token
}
