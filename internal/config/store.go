package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"

	"sylva/internal/fileutil"
)

// SaveToken persists token into the auth section of the config file at path,
// preserving every other key. The read-modify-write runs under an exclusive
// lock on path+".lock" so concurrent logins cannot interleave.
func SaveToken(path, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("save token: token is empty")
	}
	return updateAuth(path, func(auth map[string]any) { auth["token"] = token })
}

// ClearToken removes the stored token, leaving the rest of the file intact.
// A missing file is not an error.
func ClearToken(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return updateAuth(path, func(auth map[string]any) { delete(auth, "token") })
}

func updateAuth(path string, mutate func(auth map[string]any)) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("save token: config path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock config: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("read config: %w", err)
	}

	auth, _ := doc["auth"].(map[string]any)
	if auth == nil {
		auth = map[string]any{}
	}
	mutate(auth)
	doc["auth"] = auth

	encoded, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := fileutil.WriteFileAtomic(path, encoded, 0o600); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}
