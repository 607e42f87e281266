// Package config loads, normalizes, and validates sylva configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// SYLVA_TOKEN and SYLVA_API_ROOT (optionally sourced from a .env file). The
// Config type centralizes every knob the CLI needs: API endpoints, the stored
// credential, image and history locations, rendering, and logging.
//
// Token persistence goes through SaveToken, which rewrites only the auth
// section under an exclusive file lock so other keys survive a login.
package config
