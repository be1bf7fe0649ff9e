// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - Load parses the process environment into a tagged struct and caches the
//     result per type, so deployment constants are read once per process.
//   - LoadFrom parses an explicit map and skips the cache. Settings resolution
//     and tests use it to evaluate constants against a known environment.
//   - LoadEnvFiles loads additional .env files.
//
// Pointer fields stay nil when their variable is unset, which lets callers
// tell "not configured" apart from a zero value.
package config
