// Package config loads the client configuration from a yaml file with
// command-line overrides applied by cmd/main.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the client configuration.
type Config struct {
	// Server is the backend base URL.
	Server string `yaml:"server"`
	// Admin is the designated administrator identity name. Exactly one name;
	// everyone else is a scoped viewer.
	Admin string `yaml:"admin"`
	// LogFile receives the zerolog console output.
	LogFile string `yaml:"log_file"`
	// SessionDB is the sqlite file for the remembered identity. Empty
	// disables remember-me entirely.
	SessionDB string `yaml:"session_db"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file or flags say otherwise.
func Default() Config {
	return Config{
		Server:    "https://kempshot-report.onrender.com",
		Admin:     "Maclean",
		LogFile:   "rmes-client.log",
		SessionDB: "rmes-session.sqlite",
		LogLevel:  "info",
	}
}

// Load reads the yaml file at path over the defaults. A missing file is not
// an error; the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return cfg, fmt.Errorf("error reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config %s: %w", path, err)
	}

	if cfg.Server == "" {
		return cfg, fmt.Errorf("config %s: server must not be empty", path)
	}

	if cfg.Admin == "" {
		return cfg, fmt.Errorf("config %s: admin must not be empty", path)
	}

	return cfg, nil
}
