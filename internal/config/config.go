package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.soundscaperc, $XDG_CONFIG_HOME/soundscape/config.toml, ~/.config/soundscape/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	path := FindConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", path)
		}
	}

	return finish(cfg)
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return finish(cfg)
}

// Environment overrides win over the file; defaults fill whatever is still empty.
func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns the path `config init` writes to.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".soundscaperc"
	}
	return filepath.Join(home, ".soundscaperc")
}

// FindConfigFile returns the first existing config file path.
func FindConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".soundscaperc"),
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "soundscape", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// firstEnv returns the first non-empty variable among names.
func firstEnv(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
// The VITE_API_* names are what existing web deployments put in their .env.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := firstEnv("SOUNDSCAPE_SERVER_URL", "VITE_API_BASE_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := firstEnv("SOUNDSCAPE_USERNAME", "VITE_API_USERNAME"); v != "" {
		cfg.Server.Username = v
	}
	if v := firstEnv("SOUNDSCAPE_PASSWORD", "VITE_API_PASSWORD"); v != "" {
		cfg.Server.Password = v
	}
	if v := os.Getenv("SOUNDSCAPE_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Server.Timeout = i
		}
	}

	// Defaults
	if v := os.Getenv("SOUNDSCAPE_DEVICE"); v != "" {
		cfg.Defaults.Device = v
	}

	// Poll
	if v := os.Getenv("SOUNDSCAPE_POLL_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Poll.Interval = i
		}
	}

	// TUI
	if v := os.Getenv("SOUNDSCAPE_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}

	// Log
	if v := os.Getenv("SOUNDSCAPE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SOUNDSCAPE_LOG_FILE"); v != "" {
		cfg.Log.File = v
		cfg.Log.Output = "file"
	}
}
