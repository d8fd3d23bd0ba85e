package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tessro/soundscape/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SOUNDSCAPE_SERVER_URL", "VITE_API_BASE_URL",
		"SOUNDSCAPE_USERNAME", "VITE_API_USERNAME",
		"SOUNDSCAPE_PASSWORD", "VITE_API_PASSWORD",
		"SOUNDSCAPE_TIMEOUT", "SOUNDSCAPE_DEVICE", "SOUNDSCAPE_POLL_INTERVAL",
		"SOUNDSCAPE_TUI_THEME", "SOUNDSCAPE_LOG_LEVEL", "SOUNDSCAPE_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultServerURL, cfg.Server.URL)
	assert.Equal(t, 1000, cfg.Poll.Interval)
	assert.Equal(t, 30, cfg.Poll.ResyncInterval)
	assert.Equal(t, 1000, cfg.Tail.Interval)
	assert.Equal(t, "auto", cfg.TUI.Theme)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[server]
url = "http://10.0.0.5:8090"
username = "admin"
password = "secret"

[defaults]
device = "Kitchen"

[poll]
interval = 2000
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:8090", cfg.Server.URL)
	assert.Equal(t, "admin", cfg.Server.Username)
	assert.Equal(t, "Kitchen", cfg.Defaults.Device)
	assert.Equal(t, 2000, cfg.Poll.Interval)
	// Untouched sections get defaults.
	assert.Equal(t, 30, cfg.Poll.ResyncInterval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[server]\nurl = \"http://file:8090\"\n")

	t.Setenv("VITE_API_BASE_URL", "http://vite:8090")
	t.Setenv("VITE_API_USERNAME", "vite-user")
	t.Setenv("SOUNDSCAPE_USERNAME", "native-user")
	t.Setenv("SOUNDSCAPE_PASSWORD", "pw")
	t.Setenv("SOUNDSCAPE_LOG_FILE", "/tmp/soundscape.log")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "http://vite:8090", cfg.Server.URL)
	assert.Equal(t, "native-user", cfg.Server.Username, "native name wins over VITE_ fallback")
	assert.Equal(t, "pw", cfg.Server.Password)
	assert.Equal(t, "file", cfg.Log.Output)
	assert.Equal(t, "/tmp/soundscape.log", cfg.Log.File)
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, "invalid tui.theme"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "invalid log.level"},
		{"file output needs path", func(c *Config) { c.Log.Output = "file" }, "log.file is required"},
		{"poll too fast", func(c *Config) { c.Poll.Interval = 10 }, "poll.interval must be at least 100"},
		{"scheme", func(c *Config) { c.Server.URL = "ftp://host" }, "invalid url scheme"},
		{"user without password", func(c *Config) { c.Server.Username = "u" }, "password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidConfig))
		})
	}
}
