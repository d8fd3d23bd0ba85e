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

func TestInitWritesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, Init(path))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	assert.Error(t, Init(path), "refuses to overwrite")
}

func TestSet(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[server]\nurl = \"http://10.0.0.5:8090\"\n")

	require.NoError(t, Set(path, "defaults.device", "Kitchen"))
	require.NoError(t, Set(path, "poll.interval", "2500"))
	require.NoError(t, Set(path, "tail.no_emoji", "true"))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8090", cfg.Server.URL, "untouched keys survive")
	assert.Equal(t, "Kitchen", cfg.Defaults.Device)
	assert.Equal(t, 2500, cfg.Poll.Interval)
	assert.True(t, cfg.Tail.NoEmoji)
}

func TestSetDevice(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "")

	require.NoError(t, SetDevice(path, "111"))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "111", cfg.Defaults.Device)
}

func TestSetErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown key", key: "server.port", value: "1"},
		{name: "not an integer", key: "poll.interval", value: "fast"},
		{name: "not a bool", key: "tui.hide_help", value: "maybe"},
		{name: "fails validation", key: "tui.theme", value: "neon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const orig = "[tui]\ntheme = \"dark\"\n"
			path := writeConfig(t, orig)

			assert.Error(t, Set(path, tt.key, tt.value))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, orig, string(data), "file is left untouched")
		})
	}
}

func TestSetMissingFile(t *testing.T) {
	err := Set(filepath.Join(t.TempDir(), "missing.toml"), "defaults.device", "x")
	assert.True(t, errors.Is(err, apperrors.ErrConfigNotFound))
}
