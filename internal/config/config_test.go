package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "musicbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvListen, EnvAssetDir, EnvMountID, EnvLogLevel, EnvMediaDir, EnvAudio} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "listen: 127.0.0.1:9000\nassetDir: /srv/wasm\ntitle: Box\n")
	t.Setenv(EnvListen, ":7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Listen, "environment wins over file")
	assert.Equal(t, "/srv/wasm", cfg.AssetDir)
	assert.Equal(t, "Box", cfg.Title)
	assert.Equal(t, "#app", cfg.MountID, "unset keys keep defaults")
}

func TestLoad_PlayerSettings(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "mediaDir: /srv/music\naudio: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/music", cfg.MediaDir)
	assert.True(t, cfg.Audio)

	t.Setenv(EnvAudio, "false")
	t.Setenv(EnvMediaDir, "/tmp/songs")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/songs", cfg.MediaDir)
	assert.False(t, cfg.Audio, "environment wins over file")
}

func TestLoad_BadAudioEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAudio, "loud")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeFile(t, "listen: :8080\nvolume: 11\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict config parse error")
}

func TestLoad_RejectsMultipleDocuments(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeFile(t, "listen: :8080\n---\nlisten: :9090\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"listen without port", func(c *Config) { c.Listen = "localhost" }},
		{"empty asset dir", func(c *Config) { c.AssetDir = " " }},
		{"mount not an id", func(c *Config) { c.MountID = ".app" }},
		{"bare hash mount", func(c *Config) { c.MountID = "#" }},
		{"compound mount selector", func(c *Config) { c.MountID = "#app > div" }},
		{"empty media dir", func(c *Config) { c.MediaDir = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}
