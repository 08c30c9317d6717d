package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewManager_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cm, err := NewManager("")
	require.NoError(t, err)

	cfg := cm.Get()
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Empty(t, cm.ConfigFile())
}

func TestNewManager_ConfigFile(t *testing.T) {
	path := writeConfig(t, `
port: "9090"
mode: release
workers: 4
staging_dir: /var/tmp/ocr
rasterizer:
  dpi: 300
  timeout: 30s
recognizer:
  languages: [eng, deu]
`)

	cm, err := NewManager(path)
	require.NoError(t, err)

	cfg := cm.Get()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "/var/tmp/ocr", cfg.StagingDir)
	assert.Equal(t, 300, cfg.Rasterizer.DPI)
	assert.Equal(t, 30*time.Second, cfg.Rasterizer.Timeout)
	assert.Equal(t, "pdftoppm", cfg.Rasterizer.Binary)
	assert.Equal(t, []string{"eng", "deu"}, cfg.Recognizer.Languages)
	assert.Equal(t, path, cm.ConfigFile())
}

func TestNewManager_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OCR_WORKERS", "3")
	t.Setenv("OCR_RASTERIZER_DPI", "150")
	t.Setenv("OCR_LOG_LEVEL", "debug")

	cm, err := NewManager("")
	require.NoError(t, err)

	cfg := cm.Get()
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 150, cfg.Rasterizer.DPI)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestNewManager_LegacyEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PORT", "3000")
	t.Setenv("MODE", "prod")

	cm, err := NewManager("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cm.Get().Port)
	assert.Equal(t, "release", cm.Get().Mode)
}

func TestNewManager_MissingExplicitFile(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewManager_InvalidValues(t *testing.T) {
	path := writeConfig(t, "workers: 0\n")

	_, err := NewManager(path)
	assert.ErrorContains(t, err, "workers")
}

func TestManager_ReloadNotifiesCallbacks(t *testing.T) {
	path := writeConfig(t, "log_level: info\n")
	cm, err := NewManager(path)
	require.NoError(t, err)

	var got *Config
	cm.OnChange(func(c *Config) { got = c })

	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o600))
	require.NoError(t, cm.v.ReadInConfig())
	cm.reload()

	require.NotNil(t, got)
	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, "debug", cm.Get().LogLevel)
}

func TestManager_ReloadKeepsConfigOnInvalidEdit(t *testing.T) {
	path := writeConfig(t, "workers: 2\n")
	cm, err := NewManager(path)
	require.NoError(t, err)

	called := false
	cm.OnChange(func(*Config) { called = true })

	require.NoError(t, os.WriteFile(path, []byte("workers: -1\n"), 0o600))
	require.NoError(t, cm.v.ReadInConfig())
	cm.reload()

	assert.False(t, called)
	assert.Equal(t, 2, cm.Get().Workers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad mode", func(c *Config) { c.Mode = "staging" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
		{"empty port", func(c *Config) { c.Port = "" }},
		{"zero upload limit", func(c *Config) { c.MaxUploadBytes = 0 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNormalizeMode(t *testing.T) {
	assert.Equal(t, "release", normalizeMode("prod"))
	assert.Equal(t, "release", normalizeMode("Production"))
	assert.Equal(t, "debug", normalizeMode(""))
	assert.Equal(t, "test", normalizeMode("test"))
}
