package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultListen, cfg.Listen)
	assert.Equal(t, "year", cfg.DefaultView)
	assert.Equal(t, 14, cfg.LinearColumns)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrEmptyPath)
	assert.ErrorIs(t, Save("", DefaultConfig()), ErrEmptyPath)
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
timezone: America/Costa_Rica
log_level: debug
ics:
  - name: Family
    url: https://example.com/family.ics
    color: "#ff887c"
basic_auth:
  username: ""
  password: ""
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "America/Costa_Rica", cfg.Timezone)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, defaultRefresh, cfg.RefreshCron)
	require.Len(t, cfg.ICS, 1)
	assert.Equal(t, "Family", cfg.ICS[0].ID)
	assert.Nil(t, cfg.BasicAuth)
	assert.False(t, cfg.AuthEnabled())
	assert.Equal(t, "America/Costa_Rica", cfg.Location().String())
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(path, DefaultConfig()))

	t.Setenv("YEARCAL_LISTEN", "0.0.0.0:9000")
	t.Setenv("YEARCAL_LINEAR_COLUMNS", "21")
	t.Setenv("YEARCAL_EXCLUDE_TERMS", " standup, ,OOO ")
	t.Setenv("YEARCAL_BASIC_AUTH_USERNAME", "admin")
	t.Setenv("YEARCAL_BASIC_AUTH_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, 21, cfg.LinearColumns)
	assert.Equal(t, []string{"standup", "OOO"}, cfg.ExcludeTerms)
	require.NotNil(t, cfg.BasicAuth)
	assert.True(t, cfg.AuthEnabled())
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, Save(path, DefaultConfig()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("YEARCAL_DEFAULT_VIEW=trips\n"), 0o600))

	// Registers restoration of the variable godotenv is about to set.
	t.Setenv("YEARCAL_DEFAULT_VIEW", "")
	require.NoError(t, os.Unsetenv("YEARCAL_DEFAULT_VIEW"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "trips", cfg.DefaultView)
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"columns not a week multiple", func(c *Config) { c.LinearColumns = 10 }, false},
		{"columns below one week", func(c *Config) { c.LinearColumns = -7 }, false},
		{"unknown view", func(c *Config) { c.DefaultView = "agenda" }, false},
		{"unknown level", func(c *Config) { c.LogLevel = "TRACE" }, false},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, false},
		{"bad cron", func(c *Config) { c.RefreshCron = "every minute" }, false},
		{"bad listen", func(c *Config) { c.Listen = "localhost" }, false},
		{"source without url", func(c *Config) { c.ICS = []ICSConfig{{ID: "x"}} }, false},
		{"bad source colour", func(c *Config) {
			c.ICS = []ICSConfig{{ID: "x", URL: "https://example.com/a.ics", Color: "red"}}
		}, false},
		{"webcal source", func(c *Config) {
			c.ICS = []ICSConfig{{ID: "x", URL: "webcal://example.com/a.ics", Color: "#7ae7bf"}}
		}, true},
		{"half credentials", func(c *Config) { c.BasicAuth = &BasicAuthConfig{Username: "admin"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.ExcludeTerms = []string{"standup"}
	cfg.ICS = []ICSConfig{{ID: "work", Name: "Work", URL: "https://example.com/work.ics"}}
	require.NoError(t, cfg.Save(path))

	got, err := readFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
