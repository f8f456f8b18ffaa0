package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolated returns Options that ignore the developer's real config files.
func isolated(t *testing.T) (Options, string) {
	t.Helper()
	dir := t.TempDir()
	return Options{
		SearchPaths: []string{dir},
		EnvFile:     filepath.Join(dir, ".env"),
	}, dir
}

func TestApplyDefaults(t *testing.T) {
	v := viper.New()
	ApplyDefaults(v)

	if got := v.GetString(KeyTenantURL); got != DefaultTenantURL {
		t.Errorf("tenant url = %q", got)
	}
	if got := v.GetString(KeyOutputFormat); got != "table" {
		t.Errorf("output format = %q, want table", got)
	}
	if !v.GetBool(KeyClearOnUnauthorized) {
		t.Error("clear-on-unauthorized should default to true")
	}
}

func TestLoadDefaults(t *testing.T) {
	opts, _ := isolated(t)
	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, DefaultTenantURL, cfg.TenantURL)
	assert.Equal(t, DefaultAuthURL, cfg.AuthURL)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.Equal(t, "file", cfg.SessionBackend)
	assert.Equal(t, "credentials.json", filepath.Base(cfg.SessionPath))
	assert.Empty(t, cfg.ConfigFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	opts, dir := isolated(t)
	content := `
api:
  tenant-url: http://localhost:8088/api/v1/tenant
  timeout: 15s
session:
  backend: sqlite
output:
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8088/api/v1/tenant", cfg.TenantURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, "sqlite", cfg.SessionBackend)
	assert.Equal(t, "credentials.db", filepath.Base(cfg.SessionPath))
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.ConfigFile)
}

func TestExplicitConfigFileMustExist(t *testing.T) {
	opts, dir := isolated(t)
	opts.ConfigFile = filepath.Join(dir, "missing.yaml")
	_, err := Load(opts)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	opts, dir := isolated(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output:\n  format: json\n"), 0644))
	t.Setenv("BARGAIN_OUTPUT_FORMAT", "yaml")
	t.Setenv("BARGAIN_AUTH_CLEAR_ON_UNAUTHORIZED", "false")

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.False(t, cfg.ClearOnUnauthorized)
}

func TestDotEnvFile(t *testing.T) {
	opts, _ := isolated(t)
	require.NoError(t, os.WriteFile(opts.EnvFile, []byte("BARGAIN_DOCS_URL=https://docs.shop.test\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("BARGAIN_DOCS_URL") })

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.shop.test", cfg.DocsURL)
}

func TestFlagsOverrideEverything(t *testing.T) {
	opts, _ := isolated(t)
	t.Setenv("BARGAIN_OUTPUT_FORMAT", "yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("tenant-url", "", "")
	flags.String("auth-url", "", "")
	flags.String("output", "", "")
	require.NoError(t, flags.Parse([]string{"--output", "csv", "--auth-url", "http://localhost:8088/api"}))
	opts.Flags = flags

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.OutputFormat)
	assert.Equal(t, "http://localhost:8088/api", cfg.AuthURL)
	assert.Equal(t, DefaultTenantURL, cfg.TenantURL, "unset flag must not override")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			TenantURL:      DefaultTenantURL,
			AuthURL:        DefaultAuthURL,
			DocsURL:        DefaultDocsURL,
			SessionBackend: "file",
			OutputFormat:   "table",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantKey string
	}{
		{"relative tenant url", func(c *Config) { c.TenantURL = "/api/v1/tenant" }, KeyTenantURL},
		{"ftp auth url", func(c *Config) { c.AuthURL = "ftp://host/api" }, KeyAuthURL},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, KeyTimeout},
		{"unknown backend", func(c *Config) { c.SessionBackend = "etcd" }, KeySessionBackend},
		{"redis without url", func(c *Config) { c.SessionBackend = "redis" }, KeySessionRedisURL},
		{"unknown format", func(c *Config) { c.OutputFormat = "xml" }, KeyOutputFormat},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}
