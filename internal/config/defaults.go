package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyTenantURL           = "api.tenant-url"
	KeyAuthURL             = "api.auth-url"
	KeyTimeout             = "api.timeout"
	KeySessionBackend      = "session.backend"
	KeySessionPath         = "session.path"
	KeySessionRedisURL     = "session.redis-url"
	KeySessionRedisPrefix  = "session.redis-prefix"
	KeyClearOnUnauthorized = "auth.clear-on-unauthorized"
	KeyOutputFormat        = "output.format"
	KeyLogLevel            = "log.level"
	KeyLogFile             = "log.file"
	KeyDocsURL             = "docs.url"
)

const (
	DefaultHost      = "https://web-production-d88ec.up.railway.app"
	DefaultTenantURL = DefaultHost + "/api/v1/tenant"
	DefaultAuthURL   = DefaultHost + "/api"
	DefaultDocsURL   = DefaultHost + "/dashboard/documentation"
)

// Dir returns ~/.bargain, or ./.bargain when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bargain"
	}
	return filepath.Join(home, ".bargain")
}

// ApplyDefaults sets default configuration values in the provided Viper instance.
func ApplyDefaults(v *viper.Viper) {
	dir := Dir()

	v.SetDefault(KeyTenantURL, DefaultTenantURL)
	v.SetDefault(KeyAuthURL, DefaultAuthURL)
	v.SetDefault(KeyTimeout, "0s") // no deadline unless configured

	// session.path is resolved in Load because it depends on the backend
	v.SetDefault(KeySessionBackend, "file")
	v.SetDefault(KeySessionRedisURL, "redis://localhost:6379/0")
	v.SetDefault(KeySessionRedisPrefix, "bargain:session:")

	v.SetDefault(KeyClearOnUnauthorized, true)

	v.SetDefault(KeyOutputFormat, "table")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, filepath.Join(dir, "logs", "bargain.log"))
	v.SetDefault(KeyDocsURL, DefaultDocsURL)
}
