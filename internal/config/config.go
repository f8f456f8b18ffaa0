// Package config loads CLI settings with the precedence
// flags > BARGAIN_* environment (including .env) > config file > defaults.
//
// The config file is ~/.bargain/config.yaml or ./config.yaml, or whatever
// --config points at.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bargainbaas/bargain-cli/internal/session"
)

// EnvPrefix is prepended to every environment variable, e.g. BARGAIN_API_TENANT_URL.
const EnvPrefix = "BARGAIN"

// Output formats accepted by output.format.
var OutputFormats = []string{"table", "json", "yaml", "csv"}

// FlagKeys maps persistent flag names onto configuration keys.
var FlagKeys = map[string]string{
	"tenant-url": KeyTenantURL,
	"auth-url":   KeyAuthURL,
	"output":     KeyOutputFormat,
}

// Config holds all CLI configuration.
type Config struct {
	// API
	TenantURL string
	AuthURL   string
	Timeout   time.Duration

	// Session storage
	SessionBackend     string
	SessionPath        string
	SessionRedisURL    string
	SessionRedisPrefix string

	ClearOnUnauthorized bool

	OutputFormat string

	LogLevel string
	LogFile  string

	DocsURL string

	// ConfigFile is the file that was read, empty when none was found.
	ConfigFile string
}

// Options controls where Load looks.
type Options struct {
	// ConfigFile is an explicit config path (--config). It must exist.
	ConfigFile string

	// EnvFile is loaded into the environment before reading BARGAIN_*
	// variables. Defaults to ".env"; a missing file is ignored.
	EnvFile string

	// SearchPaths overrides the config file search directories.
	SearchPaths []string

	// Flags, when set, override every other source for the keys in FlagKeys
	// that were changed on the command line.
	Flags *pflag.FlagSet
}

// Load loads configuration from all sources with proper precedence.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	ApplyDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		paths := opts.SearchPaths
		if paths == nil {
			paths = []string{Dir(), "."}
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		TenantURL:           strings.TrimSpace(v.GetString(KeyTenantURL)),
		AuthURL:             strings.TrimSpace(v.GetString(KeyAuthURL)),
		Timeout:             v.GetDuration(KeyTimeout),
		SessionBackend:      strings.ToLower(strings.TrimSpace(v.GetString(KeySessionBackend))),
		SessionPath:         v.GetString(KeySessionPath),
		SessionRedisURL:     v.GetString(KeySessionRedisURL),
		SessionRedisPrefix:  v.GetString(KeySessionRedisPrefix),
		ClearOnUnauthorized: v.GetBool(KeyClearOnUnauthorized),
		OutputFormat:        strings.ToLower(strings.TrimSpace(v.GetString(KeyOutputFormat))),
		LogLevel:            v.GetString(KeyLogLevel),
		LogFile:             v.GetString(KeyLogFile),
		DocsURL:             v.GetString(KeyDocsURL),
		ConfigFile:          v.ConfigFileUsed(),
	}

	if cfg.SessionPath == "" {
		switch cfg.SessionBackend {
		case session.BackendSQLite:
			cfg.SessionPath = filepath.Join(Dir(), "credentials.db")
		default:
			cfg.SessionPath = filepath.Join(Dir(), "credentials.json")
		}
	}

	return cfg, nil
}

// Validate rejects settings the CLI cannot run with. Errors name the key.
func (c *Config) Validate() error {
	var errs []error

	for key, value := range map[string]string{
		KeyTenantURL: c.TenantURL,
		KeyAuthURL:   c.AuthURL,
		KeyDocsURL:   c.DocsURL,
	} {
		if err := checkURL(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative", KeyTimeout))
	}

	switch c.SessionBackend {
	case session.BackendFile, session.BackendSQLite, session.BackendMemory:
	case session.BackendRedis:
		if c.SessionRedisURL == "" {
			errs = append(errs, fmt.Errorf("%s: required when %s is redis", KeySessionRedisURL, KeySessionBackend))
		}
	default:
		errs = append(errs, fmt.Errorf("%s: unknown backend %q (want file, sqlite, redis or memory)", KeySessionBackend, c.SessionBackend))
	}

	if !slices.Contains(OutputFormats, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("%s: unknown format %q (want %s)", KeyOutputFormat, c.OutputFormat, strings.Join(OutputFormats, ", ")))
	}

	return errors.Join(errs...)
}

// SessionBackendConfig returns the settings for session.OpenBackend.
func (c *Config) SessionBackendConfig() session.BackendConfig {
	return session.BackendConfig{
		Kind:        c.SessionBackend,
		Path:        c.SessionPath,
		RedisURL:    c.SessionRedisURL,
		RedisPrefix: c.SessionRedisPrefix,
	}
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
