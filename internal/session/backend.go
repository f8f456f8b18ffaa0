package session

import (
	"context"
	"fmt"
)

// Backend kinds accepted by OpenBackend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// BackendConfig selects and configures a credential backend.
type BackendConfig struct {
	Kind        string
	Path        string // file and sqlite
	RedisURL    string
	RedisPrefix string
}

// OpenBackend constructs the backend named by cfg.Kind. An empty kind means file.
func OpenBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	switch cfg.Kind {
	case BackendFile, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("session path is required for the file backend")
		}
		return NewFileBackend(cfg.Path), nil
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("session path is required for the sqlite backend")
		}
		return OpenSQLiteBackend(cfg.Path)
	case BackendRedis:
		return OpenRedisBackend(ctx, RedisBackendConfig{URL: cfg.RedisURL, Prefix: cfg.RedisPrefix})
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Kind)
	}
}
