// Package session owns the client-held credential for the BargainBaaS tenant
// dashboard: the bearer token and the identity strings shown in the CLI.
//
// A single *Store is built at startup and handed to every component that
// needs the credential. Only the auth package writes to it (login, register,
// logout) plus the API client's optional clear-on-401 policy; everything else
// reads.
package session

import (
	"context"
	"fmt"
	"sync"
)

// Persisted keys. These match the keys the web dashboard kept in localStorage
// so a credential file can be inspected side by side with a browser session.
const (
	KeyToken = "jwt_token"
	KeyEmail = "user_email"
	KeyName  = "user_name"
)

// Credential is the client-held authentication state. An empty Token is the
// only signal of "unauthenticated"; no expiry is tracked here because the
// backend is the source of truth for token validity.
type Credential struct {
	Token       string `json:"jwt_token,omitempty"`
	Email       string `json:"user_email,omitempty"`
	DisplayName string `json:"user_name,omitempty"`
}

// Authenticated reports whether a token is present.
func (c Credential) Authenticated() bool {
	return c.Token != ""
}

// Backend is durable key-value storage that survives process restarts.
// Get returns ("", false, nil) for missing keys.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Store caches the credential in memory and writes every change through to
// its backend.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	cred    Credential
}

// Open reads the persisted credential from backend and returns a ready Store.
func Open(ctx context.Context, backend Backend) (*Store, error) {
	s := &Store{backend: backend}
	for _, key := range []string{KeyToken, KeyEmail, KeyName} {
		value, ok, err := backend.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		switch key {
		case KeyToken:
			s.cred.Token = value
		case KeyEmail:
			s.cred.Email = value
		case KeyName:
			s.cred.DisplayName = value
		}
	}
	return s, nil
}

// NewMemoryStore returns a Store backed by process memory, for tests and
// for the `session.backend: memory` setting.
func NewMemoryStore(cred Credential) *Store {
	s := &Store{backend: NewMemoryBackend()}
	if cred != (Credential{}) {
		// memory backend never fails
		_ = s.Set(context.Background(), cred)
	}
	return s
}

// Get returns a copy of the current credential.
func (s *Store) Get() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}

// Set replaces the credential. Empty identity fields are removed from the
// backend so a later login without a display name does not keep a stale one.
func (s *Store) Set(ctx context.Context, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]string{}
	var missing []string
	for key, value := range map[string]string{
		KeyToken: cred.Token,
		KeyEmail: cred.Email,
		KeyName:  cred.DisplayName,
	} {
		if value == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = value
	}

	if len(values) > 0 {
		if err := s.backend.Set(ctx, values); err != nil {
			return fmt.Errorf("persist credential: %w", err)
		}
	}
	if len(missing) > 0 {
		if err := s.backend.Delete(ctx, missing...); err != nil {
			return fmt.Errorf("persist credential: %w", err)
		}
	}

	s.cred = cred
	return nil
}

// Clear removes all three persisted keys.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, KeyToken, KeyEmail, KeyName); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	s.cred = Credential{}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
