// Package auth stores the bearer token used against the remote service.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
)

const (
	// EnvToken overrides the stored token.
	EnvToken = "TADA_TOKEN"

	credFileName = "credentials.json"
)

// Token sources.
const (
	SourceEnv  = "env"
	SourceFile = "file"
)

// ErrEmptyToken is returned when saving a blank token.
var ErrEmptyToken = errors.New("empty token")

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // optional (JWT or server-provided)
}

// Expired reports whether the token has a known expiry before now.
func (t *TokenInfo) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// Store keeps credentials in Dir.
type Store struct {
	Dir string
}

// DefaultStore uses ~/.tada.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	return &Store{Dir: filepath.Join(home, ".tada")}, nil
}

func (s *Store) path() string { return filepath.Join(s.Dir, credFileName) }

// Get returns the active token, or nil when not logged in. TADA_TOKEN wins
// over the file.
func (s *Store) Get() (*TokenInfo, error) {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		tok := StripBearer(env)
		return &TokenInfo{Token: tok, Source: SourceEnv, ExpiresAt: jwtExpiry(tok)}, nil
	}

	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = StripBearer(ti.Token)
	ti.Source = SourceFile
	return &ti, nil
}

// Set saves token with owner-only permissions. When expires is nil and the
// token is a JWT carrying exp, that expiry is recorded.
func (s *Store) Set(token string, expires *time.Time) error {
	token = StripBearer(strings.TrimSpace(token))
	if token == "" {
		return ErrEmptyToken
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if expires == nil {
		expires = jwtExpiry(token)
	}
	ti := TokenInfo{
		Token:     token,
		Source:    SourceFile,
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := renameio.WriteFile(s.path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the stored token. A missing file is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// StripBearer drops a leading "Bearer" word in any case. A bare scheme
// yields "".
func StripBearer(s string) string {
	s = strings.TrimSpace(s)
	f := strings.Fields(s)
	if len(f) > 0 && strings.EqualFold(f[0], "bearer") {
		return strings.TrimSpace(s[len(f[0]):])
	}
	return s
}
