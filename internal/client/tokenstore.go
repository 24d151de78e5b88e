// Package client is the API client used by the command-line interface.
//
// It mirrors what a browser front end would do: keep the issued token in
// local storage, attach it as a bearer header on every call, and treat a 401
// as "your session is over — log in again".
package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the session token between CLI invocations.
//
// WHY A FILE?
// Each CLI run is a fresh process, so the token has to live somewhere
// outside it. A file under the user's config directory is the terminal
// equivalent of the browser's localStorage. Mode 0600 keeps other local
// users from reading a live credential.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store at the platform's user config directory,
// e.g. ~/.config/pokedex/token on Linux.
func NewTokenStore() (*TokenStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("client: locating config dir: %w", err)
	}
	return NewTokenStoreAt(filepath.Join(dir, "pokedex", "token")), nil
}

// NewTokenStoreAt creates a store at an explicit path. Tests use this with
// t.TempDir so they never touch the real config directory.
func NewTokenStoreAt(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Save writes the token, creating the parent directory if needed.
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("client: creating token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("client: writing token: %w", err)
	}
	return nil
}

// Load returns the saved token, or "" if none is stored.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("client: reading token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear removes the saved token. Clearing an empty store is not an error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("client: removing token: %w", err)
	}
	return nil
}
