// Package session owns the authenticated session lifecycle: the
// persisted credential store and the login/logout/register operations
// built on the API client.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrNotLoggedIn is returned when an operation needs an established
// session and none exists.
var ErrNotLoggedIn = errors.New("not logged in")

// Credentials are the persisted bearer values set by the server on
// login. Both tokens are opaque; the store never inspects them.
type Credentials struct {
	UserID       int    `json:"user_id"`
	SessionToken string `json:"session_token"`
	CSRFToken    string `json:"csrf_token"`
}

// Store persists credentials as a JSON file, the CLI analogue of
// cookies surviving a page reload. A zero value on disk means logged
// out.
type Store struct {
	mu    sync.RWMutex
	path  string
	creds *Credentials
}

// NewStore creates a store backed by the given file. A missing or
// unreadable file is treated as logged out, not an error.
func NewStore(path string) *Store {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var creds Credentials
	if json.Unmarshal(data, &creds) == nil && creds.SessionToken != "" {
		s.creds = &creds
	}
	return s
}

// Set persists the credentials with mode 0600.
func (s *Store) Set(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	s.creds = &creds
	return nil
}

// Clear removes the persisted credentials. Clearing an empty store is
// a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// UserID returns the authenticated user id, or false when logged out.
func (s *Store) UserID() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return 0, false
	}
	return s.creds.UserID, true
}

// SessionToken returns the session credential, or false when absent.
func (s *Store) SessionToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil || s.creds.SessionToken == "" {
		return "", false
	}
	return s.creds.SessionToken, true
}

// CSRFToken returns the anti-forgery token, or false when absent.
func (s *Store) CSRFToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil || s.creds.CSRFToken == "" {
		return "", false
	}
	return s.creds.CSRFToken, true
}
