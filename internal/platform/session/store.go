// Package session persists the logged-in identity between runs, replacing
// the browser's local-storage "user" key. The store is passed into the
// components that need it; nothing reads it ambiently.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// CookieName is the session cookie the backend issues on login.
const CookieName = "HOSPITAL_AUTH_TOKEN"

// Identity is the cached login response.
type Identity struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store is a file-backed session cache with an explicit init/clear
// lifecycle.
type Store struct {
	mu   sync.Mutex
	path string
	cur  *Identity
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init loads a previously persisted identity, if any. A missing file is not
// an error; a corrupt file is discarded.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read session file: %w", err)
	}

	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil || id.Username == "" {
		_ = os.Remove(s.path)
		return nil
	}
	s.cur = &id
	return nil
}

// Save persists the identity and makes it current.
func (s *Store) Save(id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	s.cur = &id
	return nil
}

// Current returns the cached identity.
func (s *Store) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return Identity{}, false
	}
	return *s.cur, true
}

// LoggedIn reports whether an identity is cached.
func (s *Store) LoggedIn() bool {
	_, ok := s.Current()
	return ok
}

// Clear drops the cached identity and removes the file. Called on logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
