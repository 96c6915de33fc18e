package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"kelimeoyunu/internal/models"
)

const sessionFile = "session.json"

// SessionStore persists the logged-in identity between launches so the
// player stays signed in.
type SessionStore struct {
	path string
}

func NewSessionStore(dataDir string) *SessionStore {
	return &SessionStore{path: filepath.Join(dataDir, sessionFile)}
}

// Load returns the saved identity, or nil when no one is signed in.
func (s *SessionStore) Load() (*models.Identity, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}
	var id models.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	if id.Username == "" {
		return nil, nil
	}
	return &id, nil
}

func (s *SessionStore) Save(id models.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Clear signs the player out. Missing file is not an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
