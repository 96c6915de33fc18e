package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"kelimeoyunu/internal/models"
	"kelimeoyunu/internal/turkish"
)

const profilesFile = "profiles.json"

// ProfileStore caches player profiles locally, keyed by the normalized
// player name, so leaderboard rows can be enriched without a network
// round trip.
type ProfileStore struct {
	mu       sync.Mutex
	path     string
	profiles map[string]models.Profile
}

func OpenProfileStore(dataDir string) (*ProfileStore, error) {
	s := &ProfileStore{
		path:     filepath.Join(dataDir, profilesFile),
		profiles: make(map[string]models.Profile),
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading profiles: %w", err)
	}
	if err := json.Unmarshal(data, &s.profiles); err != nil {
		// A corrupt cache only costs display enrichment.
		s.profiles = make(map[string]models.Profile)
	}
	return s, nil
}

// Get returns the cached profile for the player name, if any.
func (s *ProfileStore) Get(name string) (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[turkish.Normalize(name)]
	return p, ok
}

func (s *ProfileStore) Put(name string, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[turkish.Normalize(name)] = p

	data, err := json.MarshalIndent(s.profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profiles: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing profiles: %w", err)
	}
	return nil
}
