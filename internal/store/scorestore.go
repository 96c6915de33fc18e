package store

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"

	"kelimeoyunu/internal/clock"
	"kelimeoyunu/internal/models"
)

const scoresFile = "highscores.json"

// legacyDedupWindow is the timestamp tolerance, in seconds, when matching
// records that predate session IDs.
const legacyDedupWindow = 5.0

// Retention caps per window. Everything outside the union of these lists
// is dropped at prune time.
const (
	keepDaily    = 20
	keepExtended = 15
)

// ScoreStore is the local append-only score history backed by a single
// JSON file. All writes rewrite the file atomically via a temp file and
// rename. Safe for concurrent use.
type ScoreStore struct {
	mu      sync.Mutex
	path    string
	clk     clock.Clock
	records []models.ScoreRecord
}

// OpenScoreStore loads the score file under dataDir, creating the
// directory if needed. A corrupt or unreadable file is treated as empty
// so a damaged history never blocks play; the old content is overwritten
// on the next append. Prune runs once at open to compact histories
// written by older versions.
func OpenScoreStore(dataDir string, clk clock.Clock) (*ScoreStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	s := &ScoreStore{
		path: filepath.Join(dataDir, scoresFile),
		clk:  clk,
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: score file unreadable, starting empty: %v", err)
		}
		return s, nil
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		log.Printf("WARN: score file corrupt, starting empty: %v", err)
		s.records = nil
		return s, nil
	}

	if pruned := s.prune(); pruned > 0 {
		if err := s.persist(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Append adds a record unless it duplicates an existing one, prunes to
// the retention caps, and writes the file. Duplicate detection prefers
// the session ID; records without one match on name, score and a
// timestamp within 5 seconds. For records carrying an ID the guarantee
// is therefore per session, not per content tuple: two distinct
// sessions with identical name, score and timestamp are both kept.
func (s *ScoreStore) Append(rec models.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isDuplicate(rec) {
		return nil
	}
	s.records = append(s.records, rec)
	s.prune()
	return s.persist()
}

// LoadAll returns a copy of every retained record.
func (s *ScoreStore) LoadAll() []models.ScoreRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ScoreRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Top returns the ranked records within the window, capped at limit.
func (s *ScoreStore) Top(window models.Window, limit int) []models.ScoreRecord {
	return models.TopSince(s.LoadAll(), window.LowerBound(s.clk.Now()), limit)
}

func (s *ScoreStore) isDuplicate(rec models.ScoreRecord) bool {
	for _, existing := range s.records {
		if rec.SessionID != "" && existing.SessionID == rec.SessionID {
			return true
		}
		if rec.SessionID == "" && existing.Name == rec.Name &&
			existing.Score == rec.Score &&
			math.Abs(existing.Timestamp-rec.Timestamp) < legacyDedupWindow {
			return true
		}
	}
	return false
}

// prune keeps the union of the daily top 20 and the weekly, monthly and
// all-time top 15, preserving insertion order. Returns how many records
// were dropped. Caller holds the lock (or is the sole owner at open).
func (s *ScoreStore) prune() int {
	now := s.clk.Now()
	keep := make(map[string]struct{})

	mark := func(window models.Window, limit int) {
		for _, r := range models.TopSince(s.records, window.LowerBound(now), limit) {
			keep[r.DedupKey()] = struct{}{}
		}
	}
	mark(models.Daily, keepDaily)
	mark(models.Weekly, keepExtended)
	mark(models.Monthly, keepExtended)
	mark(models.AllTime, keepExtended)

	kept := s.records[:0]
	for _, r := range s.records {
		if _, ok := keep[r.DedupKey()]; ok {
			kept = append(kept, r)
		}
	}
	dropped := len(s.records) - len(kept)
	s.records = kept
	return dropped
}

func (s *ScoreStore) persist() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scores: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing scores: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing score file: %w", err)
	}
	return nil
}
