package service

import (
	"context"
	"fmt"
	"log"

	"kelimeoyunu/internal/models"
	"kelimeoyunu/internal/store"
)

// RemoteSubmitter publishes a score to the shared leaderboard.
type RemoteSubmitter interface {
	SubmitScore(ctx context.Context, rec models.ScoreRecord) error
}

// ScoreService persists completed sessions. The local write is
// synchronous and authoritative; the remote publish runs in the
// background so a dead network never blocks the post-game screen.
type ScoreService struct {
	store    *store.ScoreStore
	profiles *store.ProfileStore
	remote   RemoteSubmitter
}

func NewScoreService(scores *store.ScoreStore, profiles *store.ProfileStore, remote RemoteSubmitter) *ScoreService {
	return &ScoreService{store: scores, profiles: profiles, remote: remote}
}

// RecordResult writes the result locally and starts the remote publish.
// The returned channel receives exactly one value: the remote error, or
// nil on success or when no remote is configured.
func (s *ScoreService) RecordResult(ctx context.Context, res models.SessionResult) (<-chan error, error) {
	rec := res.Record()
	if s.profiles != nil {
		if p, ok := s.profiles.Get(res.PlayerName); ok {
			rec = p.Merge(rec)
		}
	}

	if err := s.store.Append(rec); err != nil {
		return nil, fmt.Errorf("saving score locally: %w", err)
	}

	done := make(chan error, 1)
	if s.remote == nil {
		done <- nil
		return done, nil
	}
	go func() {
		err := s.remote.SubmitScore(ctx, rec)
		if err != nil {
			log.Printf("WARN: remote score submit failed: %v", err)
		}
		done <- err
	}()
	return done, nil
}
