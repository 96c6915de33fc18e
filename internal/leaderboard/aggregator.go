package leaderboard

import (
	"context"

	"kelimeoyunu/internal/clock"
	"kelimeoyunu/internal/models"
)

// maxRows caps every leaderboard view.
const maxRows = 20

// LocalSource serves the player's own score history.
type LocalSource interface {
	Top(window models.Window, limit int) []models.ScoreRecord
}

// RemoteSource serves the shared leaderboard document.
type RemoteSource interface {
	FetchScores(ctx context.Context, lowerBound float64, limit int) ([]models.ScoreRecord, error)
}

// ProfileSource resolves display profiles by player name.
type ProfileSource interface {
	Get(name string) (models.Profile, bool)
}

// Aggregator produces ranked leaderboard views over the local and
// global sources, enriching rows with locally cached profiles.
type Aggregator struct {
	local    LocalSource
	remote   RemoteSource
	profiles ProfileSource
	clk      clock.Clock
}

func New(local LocalSource, remote RemoteSource, profiles ProfileSource, clk clock.Clock) *Aggregator {
	return &Aggregator{local: local, remote: remote, profiles: profiles, clk: clk}
}

// Local returns the player's own top scores for the window.
func (a *Aggregator) Local(window models.Window) []models.ScoreRecord {
	return a.enrich(a.local.Top(window, maxRows))
}

// Global returns the shared top scores for the window. Network failures
// propagate so the caller can fall back to the local view.
func (a *Aggregator) Global(ctx context.Context, window models.Window) ([]models.ScoreRecord, error) {
	records, err := a.remote.FetchScores(ctx, window.LowerBound(a.clk.Now()), maxRows)
	if err != nil {
		return nil, err
	}
	return a.enrich(records), nil
}

// enrich overlays cached profile data onto each row. Records whose
// player has no cached profile pass through with whatever enrichment
// they carried on the wire.
func (a *Aggregator) enrich(records []models.ScoreRecord) []models.ScoreRecord {
	if a.profiles == nil {
		return records
	}
	for i, r := range records {
		if p, ok := a.profiles.Get(r.Name); ok {
			records[i] = p.Merge(r)
		}
	}
	return records
}
