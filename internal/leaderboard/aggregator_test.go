package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelimeoyunu/internal/clock"
	"kelimeoyunu/internal/models"
)

type stubLocal struct {
	records []models.ScoreRecord
}

func (s stubLocal) Top(window models.Window, limit int) []models.ScoreRecord {
	out := models.TopSince(s.records, window.LowerBound(time.Now()), limit)
	return out
}

type stubRemote struct {
	records []models.ScoreRecord
	err     error
	gotLB   float64
}

func (s *stubRemote) FetchScores(_ context.Context, lowerBound float64, limit int) ([]models.ScoreRecord, error) {
	s.gotLB = lowerBound
	if s.err != nil {
		return nil, s.err
	}
	return models.TopSince(s.records, lowerBound, limit), nil
}

type stubProfiles map[string]models.Profile

func (s stubProfiles) Get(name string) (models.Profile, bool) {
	p, ok := s[name]
	return p, ok
}

func TestLocalViewEnrichesFromProfiles(t *testing.T) {
	now := float64(time.Now().Unix())
	local := stubLocal{records: []models.ScoreRecord{
		{SessionID: "a", Name: "AYŞE", Score: 450, Timestamp: now},
		{SessionID: "b", Name: "MEHMET", Score: 300, Timestamp: now},
	}}
	profiles := stubProfiles{"AYŞE": {School: "Atatürk İlkokulu", AvatarID: "3"}}

	agg := New(local, nil, profiles, clock.System{})
	rows := agg.Local(models.Daily)
	require.Len(t, rows, 2)
	assert.Equal(t, "Atatürk İlkokulu", rows[0].School)
	assert.Equal(t, "3", rows[0].AvatarID)
	assert.Empty(t, rows[1].School)
}

func TestGlobalViewPassesWindowLowerBound(t *testing.T) {
	clk := &clock.Fixed{Time: time.Date(2026, 8, 27, 18, 0, 0, 0, time.Local)}
	remote := &stubRemote{records: []models.ScoreRecord{
		{SessionID: "a", Name: "AYŞE", Score: 450, Timestamp: float64(clk.Now().Unix())},
	}}

	agg := New(stubLocal{}, remote, nil, clk)
	rows, err := agg.Global(context.Background(), models.Monthly)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	wantLB := models.Monthly.LowerBound(clk.Now())
	assert.Equal(t, wantLB, remote.gotLB)
}

func TestGlobalViewPropagatesErrors(t *testing.T) {
	remote := &stubRemote{err: errors.New("down")}
	agg := New(stubLocal{}, remote, nil, clock.System{})
	_, err := agg.Global(context.Background(), models.AllTime)
	assert.Error(t, err)
}

func TestViewsCapAtTwenty(t *testing.T) {
	now := float64(time.Now().Unix())
	var records []models.ScoreRecord
	for i := 0; i < 30; i++ {
		records = append(records, models.ScoreRecord{
			Name: "MEHMET", Score: 1000 - i, Timestamp: now,
		})
	}
	agg := New(stubLocal{records: records}, nil, nil, clock.System{})
	assert.Len(t, agg.Local(models.AllTime), maxRows)
}
