package models

import "time"

// Identity is the authenticated player attached to a session, if any.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// SessionResult is emitted exactly once when a session completes.
// SessionID is a client-generated UUID carried through local and remote
// writes as the deduplication key.
type SessionResult struct {
	SessionID      string
	PlayerName     string
	TotalScore     int
	ElapsedSeconds int
	CompletedAt    time.Time
}

// Record converts the result into its persisted form.
func (r SessionResult) Record() ScoreRecord {
	return ScoreRecord{
		SessionID:      r.SessionID,
		Name:           r.PlayerName,
		Score:          r.TotalScore,
		ElapsedSeconds: r.ElapsedSeconds,
		Timestamp:      float64(r.CompletedAt.UnixMilli()) / 1000,
	}
}
