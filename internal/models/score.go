package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
)

// ScoreRecord is the persisted form of a completed session, plus display
// enrichment fields. Timestamps are Unix seconds to stay compatible with
// the shared leaderboard document.
type ScoreRecord struct {
	SessionID      string  `json:"session_id,omitempty"`
	Name           string  `json:"name"`
	Score          int     `json:"score"`
	ElapsedSeconds int     `json:"elapsed_seconds"`
	Timestamp      float64 `json:"timestamp"`

	// Display-only enrichment, overwritten by the local profile at query time.
	Fullname   string `json:"fullname,omitempty"`
	School     string `json:"school,omitempty"`
	ClassLevel string `json:"class_level,omitempty"`
	Gender     string `json:"gender,omitempty"`
	AvatarID   string `json:"avatar_id,omitempty"`
}

// ElapsedDisplay formats the session duration as MM:SS.
func (r ScoreRecord) ElapsedDisplay() string {
	return fmt.Sprintf("%02d:%02d", r.ElapsedSeconds/60, r.ElapsedSeconds%60)
}

// DedupKey identifies a record for prune bookkeeping. Prefers the session
// UUID; falls back to the legacy content tuple for records that predate it.
func (r ScoreRecord) DedupKey() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return fmt.Sprintf("%s|%d|%.3f", r.Name, r.Score, r.Timestamp)
}

// RankSort orders records by score descending, ties broken by elapsed
// time ascending (a faster finish ranks higher). The sort is stable, so
// remaining ties keep insertion order.
func RankSort(records []ScoreRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].ElapsedSeconds < records[j].ElapsedSeconds
	})
}

// TopSince returns the ranked records at or after the lower-bound
// timestamp, capped at limit. The input slice is not modified.
func TopSince(records []ScoreRecord, lowerBound float64, limit int) []ScoreRecord {
	filtered := lo.Filter(records, func(r ScoreRecord, _ int) bool {
		return r.Timestamp >= lowerBound
	})
	RankSort(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// Window selects the time range of a leaderboard query.
type Window int

const (
	Daily Window = iota
	Weekly
	Monthly
	AllTime
)

func (w Window) String() string {
	switch w {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	default:
		return "all"
	}
}

// ParseWindow maps a period string to a Window. Unknown values map to
// AllTime, matching the leaderboard server's behavior.
func ParseWindow(s string) Window {
	switch s {
	case "daily":
		return Daily
	case "weekly":
		return Weekly
	case "monthly":
		return Monthly
	default:
		return AllTime
	}
}

// LowerBound returns the inclusive Unix-seconds start of the window,
// computed from now in local time. Weekly windows start on Monday
// (ISO week).
func (w Window) LowerBound(now time.Time) float64 {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch w {
	case Daily:
		return float64(startOfDay.Unix())
	case Weekly:
		offset := int(now.Weekday()) - int(time.Monday)
		if offset < 0 {
			offset += 7
		}
		return float64(startOfDay.AddDate(0, 0, -offset).Unix())
	case Monthly:
		return float64(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Unix())
	default:
		return 0
	}
}
