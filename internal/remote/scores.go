package remote

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"kelimeoyunu/internal/models"
)

// maxRemoteScores caps the shared score document so the bin stays small.
const maxRemoteScores = 100

// wireScore is the score row as stored in the shared bin. Field names
// are Turkish for compatibility with documents written by earlier
// releases, and the duration travels as an MM:SS string.
type wireScore struct {
	SessionID  string  `json:"session_id,omitempty"`
	Name       string  `json:"ad"`
	Score      int     `json:"puan"`
	Elapsed    string  `json:"sure"`
	Timestamp  float64 `json:"timestamp"`
	School     string  `json:"okul,omitempty"`
	Fullname   string  `json:"fullname,omitempty"`
	ClassLevel string  `json:"class_level,omitempty"`
	Gender     string  `json:"gender,omitempty"`
	AvatarID   string  `json:"avatar_id,omitempty"`
}

type scoreDoc struct {
	Scores []wireScore `json:"skorlar"`
}

func toWire(r models.ScoreRecord) wireScore {
	return wireScore{
		SessionID:  r.SessionID,
		Name:       r.Name,
		Score:      r.Score,
		Elapsed:    r.ElapsedDisplay(),
		Timestamp:  r.Timestamp,
		School:     r.School,
		Fullname:   r.Fullname,
		ClassLevel: r.ClassLevel,
		Gender:     r.Gender,
		AvatarID:   r.AvatarID,
	}
}

func fromWire(w wireScore) models.ScoreRecord {
	return models.ScoreRecord{
		SessionID:      w.SessionID,
		Name:           w.Name,
		Score:          w.Score,
		ElapsedSeconds: parseElapsed(w.Elapsed),
		Timestamp:      w.Timestamp,
		School:         w.School,
		Fullname:       w.Fullname,
		ClassLevel:     w.ClassLevel,
		Gender:         w.Gender,
		AvatarID:       w.AvatarID,
	}
}

// parseElapsed converts an MM:SS string to seconds. Malformed values
// count as zero rather than failing the whole document.
func parseElapsed(s string) int {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return minutes*60 + seconds
}

// SubmitScore appends a record to the shared document: fetch the latest
// copy, add the record, rank, truncate to 100 rows and write it back.
// Concurrent submitters race on the write; the last one wins, which the
// small player base tolerates.
func (c *Client) SubmitScore(ctx context.Context, rec models.ScoreRecord) error {
	var doc scoreDoc
	if err := c.fetchBin(ctx, c.scoreBinID, &doc); err != nil {
		return fmt.Errorf("fetching score document: %w", err)
	}

	records := make([]models.ScoreRecord, 0, len(doc.Scores)+1)
	for _, w := range doc.Scores {
		records = append(records, fromWire(w))
	}
	records = append(records, rec)
	models.RankSort(records)
	if len(records) > maxRemoteScores {
		records = records[:maxRemoteScores]
	}

	doc.Scores = doc.Scores[:0]
	for _, r := range records {
		doc.Scores = append(doc.Scores, toWire(r))
	}
	if err := c.putBin(ctx, c.scoreBinID, doc); err != nil {
		return fmt.Errorf("writing score document: %w", err)
	}
	return nil
}

// FetchScores returns the shared records within the window, already
// ranked. lowerBound is Unix seconds; pass 0 for all time.
func (c *Client) FetchScores(ctx context.Context, lowerBound float64, limit int) ([]models.ScoreRecord, error) {
	var doc scoreDoc
	if err := c.fetchBin(ctx, c.scoreBinID, &doc); err != nil {
		return nil, fmt.Errorf("fetching score document: %w", err)
	}
	records := make([]models.ScoreRecord, 0, len(doc.Scores))
	for _, w := range doc.Scores {
		records = append(records, fromWire(w))
	}
	return models.TopSince(records, lowerBound, limit), nil
}

// deleteScoresFor drops every score row whose player name matches the
// username under Turkish case folding. A document with no matching rows
// is left untouched.
func (c *Client) deleteScoresFor(ctx context.Context, username string) error {
	var doc scoreDoc
	if err := c.fetchBin(ctx, c.scoreBinID, &doc); err != nil {
		return fmt.Errorf("fetching score document: %w", err)
	}

	kept := doc.Scores[:0]
	for _, w := range doc.Scores {
		if sameUser(w.Name, username) {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == len(doc.Scores) {
		return nil
	}
	doc.Scores = kept
	if err := c.putBin(ctx, c.scoreBinID, doc); err != nil {
		return fmt.Errorf("writing score document: %w", err)
	}
	return nil
}

// DeleteScore removes a record by session ID. Used by the moderation
// flow; returns ErrScoreNotFound when no row matches.
func (c *Client) DeleteScore(ctx context.Context, sessionID string) error {
	var doc scoreDoc
	if err := c.fetchBin(ctx, c.scoreBinID, &doc); err != nil {
		return fmt.Errorf("fetching score document: %w", err)
	}

	kept := doc.Scores[:0]
	found := false
	for _, w := range doc.Scores {
		if w.SessionID == sessionID {
			found = true
			continue
		}
		kept = append(kept, w)
	}
	if !found {
		return ErrScoreNotFound
	}
	doc.Scores = kept
	if err := c.putBin(ctx, c.scoreBinID, doc); err != nil {
		return fmt.Errorf("writing score document: %w", err)
	}
	return nil
}
