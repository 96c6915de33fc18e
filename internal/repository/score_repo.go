package repository

import (
	"database/sql"
	"fmt"

	"kelimeoyunu/internal/database"
	"kelimeoyunu/internal/models"
)

// ScoreRepository persists submitted scores for the self-hosted
// leaderboard.
type ScoreRepository struct {
	db *database.DB
}

func NewScoreRepository(db *database.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Insert stores a score row. userID may be nil for guest submissions.
func (r *ScoreRepository) Insert(rec models.ScoreRecord, userID *int64) (int64, error) {
	var uid sql.NullInt64
	if userID != nil {
		uid = sql.NullInt64{Int64: *userID, Valid: true}
	}
	id, err := r.db.ExecReturningID(`
		INSERT INTO scores (session_id, user_id, name, score, elapsed_seconds, timestamp, fullname, school, class_level, gender, avatar_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		rec.SessionID, uid, rec.Name, rec.Score, rec.ElapsedSeconds, rec.Timestamp,
		rec.Fullname, rec.School, rec.ClassLevel, rec.Gender, rec.AvatarID)
	if err != nil {
		return 0, fmt.Errorf("inserting score: %w", err)
	}
	return id, nil
}

// ExistsSimilar reports whether a row with the same name and score was
// submitted within the tolerance window around the timestamp. Used to
// drop double-submits from retrying clients.
func (r *ScoreRepository) ExistsSimilar(name string, score int, timestamp, tolerance float64) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM scores
		WHERE name = ? AND score = ? AND timestamp BETWEEN ? AND ?`,
		name, score, timestamp-tolerance, timestamp+tolerance).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking duplicate score: %w", err)
	}
	return count > 0, nil
}

// ExistsSession reports whether a session ID was already recorded.
func (r *ScoreRepository) ExistsSession(sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM scores WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking session id: %w", err)
	}
	return count > 0, nil
}

// TopSince returns the ranked scores at or after the lower bound,
// capped at limit. Ranking matches the client: score descending, then
// elapsed time ascending.
func (r *ScoreRepository) TopSince(lowerBound float64, limit int) ([]models.ScoreRecord, error) {
	rows, err := r.db.Query(`
		SELECT session_id, name, score, elapsed_seconds, timestamp, fullname, school, class_level, gender, avatar_id
		FROM scores
		WHERE timestamp >= ?
		ORDER BY score DESC, elapsed_seconds ASC
		LIMIT ?`, lowerBound, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scores: %w", err)
	}
	defer rows.Close()

	var records []models.ScoreRecord
	for rows.Next() {
		var rec models.ScoreRecord
		err := rows.Scan(&rec.SessionID, &rec.Name, &rec.Score, &rec.ElapsedSeconds,
			&rec.Timestamp, &rec.Fullname, &rec.School, &rec.ClassLevel, &rec.Gender, &rec.AvatarID)
		if err != nil {
			return nil, fmt.Errorf("scanning score: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a score row by ID.
func (r *ScoreRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM scores WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting score: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
