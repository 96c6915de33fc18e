package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kelimeoyunu/internal/database"
	"kelimeoyunu/internal/models"
	"kelimeoyunu/internal/turkish"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// UserRepository persists accounts for the self-hosted leaderboard.
type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, username, password_hash, fullname, birth_date, gender, school, class_level, avatar_id, is_admin, created_at"

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	var created string
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Fullname, &u.BirthDate,
		&u.Gender, &u.School, &u.ClassLevel, &u.AvatarID, &u.IsAdmin, &created)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = parseTimestamp(created)
	return &u, nil
}

// parseTimestamp tolerates the formats the three backends emit.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Create inserts the account and returns its ID. Usernames are stored
// Turkish-uppercased so uniqueness and lookups fold case the way the
// game does, which SQL LOWER() cannot do for İ and ı.
func (r *UserRepository) Create(u *models.User) (int64, error) {
	u.Username = turkish.Normalize(u.Username)
	id, err := r.db.ExecReturningID(`
		INSERT INTO users (username, password_hash, fullname, birth_date, gender, school, class_level, avatar_id, is_admin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		u.Username, u.PasswordHash, u.Fullname, u.BirthDate, u.Gender,
		u.School, u.ClassLevel, u.AvatarID, u.IsAdmin)
	if err != nil {
		return 0, fmt.Errorf("creating user: %w", err)
	}
	return id, nil
}

// GetByUsername looks an account up case-insensitively with Turkish
// folding.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	row := r.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE username = ?", turkish.Normalize(username))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return u, nil
}

// List returns every account, newest first.
func (r *UserRepository) List() ([]models.User, error) {
	rows, err := r.db.Query("SELECT " + userColumns + " FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdatePassword replaces the stored hash.
func (r *UserRepository) UpdatePassword(id int64, hash string) error {
	result, err := r.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the account and its scores in one transaction.
func (r *UserRepository) Delete(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("starting delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM scores WHERE user_id = ?", id); err != nil {
		return fmt.Errorf("deleting user scores: %w", err)
	}
	result, err := tx.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
