package models

import "time"

// User is an account row in the self-hosted leaderboard database.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Fullname     string    `json:"fullname,omitempty"`
	BirthDate    string    `json:"birth_date,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	School       string    `json:"school,omitempty"`
	ClassLevel   string    `json:"class_level,omitempty"`
	AvatarID     string    `json:"avatar_id,omitempty"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile extracts the display fields of the account.
func (u User) Profile() Profile {
	return Profile{
		Fullname:   u.Fullname,
		BirthDate:  u.BirthDate,
		Gender:     u.Gender,
		School:     u.School,
		ClassLevel: u.ClassLevel,
		AvatarID:   u.AvatarID,
	}
}
