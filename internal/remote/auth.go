package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"kelimeoyunu/internal/models"
	"kelimeoyunu/internal/security"
	"kelimeoyunu/internal/turkish"
)

// wireUser is a row in the shared user registry bin.
type wireUser struct {
	Username string `json:"username"`
	Password string `json:"password"`

	SecurityQuestion string `json:"security_question,omitempty"`
	SecurityAnswer   string `json:"security_answer,omitempty"`

	Fullname   string `json:"fullname,omitempty"`
	BirthDate  string `json:"birth_date,omitempty"`
	Gender     string `json:"gender,omitempty"`
	School     string `json:"school,omitempty"`
	ClassLevel string `json:"class_level,omitempty"`
	AvatarID   string `json:"avatar_id,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
}

type userDoc struct {
	Users []wireUser `json:"users"`
}

func (u wireUser) profile() models.Profile {
	return models.Profile{
		Fullname:   u.Fullname,
		BirthDate:  u.BirthDate,
		Gender:     u.Gender,
		School:     u.School,
		ClassLevel: u.ClassLevel,
		AvatarID:   u.AvatarID,
	}
}

func sameUser(a, b string) bool {
	return turkish.Normalize(a) == turkish.Normalize(b)
}

// Register creates a user in the shared registry. The password is
// stored as a bcrypt hash; the security answer is hashed the same way
// so a leaked document reveals neither.
func (c *Client) Register(ctx context.Context, username, password, question, answer string, profile models.Profile) error {
	var doc userDoc
	if err := c.fetchBin(ctx, c.userBinID, &doc); err != nil {
		return fmt.Errorf("fetching user registry: %w", err)
	}
	for _, u := range doc.Users {
		if sameUser(u.Username, username) {
			return ErrUsernameTaken
		}
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	answerHash, err := security.HashPassword(normalizeAnswer(answer))
	if err != nil {
		return fmt.Errorf("hashing security answer: %w", err)
	}

	doc.Users = append(doc.Users, wireUser{
		Username:         username,
		Password:         hash,
		SecurityQuestion: question,
		SecurityAnswer:   answerHash,
		Fullname:         profile.Fullname,
		BirthDate:        profile.BirthDate,
		Gender:           profile.Gender,
		School:           profile.School,
		ClassLevel:       profile.ClassLevel,
		AvatarID:         profile.AvatarID,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	})
	if err := c.putBin(ctx, c.userBinID, doc); err != nil {
		return fmt.Errorf("writing user registry: %w", err)
	}
	return nil
}

// Login verifies the password and returns the stored profile. Accounts
// created by older releases hold a hex SHA-256 digest instead of a
// bcrypt hash; those are verified against the digest and upgraded to
// bcrypt in place on first successful login.
func (c *Client) Login(ctx context.Context, username, password string) (models.Profile, error) {
	var doc userDoc
	if err := c.fetchBin(ctx, c.userBinID, &doc); err != nil {
		return models.Profile{}, fmt.Errorf("fetching user registry: %w", err)
	}

	for i, u := range doc.Users {
		if !sameUser(u.Username, username) {
			continue
		}
		if isLegacyHash(u.Password) {
			if legacyDigest(password) != u.Password {
				return models.Profile{}, ErrWrongPassword
			}
			hash, err := security.HashPassword(password)
			if err == nil {
				doc.Users[i].Password = hash
				// Upgrade failures are non-fatal; the legacy hash still works.
				_ = c.putBin(ctx, c.userBinID, doc)
			}
			return u.profile(), nil
		}
		if !security.CheckPassword(password, u.Password) {
			return models.Profile{}, ErrWrongPassword
		}
		return u.profile(), nil
	}
	return models.Profile{}, ErrUserNotFound
}

// SecurityQuestion returns the recovery question for the account.
func (c *Client) SecurityQuestion(ctx context.Context, username string) (string, error) {
	var doc userDoc
	if err := c.fetchBin(ctx, c.userBinID, &doc); err != nil {
		return "", fmt.Errorf("fetching user registry: %w", err)
	}
	for _, u := range doc.Users {
		if sameUser(u.Username, username) {
			return u.SecurityQuestion, nil
		}
	}
	return "", ErrUserNotFound
}

// ResetPassword sets a new password after verifying the security
// answer. Answers are compared case-insensitively with Turkish casing.
func (c *Client) ResetPassword(ctx context.Context, username, answer, newPassword string) error {
	var doc userDoc
	if err := c.fetchBin(ctx, c.userBinID, &doc); err != nil {
		return fmt.Errorf("fetching user registry: %w", err)
	}
	for i, u := range doc.Users {
		if !sameUser(u.Username, username) {
			continue
		}
		if !security.CheckPassword(normalizeAnswer(answer), u.SecurityAnswer) {
			return ErrWrongPassword
		}
		hash, err := security.HashPassword(newPassword)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		doc.Users[i].Password = hash
		if err := c.putBin(ctx, c.userBinID, doc); err != nil {
			return fmt.Errorf("writing user registry: %w", err)
		}
		return nil
	}
	return ErrUserNotFound
}

// UpdateProfile replaces the profile fields on the account.
func (c *Client) UpdateProfile(ctx context.Context, username string, profile models.Profile) error {
	var doc userDoc
	if err := c.fetchBin(ctx, c.userBinID, &doc); err != nil {
		return fmt.Errorf("fetching user registry: %w", err)
	}
	for i, u := range doc.Users {
		if !sameUser(u.Username, username) {
			continue
		}
		doc.Users[i].Fullname = profile.Fullname
		doc.Users[i].BirthDate = profile.BirthDate
		doc.Users[i].Gender = profile.Gender
		doc.Users[i].School = profile.School
		doc.Users[i].ClassLevel = profile.ClassLevel
		doc.Users[i].AvatarID = profile.AvatarID
		if err := c.putBin(ctx, c.userBinID, doc); err != nil {
			return fmt.Errorf("writing user registry: %w", err)
		}
		return nil
	}
	return ErrUserNotFound
}

// DeleteUser removes the account from the registry and cascades to the
// score document: every row the player submitted goes with the account.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	var doc userDoc
	if err := c.fetchBin(ctx, c.userBinID, &doc); err != nil {
		return fmt.Errorf("fetching user registry: %w", err)
	}
	kept := doc.Users[:0]
	found := false
	for _, u := range doc.Users {
		if sameUser(u.Username, username) {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return ErrUserNotFound
	}
	doc.Users = kept
	if err := c.putBin(ctx, c.userBinID, doc); err != nil {
		return fmt.Errorf("writing user registry: %w", err)
	}
	if err := c.deleteScoresFor(ctx, username); err != nil {
		return fmt.Errorf("removing scores of deleted user: %w", err)
	}
	return nil
}

// isLegacyHash reports whether the stored credential is a pre-bcrypt
// hex SHA-256 digest.
func isLegacyHash(stored string) bool {
	return !strings.HasPrefix(stored, "$2")
}

func legacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func normalizeAnswer(answer string) string {
	return turkish.Normalize(answer)
}
