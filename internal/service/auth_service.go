package service

import (
	"context"
	"fmt"

	"kelimeoyunu/internal/models"
	"kelimeoyunu/internal/store"
	"kelimeoyunu/internal/validation"
)

// Registry is the subset of the remote client used for accounts.
type Registry interface {
	Register(ctx context.Context, username, password, question, answer string, profile models.Profile) error
	Login(ctx context.Context, username, password string) (models.Profile, error)
	SecurityQuestion(ctx context.Context, username string) (string, error)
	ResetPassword(ctx context.Context, username, answer, newPassword string) error
	UpdateProfile(ctx context.Context, username string, profile models.Profile) error
	DeleteUser(ctx context.Context, username string) error
}

// AuthService manages sign-in state: it validates input, talks to the
// shared user registry, and keeps the session and profile cache files
// in sync.
type AuthService struct {
	registry Registry
	sessions *store.SessionStore
	profiles *store.ProfileStore
}

func NewAuthService(registry Registry, sessions *store.SessionStore, profiles *store.ProfileStore) *AuthService {
	return &AuthService{registry: registry, sessions: sessions, profiles: profiles}
}

// Current returns the signed-in identity, or nil.
func (s *AuthService) Current() (*models.Identity, error) {
	return s.sessions.Load()
}

// Register creates the account and signs the player in.
func (s *AuthService) Register(ctx context.Context, username, password, question, answer string, profile models.Profile) error {
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}
	if err := s.registry.Register(ctx, username, password, question, answer, profile); err != nil {
		return err
	}
	return s.finishLogin(username, profile)
}

// Login verifies credentials against the registry and persists the
// session and the fetched profile.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	profile, err := s.registry.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return s.finishLogin(username, profile)
}

func (s *AuthService) finishLogin(username string, profile models.Profile) error {
	if err := s.sessions.Save(models.Identity{Username: username}); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if err := s.profiles.Put(username, profile); err != nil {
		return fmt.Errorf("caching profile: %w", err)
	}
	return nil
}

// Logout clears the saved session. The profile cache is kept so past
// leaderboard rows stay enriched.
func (s *AuthService) Logout() error {
	return s.sessions.Clear()
}

// SecurityQuestion fetches the recovery question for the account.
func (s *AuthService) SecurityQuestion(ctx context.Context, username string) (string, error) {
	return s.registry.SecurityQuestion(ctx, username)
}

// ResetPassword recovers an account via its security answer.
func (s *AuthService) ResetPassword(ctx context.Context, username, answer, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}
	return s.registry.ResetPassword(ctx, username, answer, newPassword)
}

// UpdateProfile pushes new profile fields to the registry and refreshes
// the local cache.
func (s *AuthService) UpdateProfile(ctx context.Context, username string, profile models.Profile) error {
	if err := s.registry.UpdateProfile(ctx, username, profile); err != nil {
		return err
	}
	return s.profiles.Put(username, profile)
}

// DeleteAccount removes the account from the registry and signs out.
func (s *AuthService) DeleteAccount(ctx context.Context, username string) error {
	if err := s.registry.DeleteUser(ctx, username); err != nil {
		return err
	}
	return s.sessions.Clear()
}
