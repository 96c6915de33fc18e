package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelimeoyunu/internal/clock"
	"kelimeoyunu/internal/models"
	"kelimeoyunu/internal/remote"
	"kelimeoyunu/internal/store"
)

type fakeSubmitter struct {
	got chan models.ScoreRecord
	err error
}

func (f *fakeSubmitter) SubmitScore(_ context.Context, rec models.ScoreRecord) error {
	f.got <- rec
	return f.err
}

func newStores(t *testing.T) (*store.ScoreStore, *store.ProfileStore, *store.SessionStore) {
	t.Helper()
	dir := t.TempDir()
	clk := &clock.Fixed{Time: time.Date(2026, 8, 27, 18, 0, 0, 0, time.Local)}
	scores, err := store.OpenScoreStore(dir, clk)
	require.NoError(t, err)
	profiles, err := store.OpenProfileStore(dir)
	require.NoError(t, err)
	return scores, profiles, store.NewSessionStore(dir)
}

func result() models.SessionResult {
	return models.SessionResult{
		SessionID:      "s1",
		PlayerName:     "AYŞE",
		TotalScore:     450,
		ElapsedSeconds: 95,
		CompletedAt:    time.Date(2026, 8, 27, 18, 0, 0, 0, time.Local),
	}
}

func TestRecordResultWritesLocallyAndPublishes(t *testing.T) {
	scores, profiles, _ := newStores(t)
	require.NoError(t, profiles.Put("AYŞE", models.Profile{School: "Atatürk İlkokulu"}))

	sub := &fakeSubmitter{got: make(chan models.ScoreRecord, 1)}
	svc := NewScoreService(scores, profiles, sub)

	done, err := svc.RecordResult(context.Background(), result())
	require.NoError(t, err)
	require.NoError(t, <-done)

	// Local copy is written before the publish returns.
	local := scores.LoadAll()
	require.Len(t, local, 1)
	assert.Equal(t, 450, local[0].Score)
	assert.Equal(t, "Atatürk İlkokulu", local[0].School)

	published := <-sub.got
	assert.Equal(t, "s1", published.SessionID)
	assert.Equal(t, "Atatürk İlkokulu", published.School)
}

func TestRecordResultSurvivesRemoteFailure(t *testing.T) {
	scores, profiles, _ := newStores(t)
	sub := &fakeSubmitter{got: make(chan models.ScoreRecord, 1), err: errors.New("down")}
	svc := NewScoreService(scores, profiles, sub)

	done, err := svc.RecordResult(context.Background(), result())
	require.NoError(t, err)
	assert.Error(t, <-done)
	assert.Len(t, scores.LoadAll(), 1)
}

func TestRecordResultWithoutRemote(t *testing.T) {
	scores, profiles, _ := newStores(t)
	svc := NewScoreService(scores, profiles, nil)

	done, err := svc.RecordResult(context.Background(), result())
	require.NoError(t, err)
	assert.NoError(t, <-done)
}

type fakeRegistry struct {
	users map[string]string
}

func (f *fakeRegistry) Register(_ context.Context, username, password, _, _ string, _ models.Profile) error {
	if _, ok := f.users[username]; ok {
		return remote.ErrUsernameTaken
	}
	f.users[username] = password
	return nil
}

func (f *fakeRegistry) Login(_ context.Context, username, password string) (models.Profile, error) {
	stored, ok := f.users[username]
	if !ok {
		return models.Profile{}, remote.ErrUserNotFound
	}
	if stored != password {
		return models.Profile{}, remote.ErrWrongPassword
	}
	return models.Profile{School: "Cumhuriyet Ortaokulu"}, nil
}

func (f *fakeRegistry) SecurityQuestion(_ context.Context, username string) (string, error) {
	if _, ok := f.users[username]; !ok {
		return "", remote.ErrUserNotFound
	}
	return "İlk okulun?", nil
}

func (f *fakeRegistry) ResetPassword(_ context.Context, username, _, newPassword string) error {
	if _, ok := f.users[username]; !ok {
		return remote.ErrUserNotFound
	}
	f.users[username] = newPassword
	return nil
}

func (f *fakeRegistry) UpdateProfile(_ context.Context, username string, _ models.Profile) error {
	if _, ok := f.users[username]; !ok {
		return remote.ErrUserNotFound
	}
	return nil
}

func (f *fakeRegistry) DeleteUser(_ context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return remote.ErrUserNotFound
	}
	delete(f.users, username)
	return nil
}

func TestAuthServiceLoginPersistsSessionAndProfile(t *testing.T) {
	_, profiles, sessions := newStores(t)
	reg := &fakeRegistry{users: map[string]string{"ayse": "parola123"}}
	svc := NewAuthService(reg, sessions, profiles)

	require.ErrorIs(t, svc.Login(context.Background(), "ayse", "yanlış"), remote.ErrWrongPassword)

	require.NoError(t, svc.Login(context.Background(), "ayse", "parola123"))
	id, err := svc.Current()
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "ayse", id.Username)

	p, ok := profiles.Get("ayse")
	require.True(t, ok)
	assert.Equal(t, "Cumhuriyet Ortaokulu", p.School)

	require.NoError(t, svc.Logout())
	id, err = svc.Current()
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestAuthServiceRegisterValidatesInput(t *testing.T) {
	_, profiles, sessions := newStores(t)
	reg := &fakeRegistry{users: map[string]string{}}
	svc := NewAuthService(reg, sessions, profiles)

	err := svc.Register(context.Background(), "ab", "parola123", "q", "a", models.Profile{})
	assert.Error(t, err, "short username must be rejected before the network call")

	err = svc.Register(context.Background(), "ayse", "kisa", "q", "a", models.Profile{})
	assert.Error(t, err, "short password must be rejected before the network call")

	require.NoError(t, svc.Register(context.Background(), "ayse", "parola123", "q", "a", models.Profile{}))
	id, err := svc.Current()
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "ayse", id.Username)
}
