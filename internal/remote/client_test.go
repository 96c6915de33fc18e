package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelimeoyunu/internal/models"
)

// binServer fakes the hosted document store: one score bin and one user
// bin, served at /{bin}/latest for reads and /{bin} for writes.
type binServer struct {
	mu      sync.Mutex
	docs    map[string]json.RawMessage
	puts    map[string]int
	keySeen string
}

func newBinServer() *binServer {
	return &binServer{
		docs: make(map[string]json.RawMessage),
		puts: make(map[string]int),
	}
}

func (b *binServer) set(t *testing.T, binID string, doc any) {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	b.mu.Lock()
	b.docs[binID] = data
	b.mu.Unlock()
}

func (b *binServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.keySeen = r.Header.Get("X-Master-Key")

		if r.Method == http.MethodGet {
			binID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/latest")
			doc, ok := b.docs[binID]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, `{"record":%s}`, doc)
			return
		}
		if r.Method == http.MethodPut {
			binID := strings.TrimPrefix(r.URL.Path, "/")
			var body json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			b.docs[binID] = body
			b.puts[binID]++
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func testClient(t *testing.T, b *binServer) *Client {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", "scores-bin", "users-bin")
}

func TestSubmitScoreAppendsAndRanks(t *testing.T) {
	bins := newBinServer()
	bins.set(t, "scores-bin", scoreDoc{Scores: []wireScore{
		{SessionID: "a", Name: "MEHMET", Score: 300, Elapsed: "02:00", Timestamp: 100},
	}})
	c := testClient(t, bins)

	err := c.SubmitScore(context.Background(), models.ScoreRecord{
		SessionID:      "b",
		Name:           "AYŞE",
		Score:          450,
		ElapsedSeconds: 95,
		Timestamp:      200,
	})
	require.NoError(t, err)
	assert.Equal(t, "test-key", bins.keySeen)

	var doc scoreDoc
	require.NoError(t, json.Unmarshal(bins.docs["scores-bin"], &doc))
	require.Len(t, doc.Scores, 2)
	assert.Equal(t, "AYŞE", doc.Scores[0].Name)
	assert.Equal(t, 450, doc.Scores[0].Score)
	assert.Equal(t, "01:35", doc.Scores[0].Elapsed)
}

func TestSubmitScoreTruncatesDocument(t *testing.T) {
	rows := make([]wireScore, maxRemoteScores)
	for i := range rows {
		rows[i] = wireScore{
			SessionID: fmt.Sprintf("s%d", i),
			Name:      "MEHMET",
			Score:     1000 - i,
			Elapsed:   "01:00",
			Timestamp: float64(i),
		}
	}
	bins := newBinServer()
	bins.set(t, "scores-bin", scoreDoc{Scores: rows})
	c := testClient(t, bins)

	// A score below every existing row falls off the end.
	err := c.SubmitScore(context.Background(), models.ScoreRecord{
		SessionID: "low", Name: "AYŞE", Score: 1, ElapsedSeconds: 60, Timestamp: 999,
	})
	require.NoError(t, err)

	var doc scoreDoc
	require.NoError(t, json.Unmarshal(bins.docs["scores-bin"], &doc))
	require.Len(t, doc.Scores, maxRemoteScores)
	for _, w := range doc.Scores {
		assert.NotEqual(t, "low", w.SessionID)
	}
}

func TestFetchScoresFiltersByLowerBound(t *testing.T) {
	bins := newBinServer()
	bins.set(t, "scores-bin", scoreDoc{Scores: []wireScore{
		{SessionID: "old", Name: "MEHMET", Score: 900, Elapsed: "01:00", Timestamp: 50},
		{SessionID: "new", Name: "AYŞE", Score: 200, Elapsed: "01:30", Timestamp: 150},
	}})
	c := testClient(t, bins)

	got, err := c.FetchScores(context.Background(), 100, 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AYŞE", got[0].Name)
	assert.Equal(t, 90, got[0].ElapsedSeconds)
}

func TestDeleteScore(t *testing.T) {
	bins := newBinServer()
	bins.set(t, "scores-bin", scoreDoc{Scores: []wireScore{
		{SessionID: "a", Name: "MEHMET", Score: 300, Elapsed: "02:00", Timestamp: 100},
	}})
	c := testClient(t, bins)

	require.NoError(t, c.DeleteScore(context.Background(), "a"))
	assert.ErrorIs(t, c.DeleteScore(context.Background(), "a"), ErrScoreNotFound)
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	bins := newBinServer()
	bins.set(t, "users-bin", userDoc{Users: []wireUser{{Username: "ayşe", Password: "$2x"}}})
	c := testClient(t, bins)

	// Turkish case folding: AYŞE collides with ayşe.
	err := c.Register(context.Background(), "AYŞE", "parola123", "q", "a", models.Profile{})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	require.NoError(t, c.Register(context.Background(), "mehmet", "parola123", "q", "a", models.Profile{}))
	var doc userDoc
	require.NoError(t, json.Unmarshal(bins.docs["users-bin"], &doc))
	require.Len(t, doc.Users, 2)
	assert.True(t, strings.HasPrefix(doc.Users[1].Password, "$2"), "password must be stored hashed")
}

func TestLoginUpgradesLegacyHash(t *testing.T) {
	bins := newBinServer()
	bins.set(t, "users-bin", userDoc{Users: []wireUser{{
		Username: "mehmet",
		Password: legacyDigest("parola123"),
		School:   "Cumhuriyet Ortaokulu",
	}}})
	c := testClient(t, bins)

	_, err := c.Login(context.Background(), "mehmet", "yanlış")
	assert.ErrorIs(t, err, ErrWrongPassword)

	profile, err := c.Login(context.Background(), "mehmet", "parola123")
	require.NoError(t, err)
	assert.Equal(t, "Cumhuriyet Ortaokulu", profile.School)

	// The stored digest is rewritten as bcrypt on success.
	var doc userDoc
	require.NoError(t, json.Unmarshal(bins.docs["users-bin"], &doc))
	assert.True(t, strings.HasPrefix(doc.Users[0].Password, "$2"))

	// Subsequent logins verify against the upgraded hash.
	_, err = c.Login(context.Background(), "mehmet", "parola123")
	require.NoError(t, err)
}

func TestResetPasswordRequiresSecurityAnswer(t *testing.T) {
	bins := newBinServer()
	bins.set(t, "users-bin", userDoc{})
	c := testClient(t, bins)

	require.NoError(t, c.Register(context.Background(), "ayşe", "eski12345", "İlk okulun?", "Atatürk", models.Profile{}))

	q, err := c.SecurityQuestion(context.Background(), "ayşe")
	require.NoError(t, err)
	assert.Equal(t, "İlk okulun?", q)

	err = c.ResetPassword(context.Background(), "ayşe", "yanlış", "yeni12345")
	assert.ErrorIs(t, err, ErrWrongPassword)

	// Answers fold case with Turkish rules.
	require.NoError(t, c.ResetPassword(context.Background(), "ayşe", "ATATÜRK", "yeni12345"))
	_, err = c.Login(context.Background(), "ayşe", "yeni12345")
	require.NoError(t, err)
}

func TestDeleteUserCascadesScores(t *testing.T) {
	bins := newBinServer()
	bins.set(t, "users-bin", userDoc{Users: []wireUser{
		{Username: "ahmet", Password: "$2x"},
		{Username: "ayşe", Password: "$2y"},
	}})
	bins.set(t, "scores-bin", scoreDoc{Scores: []wireScore{
		{SessionID: "a1", Name: "AHMET", Score: 200, Elapsed: "01:00", Timestamp: 100},
		{SessionID: "b1", Name: "AYŞE", Score: 450, Elapsed: "01:35", Timestamp: 200},
		{SessionID: "a2", Name: "ahmet", Score: 150, Elapsed: "02:00", Timestamp: 300},
	}})
	c := testClient(t, bins)

	require.NoError(t, c.DeleteUser(context.Background(), "AHMET"))

	// The registry row and every score of the player are gone; case
	// folding is Turkish, so both AHMET and ahmet rows match.
	var users userDoc
	require.NoError(t, json.Unmarshal(bins.docs["users-bin"], &users))
	require.Len(t, users.Users, 1)
	assert.Equal(t, "ayşe", users.Users[0].Username)

	var scores scoreDoc
	require.NoError(t, json.Unmarshal(bins.docs["scores-bin"], &scores))
	require.Len(t, scores.Scores, 1)
	assert.Equal(t, "AYŞE", scores.Scores[0].Name)
}

func TestRequestDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "k", "scores-bin", "users-bin")
	_, err := c.FetchScores(context.Background(), 0, 20)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, calls)
}

func TestRequestRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"record":{"skorlar":[]}}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "k", "scores-bin", "users-bin")
	got, err := c.FetchScores(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 2, calls)
}

func TestRequestTimeoutIsPerAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(300 * time.Millisecond)
		}
		fmt.Fprint(w, `{"record":{"skorlar":[]}}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "k", "scores-bin", "users-bin")
	c.timeout = 50 * time.Millisecond

	// The first attempt must be cut off at the request timeout and the
	// retry must succeed; without a per-attempt deadline the slow first
	// response would be returned by a single call.
	got, err := c.FetchScores(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPutBinRunsOnBulkBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "k", "scores-bin", "users-bin")
	c.timeout = 10 * time.Millisecond
	c.bulkBudget = 2 * time.Second

	// A document replacement slower than the normal request timeout
	// still completes within the bulk budget.
	require.NoError(t, c.putBin(context.Background(), "scores-bin", scoreDoc{}))
}

func TestParseElapsed(t *testing.T) {
	assert.Equal(t, 95, parseElapsed("01:35"))
	assert.Equal(t, 0, parseElapsed(""))
	assert.Equal(t, 0, parseElapsed("bozuk"))
	assert.Equal(t, 754, parseElapsed("12:34"))
}

func TestFetchConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"version":"1.4.0","game_settings":{"timer_duration":45}}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "k", "s", "u")
	cfg, err := c.FetchConfig(context.Background(), srv.URL+"/config.json")
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", cfg.Version)
	assert.Contains(t, string(cfg.Raw), "timer_duration")
}
