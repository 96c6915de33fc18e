package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelimeoyunu/internal/config"
	"kelimeoyunu/internal/game"
)

func testApp(t *testing.T) *app {
	t.Helper()

	dir := t.TempDir()
	dict := filepath.Join(dir, "sozluk.json")
	data := `{"4_harf": [
		{"kelime": "KEDİ", "tanim": "Evcil bir hayvan"},
		{"kelime": "KAPI", "tanim": "Giriş ve çıkış için açılan bölme"}
	]}`
	require.NoError(t, os.WriteFile(dict, []byte(data), 0o644))

	cfg := &config.Config{
		DataDir:        dir,
		DictionaryPath: dict,
		RoundDuration:  60,
		Levels:         []int{4},
	}
	a, err := newApp(cfg)
	require.NoError(t, err)
	return a
}

// finishOffline lets the current round time out and advances to the
// session result, so a full session runs without any player input.
func finishOffline(t *testing.T, e *game.Engine) {
	t.Helper()
	for e.State() == game.StateRoundActive {
		e.Tick()
	}
	result, err := e.Advance()
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestUsedWordsPersistAcrossSessions(t *testing.T) {
	a := testApp(t)
	a.buildEngine()

	require.NoError(t, a.engine.StartSession("AYŞE"))
	finishOffline(t, a.engine)

	// Second session must draw the remaining word, not a fresh pool.
	require.NoError(t, a.engine.StartSession("AYŞE"))
	finishOffline(t, a.engine)

	// Both words are spent now; a third session has nothing to draw.
	err := a.engine.StartSession("AYŞE")
	assert.ErrorIs(t, err, game.ErrExhausted)
}

func TestBuildEngineUsesConfiguredSession(t *testing.T) {
	a := testApp(t)
	a.cfg.RoundDuration = 45
	a.buildEngine()

	require.NoError(t, a.engine.StartSession("MEHMET"))
	assert.Equal(t, 45, a.engine.TimeLeft())
	assert.Equal(t, 4, a.engine.WordLength())
}
