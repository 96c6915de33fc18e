// Package game implements the round-by-round session engine: word
// selection, countdown, hint reveals, scoring and level progression.
//
// The engine is single-goroutine by design. It never blocks and never
// spawns goroutines; an external 1 Hz ticker drives the countdown through
// Tick, and all transitions happen on the caller's goroutine.
package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"kelimeoyunu/internal/clock"
	"kelimeoyunu/internal/models"
	"kelimeoyunu/internal/turkish"
	"kelimeoyunu/internal/wordbank"
)

// State is the engine's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRoundActive
	StateRoundResolved
	StateSessionComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRoundActive:
		return "round_active"
	case StateRoundResolved:
		return "round_resolved"
	default:
		return "session_complete"
	}
}

// UsedWordScope controls how long the used-word exclusion set lives.
type UsedWordScope int

const (
	// ScopeProcess keeps used words excluded across sessions for the
	// lifetime of the engine. This matches the original game's behavior.
	ScopeProcess UsedWordScope = iota
	// ScopeSession clears the exclusion set on every StartSession.
	ScopeSession
)

// HintPenalty is the flat score deduction per revealed letter. It is not
// scaled by word length or by the duration multiplier.
const HintPenalty = 25

var (
	ErrInvalidState = errors.New("operation not valid in current state")
	ErrMissingLevel = errors.New("word bank has no words for configured level")
	ErrExhausted    = errors.New("word bank exhausted for all configured levels")
	ErrEmptyName    = errors.New("player name is required")
)

// Config assembles an engine. Bank and Session are required; Clock and
// Rand default to the system clock and a time-seeded source.
type Config struct {
	Bank      *wordbank.Bank
	Session   models.SessionConfig
	Clock     clock.Clock
	Rand      *rand.Rand
	UsedWords UsedWordScope
}

// HintResult reports the outcome of a single hint.
type HintResult struct {
	Index       int
	Letter      string
	Potential   int
	AllRevealed bool
}

// SubmitResult reports the outcome of an answer submission. A wrong
// answer is not an error; Correct is false and nothing changes.
type SubmitResult struct {
	Correct bool
	Earned  int
}

// TickResult reports one countdown step.
type TickResult struct {
	TimeLeft int
	TimedOut bool
}

// Engine drives one session at a time through
// IDLE → ROUND_ACTIVE → ROUND_RESOLVED → (ROUND_ACTIVE | SESSION_COMPLETE).
type Engine struct {
	bank  *wordbank.Bank
	cfg   models.SessionConfig
	clk   clock.Clock
	rng   *rand.Rand
	scope UsedWordScope

	state        State
	playerName   string
	totalScore   int
	levelIdx     int
	roundsPlayed int
	used         map[string]struct{}
	sessionStart time.Time
	result       *models.SessionResult

	// Round state. Frozen once the round resolves.
	word      models.WordEntry
	runes     []rune
	revealed  map[int]struct{}
	potential int
	timeLeft  int
	answered  bool
}

// New creates an engine in the idle state.
func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Session.ScorePerLengthUnit == 0 {
		cfg.Session.ScorePerLengthUnit = models.DefaultScorePerLengthUnit
	}

	return &Engine{
		bank:  cfg.Bank,
		cfg:   cfg.Session,
		clk:   cfg.Clock,
		rng:   cfg.Rand,
		scope: cfg.UsedWords,
		used:  make(map[string]struct{}),
	}
}

// StartSession resets all session state and begins the first round.
// A configured level with no words in the bank is a fatal configuration
// error surfaced here, before any round starts.
func (e *Engine) StartSession(playerName string) error {
	name := turkish.Normalize(playerName)
	if name == "" {
		return ErrEmptyName
	}
	if len(e.cfg.Levels) == 0 {
		return fmt.Errorf("%w: no levels configured", ErrMissingLevel)
	}
	for _, level := range e.cfg.Levels {
		if !e.bank.HasLevel(level) {
			return fmt.Errorf("%w: %d letters", ErrMissingLevel, level)
		}
	}

	e.playerName = name
	e.totalScore = 0
	e.levelIdx = 0
	e.roundsPlayed = 0
	e.result = nil
	e.sessionStart = e.clk.Now()
	if e.scope == ScopeSession {
		e.used = make(map[string]struct{})
	}

	return e.beginRound()
}

// beginRound draws a word for the current level, falling back to the next
// level when the current one has no unused words left. Running past the
// last level completes the session.
func (e *Engine) beginRound() error {
	for {
		if e.levelIdx >= len(e.cfg.Levels) {
			if e.roundsPlayed == 0 {
				e.state = StateIdle
				return ErrExhausted
			}
			e.completeSession()
			return nil
		}

		length := e.cfg.Levels[e.levelIdx]
		available := e.availableWords(length)
		if len(available) == 0 {
			e.levelIdx++
			continue
		}

		e.word = available[e.rng.Intn(len(available))]
		e.used[e.word.Word] = struct{}{}
		e.runes = []rune(e.word.Word)
		e.revealed = make(map[int]struct{})
		e.potential = e.word.Length * e.cfg.ScorePerLengthUnit
		e.timeLeft = e.cfg.RoundDuration
		e.answered = false
		e.roundsPlayed++
		e.state = StateRoundActive
		return nil
	}
}

func (e *Engine) availableWords(length int) []models.WordEntry {
	var available []models.WordEntry
	for _, entry := range e.bank.Words(length) {
		if _, taken := e.used[entry.Word]; !taken {
			available = append(available, entry)
		}
	}
	return available
}

func (e *Engine) completeSession() {
	now := e.clk.Now()
	e.result = &models.SessionResult{
		SessionID:      uuid.New().String(),
		PlayerName:     e.playerName,
		TotalScore:     e.totalScore,
		ElapsedSeconds: int(now.Sub(e.sessionStart).Seconds()),
		CompletedAt:    now,
	}
	e.state = StateSessionComplete
}

// RequestHint reveals one random unrevealed letter and deducts the flat
// penalty, floored at zero. Revealing the last letter forces the
// potential to zero and resolves the round as a loss.
func (e *Engine) RequestHint() (HintResult, error) {
	if e.state != StateRoundActive || e.answered {
		return HintResult{}, ErrInvalidState
	}

	hidden := e.hiddenIndices()
	if len(hidden) == 0 {
		return HintResult{}, ErrInvalidState
	}

	idx := hidden[e.rng.Intn(len(hidden))]
	e.revealed[idx] = struct{}{}
	e.potential = max(0, e.potential-HintPenalty)

	allRevealed := len(e.revealed) == len(e.runes)
	if allRevealed {
		e.potential = 0
		e.state = StateRoundResolved
	}

	return HintResult{
		Index:       idx,
		Letter:      string(e.runes[idx]),
		Potential:   e.potential,
		AllRevealed: allRevealed,
	}, nil
}

// SubmitAnswer compares the answer with Turkish-aware normalization.
// On a match it stops the countdown, applies the duration multiplier and
// banks the points. A mismatch (including empty input) changes nothing.
func (e *Engine) SubmitAnswer(text string) (SubmitResult, error) {
	if e.state != StateRoundActive || e.answered {
		return SubmitResult{}, ErrInvalidState
	}

	if strings.TrimSpace(text) == "" || !turkish.Equal(text, e.word.Word) {
		return SubmitResult{Correct: false}, nil
	}

	earned := int(math.Round(float64(e.potential) * e.cfg.Multiplier()))
	e.totalScore += earned
	e.answered = true
	e.revealAll()
	e.state = StateRoundResolved

	return SubmitResult{Correct: true, Earned: earned}, nil
}

// Tick advances the countdown by one second. Outside an active round it
// is a no-op, so the driving ticker never needs to pause. Reaching zero
// resolves the round with no points and the full word revealed.
func (e *Engine) Tick() TickResult {
	if e.state != StateRoundActive || e.answered {
		return TickResult{TimeLeft: e.timeLeft}
	}

	e.timeLeft--
	if e.timeLeft > 0 {
		return TickResult{TimeLeft: e.timeLeft}
	}

	e.timeLeft = 0
	e.potential = 0
	e.revealAll()
	e.state = StateRoundResolved
	return TickResult{TimeLeft: 0, TimedOut: true}
}

// Advance moves from a resolved round to the next one, or to session
// completion after the last level. The emitted SessionResult is returned
// exactly once.
func (e *Engine) Advance() (*models.SessionResult, error) {
	if e.state != StateRoundResolved {
		return nil, ErrInvalidState
	}

	e.levelIdx++
	if err := e.beginRound(); err != nil {
		return nil, err
	}
	if e.state == StateSessionComplete {
		return e.result, nil
	}
	return nil, nil
}

func (e *Engine) revealAll() {
	for i := range e.runes {
		e.revealed[i] = struct{}{}
	}
}

func (e *Engine) hiddenIndices() []int {
	var hidden []int
	for i := range e.runes {
		if _, ok := e.revealed[i]; !ok {
			hidden = append(hidden, i)
		}
	}
	return hidden
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// PlayerName returns the normalized name of the current player.
func (e *Engine) PlayerName() string { return e.playerName }

// TotalScore returns the accumulated session score.
func (e *Engine) TotalScore() int { return e.totalScore }

// Potential returns the score still winnable in the current round.
func (e *Engine) Potential() int { return e.potential }

// TimeLeft returns the remaining round seconds.
func (e *Engine) TimeLeft() int { return e.timeLeft }

// Definition returns the clue for the current word.
func (e *Engine) Definition() string { return e.word.Definition }

// WordLength returns the rune count of the current word.
func (e *Engine) WordLength() int { return len(e.runes) }

// Masked renders the current word with unrevealed letters as underscores,
// space separated, e.g. "K _ D İ".
func (e *Engine) Masked() string {
	parts := make([]string, len(e.runes))
	for i, r := range e.runes {
		if _, ok := e.revealed[i]; ok {
			parts[i] = string(r)
		} else {
			parts[i] = "_"
		}
	}
	return strings.Join(parts, " ")
}

// Result returns the session result once the session is complete.
func (e *Engine) Result() *models.SessionResult {
	return e.result
}
