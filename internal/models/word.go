package models

// WordEntry is a single dictionary entry: the target word and the
// definition shown as the clue. Entries are immutable after loading.
type WordEntry struct {
	Word       string
	Definition string
	Length     int
}

// SessionConfig holds the per-session game parameters. The engine treats
// it as an immutable value object.
type SessionConfig struct {
	// Levels is the ordered sequence of word lengths played, one round each.
	Levels []int
	// RoundDuration is the countdown per round, in seconds (30, 45 or 60).
	RoundDuration int
	// ScorePerLengthUnit is the base score per letter (25).
	ScorePerLengthUnit int
}

// DefaultScorePerLengthUnit is the base score awarded per letter of the
// target word.
const DefaultScorePerLengthUnit = 25

// Multiplier returns the duration-based score multiplier: shorter rounds
// pay more. Applied only to correct answers, never to hint penalties.
func (c SessionConfig) Multiplier() float64 {
	switch c.RoundDuration {
	case 30:
		return 2.5
	case 45:
		return 1.5
	default:
		return 1.0
	}
}
