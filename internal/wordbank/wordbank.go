// Package wordbank loads the word/definition dictionary and serves it as
// an immutable lookup from difficulty level (word length) to entries.
package wordbank

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"kelimeoyunu/internal/models"
	"kelimeoyunu/internal/turkish"
)

// Bank is a read-only dictionary grouped by word length. It is loaded
// once at startup and shared for the lifetime of the process.
type Bank struct {
	levels map[int][]models.WordEntry
}

// fileEntry matches the sozluk.json entry format.
type fileEntry struct {
	Word       string `json:"kelime"`
	Definition string `json:"tanim"`
}

// Load reads and validates the dictionary file. Any malformed entry is a
// fatal configuration error, never silently skipped.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", path, err)
	}

	var raw map[string][]fileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary %s: %w", path, err)
	}

	levels := make(map[int][]models.WordEntry, len(raw))
	for key, entries := range raw {
		length, err := parseLevelKey(key)
		if err != nil {
			return nil, err
		}

		for _, e := range entries {
			entry, err := buildEntry(e, length)
			if err != nil {
				return nil, fmt.Errorf("dictionary level %q: %w", key, err)
			}
			levels[length] = append(levels[length], entry)
		}
	}

	return &Bank{levels: levels}, nil
}

// FromEntries builds a bank directly from entries, grouping by word
// length. Entries are normalized the same way Load normalizes them.
func FromEntries(entries []models.WordEntry) (*Bank, error) {
	levels := make(map[int][]models.WordEntry)
	for _, e := range entries {
		word := turkish.Normalize(e.Word)
		length := utf8.RuneCountInString(word)
		entry, err := buildEntry(fileEntry{Word: word, Definition: e.Definition}, length)
		if err != nil {
			return nil, err
		}
		levels[length] = append(levels[length], entry)
	}
	return &Bank{levels: levels}, nil
}

func buildEntry(e fileEntry, length int) (models.WordEntry, error) {
	word := turkish.Normalize(e.Word)
	if word == "" {
		return models.WordEntry{}, fmt.Errorf("entry with empty word")
	}
	if strings.TrimSpace(e.Definition) == "" {
		return models.WordEntry{}, fmt.Errorf("word %q has no definition", word)
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return models.WordEntry{}, fmt.Errorf("word %q contains non-letter %q", word, r)
		}
	}
	if got := utf8.RuneCountInString(word); got != length {
		return models.WordEntry{}, fmt.Errorf("word %q has length %d, expected %d", word, got, length)
	}

	return models.WordEntry{
		Word:       word,
		Definition: strings.TrimSpace(e.Definition),
		Length:     length,
	}, nil
}

// parseLevelKey accepts both the "4_harf" file format and a plain "4".
func parseLevelKey(key string) (int, error) {
	numeric := strings.TrimSuffix(key, "_harf")
	length, err := strconv.Atoi(numeric)
	if err != nil || length <= 0 {
		return 0, fmt.Errorf("invalid dictionary level key %q", key)
	}
	return length, nil
}

// Words returns the entries of the given length. The returned slice is
// shared; callers must not mutate it.
func (b *Bank) Words(length int) []models.WordEntry {
	return b.levels[length]
}

// HasLevel reports whether at least one word of the given length exists.
func (b *Bank) HasLevel(length int) bool {
	return len(b.levels[length]) > 0
}

// Levels returns the available word lengths in ascending order.
func (b *Bank) Levels() []int {
	lengths := make([]int, 0, len(b.levels))
	for l := range b.levels {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)
	return lengths
}

// Size returns the total number of entries across all levels.
func (b *Bank) Size() int {
	total := 0
	for _, entries := range b.levels {
		total += len(entries)
	}
	return total
}
