package wordbank

import (
	"os"
	"path/filepath"
	"testing"

	"kelimeoyunu/internal/models"
)

func writeDictionary(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sozluk.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeDictionary(t, `{
		"4_harf": [
			{"kelime": "KEDİ", "tanim": "Evcil bir hayvan"},
			{"kelime": "kapı", "tanim": "Giriş çıkış için açıklık"}
		],
		"5_harf": [
			{"kelime": "MASAL", "tanim": "Hayal ürünü hikaye"}
		]
	}`)

	bank, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if bank.Size() != 3 {
		t.Errorf("Size() = %d, want 3", bank.Size())
	}
	if !bank.HasLevel(4) || !bank.HasLevel(5) {
		t.Error("expected levels 4 and 5 to be present")
	}
	if bank.HasLevel(6) {
		t.Error("level 6 should be absent")
	}

	levels := bank.Levels()
	if len(levels) != 2 || levels[0] != 4 || levels[1] != 5 {
		t.Errorf("Levels() = %v, want [4 5]", levels)
	}

	// Lowercase entries are normalized with Turkish casing.
	found := false
	for _, e := range bank.Words(4) {
		if e.Word == "KAPI" {
			found = true
			if e.Length != 4 {
				t.Errorf("KAPI length = %d, want 4", e.Length)
			}
		}
	}
	if !found {
		t.Error("normalized word KAPI not found at level 4")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: `[not json`},
		{name: "bad level key", content: `{"abc": []}`},
		{name: "empty word", content: `{"4_harf": [{"kelime": "", "tanim": "x"}]}`},
		{name: "missing definition", content: `{"4_harf": [{"kelime": "KEDİ"}]}`},
		{name: "length mismatch", content: `{"4_harf": [{"kelime": "MASAL", "tanim": "x"}]}`},
		{name: "non letter characters", content: `{"4_harf": [{"kelime": "KE2İ", "tanim": "x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDictionary(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Load() on a missing file should fail")
	}
}

func TestFromEntries(t *testing.T) {
	bank, err := FromEntries([]models.WordEntry{
		{Word: "kedi", Definition: "Evcil hayvan"},
		{Word: "MASAL", Definition: "Hikaye"},
	})
	if err != nil {
		t.Fatalf("FromEntries() error = %v", err)
	}

	if !bank.HasLevel(4) || !bank.HasLevel(5) {
		t.Errorf("levels = %v, want [4 5]", bank.Levels())
	}
	if bank.Words(4)[0].Word != "KEDİ" {
		t.Errorf("word = %q, want normalized KEDİ", bank.Words(4)[0].Word)
	}
}
