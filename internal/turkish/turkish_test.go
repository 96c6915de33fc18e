package turkish

import "testing"

func TestUpper(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "dotted i maps to dotted capital",
			input: "kedi",
			want:  "KEDİ",
		},
		{
			name:  "dotless i maps to plain capital",
			input: "kapı",
			want:  "KAPI",
		},
		{
			name:  "mixed word",
			input: "ılık süt içtim",
			want:  "ILIK SÜT İÇTİM",
		},
		{
			name:  "already uppercase",
			input: "MASAL",
			want:  "MASAL",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Upper(tt.input); got != tt.want {
				t.Errorf("Upper(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  kedi  "); got != "KEDİ" {
		t.Errorf("Normalize() = %q, want %q", got, "KEDİ")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "lowercase answer matches uppercase word", a: "kedi", b: "KEDİ", want: true},
		{name: "dotless i round trip", a: "kapı", b: "KAPI", want: true},
		{name: "whitespace ignored", a: " masal ", b: "MASAL", want: true},
		{name: "different words", a: "kedi", b: "KEDER", want: false},
		{name: "ascii i does not match dotless", a: "kapi", b: "KAPI", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
