package validation

import (
	"errors"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid plain", username: "okan_42", wantErr: false},
		{name: "valid turkish letters", username: "çağrı", wantErr: false},
		{name: "too short", username: "ab", wantErr: true},
		{name: "too long", username: "abcdefghijklmnopqrstu", wantErr: true},
		{name: "illegal characters", username: "okan!42", wantErr: true},
		{name: "spaces rejected", username: "okan 42", wantErr: true},
		{name: "reserved word embedded", username: "xadminx", wantErr: true},
		{name: "reserved word lowercase", username: "rootuser", wantErr: true},
		{name: "profanity embedded", username: "abadwordc", wantErr: true},
		{name: "phone number", username: "a05551234567890", wantErr: true},
		{name: "some digits allowed", username: "oyuncu2026", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword(""); err == nil {
		t.Error("empty password should fail")
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("short password should fail")
	}
	if err := ValidatePassword("longenough1"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
}

func TestValidatePlayerName(t *testing.T) {
	if err := ValidatePlayerName("   "); err == nil {
		t.Error("whitespace-only name should fail")
	}
	if err := ValidatePlayerName("Ayşe"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}

	var verr ValidationError
	if err := ValidatePlayerName(""); !errors.As(err, &verr) || verr.Field != "name" {
		t.Errorf("expected ValidationError on the name field, got %v", err)
	}
}
