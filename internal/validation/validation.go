// Package validation implements the input rules shared by the
// registration flow and the leaderboard server.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"kelimeoyunu/internal/turkish"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// usernameRegex allows letters (including Turkish ones), digits and
// underscore.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_ğüşıöçĞÜŞİÖÇ]+$`)

// reservedNames may not appear anywhere in a username.
var reservedNames = []string{
	"ADMIN", "MODERATOR", "DESTEK", "SYSTEM", "GAMEMASTER", "YONETICI", "ROOT",
}

// profanityList is checked by containment against the uppercased username.
var profanityList = []string{
	"KUFUR1", "KUFUR2", "BADWORD",
}

// maxUsernameDigits guards against phone numbers and similar PII being
// used as usernames.
const maxUsernameDigits = 11

// ValidateUsername checks length, character set, reserved words, profanity
// and the digit-count PII guard.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)

	if n := len([]rune(username)); n < 3 || n > 20 {
		return ValidationError{Field: "username", Message: "must be between 3 and 20 characters"}
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "may only contain letters, digits and underscore"}
	}

	upper := turkish.Upper(username)
	for _, reserved := range reservedNames {
		if strings.Contains(upper, reserved) {
			return ValidationError{Field: "username", Message: "this username is not available"}
		}
	}
	for _, bad := range profanityList {
		if strings.Contains(upper, bad) {
			return ValidationError{Field: "username", Message: "username contains inappropriate language"}
		}
	}

	digits := 0
	for _, r := range username {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits > maxUsernameDigits {
		return ValidationError{Field: "username", Message: "too many digits in username"}
	}

	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidatePlayerName checks the guest display name entered before a session.
func ValidatePlayerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	return nil
}
