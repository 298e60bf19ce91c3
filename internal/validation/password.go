package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MinUsernameLength = 3
	MaxUsernameLength = 150
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "12345678": {}, "123456789": {},
	"qwertyuiop": {}, "iloveyou": {}, "sunshine": {}, "football": {},
}

// ValidatePassword checks length, rejects all-digit and very common passwords,
// and requires at least one letter.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return errors.New("password must be at least 8 characters long")
	}
	if n > MaxPasswordLength {
		return errors.New("password must not exceed 128 characters")
	}
	if _, common := commonPasswords[strings.ToLower(password)]; common {
		return errors.New("password is too common")
	}

	hasLetter, allDigits := false, true
	for _, r := range password {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if !unicode.IsDigit(r) {
			allDigits = false
		}
	}
	if allDigits {
		return errors.New("password cannot be entirely numeric")
	}
	if !hasLetter {
		return errors.New("password must contain at least one letter")
	}
	return nil
}

// ValidateUsername allows letters, digits and . @ + - _ up to 150 characters.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return errors.New("username must be at least 3 characters long")
	}
	if len(username) > MaxUsernameLength {
		return errors.New("username must not exceed 150 characters")
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("username can only contain letters, numbers, and . @ + - _")
	}
	return nil
}

// ValidateEmail checks format and the 254 character limit.
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return errors.New("email must not exceed 254 characters")
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return errors.New("invalid email format")
	}
	return nil
}
