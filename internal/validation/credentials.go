// Package validation holds input format rules shared by signup and group
// management.
package validation

import (
	"fmt"
	"regexp"
	"unicode"
)

const (
	minPasswordLen = 12
	maxPasswordLen = 128
	minUsernameLen = 3
	maxUsernameLen = 30
	maxEmailLen    = 254
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9_-]*[a-zA-Z0-9])?$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[a-zA-Z0-9]+$`)
)

// ValidatePassword enforces the password policy: 12-128 characters with at
// least one upper-case letter, one lower-case letter, one digit and one
// symbol. Non-ASCII letters count toward the letter classes.
func ValidatePassword(password string) error {
	runes := []rune(password)
	if len(runes) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if len(runes) > maxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLen)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return fmt.Errorf("password must contain upper and lower case letters, a digit and a symbol")
	}
	return nil
}

// ValidateUsername enforces the username format: 3-30 characters of letters,
// digits, underscores and hyphens, starting and ending with a letter or
// digit.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLen {
		return fmt.Errorf("username must be at least %d characters", minUsernameLen)
	}
	if len(username) > maxUsernameLen {
		return fmt.Errorf("username must be at most %d characters", maxUsernameLen)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits, underscores and hyphens, and must start and end with a letter or digit")
	}
	return nil
}

// ValidateEmail performs a shallow syntactic check; deliverability is not
// our problem.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLen {
		return fmt.Errorf("email must be at most %d characters", maxEmailLen)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}
