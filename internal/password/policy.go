package password

import (
	"unicode"

	"github.com/dtroode/accounts-server/internal/apierrors"
)

const (
	minLength = 8
	maxLength = 64
)

// ValidatePolicy enforces the password strength policy: 8 to 64
// characters with at least one lowercase letter, one uppercase letter,
// one digit and one special character.
func ValidatePolicy(password string) error {
	runes := []rune(password)
	if len(runes) < minLength || len(runes) > maxLength {
		return apierrors.NewErrWeakPassword("password must be between 8 and 64 characters")
	}

	var lower, upper, digit, special bool
	for _, r := range runes {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}

	if !lower || !upper || !digit || !special {
		return apierrors.NewErrWeakPassword(
			"password must contain at least one lowercase letter, one uppercase letter, one digit and one special character")
	}

	return nil
}
