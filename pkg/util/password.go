package util

import (
	"fmt"
	"unicode"
)

// CheckPasswordStrength validates a secret against minimum length and
// character-class requirements. Classes are lowercase, uppercase, digits,
// and symbols; minClasses of the four must be present.
func CheckPasswordStrength(password string, minLen, minClasses int) error {
	if len(password) < minLen {
		return fmt.Errorf("must be at least %d characters, got %d", minLen, len(password))
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	classes := 0
	for _, present := range []bool{lower, upper, digit, symbol} {
		if present {
			classes++
		}
	}
	if classes < minClasses {
		return fmt.Errorf("must contain at least %d of: lowercase, uppercase, digits, symbols (found %d)", minClasses, classes)
	}
	return nil
}
