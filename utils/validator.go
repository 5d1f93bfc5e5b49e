// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}

// DigitsOnly strips punctuation from CPF/CNPJ style identifiers.
func DigitsOnly(input string) string {
	var b strings.Builder
	for _, r := range input {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateDocumentNumber checks the digit count for the given kind:
// 11 digits for individuals (CPF), 14 for companies (CNPJ).
func ValidateDocumentNumber(number, kind string) bool {
	digits := DigitsOnly(number)
	switch kind {
	case "individual":
		return len(digits) == 11
	case "company":
		return len(digits) == 14
	default:
		return false
	}
}
