// Package policy holds the credential rules applied to registration input.
// Every function is pure and safe for concurrent use.
package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
)

// PasswordSymbols is the punctuation set a strong password must draw from.
const PasswordSymbols = "!@#$%^&*"

const minPasswordLength = 8

var (
	identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	emailPattern      = regexp.MustCompile(`^\w+(\.\w+)*@\w+(\.\w+)+$`)
)

// IdentifierValid reports whether s starts with a lowercase letter followed
// only by lowercase letters, digits or underscores.
func IdentifierValid(s string) bool {
	return identifierPattern.MatchString(s)
}

// ContainsWhitespace reports whether s contains any whitespace rune.
func ContainsWhitespace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

// PasswordStrong reports whether s is at least eight characters long, mixes
// lowercase, uppercase, digits and PasswordSymbols, and uses nothing else.
func PasswordStrong(s string) bool {
	if len(s) < minPasswordLength {
		return false
	}
	var lower, upper, digit, symbol bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.IndexByte(PasswordSymbols, c) >= 0:
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}

// EmailValid reports whether s looks like local@domain.tld.
func EmailValid(s string) bool {
	return emailPattern.MatchString(s)
}

// HashPassword returns the lowercase hex SHA-256 digest of password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
