// Package normalize produces the canonical forms used for every
// equality comparison on phone numbers, email addresses and free text.
package normalize

import (
	"strings"
	"unicode"
)

const countryPrefix = "221"

// Phone strips formatting, drops the leading country prefix and keeps the
// last 9 digits. Idempotent.
func Phone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, countryPrefix) {
		digits = digits[len(countryPrefix):]
	}
	if len(digits) > 9 {
		digits = digits[len(digits)-9:]
	}
	return digits
}

// Email canonicalizes an email address for comparison.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Text canonicalizes free text for comparison.
func Text(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
