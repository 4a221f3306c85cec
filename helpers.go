package workflow

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first rune of s and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Pluralize returns singular when count is 1 and plural otherwise.
// An empty plural defaults to singular + "s".
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	if plural == "" {
		return singular + "s"
	}
	return plural
}
