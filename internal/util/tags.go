// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Matches anything that is not an ASCII letter, digit, whitespace or dash.
var autoTagDisallowedRe = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)

var lowerCaser = cases.Lower(language.Und)

// NormalizeTagName converts user input to the canonical stored tag name.
// The name is the identity of a tag, so " Work " and "WORK" both become "work".
//
// Normalization rules:
//  1. Unicode NFC composition, so visually equal names compare equal
//  2. Trim surrounding whitespace
//  3. Lowercase
func NormalizeTagName(input string) string {
	s := norm.NFC.String(input)
	s = strings.TrimSpace(s)
	return lowerCaser.String(s)
}

// CleanAutoTag sanitizes a tag proposed by the language model.
// Tags longer than maxLen runes are rejected outright rather than truncated.
// Returns "" when nothing usable remains.
//
//	"Machine-Learning!!" → "machine-learning"
//	"  Q3 Planning "     → "q3 planning"
//	"日本語"              → ""
func CleanAutoTag(raw string, maxLen int) string {
	if utf8.RuneCountInString(raw) > maxLen {
		return ""
	}
	s := autoTagDisallowedRe.ReplaceAllString(raw, "")
	return strings.ToLower(strings.TrimSpace(s))
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
