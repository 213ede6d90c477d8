// Package strutil holds small text-cleanup helpers shared by the kb,
// zones, and collect stages.
package strutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperCaser = cases.Upper(language.Und)

// Upper performs Unicode-correct upper-casing (zone heading detection,
// KB normalization).
func Upper(s string) string {
	return upperCaser.String(s)
}

// IsAllDigits reports whether str is non-empty and every rune is a digit.
func IsAllDigits(str string) bool {
	if str == "" {
		return false
	}
	for _, ch := range str {
		if !unicode.IsDigit(ch) {
			return false
		}
	}
	return true
}

// IsAllDigitsOrDash reports whether str consists only of digits and hyphens,
// used by the zone classifier's PageNumber check.
func IsAllDigitsOrDash(str string) bool {
	if str == "" {
		return false
	}
	for _, ch := range str {
		if !unicode.IsDigit(ch) && ch != '-' {
			return false
		}
	}
	return true
}

// IsAllAlnum reports whether str consists only of letters and digits.
func IsAllAlnum(str string) bool {
	for _, ch := range str {
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			return false
		}
	}
	return true
}

// CompressRunsOfSpaces collapses runs of whitespace (space, tab, newline)
// into a single space, used before KB and heading comparisons.
func CompressRunsOfSpaces(str string) string {
	whiteSpace := false
	var buffer strings.Builder

	for _, ch := range str {
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			if !whiteSpace {
				buffer.WriteRune(' ')
			}
			whiteSpace = true
		} else {
			buffer.WriteRune(ch)
			whiteSpace = false
		}
	}

	return strings.TrimSpace(buffer.String())
}

// AlnumLower lowercases str and strips every rune that is not a letter or
// digit. Used by Collect's footnote/section de-duplication comparison.
func AlnumLower(str string) string {
	var buffer strings.Builder
	for _, ch := range strings.ToLower(str) {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			buffer.WriteRune(ch)
		}
	}
	return buffer.String()
}

// NormalizeKBKey maps '.', ':', and runs of whitespace/tabs to a single
// space, then upper-cases — the normalization spec.md §4.3 requires for
// journal full-title and abbreviation indices.
func NormalizeKBKey(str string) string {
	var buffer strings.Builder
	whiteSpace := false
	for _, ch := range str {
		switch ch {
		case '.', ':', ' ', '\t', '\n', '\r':
			if !whiteSpace {
				buffer.WriteRune(' ')
			}
			whiteSpace = true
		default:
			buffer.WriteRune(ch)
			whiteSpace = false
		}
	}
	return strings.TrimSpace(Upper(buffer.String()))
}
