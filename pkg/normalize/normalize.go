// Package normalize canonicalizes free-text fire names for comparison.
// Normalization is pure and idempotent: applying it twice yields the same
// result as applying it once.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Trailing standalone "wfu", "fire", or "wildfire" tokens.
	fireSuffixRe = regexp.MustCompile(`(?i)\s+(wfu|(wild)?fire)$`)

	// Trailing prescribed fire unit suffixes like "UNIT 2", "U2", "UNIT2",
	// including any following number/separator tokens.
	unitSuffixRe = regexp.MustCompile(`(?i)\s+u(nit)?[\s\w\-\\/]*$`)

	// Everything that is not a plain letter or digit.
	nonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9]`)

	titleCaser = cases.Title(language.AmericanEnglish)
)

// Label canonicalizes a raw fire name into an uppercase token string used
// for similarity comparison. An absent or blank label yields "".
func Label(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = fireSuffixRe.ReplaceAllString(s, "")
	s = unitSuffixRe.ReplaceAllString(s, "")
	s = nonAlnumRe.ReplaceAllString(s, "")
	return strings.ToUpper(s)
}

// LabelPtr is Label for optional inputs: nil normalizes to "".
func LabelPtr(raw *string) string {
	if raw == nil {
		return ""
	}
	return Label(*raw)
}

// StripUnitSuffix removes a trailing prescribed fire unit suffix from a
// display name, leaving the rest of the name untouched.
func StripUnitSuffix(name string) string {
	return unitSuffixRe.ReplaceAllString(name, "")
}

// unknownNames are placeholder strings sources use for missing names.
var unknownNames = map[string]struct{}{
	"UNKNOWN": {},
	"UNNAMED": {},
	"UNK":     {},
	"N/A":     {},
}

// ScrubUnknown maps placeholder name strings ("Unknown", "Unnamed", "UNK",
// "N/A") to absence so that downstream grouping never matches on them.
func ScrubUnknown(raw *string) *string {
	if raw == nil {
		return nil
	}
	if _, ok := unknownNames[strings.ToUpper(strings.TrimSpace(*raw))]; ok {
		return nil
	}
	return raw
}

// Title converts a raw incident name into display label casing.
func Title(raw string) string {
	return titleCaser.String(strings.ToLower(raw))
}
