// Package normalize holds the text normalizers shared by matching, grouping and export.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	spaceRun    = regexp.MustCompile(`\s+`)
	nonSlugRune = regexp.MustCompile(`[^a-z0-9]+`)
)

// Fold trims, collapses inner whitespace and case-folds s for case-insensitive comparison.
// A Caser is stateful, so a fresh one is used per call.
func Fold(s string) string {
	return cases.Fold().String(CollapseSpaces(s))
}

// CollapseSpaces trims s and replaces every whitespace run with a single space
func CollapseSpaces(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// StripDiacritics removes combining marks, "Pánské" becomes "Panske"
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slug builds a URL-safe identifier: "Pánská trička" becomes "panska-tricka"
func Slug(s string) string {
	slug := strings.ToLower(StripDiacritics(s))
	slug = nonSlugRune.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Key normalizes an attribute key: folded, diacritics removed, spaces as underscores
func Key(s string) string {
	key := StripDiacritics(Fold(s))
	return strings.ReplaceAll(key, " ", "_")
}
