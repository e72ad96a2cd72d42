// Package textnorm folds free text into comparable keys: trimmed, without
// diacritics and in a fixed case.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics removes combining marks, so "Bogotá" becomes "Bogota" and
// "año" becomes "ano".
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lower-cases, trims and strips diacritics. Inner whitespace runs are
// collapsed to one space.
func Fold(s string) string {
	s = StripDiacritics(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(strings.Fields(s), " ")
}

// Title trims and title-cases using Spanish casing rules.
func Title(s string) string {
	return cases.Title(language.Spanish).String(strings.TrimSpace(s))
}

// ContainsAny reports the first keyword found in the folded haystack.
// Keywords are folded too.
func ContainsAny(haystack string, keywords []string) (string, bool) {
	h := Fold(haystack)
	for _, kw := range keywords {
		if strings.Contains(h, Fold(kw)) {
			return kw, true
		}
	}
	return "", false
}
