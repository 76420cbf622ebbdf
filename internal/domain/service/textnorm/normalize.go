// Package textnorm canonicalizes free-text task lines: whitespace and list
// markers, imperative phrasing, and comparison keys.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// leadingMarker matches one bullet, numbering or checkbox marker at the start
// of an already whitespace-collapsed line.
var leadingMarker = regexp.MustCompile(
	`^(?:[-*+・•●○◯■□▪◆◇]+|\[[ xX✓]?\]|[(（][0-9０-９]{1,3}[)）]|[0-9０-９]{1,3}(?:\. |[．)）、])|[①-⑳])\s*`,
)

const sentencePunct = "。.!！、,;；"

// Normalize collapses every whitespace run (full-width space included) into a
// single space, strips leading list markers and trims the result.
func Normalize(line string) string {
	s := strings.Join(strings.Fields(line), " ")
	for i := 0; i < 4; i++ {
		loc := leadingMarker.FindStringIndex(s)
		if loc == nil || loc[1] == 0 {
			break
		}
		s = strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// HasListMarker reports whether the line starts with a bullet or numbering
// marker followed by some text.
func HasListMarker(line string) bool {
	s := strings.Join(strings.Fields(line), " ")
	loc := leadingMarker.FindStringIndex(s)
	return loc != nil && loc[1] > 0 && strings.TrimSpace(s[loc[1]:]) != ""
}

// TrimSentencePunct removes trailing sentence punctuation.
func TrimSentencePunct(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), sentencePunct)
}

// Key returns the comparison key for a piece of text. Two texts with the same
// key name the same action.
func Key(text string) string {
	s := norm.NFKC.String(Normalize(text))
	s = TrimSentencePunct(s)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// IsInterrogative reports whether the line carries a question mark in either
// script.
func IsInterrogative(line string) bool {
	return strings.ContainsAny(line, "?？")
}

func containsJapanese(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}
