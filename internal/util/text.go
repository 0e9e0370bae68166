package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// ItemSeparator joins multi-valued fields into one stored string.
const ItemSeparator = "; "

var nonASCII = runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
}))

// ToASCII drops every rune outside the ASCII range. Nothing is transliterated.
func ToASCII(s string) string {
	out, _, err := transform.String(nonASCII, s)
	if err != nil {
		return s
	}
	return out
}

// CollapseSpaces reduces runs of spaces to a single space.
func CollapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

// NormalizeText replaces non-breaking spaces and trims.
func NormalizeText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// NormalizeLabel lowercases a section label and strips punctuation so
// "Bar Qualifications:" and "bar qualifications" compare equal.
func NormalizeLabel(s string) string {
	s = strings.ToLower(NormalizeText(s))
	var builder strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && builder.Len() > 0 {
				builder.WriteByte(' ')
			}
			space = false
			builder.WriteRune(r)
		default:
			space = true
		}
	}
	return builder.String()
}

// JoinItems joins items with ItemSeparator.
func JoinItems(items []string) string {
	return strings.Join(items, ItemSeparator)
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
