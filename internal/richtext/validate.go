// Package richtext implements the diary text model: length rules, inline
// decoration markup, emoji and kaomoji classification, and :shortcode:
// expansion.
//
// Every function here is total. Malformed input never produces an error or a
// panic; it yields false, 0, or the unchanged string.
//
// LENGTH ACCOUNTING:
// All lengths are counted in Unicode code points, not bytes. "日記" is two
// characters even though it is six bytes of UTF-8.
package richtext

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLength is the longest diary text accepted, in code points.
const MaxLength = 140

// tagPattern matches any <...> span. It is a naive strip, not an HTML parser:
// nesting is ignored and an unmatched '<' is left in place.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// IsValid reports whether text is acceptable as a diary entry under the
// default MaxLength.
func IsValid(text string) bool {
	return IsValidWithin(text, MaxLength)
}

// IsValidWithin reports whether the trimmed text has between 1 and maxLength
// code points. Markup counts toward the limit: "<b>hi</b>" is nine characters.
func IsValidWithin(text string, maxLength int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	return n > 0 && n <= maxLength
}

// ActualLength returns the code point count of text after removing every
// <...> tag span.
func ActualLength(text string) int {
	return utf8.RuneCountInString(StripTags(text))
}

// StripTags removes every <...> span from text.
func StripTags(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}

// IsDecoratedValid is the markup-aware variant of IsValidWithin: the limit is
// checked against ActualLength instead of the raw length. The API does not
// enforce it; it is reported alongside the raw rule by the preview endpoint.
func IsDecoratedValid(text string, maxLength int) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return ActualLength(trimmed) <= maxLength
}

// HasDecorations reports whether text contains any tag-like span.
func HasDecorations(text string) bool {
	return tagPattern.MatchString(text)
}
