package table

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize derives a display label from a column key: underscores become
// spaces, then words are capitalized according to style. It is total; an
// empty key yields an empty label.
func Humanize(key string, style LabelStyle) string {
	spaced := strings.ReplaceAll(key, "_", " ")
	if style == LabelSentence {
		r, size := utf8.DecodeRuneInString(spaced)
		if r == utf8.RuneError {
			return spaced
		}
		return string(unicode.ToUpper(r)) + spaced[size:]
	}
	// A Caser is stateful, so each call gets its own.
	return cases.Title(language.Und, cases.NoLower).String(spaced)
}

// Label returns the header label for key: a non-empty override from headers,
// otherwise the humanized key.
func Label(key string, headers map[string]string, style LabelStyle) string {
	if h, ok := headers[key]; ok && h != "" {
		return h
	}
	return Humanize(key, style)
}
