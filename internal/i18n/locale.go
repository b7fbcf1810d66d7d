// Package i18n holds the per-deployment locale settings used when rendering
// tables: boolean tokens, default placeholder texts and the language tag
// handed to number and date formatters.
package i18n

import (
	"golang.org/x/text/language"
)

// Locale is fixed per deployment; it is not configurable per cell.
type Locale struct {
	Tag         language.Tag
	Affirmative string
	Negative    string
	EmptyText   string
	LoadingText string
	DateLayout  string
}

// Default is the deployment locale used when none is configured.
var Default = BrazilianPortuguese

var (
	BrazilianPortuguese = Locale{
		Tag:         language.BrazilianPortuguese,
		Affirmative: "Sim",
		Negative:    "Não",
		EmptyText:   "Nenhum registro encontrado.",
		LoadingText: "Carregando…",
		DateLayout:  "02/01/2006",
	}

	English = Locale{
		Tag:         language.AmericanEnglish,
		Affirmative: "Yes",
		Negative:    "No",
		EmptyText:   "No records found.",
		LoadingText: "Loading…",
		DateLayout:  "01/02/2006",
	}

	Italian = Locale{
		Tag:         language.Italian,
		Affirmative: "Sì",
		Negative:    "No",
		EmptyText:   "Nessun record trovato.",
		LoadingText: "Caricamento…",
		DateLayout:  "02/01/2006",
	}
)

var supported = []Locale{BrazilianPortuguese, English, Italian}

var matcher = language.NewMatcher([]language.Tag{
	BrazilianPortuguese.Tag,
	English.Tag,
	Italian.Tag,
})

// Lookup returns the supported locale closest to the given BCP 47 tag.
// Unparseable or empty tags yield Default.
func Lookup(tag string) Locale {
	if tag == "" {
		return Default
	}
	t, err := language.Parse(tag)
	if err != nil {
		return Default
	}
	_, idx, confidence := matcher.Match(t)
	if confidence == language.No {
		return Default
	}
	return supported[idx]
}

// Bool returns the locale's token for a boolean value.
func (l Locale) Bool(v bool) string {
	if v {
		return l.Affirmative
	}
	return l.Negative
}

// IsZero reports whether the locale was left unset.
func (l Locale) IsZero() bool {
	return l.Affirmative == "" && l.Negative == "" && l.EmptyText == ""
}
