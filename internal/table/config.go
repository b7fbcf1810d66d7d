// Package table turns an arbitrary sequence of heterogeneous records plus a
// declarative configuration into a header/body structure: resolved columns,
// header labels, formatted cells, row identities and row interaction.
//
// Rendering is a pure function of (Config, DataSet). The only state a
// Renderer keeps is a cache of resolved column lists, which never changes
// the output.
package table

import (
	"cashflow/internal/i18n"
)

// InferMode selects how columns are discovered when none are configured.
type InferMode string

const (
	// InferFirst takes the keys of the first record only.
	InferFirst InferMode = "first"
	// InferUnion merges the keys of every record in first-seen order.
	InferUnion InferMode = "union"
)

// IsValid returns true if the mode is known.
func (m InferMode) IsValid() bool {
	switch m {
	case InferFirst, InferUnion:
		return true
	default:
		return false
	}
}

// LabelStyle selects the fallback humanization of column keys.
type LabelStyle string

const (
	// LabelTitle capitalizes every word: "bank_account" -> "Bank Account".
	LabelTitle LabelStyle = "title"
	// LabelSentence capitalizes the first word only: "bank_account" -> "Bank account".
	LabelSentence LabelStyle = "sentence"
)

// Formatter maps a raw cell value to a renderable value.
// Its result is used verbatim.
type Formatter interface {
	Format(raw any, row *Record) any
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(raw any, row *Record) any

// Format implements Formatter.
func (f FormatterFunc) Format(raw any, row *Record) any { return f(raw, row) }

// RowKeyer assigns an identity to a row.
type RowKeyer interface {
	RowKey(row *Record, index int) any
}

// RowKeyFunc adapts a function to RowKeyer.
type RowKeyFunc func(row *Record, index int) any

// RowKey implements RowKeyer.
func (f RowKeyFunc) RowKey(row *Record, index int) any { return f(row, index) }

// RowClassifier returns extra presentation classes for a row.
type RowClassifier interface {
	RowClass(row *Record) string
}

// RowClassFunc adapts a function to RowClassifier.
type RowClassFunc func(row *Record) string

// RowClass implements RowClassifier.
func (f RowClassFunc) RowClass(row *Record) string { return f(row) }

// ClickHandler receives the raw record of a clicked row.
type ClickHandler interface {
	OnRowClick(row *Record)
}

// ClickFunc adapts a function to ClickHandler.
type ClickFunc func(row *Record)

// OnRowClick implements ClickHandler.
func (f ClickFunc) OnRowClick(row *Record) { f(row) }

// Hints are presentation flags passed through to the embedding layer.
// They have no structural effect.
type Hints struct {
	Dense        bool `json:"dense"`
	Zebra        bool `json:"zebra"`
	Hover        bool `json:"hover"`
	StickyHeader bool `json:"sticky_header"`
}

// DefaultHints matches the look of the dashboard tables.
func DefaultHints() Hints {
	return Hints{Zebra: true, Hover: true, StickyHeader: true}
}

// Config is supplied once per render call and must not be mutated during it.
type Config struct {
	Columns     []string
	ExcludeKeys []string
	Headers     map[string]string
	Formatters  map[string]Formatter
	EmptyText   string
	Loading     bool
	Hints       Hints

	RowKey       RowKeyer
	OnRowClick   ClickHandler
	RowClassName RowClassifier

	// InferFrom defaults to InferFirst when empty.
	InferFrom InferMode
	// LabelStyle defaults to LabelTitle when empty.
	LabelStyle LabelStyle
	// Locale defaults to i18n.Default when zero.
	Locale i18n.Locale
}

// DefaultConfig returns a configuration with the dashboard defaults.
func DefaultConfig() Config {
	return Config{
		Hints:      DefaultHints(),
		InferFrom:  InferFirst,
		LabelStyle: LabelTitle,
		Locale:     i18n.Default,
	}
}

func (c Config) locale() i18n.Locale {
	if c.Locale.IsZero() {
		return i18n.Default
	}
	return c.Locale
}

func (c Config) inferMode() InferMode {
	if c.InferFrom.IsValid() {
		return c.InferFrom
	}
	return InferFirst
}

func (c Config) emptyText() string {
	if c.EmptyText != "" {
		return c.EmptyText
	}
	return c.locale().EmptyText
}
