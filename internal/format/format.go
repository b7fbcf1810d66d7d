// Package format provides table.Formatter implementations for the values the
// dashboard shows: money, dates and enumerations.
package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"cashflow/internal/i18n"
	"cashflow/internal/table"
)

// amount is implemented by core.Money.
type amount interface {
	Float64() float64
}

// datelike is implemented by core.Date through its embedded time.Time.
type datelike interface {
	IsZero() bool
	Format(layout string) string
}

// Currency formats monetary values with the currency symbol and the
// locale's number conventions, e.g. "R$ 1.234,50" for pt-BR. Values it
// cannot interpret are rendered with the default rule.
type Currency struct {
	unit    currency.Unit
	locale  i18n.Locale
	printer *message.Printer
}

// NewCurrency builds a currency formatter for an ISO 4217 code.
func NewCurrency(code string, loc i18n.Locale) (*Currency, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", code, err)
	}
	if loc.IsZero() {
		loc = i18n.Default
	}
	return &Currency{unit: unit, locale: loc, printer: message.NewPrinter(loc.Tag)}, nil
}

// Format implements table.Formatter.
func (c *Currency) Format(raw any, _ *table.Record) any {
	v, ok := toFloat(raw)
	if !ok {
		return table.DefaultValue(raw, c.locale)
	}
	return c.String(v)
}

// String renders a value given in currency units.
func (c *Currency) String(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	symbol := c.printer.Sprint(currency.NarrowSymbol(c.unit))
	return sign + symbol + " " + c.printer.Sprint(number.Decimal(v, number.Scale(2)))
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case amount:
		return v.Float64(), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Date renders dates with a fixed layout. Strings in YYYY-MM-DD or RFC 3339
// form are parsed first; anything else falls back to the default rule.
type Date struct {
	Layout string
	Locale i18n.Locale
}

// NewDate returns a date formatter using the locale's layout.
func NewDate(loc i18n.Locale) Date {
	if loc.IsZero() {
		loc = i18n.Default
	}
	return Date{Layout: loc.DateLayout, Locale: loc}
}

// Format implements table.Formatter.
func (d Date) Format(raw any, _ *table.Record) any {
	layout := d.Layout
	if layout == "" {
		layout = "2006-01-02"
	}
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(layout)
	case datelike:
		if v.IsZero() {
			return ""
		}
		return v.Format(layout)
	case string:
		for _, in := range []string{"2006-01-02", time.RFC3339} {
			if t, err := time.Parse(in, v); err == nil {
				return t.Format(layout)
			}
		}
	}
	return table.DefaultValue(raw, d.Locale)
}

// Enum maps raw codes to display labels; unknown codes render unchanged.
type Enum map[string]string

// Format implements table.Formatter.
func (e Enum) Format(raw any, _ *table.Record) any {
	code := table.DefaultValue(raw, i18n.Default)
	if label, ok := e[code]; ok {
		return label
	}
	return code
}

// Status returns the transaction status labels for a locale.
func Status(loc i18n.Locale) Enum {
	switch loc.Tag {
	case i18n.English.Tag:
		return Enum{"PLANNED": "Planned", "CONFIRMED": "Confirmed", "CANCELLED": "Cancelled"}
	case i18n.Italian.Tag:
		return Enum{"PLANNED": "Pianificata", "CONFIRMED": "Confermata", "CANCELLED": "Annullata"}
	default:
		return Enum{"PLANNED": "Planejada", "CONFIRMED": "Confirmada", "CANCELLED": "Cancelada"}
	}
}

// TransactionType returns the payment method labels for a locale.
func TransactionType(loc i18n.Locale) Enum {
	switch loc.Tag {
	case i18n.English.Tag:
		return Enum{"PIX": "Pix", "CASH": "Cash", "CREDITCARD": "Credit card"}
	case i18n.Italian.Tag:
		return Enum{"PIX": "Pix", "CASH": "Contanti", "CREDITCARD": "Carta di credito"}
	default:
		return Enum{"PIX": "Pix", "CASH": "Dinheiro", "CREDITCARD": "Cartão de crédito"}
	}
}
