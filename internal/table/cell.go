package table

import (
	"encoding/json"
	"fmt"
	"reflect"

	"cashflow/internal/i18n"
)

// Cell is one formatted value of a populated row.
type Cell struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value any    `json:"value"`
}

// FormatCell renders the value of one column for one row. A formatter
// registered for key is authoritative and its result is used verbatim;
// anything it panics with reaches the caller. Without a formatter the
// default rule applies.
func FormatCell(key string, raw any, row *Record, formatters map[string]Formatter, loc i18n.Locale) any {
	if f, ok := formatters[key]; ok && f != nil {
		return f.Format(raw, row)
	}
	return DefaultValue(raw, loc)
}

// DefaultValue is the total fallback rendering: nil becomes the empty string,
// booleans become the locale's yes/no token and anything else its string form.
func DefaultValue(raw any, loc i18n.Locale) string {
	if isNil(raw) {
		return ""
	}
	switch v := raw.(type) {
	case bool:
		if loc.IsZero() {
			loc = i18n.Default
		}
		return loc.Bool(v)
	case string:
		return v
	case json.Number:
		return v.String()
	case *Record:
		b, err := v.MarshalJSON()
		if err != nil {
			return fmt.Sprint(v.values)
		}
		return string(b)
	default:
		// fmt recovers from panicking String/Error methods.
		return fmt.Sprint(v)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
