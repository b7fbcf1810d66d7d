// This file implements utilities for parsing and validating HTTP request
// data: date ranges, ids, and bodies that arrive either as JSON or as
// HTMX form posts.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cashflow/internal/core"
	"cashflow/internal/services"
)

const maxBodyBytes = 1 << 20

var errInvalidID = errors.New("invalid id")

// ParseDateRange reads from/to query parameters. A missing from defaults to
// the first day of the current month and a missing to defaults to today,
// matching the dashboard's initial filter.
func ParseDateRange(query url.Values, now time.Time) (core.DateRange, error) {
	today := core.NewDate(now.Year(), int(now.Month()), now.Day())
	r := core.DateRange{From: today.MonthBounds().From, To: today}

	if v := strings.TrimSpace(query.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.DateRange{}, err
		}
		r.From = d
	}
	if v := strings.TrimSpace(query.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.DateRange{}, err
		}
		r.To = d
	}
	if err := r.Validate(); err != nil {
		return core.DateRange{}, err
	}
	return r, nil
}

// ParseMonth reads the reference date of a card statement from the date
// query parameter. Both YYYY-MM-DD and YYYY-MM are accepted; a missing value
// yields the zero date, meaning every month.
func ParseMonth(query url.Values) (core.Date, error) {
	v := strings.TrimSpace(query.Get("date"))
	if v == "" {
		return core.Date{}, nil
	}
	if t, err := time.Parse("2006-01", v); err == nil {
		return core.Date{Time: t}, nil
	}
	return core.ParseDate(v)
}

// ParseID parses a positive integer id. An empty value yields 0.
func ParseID(v string) (int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, v)
	}
	return id, nil
}

// ParseIDs accepts repeated ids parameters as well as comma separated lists.
func ParseIDs(values []string) ([]int64, error) {
	var ids []int64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := ParseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	// Try JSON first if content looks like JSON
	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// GetRaw returns the raw body bytes.
func (p *RequestBodyParser) GetRaw() []byte {
	return p.body
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// TransactionInput builds a create request from the parsed fields. Field
// names match the JSON API so one parser serves both the form and the API.
func (p *RequestBodyParser) TransactionInput() (services.CreateTransactionInput, error) {
	var f services.CreateTransactionInput
	var err error
	if f.BankAccountID, err = ParseID(p.Get("bank_account_id")); err != nil {
		return f, err
	}
	if f.CreditCardID, err = ParseID(p.Get("credit_card_id")); err != nil {
		return f, err
	}
	if f.CategoryID, err = ParseID(p.Get("category_id")); err != nil {
		return f, err
	}
	f.CategoryName = p.Get("category")
	f.Description = p.Get("description")
	f.Type = core.TransactionType(strings.ToUpper(p.Get("type")))
	f.Status = core.TransactionStatus(strings.ToUpper(p.Get("status")))

	if f.Amount, err = core.ParseAmount(p.Get("amount")); err != nil {
		return f, err
	}
	if v := p.Get("date"); v != "" {
		if f.Date, err = core.ParseDate(v); err != nil {
			return f, err
		}
	}
	// Forms carry the direction separately from an unsigned amount.
	if p.Get("direction") == "expense" && f.Amount.Cents > 0 {
		f.Amount.Cents = -f.Amount.Cents
	}
	return f, nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput drops control characters other than tab.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
