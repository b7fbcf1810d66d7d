package http

import (
	"strconv"

	"cashflow/internal/core"
	"cashflow/internal/format"
	"cashflow/internal/i18n"
	"cashflow/internal/table"
)

// Row classes used by the dashboard stylesheet.
const (
	classIncome    = "tx-income"
	classExpense   = "tx-expense"
	classTransfer  = "tx-transfer"
	classPlanned   = "row-planned"
	classConfirmed = "row-confirmed"
)

// Tables builds the table configurations of every page for one locale and
// currency. Configurations are rebuilt per request; the renderer memoizes
// what is expensive.
type Tables struct {
	locale i18n.Locale
	text   Texts
	money  *format.Currency
	date   format.Date
	status format.Enum
	kind   format.Enum
	infer  table.InferMode
}

// NewTables validates the currency code and prepares the formatters.
func NewTables(loc i18n.Locale, currencyCode string, infer table.InferMode) (*Tables, error) {
	money, err := format.NewCurrency(currencyCode, loc)
	if err != nil {
		return nil, err
	}
	return &Tables{
		locale: loc,
		text:   TextsFor(loc),
		money:  money,
		date:   format.NewDate(loc),
		status: format.Status(loc),
		kind:   format.TransactionType(loc),
		infer:  infer,
	}, nil
}

func (ts *Tables) base() table.Config {
	cfg := table.DefaultConfig()
	cfg.Locale = ts.locale
	if ts.infer.IsValid() {
		cfg.InferFrom = ts.infer
	}
	return cfg
}

// byID keys rows by their id field so that identities survive filtering.
var byID = table.RowKeyFunc(func(r *table.Record, index int) any {
	if id := r.Value("id"); id != nil {
		return id
	}
	return index
})

// navigable marks rows clickable; the HTML view turns the click into a link.
var navigable = table.ClickFunc(func(*table.Record) {})

// Transactions configures the dashboard table.
func (ts *Tables) Transactions(loading bool) table.Config {
	cfg := ts.base()
	cfg.Columns = []string{"date", "description", "category", "source", "type", "status", "amount"}
	cfg.Headers = ts.text.Columns
	cfg.Formatters = map[string]table.Formatter{
		"date":   ts.date,
		"amount": ts.money,
		"status": ts.status,
		"type":   ts.kind,
	}
	cfg.EmptyText = ts.text.NoTransactions
	cfg.Loading = loading
	cfg.RowKey = byID
	cfg.OnRowClick = navigable
	cfg.RowClassName = table.RowClassFunc(flowClass)
	return cfg
}

// CardTransactions configures the credit card statement table.
func (ts *Tables) CardTransactions() table.Config {
	cfg := ts.base()
	cfg.Columns = []string{"date", "description", "source", "status", "amount"}
	cfg.Headers = ts.text.Columns
	cfg.Formatters = map[string]table.Formatter{
		"date":   ts.date,
		"amount": ts.money,
		"status": ts.status,
	}
	cfg.EmptyText = ts.text.NoTransactions
	cfg.RowKey = byID
	cfg.OnRowClick = navigable
	cfg.RowClassName = table.RowClassFunc(func(r *table.Record) string {
		if r.Value("status") == string(core.StatusPlanned) {
			return classPlanned
		}
		return classConfirmed
	})
	return cfg
}

// Balances configures the accounts summary table. The columns are inferred
// from the records.
func (ts *Tables) Balances() table.Config {
	cfg := ts.base()
	cfg.ExcludeKeys = []string{"id"}
	cfg.Headers = ts.text.Columns
	cfg.Formatters = map[string]table.Formatter{"balance": ts.money}
	cfg.RowKey = byID
	cfg.Hints.Dense = true
	return cfg
}

// Detail configures the two column field/value table of a transaction.
func (ts *Tables) Detail() table.Config {
	cfg := ts.base()
	cfg.Columns = []string{"field", "value"}
	cfg.Headers = map[string]string{"field": ts.text.Field, "value": ts.text.Value}
	cfg.RowKey = table.RowKeyFunc(func(r *table.Record, _ int) any { return r.Value("key") })
	cfg.Hints = table.Hints{Dense: true}
	return cfg
}

// DetailRecords turns one transaction into field/value rows, formatting each
// value with the formatter its column would use.
func (ts *Tables) DetailRecords(tx core.Transaction) table.DataSet {
	rec := tx.Record()
	formatters := ts.Transactions(false).Formatters
	out := make(table.DataSet, 0, rec.Len())
	for _, key := range rec.Keys() {
		raw := rec.Value(key)
		label := table.Label(key, ts.text.Columns, table.LabelTitle)
		value := table.FormatCell(key, raw, rec, formatters, ts.locale)
		out = append(out, table.RecordOf("key", key, "field", label, "value", value))
	}
	return out
}

// TransactionHref links a rendered row to its detail page. Rows identified
// by position are not linked.
func TransactionHref(row table.Row) string {
	if row.IndexIdentity {
		return ""
	}
	key := row.Key()
	if id, err := strconv.ParseInt(key, 10, 64); err != nil || id <= 0 {
		return ""
	}
	return "/transactions/" + key
}

// Money formats an amount for page headings.
func (ts *Tables) Money(m core.Money) string {
	return ts.money.String(m.Float64())
}

func flowClass(r *table.Record) string {
	amount, ok := r.Value("amount").(core.Money)
	switch {
	case !ok:
		return ""
	case amount.Cents > 0:
		return classIncome
	case amount.Cents < 0:
		return classExpense
	default:
		return classTransfer
	}
}
