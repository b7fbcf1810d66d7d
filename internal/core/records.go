package core

import "cashflow/internal/table"

// Record field order is part of the contract with the table renderer: when
// no columns are configured, a table shows the fields in this order.

// Record converts the transaction into a table record.
func (t Transaction) Record() *table.Record {
	return table.RecordOf(
		"id", t.ID,
		"date", t.Date,
		"description", t.Description,
		"category", t.CategoryName,
		"source", t.Source(),
		"type", string(t.Type),
		"status", string(t.Status),
		"amount", t.Amount,
	)
}

func (a BankAccount) Record() *table.Record {
	return table.RecordOf(
		"id", a.ID,
		"name", a.Name,
		"bank_name", a.BankName,
		"balance_initial", a.InitialBalance,
		"currency", a.Currency,
	)
}

func (c CreditCard) Record() *table.Record {
	return table.RecordOf(
		"id", c.ID,
		"name", c.Name,
		"limit", c.Limit,
		"closing_day", c.ClosingDay,
		"due_day", c.DueDay,
	)
}

func (c Category) Record() *table.Record {
	return table.RecordOf(
		"id", c.ID,
		"name", c.Name,
		"type", string(c.Type),
	)
}

func (a AccountBalance) Record() *table.Record {
	return table.RecordOf(
		"id", a.ID,
		"name", a.Name,
		"bank_name", a.BankName,
		"currency", a.Currency,
		"balance", a.Balance,
	)
}

// Recorder is anything that can be shown as a table row.
type Recorder interface {
	Record() *table.Record
}

// Records converts a slice of domain values into a data set, preserving order.
func Records[T Recorder](items []T) table.DataSet {
	out := make(table.DataSet, len(items))
	for i, item := range items {
		out[i] = item.Record()
	}
	return out
}
