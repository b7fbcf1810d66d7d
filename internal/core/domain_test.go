package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-11-01 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2025-11-01" {
		t.Fatalf("got %s", d)
	}
	if _, err := ParseDate("01/11/2025"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if (Date{}).String() != "" {
		t.Fatalf("zero date should render empty")
	}
}

func TestMonthBounds(t *testing.T) {
	r := NewDate(2024, 2, 17).MonthBounds()
	if r.From.String() != "2024-02-01" || r.To.String() != "2024-02-29" {
		t.Fatalf("got %s..%s", r.From, r.To)
	}
}

func validTransaction() Transaction {
	return Transaction{
		BankAccountID: 1,
		Description:   "Mercado",
		Type:          TypePix,
		Amount:        Money{Cents: -1050},
		Date:          NewDate(2025, 11, 1),
		Status:        StatusConfirmed,
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	byCard := validTransaction()
	byCard.BankAccountID = 0
	byCard.CreditCardID = 3
	byCard.Type = TypeCreditCard
	if err := byCard.Validate(); err != nil {
		t.Fatalf("credit card transaction: expected ok, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"no source", func(tx *Transaction) { tx.BankAccountID = 0 }, ErrMissingSource},
		{"blank description", func(tx *Transaction) { tx.Description = "  " }, ErrEmptyDescription},
		{"long description", func(tx *Transaction) { tx.Description = strings.Repeat("a", 256) }, ErrDescriptionTooLong},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"bad type", func(tx *Transaction) { tx.Type = "BOLETO" }, ErrInvalidType},
		{"bad status", func(tx *Transaction) { tx.Status = "" }, ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDateRange(t *testing.T) {
	r := DateRange{From: NewDate(2025, 1, 1), To: NewDate(2025, 1, 31)}
	if !r.Contains(NewDate(2025, 1, 1)) || !r.Contains(NewDate(2025, 1, 31)) {
		t.Fatal("bounds should be inclusive")
	}
	if r.Contains(NewDate(2025, 2, 1)) {
		t.Fatal("date after range should not match")
	}
	if !(DateRange{}).Contains(NewDate(1999, 1, 1)) {
		t.Fatal("open range should match everything")
	}
	bad := DateRange{From: NewDate(2025, 2, 1), To: NewDate(2025, 1, 1)}
	if !errors.Is(bad.Validate(), ErrInvalidRange) {
		t.Fatal("expected ErrInvalidRange")
	}
}

func TestTransactionRecordOrder(t *testing.T) {
	tx := validTransaction()
	tx.ID = 9
	tx.BankAccountName = "Nubank"
	tx.CategoryName = "Food"

	rec := tx.Record()
	want := []string{"id", "date", "description", "category", "source", "type", "status", "amount"}
	got := rec.Keys()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	if rec.Value("source") != "Nubank" {
		t.Fatalf("source = %v", rec.Value("source"))
	}

	ds := Records([]Transaction{tx, tx})
	if len(ds) != 2 || ds[1].Value("id") != int64(9) {
		t.Fatalf("Records() = %v", ds)
	}
}

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		{Amount: Money{Cents: 10000}, Status: StatusConfirmed},
		{Amount: Money{Cents: -2500}, Status: StatusPlanned},
		{Amount: Money{Cents: -9999}, Status: StatusCancelled},
	}
	s := Summarize(DateRange{}, txs)
	if s.Income.Cents != 10000 || s.Expense.Cents != -2500 || s.Total.Cents != 7500 || s.Count != 3 {
		t.Fatalf("unexpected summary %+v", s)
	}
}
