package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of a Date.
const DateLayout = "2006-01-02"

const MaxDescriptionLength = 255

type (
	TransactionType   string
	TransactionStatus string
	CategoryType      string
)

const (
	TypePix        TransactionType = "PIX"
	TypeCash       TransactionType = "CASH"
	TypeCreditCard TransactionType = "CREDITCARD"
)

const (
	StatusPlanned   TransactionStatus = "PLANNED"
	StatusConfirmed TransactionStatus = "CONFIRMED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

const (
	CategoryIncome  CategoryType = "INCOME"
	CategoryExpense CategoryType = "EXPENSE"
)

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID            int64
		BankAccountID int64 // 0 when paid by credit card
		CreditCardID  int64 // 0 when paid from a bank account
		CategoryID    int64
		Description   string
		Type          TransactionType
		Amount        Money // negative for expenses
		Date          Date
		Status        TransactionStatus

		// Denormalized names, filled in by list queries.
		BankAccountName string
		CreditCardName  string
		CategoryName    string
	}

	BankAccount struct {
		ID             int64
		Name           string
		BankName       string
		InitialBalance Money
		Currency       string
	}

	CreditCard struct {
		ID            int64
		Name          string
		Limit         Money
		ClosingDay    int
		DueDay        int
		BankAccountID int64
	}

	Category struct {
		ID   int64
		Name string
		Type CategoryType
	}

	// DateRange is an inclusive filter; a zero bound leaves that side open.
	DateRange struct {
		From Date
		To   Date
	}
)

var (
	ErrInvalidDay         = errors.New("invalid day")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = fmt.Errorf("description too long (max %d characters)", MaxDescriptionLength)
	ErrMissingSource      = errors.New("bank account or credit card is required")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidStatus      = errors.New("invalid transaction status")
	ErrInvalidCategory    = errors.New("invalid category type")
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidRange       = errors.New("date range ends before it starts")
	ErrNotFound           = errors.New("not found")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// String returns the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthBounds returns the first and last day of the date's month.
func (d Date) MonthBounds() DateRange {
	first := NewDate(d.Year(), int(d.Month()), 1)
	last := Date{Time: first.AddDate(0, 1, -1)}
	return DateRange{From: first, To: last}
}

func (v TransactionType) IsValid() bool {
	switch v {
	case TypePix, TypeCash, TypeCreditCard:
		return true
	default:
		return false
	}
}

func (v TransactionStatus) IsValid() bool {
	switch v {
	case StatusPlanned, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

func (v CategoryType) IsValid() bool {
	return v == CategoryIncome || v == CategoryExpense
}

func (t Transaction) Validate() error {
	if t.BankAccountID == 0 && t.CreditCardID == 0 {
		return ErrMissingSource
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	desc := strings.TrimSpace(t.Description)
	if desc == "" {
		return ErrEmptyDescription
	}
	if len([]rune(desc)) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if t.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	return nil
}

// IsIncome reports whether the transaction adds money.
func (t Transaction) IsIncome() bool { return t.Amount.Cents > 0 }

// Source returns the name of the account or card the transaction belongs to.
func (t Transaction) Source() string {
	if t.CreditCardName != "" {
		return t.CreditCardName
	}
	return t.BankAccountName
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, c.Type)
	}
	return nil
}

func (a BankAccount) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if len(a.Currency) != 3 {
		return fmt.Errorf("invalid currency %q", a.Currency)
	}
	return nil
}

func (c CreditCard) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 || c.DueDay < 1 || c.DueDay > 31 {
		return ErrInvalidDay
	}
	return nil
}

func (r DateRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From.Time) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether d falls inside the range, bounds included.
func (r DateRange) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From.Time) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To.Time) {
		return false
	}
	return true
}
