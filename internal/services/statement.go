package services

import (
	"time"

	"cashflow/internal/core"
)

// Statement is the billing cycle of a credit card that a purchase belongs to.
type Statement struct {
	Closing core.Date
	Due     core.Date
}

// StatementFor returns the statement that a purchase on day lands on.
// Purchases after the closing day roll over to the next cycle. Days beyond
// the end of a short month are clamped to its last day.
func StatementFor(card core.CreditCard, day core.Date) Statement {
	closing := clampDay(day.Year(), day.Month(), card.ClosingDay)
	if day.After(closing) {
		next := day.AddDate(0, 0, -day.Day()+1).AddDate(0, 1, 0)
		closing = clampDay(next.Year(), next.Month(), card.ClosingDay)
	}

	due := clampDay(closing.Year(), closing.Month(), card.DueDay)
	if card.DueDay <= card.ClosingDay {
		next := closing.AddDate(0, 0, -closing.Day()+1).AddDate(0, 1, 0)
		due = clampDay(next.Year(), next.Month(), card.DueDay)
	}
	return Statement{Closing: core.Date{Time: closing}, Due: core.Date{Time: due}}
}

func clampDay(year int, month time.Month, day int) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
