package core

// AccountBalance is a bank account with its current balance:
// the initial balance plus the sum of its non-cancelled transactions.
type AccountBalance struct {
	ID       int64
	Name     string
	BankName string
	Currency string
	Balance  Money
}

// PeriodSummary aggregates the transactions of a date range.
type PeriodSummary struct {
	Range   DateRange
	Income  Money
	Expense Money
	Total   Money
	Count   int
}

// Summarize folds transactions into a PeriodSummary. Cancelled
// transactions are counted but do not move money.
func Summarize(r DateRange, txs []Transaction) PeriodSummary {
	s := PeriodSummary{Range: r, Count: len(txs)}
	for _, tx := range txs {
		if tx.Status == StatusCancelled {
			continue
		}
		if tx.IsIncome() {
			s.Income = s.Income.Add(tx.Amount)
		} else {
			s.Expense = s.Expense.Add(tx.Amount)
		}
		s.Total = s.Total.Add(tx.Amount)
	}
	return s
}

// TotalBalance sums the balances of several accounts.
func TotalBalance(accounts []AccountBalance) Money {
	var total Money
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}
