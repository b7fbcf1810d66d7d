// Package storage persists the cash-flow domain in SQLite.
package storage

import (
	"context"

	"cashflow/internal/core"
)

// Ports implemented by every backend.
type (
	TransactionRepository interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		// ListTransactions returns transactions in the range, newest first
		// (date desc, id desc).
		ListTransactions(ctx context.Context, r core.DateRange) ([]core.Transaction, error)
		// ListCreditCardTransactions returns card transactions, optionally
		// restricted to one card (cardID > 0) and to the month of ref.
		ListCreditCardTransactions(ctx context.Context, cardID int64, ref core.Date) ([]core.Transaction, error)
		DeleteTransactions(ctx context.Context, ids []int64) (int, error)
	}

	CatalogRepository interface {
		// CreateCategory returns the existing category with the same name or creates it.
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		ListCategories(ctx context.Context) ([]core.Category, error)
		// CreateBankAccount returns the existing account with the same name or creates it.
		CreateBankAccount(ctx context.Context, a core.BankAccount) (core.BankAccount, error)
		ListBankAccounts(ctx context.Context) ([]core.BankAccount, error)
		// CreateCreditCard returns the existing card with the same name or creates it.
		CreateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error)
		ListCreditCards(ctx context.Context) ([]core.CreditCard, error)
		ListAccountBalances(ctx context.Context) ([]core.AccountBalance, error)
	}

	Repository interface {
		TransactionRepository
		CatalogRepository
		Ping(ctx context.Context) error
		Close() error
	}
)
