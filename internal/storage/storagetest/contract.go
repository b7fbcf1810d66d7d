// Package storagetest holds the behaviour every storage.Repository must show.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"cashflow/internal/core"
	"cashflow/internal/storage"
)

// Run exercises repo; newRepo must return an empty repository.
func Run(t *testing.T, newRepo func(t *testing.T) storage.Repository) {
	t.Helper()
	ctx := context.Background()

	seed := func(t *testing.T, repo storage.Repository) (core.BankAccount, core.CreditCard, core.Category) {
		t.Helper()
		acc, err := repo.CreateBankAccount(ctx, core.BankAccount{Name: "Nubank", BankName: "Nu", InitialBalance: core.Money{Cents: 100000}, Currency: "brl"})
		if err != nil {
			t.Fatalf("CreateBankAccount: %v", err)
		}
		card, err := repo.CreateCreditCard(ctx, core.CreditCard{Name: "Visa", Limit: core.Money{Cents: 500000}, ClosingDay: 5, DueDay: 12, BankAccountID: acc.ID})
		if err != nil {
			t.Fatalf("CreateCreditCard: %v", err)
		}
		cat, err := repo.CreateCategory(ctx, core.Category{Name: "Food", Type: core.CategoryExpense})
		if err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}
		return acc, card, cat
	}

	t.Run("create and get transaction", func(t *testing.T) {
		repo := newRepo(t)
		acc, _, cat := seed(t, repo)
		created, err := repo.CreateTransaction(ctx, core.Transaction{
			BankAccountID: acc.ID, CategoryID: cat.ID, Description: " Mercado ",
			Type: core.TypePix, Amount: core.Money{Cents: -2550}, Date: core.NewDate(2025, 11, 1), Status: core.StatusConfirmed,
		})
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
		if created.ID == 0 || created.Description != "Mercado" {
			t.Fatalf("unexpected created transaction %+v", created)
		}
		got, err := repo.GetTransaction(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetTransaction: %v", err)
		}
		if got.BankAccountName != "Nubank" || got.CategoryName != "Food" || got.Amount.Cents != -2550 {
			t.Fatalf("unexpected transaction %+v", got)
		}
		if got.Date.String() != "2025-11-01" {
			t.Fatalf("date = %s", got.Date)
		}
	})

	t.Run("get missing transaction", func(t *testing.T) {
		repo := newRepo(t)
		if _, err := repo.GetTransaction(ctx, 999); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("invalid transaction rejected", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.CreateTransaction(ctx, core.Transaction{Description: "x", Type: core.TypeCash, Amount: core.Money{Cents: 1}, Date: core.NewDate(2025, 1, 1), Status: core.StatusPlanned})
		if !errors.Is(err, core.ErrMissingSource) {
			t.Fatalf("expected ErrMissingSource, got %v", err)
		}
	})

	t.Run("list in range newest first", func(t *testing.T) {
		repo := newRepo(t)
		acc, _, _ := seed(t, repo)
		var ids []int64
		for _, d := range []core.Date{core.NewDate(2025, 10, 31), core.NewDate(2025, 11, 2), core.NewDate(2025, 11, 2), core.NewDate(2025, 12, 1)} {
			tx, err := repo.CreateTransaction(ctx, core.Transaction{
				BankAccountID: acc.ID, Description: "t", Type: core.TypeCash, Amount: core.Money{Cents: 100}, Date: d, Status: core.StatusPlanned,
			})
			if err != nil {
				t.Fatalf("CreateTransaction: %v", err)
			}
			ids = append(ids, tx.ID)
		}
		got, err := repo.ListTransactions(ctx, core.DateRange{From: core.NewDate(2025, 11, 1), To: core.NewDate(2025, 11, 30)})
		if err != nil {
			t.Fatalf("ListTransactions: %v", err)
		}
		if len(got) != 2 || got[0].ID != ids[2] || got[1].ID != ids[1] {
			t.Fatalf("unexpected order/selection: %+v", got)
		}
		all, err := repo.ListTransactions(ctx, core.DateRange{})
		if err != nil || len(all) != 4 || all[0].ID != ids[3] {
			t.Fatalf("open range: %v, %+v", err, all)
		}
	})

	t.Run("credit card transactions by month", func(t *testing.T) {
		repo := newRepo(t)
		acc, card, _ := seed(t, repo)
		for _, tx := range []core.Transaction{
			{CreditCardID: card.ID, Description: "a", Type: core.TypeCreditCard, Amount: core.Money{Cents: -100}, Date: core.NewDate(2025, 11, 3), Status: core.StatusConfirmed},
			{CreditCardID: card.ID, Description: "b", Type: core.TypeCreditCard, Amount: core.Money{Cents: -200}, Date: core.NewDate(2025, 12, 3), Status: core.StatusConfirmed},
			{BankAccountID: acc.ID, Description: "c", Type: core.TypePix, Amount: core.Money{Cents: -300}, Date: core.NewDate(2025, 11, 3), Status: core.StatusConfirmed},
		} {
			if _, err := repo.CreateTransaction(ctx, tx); err != nil {
				t.Fatalf("CreateTransaction: %v", err)
			}
		}
		got, err := repo.ListCreditCardTransactions(ctx, card.ID, core.NewDate(2025, 11, 20))
		if err != nil {
			t.Fatalf("ListCreditCardTransactions: %v", err)
		}
		if len(got) != 1 || got[0].Description != "a" || got[0].CreditCardName != "Visa" {
			t.Fatalf("unexpected result %+v", got)
		}
		all, err := repo.ListCreditCardTransactions(ctx, 0, core.Date{})
		if err != nil || len(all) != 2 {
			t.Fatalf("all cards: %v, %+v", err, all)
		}
	})

	t.Run("delete transactions", func(t *testing.T) {
		repo := newRepo(t)
		acc, _, _ := seed(t, repo)
		tx, err := repo.CreateTransaction(ctx, core.Transaction{BankAccountID: acc.ID, Description: "x", Type: core.TypeCash, Amount: core.Money{Cents: 5}, Date: core.NewDate(2025, 1, 1), Status: core.StatusPlanned})
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
		n, err := repo.DeleteTransactions(ctx, []int64{tx.ID, 12345})
		if err != nil || n != 1 {
			t.Fatalf("DeleteTransactions = %d, %v", n, err)
		}
		if n, _ := repo.DeleteTransactions(ctx, nil); n != 0 {
			t.Fatalf("empty delete = %d", n)
		}
	})

	t.Run("catalog get or create by name", func(t *testing.T) {
		repo := newRepo(t)
		a, err := repo.CreateCategory(ctx, core.Category{Name: "Salary", Type: core.CategoryIncome})
		if err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}
		b, err := repo.CreateCategory(ctx, core.Category{Name: "salary", Type: core.CategoryIncome})
		if err != nil || b.ID != a.ID {
			t.Fatalf("second create returned %+v, %v", b, err)
		}
		if _, err := repo.CreateCategory(ctx, core.Category{Name: "Bills", Type: core.CategoryExpense}); err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}
		cats, err := repo.ListCategories(ctx)
		if err != nil || len(cats) != 2 || cats[0].Name != "Bills" {
			t.Fatalf("ListCategories = %+v, %v", cats, err)
		}
	})

	t.Run("account balances", func(t *testing.T) {
		repo := newRepo(t)
		acc, _, _ := seed(t, repo)
		for _, tx := range []core.Transaction{
			{BankAccountID: acc.ID, Description: "in", Type: core.TypePix, Amount: core.Money{Cents: 5000}, Date: core.NewDate(2025, 1, 1), Status: core.StatusConfirmed},
			{BankAccountID: acc.ID, Description: "out", Type: core.TypePix, Amount: core.Money{Cents: -2000}, Date: core.NewDate(2025, 1, 2), Status: core.StatusPlanned},
			{BankAccountID: acc.ID, Description: "void", Type: core.TypePix, Amount: core.Money{Cents: -9999}, Date: core.NewDate(2025, 1, 3), Status: core.StatusCancelled},
		} {
			if _, err := repo.CreateTransaction(ctx, tx); err != nil {
				t.Fatalf("CreateTransaction: %v", err)
			}
		}
		balances, err := repo.ListAccountBalances(ctx)
		if err != nil {
			t.Fatalf("ListAccountBalances: %v", err)
		}
		if len(balances) != 1 || balances[0].Balance.Cents != 103000 || balances[0].Currency != "BRL" {
			t.Fatalf("unexpected balances %+v", balances)
		}
	})
}
