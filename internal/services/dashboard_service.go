package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"cashflow/internal/core"
	"cashflow/internal/storage"
)

// CatalogView holds the lists that fill selectors and the catalog API.
type CatalogView struct {
	Categories []core.Category
	Accounts   []core.BankAccount
	Cards      []core.CreditCard
}

// HomeView backs the transactions dashboard.
type HomeView struct {
	CatalogView
	Range        core.DateRange
	Transactions []core.Transaction
	Summary      core.PeriodSummary
}

// CreditCardsView backs the credit card page.
type CreditCardsView struct {
	Cards        []core.CreditCard
	CardID       int64
	Month        core.Date
	Transactions []core.Transaction
	Total        core.Money
	Statement    *Statement
}

// AccountsView backs the accounts page.
type AccountsView struct {
	Balances []core.AccountBalance
	Total    core.Money
}

// DashboardService assembles page data, fetching independent lists
// concurrently.
type DashboardService struct {
	repo storage.Repository
}

func NewDashboardService(repo storage.Repository) *DashboardService {
	return &DashboardService{repo: repo}
}

func (s *DashboardService) Home(ctx context.Context, r core.DateRange) (*HomeView, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	view := &HomeView{Range: r}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := s.repo.ListTransactions(gctx, r)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		view.Transactions = txs
		return nil
	})
	s.fetchCatalog(gctx, g, &view.CatalogView)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view.Summary = core.Summarize(r, view.Transactions)
	return view, nil
}

// Catalog lists categories, bank accounts and credit cards concurrently.
func (s *DashboardService) Catalog(ctx context.Context) (*CatalogView, error) {
	view := &CatalogView{}
	g, gctx := errgroup.WithContext(ctx)
	s.fetchCatalog(gctx, g, view)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *DashboardService) fetchCatalog(ctx context.Context, g *errgroup.Group, view *CatalogView) {
	g.Go(func() error {
		cats, err := s.repo.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		view.Categories = cats
		return nil
	})
	g.Go(func() error {
		accounts, err := s.repo.ListBankAccounts(ctx)
		if err != nil {
			return fmt.Errorf("list bank accounts: %w", err)
		}
		view.Accounts = accounts
		return nil
	})
	g.Go(func() error {
		cards, err := s.repo.ListCreditCards(ctx)
		if err != nil {
			return fmt.Errorf("list credit cards: %w", err)
		}
		view.Cards = cards
		return nil
	})
}

// CreditCards lists card transactions. cardID 0 selects every card and a
// zero month selects every month.
func (s *DashboardService) CreditCards(ctx context.Context, cardID int64, month core.Date) (*CreditCardsView, error) {
	view := &CreditCardsView{CardID: cardID, Month: month}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cards, err := s.repo.ListCreditCards(gctx)
		if err != nil {
			return fmt.Errorf("list credit cards: %w", err)
		}
		view.Cards = cards
		return nil
	})
	g.Go(func() error {
		txs, err := s.repo.ListCreditCardTransactions(gctx, cardID, month)
		if err != nil {
			return fmt.Errorf("list credit card transactions: %w", err)
		}
		view.Transactions = txs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, tx := range view.Transactions {
		if tx.Status != core.StatusCancelled {
			view.Total = view.Total.Add(tx.Amount)
		}
	}
	if cardID > 0 && !month.IsZero() {
		for _, c := range view.Cards {
			if c.ID == cardID {
				st := StatementFor(c, month)
				view.Statement = &st
			}
		}
	}
	return view, nil
}

func (s *DashboardService) Accounts(ctx context.Context) (*AccountsView, error) {
	balances, err := s.repo.ListAccountBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("list account balances: %w", err)
	}
	return &AccountsView{Balances: balances, Total: core.TotalBalance(balances)}, nil
}
