// Package memory is an in-process implementation of the storage ports, used
// for development and tests.
package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"cashflow/internal/core"
)

type Store struct {
	mu         sync.Mutex
	nextID     int64
	txs        []core.Transaction
	categories []core.Category
	accounts   []core.BankAccount
	cards      []core.CreditCard
}

func New() *Store {
	return &Store{}
}

// NewFromFiles seeds categories from seed_income.txt and seed_expense.txt
// in base, one name per line. Missing files fall back to a small default set.
func NewFromFiles(base string) *Store {
	s := New()
	income := readLines(filepath.Join(base, "seed_income.txt"))
	expense := readLines(filepath.Join(base, "seed_expense.txt"))
	if len(income) == 0 {
		income = []string{"Salário"}
	}
	if len(expense) == 0 {
		expense = []string{"Alimentação", "Moradia", "Transporte"}
	}
	ctx := context.Background()
	for _, name := range income {
		_, _ = s.CreateCategory(ctx, core.Category{Name: name, Type: core.CategoryIncome})
	}
	for _, name := range expense {
		_, _ = s.CreateCategory(ctx, core.Category{Name: name, Type: core.CategoryExpense})
	}
	return s
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.id()
	tx.Description = strings.TrimSpace(tx.Description)
	s.txs = append(s.txs, tx)
	return s.resolve(tx), nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txs {
		if tx.ID == id {
			return s.resolve(tx), nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

func (s *Store) ListTransactions(_ context.Context, r core.DateRange) ([]core.Transaction, error) {
	return s.filter(func(tx core.Transaction) bool { return r.Contains(tx.Date) }), nil
}

func (s *Store) ListCreditCardTransactions(_ context.Context, cardID int64, ref core.Date) ([]core.Transaction, error) {
	var month core.DateRange
	if !ref.IsZero() {
		month = ref.MonthBounds()
	}
	return s.filter(func(tx core.Transaction) bool {
		if tx.CreditCardID == 0 || (cardID > 0 && tx.CreditCardID != cardID) {
			return false
		}
		return month.Contains(tx.Date)
	}), nil
}

// filter returns matching transactions newest first.
func (s *Store) filter(keep func(core.Transaction) bool) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []core.Transaction{}
	for _, tx := range s.txs {
		if keep(tx) {
			out = append(out, s.resolve(tx))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) DeleteTransactions(_ context.Context, ids []int64) (int, error) {
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.txs[:0]
	for _, tx := range s.txs {
		if _, ok := drop[tx.ID]; !ok {
			kept = append(kept, tx)
		}
	}
	n := len(s.txs) - len(kept)
	s.txs = kept
	return n, nil
}

// resolve fills in the denormalized names. Callers hold s.mu.
func (s *Store) resolve(tx core.Transaction) core.Transaction {
	tx.BankAccountName, tx.CreditCardName, tx.CategoryName = "", "", ""
	for _, a := range s.accounts {
		if a.ID == tx.BankAccountID {
			tx.BankAccountName = a.Name
		}
	}
	for _, c := range s.cards {
		if c.ID == tx.CreditCardID {
			tx.CreditCardName = c.Name
		}
	}
	for _, c := range s.categories {
		if c.ID == tx.CategoryID {
			tx.CategoryName = c.Name
		}
	}
	return tx
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func byName[T any](items []T, name func(T) string) []T {
	out := append([]T(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(name(out[i])) < strings.ToLower(name(out[j]))
	})
	return out
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if sameName(existing.Name, c.Name) {
			return existing, nil
		}
	}
	c.ID = s.id()
	c.Name = strings.TrimSpace(c.Name)
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *Store) ListCategories(context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return byName(s.categories, func(c core.Category) string { return c.Name }), nil
}

func (s *Store) CreateBankAccount(_ context.Context, a core.BankAccount) (core.BankAccount, error) {
	if err := a.Validate(); err != nil {
		return core.BankAccount{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if sameName(existing.Name, a.Name) {
			return existing, nil
		}
	}
	a.ID = s.id()
	a.Name = strings.TrimSpace(a.Name)
	a.Currency = strings.ToUpper(a.Currency)
	s.accounts = append(s.accounts, a)
	return a, nil
}

func (s *Store) ListBankAccounts(context.Context) ([]core.BankAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return byName(s.accounts, func(a core.BankAccount) string { return a.Name }), nil
}

func (s *Store) CreateCreditCard(_ context.Context, c core.CreditCard) (core.CreditCard, error) {
	if err := c.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.cards {
		if sameName(existing.Name, c.Name) {
			return existing, nil
		}
	}
	c.ID = s.id()
	c.Name = strings.TrimSpace(c.Name)
	s.cards = append(s.cards, c)
	return c, nil
}

func (s *Store) ListCreditCards(context.Context) ([]core.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return byName(s.cards, func(c core.CreditCard) string { return c.Name }), nil
}

func (s *Store) ListAccountBalances(context.Context) ([]core.AccountBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.AccountBalance, 0, len(s.accounts))
	for _, a := range byName(s.accounts, func(a core.BankAccount) string { return a.Name }) {
		balance := a.InitialBalance
		for _, tx := range s.txs {
			if tx.BankAccountID == a.ID && tx.Status != core.StatusCancelled {
				balance = balance.Add(tx.Amount)
			}
		}
		out = append(out, core.AccountBalance{
			ID: a.ID, Name: a.Name, BankName: a.BankName, Currency: a.Currency, Balance: balance,
		})
	}
	return out, nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
