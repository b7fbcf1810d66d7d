package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cashflow/internal/core"
	"cashflow/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

// DSN builds the modernc.org/sqlite connection string for a database file,
// with foreign keys enforced.
func DSN(dbPath string) string {
	return "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := DSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	schema, err := Migrate(dsn)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStorage)
	logger.Info("Database schema ready", "schema_version", schema.Version, "migrated", schema.Applied)
	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	id, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		BankAccountID: nullID(tx.BankAccountID),
		CreditCardID:  nullID(tx.CreditCardID),
		CategoryID:    nullID(tx.CategoryID),
		Description:   strings.TrimSpace(tx.Description),
		Type:          string(tx.Type),
		AmountCents:   tx.Amount.Cents,
		Date:          tx.Date.String(),
		Status:        string(tx.Status),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "Transaction saved",
		log.NewFields().WithOperation(log.OpCreate).WithTransaction(id, tx.Description, tx.Amount.Cents).ToSlice()...)

	return r.GetTransaction(ctx, id)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return row.toCore()
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, rng core.DateRange) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, rng.From.String(), rng.To.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return toCoreTransactions(rows)
}

func (r *SQLiteRepository) ListCreditCardTransactions(ctx context.Context, cardID int64, ref core.Date) ([]core.Transaction, error) {
	var from, to string
	if !ref.IsZero() {
		month := ref.MonthBounds()
		from, to = month.From.String(), month.To.String()
	}
	rows, err := r.queries.ListCreditCardTransactions(ctx, cardID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list credit card transactions (card=%d): %w", cardID, err)
	}
	return toCoreTransactions(rows)
}

func (r *SQLiteRepository) DeleteTransactions(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := r.queries.DeleteTransactions(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	r.logger.InfoContext(ctx, "Transactions deleted", log.FieldOperation, log.OpDelete, log.FieldRows, n)
	return int(n), nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	row, err := r.queries.UpsertCategory(ctx, strings.TrimSpace(c.Name), string(c.Type))
	if err != nil {
		return core.Category{}, fmt.Errorf("create category %q: %w", c.Name, err)
	}
	return core.Category{ID: row.ID, Name: row.Name, Type: core.CategoryType(row.Type)}, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]core.Category, len(rows))
	for i, row := range rows {
		out[i] = core.Category{ID: row.ID, Name: row.Name, Type: core.CategoryType(row.Type)}
	}
	return out, nil
}

func (r *SQLiteRepository) CreateBankAccount(ctx context.Context, a core.BankAccount) (core.BankAccount, error) {
	if err := a.Validate(); err != nil {
		return core.BankAccount{}, err
	}
	row, err := r.queries.UpsertBankAccount(ctx, BankAccountRow{
		Name:                strings.TrimSpace(a.Name),
		BankName:            a.BankName,
		BalanceInitialCents: a.InitialBalance.Cents,
		Currency:            strings.ToUpper(a.Currency),
	})
	if err != nil {
		return core.BankAccount{}, fmt.Errorf("create bank account %q: %w", a.Name, err)
	}
	return row.toCore(), nil
}

func (r *SQLiteRepository) ListBankAccounts(ctx context.Context) ([]core.BankAccount, error) {
	rows, err := r.queries.ListBankAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	out := make([]core.BankAccount, len(rows))
	for i, row := range rows {
		out[i] = row.toCore()
	}
	return out, nil
}

func (r *SQLiteRepository) CreateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	if err := c.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	row, err := r.queries.UpsertCreditCard(ctx, CreditCardRow{
		Name:          strings.TrimSpace(c.Name),
		LimitCents:    c.Limit.Cents,
		ClosingDay:    int64(c.ClosingDay),
		DueDay:        int64(c.DueDay),
		BankAccountID: nullID(c.BankAccountID),
	})
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("create credit card %q: %w", c.Name, err)
	}
	return row.toCore(), nil
}

func (r *SQLiteRepository) ListCreditCards(ctx context.Context) ([]core.CreditCard, error) {
	rows, err := r.queries.ListCreditCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("list credit cards: %w", err)
	}
	out := make([]core.CreditCard, len(rows))
	for i, row := range rows {
		out[i] = row.toCore()
	}
	return out, nil
}

func (r *SQLiteRepository) ListAccountBalances(ctx context.Context) ([]core.AccountBalance, error) {
	rows, err := r.queries.ListAccountBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("list account balances: %w", err)
	}
	out := make([]core.AccountBalance, len(rows))
	for i, row := range rows {
		out[i] = core.AccountBalance{
			ID:       row.ID,
			Name:     row.Name,
			BankName: row.BankName,
			Currency: row.Currency,
			Balance:  core.Money{Cents: row.BalanceCents},
		}
	}
	return out, nil
}

func (row transactionRow) toCore() (core.Transaction, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", row.ID, err)
	}
	return core.Transaction{
		ID:              row.ID,
		BankAccountID:   row.BankAccountID,
		CreditCardID:    row.CreditCardID,
		CategoryID:      row.CategoryID,
		Description:     row.Description,
		Type:            core.TransactionType(row.Type),
		Amount:          core.Money{Cents: row.AmountCents},
		Date:            date,
		Status:          core.TransactionStatus(row.Status),
		BankAccountName: row.BankAccountName,
		CreditCardName:  row.CreditCardName,
		CategoryName:    row.CategoryName,
	}, nil
}

func toCoreTransactions(rows []transactionRow) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := row.toCore()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func (row BankAccountRow) toCore() core.BankAccount {
	return core.BankAccount{
		ID:             row.ID,
		Name:           row.Name,
		BankName:       row.BankName,
		InitialBalance: core.Money{Cents: row.BalanceInitialCents},
		Currency:       row.Currency,
	}
}

func (row CreditCardRow) toCore() core.CreditCard {
	return core.CreditCard{
		ID:            row.ID,
		Name:          row.Name,
		Limit:         core.Money{Cents: row.LimitCents},
		ClosingDay:    int(row.ClosingDay),
		DueDay:        int(row.DueDay),
		BankAccountID: row.BankAccountID.Int64,
	}
}

var _ Repository = (*SQLiteRepository)(nil)
