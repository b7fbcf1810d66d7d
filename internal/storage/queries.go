package storage

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds the SQL of the repository, one method per statement.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx runs the same statements inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const transactionColumns = `
SELECT t.id,
       COALESCE(t.bank_account_id, 0),
       COALESCE(t.credit_card_id, 0),
       COALESCE(t.category_id, 0),
       t.description, t.type, t.amount_cents, t.date, t.status,
       COALESCE(b.name, ''), COALESCE(c.name, ''), COALESCE(g.name, '')
FROM transactions t
LEFT JOIN bank_accounts b ON b.id = t.bank_account_id
LEFT JOIN credit_cards c ON c.id = t.credit_card_id
LEFT JOIN categories g ON g.id = t.category_id`

const orderNewestFirst = ` ORDER BY t.date DESC, t.id DESC`

type transactionRow struct {
	ID              int64
	BankAccountID   int64
	CreditCardID    int64
	CategoryID      int64
	Description     string
	Type            string
	AmountCents     int64
	Date            string
	Status          string
	BankAccountName string
	CreditCardName  string
	CategoryName    string
}

func scanTransactions(rows *sql.Rows) ([]transactionRow, error) {
	defer rows.Close()
	var out []transactionRow
	for rows.Next() {
		var r transactionRow
		if err := rows.Scan(&r.ID, &r.BankAccountID, &r.CreditCardID, &r.CategoryID,
			&r.Description, &r.Type, &r.AmountCents, &r.Date, &r.Status,
			&r.BankAccountName, &r.CreditCardName, &r.CategoryName); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type CreateTransactionParams struct {
	BankAccountID sql.NullInt64
	CreditCardID  sql.NullInt64
	CategoryID    sql.NullInt64
	Description   string
	Type          string
	AmountCents   int64
	Date          string
	Status        string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
INSERT INTO transactions (bank_account_id, credit_card_id, category_id, description, type, amount_cents, date, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.BankAccountID, arg.CreditCardID, arg.CategoryID,
		arg.Description, arg.Type, arg.AmountCents, arg.Date, arg.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) GetTransaction(ctx context.Context, id int64) (transactionRow, error) {
	rows, err := q.db.QueryContext(ctx, transactionColumns+` WHERE t.id = ?`, id)
	if err != nil {
		return transactionRow{}, err
	}
	out, err := scanTransactions(rows)
	if err != nil {
		return transactionRow{}, err
	}
	if len(out) == 0 {
		return transactionRow{}, sql.ErrNoRows
	}
	return out[0], nil
}

// ListTransactions filters on inclusive YYYY-MM-DD bounds; empty bounds are open.
func (q *Queries) ListTransactions(ctx context.Context, from, to string) ([]transactionRow, error) {
	var where []string
	var args []any
	if from != "" {
		where = append(where, "t.date >= ?")
		args = append(args, from)
	}
	if to != "" {
		where = append(where, "t.date <= ?")
		args = append(args, to)
	}
	query := transactionColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	rows, err := q.db.QueryContext(ctx, query+orderNewestFirst, args...)
	if err != nil {
		return nil, err
	}
	return scanTransactions(rows)
}

func (q *Queries) ListCreditCardTransactions(ctx context.Context, cardID int64, from, to string) ([]transactionRow, error) {
	where := []string{"t.credit_card_id IS NOT NULL"}
	var args []any
	if cardID > 0 {
		where = append(where, "t.credit_card_id = ?")
		args = append(args, cardID)
	}
	if from != "" {
		where = append(where, "t.date >= ?", "t.date <= ?")
		args = append(args, from, to)
	}
	rows, err := q.db.QueryContext(ctx, transactionColumns+" WHERE "+strings.Join(where, " AND ")+orderNewestFirst, args...)
	if err != nil {
		return nil, err
	}
	return scanTransactions(rows)
}

func (q *Queries) DeleteTransactions(ctx context.Context, ids []int64) (int64, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type CategoryRow struct {
	ID   int64
	Name string
	Type string
}

func (q *Queries) UpsertCategory(ctx context.Context, name, typ string) (CategoryRow, error) {
	if _, err := q.db.ExecContext(ctx,
		`INSERT INTO categories (name, type) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`, name, typ); err != nil {
		return CategoryRow{}, err
	}
	var c CategoryRow
	err := q.db.QueryRowContext(ctx, `SELECT id, name, type FROM categories WHERE name = ?`, name).
		Scan(&c.ID, &c.Name, &c.Type)
	return c, err
}

func (q *Queries) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, type FROM categories ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CategoryRow
	for rows.Next() {
		var c CategoryRow
		if err := rows.Scan(&c.ID, &c.Name, &c.Type); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type BankAccountRow struct {
	ID                  int64
	Name                string
	BankName            string
	BalanceInitialCents int64
	Currency            string
}

func (q *Queries) UpsertBankAccount(ctx context.Context, arg BankAccountRow) (BankAccountRow, error) {
	if _, err := q.db.ExecContext(ctx, `
INSERT INTO bank_accounts (name, bank_name, balance_initial_cents, currency)
VALUES (?, ?, ?, ?) ON CONFLICT(name) DO NOTHING`,
		arg.Name, arg.BankName, arg.BalanceInitialCents, arg.Currency); err != nil {
		return BankAccountRow{}, err
	}
	var a BankAccountRow
	err := q.db.QueryRowContext(ctx, `
SELECT id, name, bank_name, balance_initial_cents, currency FROM bank_accounts WHERE name = ?`, arg.Name).
		Scan(&a.ID, &a.Name, &a.BankName, &a.BalanceInitialCents, &a.Currency)
	return a, err
}

func (q *Queries) ListBankAccounts(ctx context.Context) ([]BankAccountRow, error) {
	rows, err := q.db.QueryContext(ctx, `
SELECT id, name, bank_name, balance_initial_cents, currency FROM bank_accounts ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BankAccountRow
	for rows.Next() {
		var a BankAccountRow
		if err := rows.Scan(&a.ID, &a.Name, &a.BankName, &a.BalanceInitialCents, &a.Currency); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type CreditCardRow struct {
	ID            int64
	Name          string
	LimitCents    int64
	ClosingDay    int64
	DueDay        int64
	BankAccountID sql.NullInt64
}

func (q *Queries) UpsertCreditCard(ctx context.Context, arg CreditCardRow) (CreditCardRow, error) {
	if _, err := q.db.ExecContext(ctx, `
INSERT INTO credit_cards (name, limit_cents, closing_day, due_day, bank_account_id)
VALUES (?, ?, ?, ?, ?) ON CONFLICT(name) DO NOTHING`,
		arg.Name, arg.LimitCents, arg.ClosingDay, arg.DueDay, arg.BankAccountID); err != nil {
		return CreditCardRow{}, err
	}
	var c CreditCardRow
	err := q.db.QueryRowContext(ctx, `
SELECT id, name, limit_cents, closing_day, due_day, bank_account_id FROM credit_cards WHERE name = ?`, arg.Name).
		Scan(&c.ID, &c.Name, &c.LimitCents, &c.ClosingDay, &c.DueDay, &c.BankAccountID)
	return c, err
}

func (q *Queries) ListCreditCards(ctx context.Context) ([]CreditCardRow, error) {
	rows, err := q.db.QueryContext(ctx, `
SELECT id, name, limit_cents, closing_day, due_day, bank_account_id FROM credit_cards ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CreditCardRow
	for rows.Next() {
		var c CreditCardRow
		if err := rows.Scan(&c.ID, &c.Name, &c.LimitCents, &c.ClosingDay, &c.DueDay, &c.BankAccountID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type AccountBalanceRow struct {
	ID           int64
	Name         string
	BankName     string
	Currency     string
	BalanceCents int64
}

func (q *Queries) ListAccountBalances(ctx context.Context) ([]AccountBalanceRow, error) {
	rows, err := q.db.QueryContext(ctx, `
SELECT b.id, b.name, b.bank_name, b.currency,
       b.balance_initial_cents + COALESCE((
           SELECT SUM(t.amount_cents) FROM transactions t
           WHERE t.bank_account_id = b.id AND t.status <> 'CANCELLED'
       ), 0)
FROM bank_accounts b
ORDER BY b.name COLLATE NOCASE, b.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountBalanceRow
	for rows.Next() {
		var a AccountBalanceRow
		if err := rows.Scan(&a.ID, &a.Name, &a.BankName, &a.Currency, &a.BalanceCents); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
