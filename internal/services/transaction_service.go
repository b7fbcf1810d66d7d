// Package services orchestrates storage and event publishing for the
// dashboard and the JSON API.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cashflow/internal/amqp"
	"cashflow/internal/core"
	"cashflow/internal/log"
	"cashflow/internal/storage"
)

// EventPublisher is the outbound side of the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, ev *amqp.TransactionEvent) error
	Close() error
}

// CreateTransactionInput is a transaction as submitted by a client. When
// CategoryName is set the category is resolved by name, created on demand.
type CreateTransactionInput struct {
	BankAccountID int64                  `json:"bank_account_id"`
	CreditCardID  int64                  `json:"credit_card_id"`
	CategoryID    int64                  `json:"category_id"`
	CategoryName  string                 `json:"category"`
	Description   string                 `json:"description"`
	Type          core.TransactionType   `json:"type"`
	Amount        core.Money             `json:"amount"`
	Date          core.Date              `json:"date"`
	Status        core.TransactionStatus `json:"status"`
}

// TransactionService stores transactions locally and publishes events
// best-effort; a failed publish never fails the request.
type TransactionService struct {
	repo   storage.Repository
	events EventPublisher
	logger *log.Logger
}

// NewTransactionService wires a repository and an optional publisher.
func NewTransactionService(repo storage.Repository, events EventPublisher, logger *log.Logger) *TransactionService {
	if logger == nil {
		logger = log.Discard()
	}
	return &TransactionService{repo: repo, events: events, logger: logger.WithComponent(log.ComponentApp)}
}

func (s *TransactionService) Create(ctx context.Context, in CreateTransactionInput) (core.Transaction, error) {
	tx := core.Transaction{
		BankAccountID: in.BankAccountID,
		CreditCardID:  in.CreditCardID,
		CategoryID:    in.CategoryID,
		Description:   strings.TrimSpace(in.Description),
		Type:          in.Type,
		Amount:        in.Amount,
		Date:          in.Date,
		Status:        in.Status,
	}
	if tx.Status == "" {
		tx.Status = core.StatusConfirmed
	}
	if tx.Type == "" && tx.CreditCardID > 0 {
		tx.Type = core.TypeCreditCard
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if name := strings.TrimSpace(in.CategoryName); name != "" && tx.CategoryID == 0 {
		kind := core.CategoryExpense
		if tx.IsIncome() {
			kind = core.CategoryIncome
		}
		cat, err := s.repo.CreateCategory(ctx, core.Category{Name: name, Type: kind})
		if err != nil {
			return core.Transaction{}, fmt.Errorf("resolve category: %w", err)
		}
		tx.CategoryID = cat.ID
	}

	created, err := s.repo.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, amqp.NewTransactionEvent(amqp.EventCreated, created))
	return created, nil
}

// Delete removes ids and reports how many rows were deleted. Unknown ids
// are ignored.
func (s *TransactionService) Delete(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	// Look the rows up first so the events can describe them.
	var found []core.Transaction
	for _, id := range ids {
		tx, err := s.repo.GetTransaction(ctx, id)
		switch {
		case errors.Is(err, core.ErrNotFound):
			continue
		case err != nil:
			return 0, fmt.Errorf("load transaction %d: %w", id, err)
		}
		found = append(found, tx)
	}

	n, err := s.repo.DeleteTransactions(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	for _, tx := range found {
		s.publish(ctx, amqp.NewTransactionEvent(amqp.EventDeleted, tx))
	}
	return n, nil
}

func (s *TransactionService) List(ctx context.Context, r core.DateRange) ([]core.Transaction, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, r)
}

func (s *TransactionService) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *TransactionService) publish(ctx context.Context, ev *amqp.TransactionEvent) {
	if s.events == nil {
		s.logger.DebugContext(ctx, "Event bus not configured, skipping event", log.FieldEventKind, ev.Kind)
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldEventKind, ev.Kind,
			log.FieldTransactionID, ev.TransactionID,
			log.FieldError, err)
	}
}

// Close closes both storage and the event publisher.
func (s *TransactionService) Close() error {
	var errs []error
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	return errors.Join(errs...)
}
