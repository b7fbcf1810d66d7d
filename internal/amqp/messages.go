package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cashflow/internal/core"
	"cashflow/internal/table"
)

// EventKind names what happened to a transaction.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventDeleted EventKind = "deleted"
)

func (k EventKind) IsValid() bool {
	return k == EventCreated || k == EventDeleted
}

// TransactionEvent is published after a transaction is stored or removed.
// It carries enough of the transaction for consumers to display it without
// reading the database.
type TransactionEvent struct {
	EventID       string    `json:"event_id"`
	Kind          EventKind `json:"kind"`
	TransactionID int64     `json:"transaction_id"`
	Description   string    `json:"description,omitempty"`
	AmountCents   int64     `json:"amount_cents"`
	Date          string    `json:"date,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionEvent builds an event with a fresh event ID.
func NewTransactionEvent(kind EventKind, tx core.Transaction) *TransactionEvent {
	ev := &TransactionEvent{
		EventID:       uuid.NewString(),
		Kind:          kind,
		TransactionID: tx.ID,
		Description:   tx.Description,
		AmountCents:   tx.Amount.Cents,
		Timestamp:     time.Now().UTC(),
	}
	if !tx.Date.IsZero() {
		ev.Date = tx.Date.String()
	}
	return ev
}

// Record exposes the event as a table row.
func (e *TransactionEvent) Record() *table.Record {
	return table.RecordOf(
		"event_id", e.EventID,
		"kind", string(e.Kind),
		"transaction_id", e.TransactionID,
		"date", e.Date,
		"description", e.Description,
		"amount", core.Money{Cents: e.AmountCents},
		"received_at", e.Timestamp.Format(time.RFC3339),
	)
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes and checks an event.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if !ev.Kind.IsValid() {
		return nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	if ev.TransactionID <= 0 {
		return nil, fmt.Errorf("event without transaction id")
	}
	return &ev, nil
}
