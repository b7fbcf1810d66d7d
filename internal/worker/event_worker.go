// Package worker consumes transaction events and keeps a rolling history
// of them for display.
package worker

import (
	"context"
	"fmt"
	"io"
	"sync"

	"cashflow/internal/amqp"
	"cashflow/internal/format"
	"cashflow/internal/i18n"
	"cashflow/internal/log"
	"cashflow/internal/table"
	"cashflow/internal/table/textview"
)

// EventWorker records the last events it handled and prints them as a text
// table after each one.
type EventWorker struct {
	renderer *table.Renderer
	config   table.Config
	out      io.Writer
	logger   *log.Logger
	limit    int

	mu      sync.Mutex
	history []*amqp.TransactionEvent
}

// Options configures NewEventWorker. Out may be nil to skip printing.
type Options struct {
	Renderer *table.Renderer
	Locale   i18n.Locale
	Currency string
	History  int
	Out      io.Writer
	Logger   *log.Logger
}

func NewEventWorker(opts Options) (*EventWorker, error) {
	if opts.History < 1 {
		return nil, fmt.Errorf("history size must be positive, got %d", opts.History)
	}
	loc := opts.Locale
	if loc.IsZero() {
		loc = i18n.Default
	}
	money, err := format.NewCurrency(opts.Currency, loc)
	if err != nil {
		return nil, err
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = table.NewRenderer()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	cfg := table.DefaultConfig()
	cfg.Locale = loc
	cfg.Columns = []string{"received_at", "kind", "transaction_id", "date", "description", "amount"}
	cfg.Formatters = map[string]table.Formatter{
		"amount": money,
		"date":   format.NewDate(loc),
	}
	cfg.RowKey = table.RowKeyFunc(func(r *table.Record, i int) any {
		if id := r.Value("event_id"); id != nil && id != "" {
			return id
		}
		return i
	})

	return &EventWorker{
		renderer: renderer,
		config:   cfg,
		out:      opts.Out,
		logger:   logger.WithComponent(log.ComponentWorker),
		limit:    opts.History,
	}, nil
}

// Handle satisfies amqp.Handler.
func (w *EventWorker) Handle(ctx context.Context, ev *amqp.TransactionEvent) error {
	w.logger.InfoContext(ctx, "Transaction event received",
		log.FieldOperation, log.OpConsume,
		log.FieldEventID, ev.EventID,
		log.FieldEventKind, ev.Kind,
		log.FieldTransactionID, ev.TransactionID,
		log.FieldAmountCents, ev.AmountCents)

	w.mu.Lock()
	w.history = append(w.history, ev)
	if over := len(w.history) - w.limit; over > 0 {
		w.history = append(w.history[:0], w.history[over:]...)
	}
	w.mu.Unlock()

	if w.out == nil {
		return nil
	}
	if err := w.Print(w.out); err != nil {
		return fmt.Errorf("print event history: %w", err)
	}
	return nil
}

// History returns the retained events, newest last.
func (w *EventWorker) History() []*amqp.TransactionEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*amqp.TransactionEvent(nil), w.history...)
}

// Table renders the retained events, newest first.
func (w *EventWorker) Table() *table.Rendered {
	events := w.History()
	data := make(table.DataSet, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		data = append(data, events[i].Record())
	}
	return w.renderer.Render(w.config, data)
}

// Print writes the history table to out.
func (w *EventWorker) Print(out io.Writer) error {
	return textview.Render(out, w.Table(), textview.StyleASCII)
}
