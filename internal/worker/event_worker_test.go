package worker

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"cashflow/internal/amqp"
	"cashflow/internal/i18n"
)

func event(id string, txID int64, desc string, cents int64) *amqp.TransactionEvent {
	return &amqp.TransactionEvent{
		EventID:       id,
		Kind:          amqp.EventCreated,
		TransactionID: txID,
		Description:   desc,
		AmountCents:   cents,
		Date:          "2025-11-03",
		Timestamp:     time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewEventWorker_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "zero history", opts: Options{Currency: "BRL"}},
		{name: "bad currency", opts: Options{Currency: "XXXX", History: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEventWorker(tt.opts); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestEventWorker_KeepsLastN(t *testing.T) {
	w, err := NewEventWorker(Options{Currency: "BRL", History: 2})
	if err != nil {
		t.Fatalf("NewEventWorker() error = %v", err)
	}
	ctx := context.Background()
	for i, id := range []string{"e1", "e2", "e3"} {
		if err := w.Handle(ctx, event(id, int64(i+1), "tx", -100)); err != nil {
			t.Fatalf("Handle(%s) error = %v", id, err)
		}
	}

	var got []string
	for _, ev := range w.History() {
		got = append(got, ev.EventID)
	}
	if diff := cmp.Diff([]string{"e2", "e3"}, got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	rendered := w.Table()
	var keys []string
	for _, row := range rendered.Rows {
		keys = append(keys, row.Key())
	}
	if diff := cmp.Diff([]string{"e3", "e2"}, keys); diff != "" {
		t.Errorf("table rows should be newest first (-want +got):\n%s", diff)
	}
}

func TestEventWorker_PrintsTable(t *testing.T) {
	var out strings.Builder
	w, err := NewEventWorker(Options{Currency: "USD", Locale: i18n.English, History: 5, Out: &out})
	if err != nil {
		t.Fatalf("NewEventWorker() error = %v", err)
	}
	if err := w.Handle(context.Background(), event("e1", 42, "Coffee beans", -1250)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	text := out.String()
	for _, want := range []string{"Transaction Id", "Description", "Coffee beans", "42", "12.50", "11/03/2025"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Event Id") {
		t.Errorf("event id column should not be shown:\n%s", text)
	}
}

func TestEventWorker_EmptyTable(t *testing.T) {
	w, err := NewEventWorker(Options{Currency: "EUR", Locale: i18n.Italian, History: 3})
	if err != nil {
		t.Fatalf("NewEventWorker() error = %v", err)
	}
	var out strings.Builder
	if err := w.Print(&out); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if !strings.Contains(out.String(), i18n.Italian.EmptyText) {
		t.Errorf("output %q missing empty text", out.String())
	}
}
