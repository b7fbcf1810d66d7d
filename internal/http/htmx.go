package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"cashflow/internal/core"
	"cashflow/internal/table"
	"cashflow/internal/table/htmlview"
)

// Client-side events fired through HX-Trigger.
const (
	EventTransactionCreated  = "transaction:created"
	EventTransactionsDeleted = "transactions:deleted"
	EventFormReset           = "form:reset"
	EventTableRefresh        = "table:refresh"
	EventShowNotification    = "show-notification"
)

// NotificationType selects the styling of a toast shown by app.js.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// Fragment is a partial HTML response for HTMX requests. Events are sent
// as a single HX-Trigger header.
type Fragment struct {
	status int
	events map[string]any
	header http.Header
	body   bytes.Buffer
	err    error
}

func NewFragment() *Fragment {
	return &Fragment{status: http.StatusOK, events: map[string]any{}, header: http.Header{}}
}

func (f *Fragment) Status(code int) *Fragment {
	f.status = code
	return f
}

// Emit queues a client event with its detail payload.
func (f *Fragment) Emit(event string, detail any) *Fragment {
	f.events[event] = detail
	return f
}

func (f *Fragment) Created(tx core.Transaction) *Fragment {
	return f.Emit(EventTransactionCreated, map[string]any{"id": tx.ID, "date": tx.Date.String()})
}

func (f *Fragment) Deleted(count int) *Fragment {
	return f.Emit(EventTransactionsDeleted, map[string]int{"count": count})
}

func (f *Fragment) ResetForm() *Fragment {
	return f.Emit(EventFormReset, struct{}{})
}

// Refresh asks the table with the given element ID to reload itself.
func (f *Fragment) Refresh(tableID string) *Fragment {
	return f.Emit(EventTableRefresh, map[string]string{"table": tableID})
}

// Notify shows a toast; errors stay on screen longer.
func (f *Fragment) Notify(kind NotificationType, message string) *Fragment {
	duration := 3000
	if kind == NotificationError || kind == NotificationWarning {
		duration = 5000
	}
	return f.Emit(EventShowNotification, map[string]any{
		"type":     string(kind),
		"message":  message,
		"duration": duration,
	})
}

// Retarget swaps the response into selector instead of the requester.
func (f *Fragment) Retarget(selector string) *Fragment {
	f.header.Set("HX-Retarget", selector)
	return f
}

func (f *Fragment) Reswap(mode string) *Fragment {
	f.header.Set("HX-Reswap", mode)
	return f
}

// Message appends an escaped <div class="class">text</div>.
func (f *Fragment) Message(class, text string) *Fragment {
	fmt.Fprintf(&f.body, `<div class="%s">%s</div>`,
		template.HTMLEscapeString(class), template.HTMLEscapeString(text))
	return f
}

// Table appends the HTML view of a rendered table. A render failure is
// reported by Write.
func (f *Fragment) Table(t *table.Rendered, opts htmlview.Options) *Fragment {
	if f.err == nil {
		f.err = htmlview.Render(&f.body, t, opts)
	}
	return f
}

// Write sends the fragment. It writes nothing and returns the error when a
// table failed to render.
func (f *Fragment) Write(w http.ResponseWriter) error {
	if f.err != nil {
		return f.err
	}
	for name, values := range f.header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	if len(f.events) > 0 {
		if raw, err := json.Marshal(f.events); err == nil {
			w.Header().Set("HX-Trigger", string(raw))
		}
	}
	if f.body.Len() > 0 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.WriteHeader(f.status)
	_, err := w.Write(f.body.Bytes())
	return err
}

// ErrorFragment is an error message with an error toast.
func ErrorFragment(code int, message string) *Fragment {
	return NewFragment().
		Status(code).
		Notify(NotificationError, message).
		Message("error", message)
}
