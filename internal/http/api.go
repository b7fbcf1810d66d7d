package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"cashflow/internal/core"
	"cashflow/internal/log"
	"cashflow/internal/services"
)

// apiFail writes err as a JSON error with the status it maps to.
func (s *Server) apiFail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	code := statusFor(err)
	logger := log.FromContext(r.Context())
	text := err.Error()
	if code >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), msg, log.FieldError, err)
		text = "internal error"
	} else {
		logger.WarnContext(r.Context(), msg, log.FieldError, err)
	}
	writeJSONError(w, code, text)
}

func (s *Server) handleAPIListTransactions(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseDateRange(r.URL.Query(), s.now())
	if err != nil {
		s.apiFail(w, r, "Invalid date range", err)
		return
	}
	txs, err := s.txs.List(r.Context(), rng)
	if err != nil {
		s.apiFail(w, r, "Transactions load failed", err)
		return
	}
	writeJSON(w, http.StatusOK, core.Records(txs))
}

func (s *Server) handleAPIGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err == nil && id == 0 {
		err = errInvalidID
	}
	if err != nil {
		s.apiFail(w, r, "Invalid transaction id", err)
		return
	}
	tx, err := s.txs.Get(r.Context(), id)
	if err != nil {
		s.apiFail(w, r, "Transaction load failed", err)
		return
	}
	writeJSON(w, http.StatusOK, tx.Record())
}

func (s *Server) handleAPICreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in services.CreateTransactionInput
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidDate) {
			status = http.StatusUnprocessableEntity
		}
		writeJSONError(w, status, "invalid request body: "+err.Error())
		return
	}
	if in.Date.IsZero() {
		now := s.now()
		in.Date = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}

	tx, err := s.txs.Create(r.Context(), in)
	if err != nil {
		s.apiFail(w, r, "Transaction create failed", err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created",
		log.NewFields().WithOperation(log.OpCreate).
			WithTransaction(tx.ID, tx.Description, tx.Amount.Cents).ToSlice()...)
	w.Header().Set("Location", "/api/transactions/"+strconv.FormatInt(tx.ID, 10))
	writeJSON(w, http.StatusCreated, tx.Record())
}

func (s *Server) handleAPIDeleteTransactions(w http.ResponseWriter, r *http.Request) {
	ids, err := ParseIDs(r.URL.Query()["ids"])
	if err != nil {
		s.apiFail(w, r, "Invalid ids", err)
		return
	}
	if len(ids) == 0 {
		writeJSONError(w, http.StatusBadRequest, "ids is required")
		return
	}
	n, err := s.txs.Delete(r.Context(), ids)
	if err != nil {
		s.apiFail(w, r, "Transaction delete failed", err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Transactions deleted",
		log.FieldOperation, log.OpDelete, log.FieldRows, n)

	if isHTMX(r) {
		_ = NewFragment().
			Deleted(n).
			Refresh(transactionsTableID).
			Write(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	view, err := s.dashboard.Catalog(r.Context())
	if err != nil {
		s.apiFail(w, r, "Categories load failed", err)
		return
	}
	writeJSON(w, http.StatusOK, core.Records(view.Categories))
}

func (s *Server) handleAPICreditCards(w http.ResponseWriter, r *http.Request) {
	view, err := s.dashboard.Catalog(r.Context())
	if err != nil {
		s.apiFail(w, r, "Credit cards load failed", err)
		return
	}
	writeJSON(w, http.StatusOK, core.Records(view.Cards))
}

type cardTransactionsResponse struct {
	CreditCardID int64      `json:"credit_card_id,omitempty"`
	Month        string     `json:"month,omitempty"`
	Closing      *core.Date `json:"closing,omitempty"`
	Due          *core.Date `json:"due,omitempty"`
	Total        core.Money `json:"total"`
	Transactions any        `json:"transactions"`
}

func (s *Server) handleAPICreditCardTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cardID, err := ParseID(q.Get("credit_card"))
	if err != nil {
		s.apiFail(w, r, "Invalid credit card", err)
		return
	}
	month, err := ParseMonth(q)
	if err != nil {
		s.apiFail(w, r, "Invalid statement month", err)
		return
	}
	view, err := s.dashboard.CreditCards(r.Context(), cardID, month)
	if err != nil {
		s.apiFail(w, r, "Credit card transactions load failed", err)
		return
	}
	resp := cardTransactionsResponse{
		CreditCardID: cardID,
		Total:        view.Total,
		Transactions: core.Records(view.Transactions),
	}
	if !month.IsZero() {
		resp.Month = month.Format("2006-01")
	}
	if st := view.Statement; st != nil {
		resp.Closing, resp.Due = &st.Closing, &st.Due
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIAccountsSummary(w http.ResponseWriter, r *http.Request) {
	view, err := s.dashboard.Accounts(r.Context())
	if err != nil {
		s.apiFail(w, r, "Accounts load failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": core.Records(view.Balances),
		"total":    view.Total,
	})
}
