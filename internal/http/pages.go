package http

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"cashflow/internal/core"
	"cashflow/internal/log"
	"cashflow/internal/table"
	"cashflow/internal/table/htmlview"
)

const transactionsTableID = "transactions-table"

var templateFuncs = template.FuncMap{
	"selected": func(a, b int64) template.HTMLAttr {
		if a == b {
			return "selected"
		}
		return ""
	},
}

type pageData struct {
	T     Texts
	Title string
	Path  string
}

type homePage struct {
	pageData
	From       string
	To         string
	Total      string
	TotalClass string
	Income     string
	Expense    string
	Count      int
	Table      template.HTML
	Accounts   []core.BankAccount
	Cards      []core.CreditCard
	Categories []core.Category
	Types      map[string]string
	Today      string
}

type creditCardsPage struct {
	pageData
	Cards   []core.CreditCard
	CardID  int64
	Month   string
	Total   string
	Closing string
	Due     string
	Table   template.HTML
}

type accountsPage struct {
	pageData
	Total string
	Table template.HTML
}

type detailPage struct {
	pageData
	Description string
	Table       template.HTML
}

func (s *Server) page(title, path string) pageData {
	return pageData{T: s.tables.text, Title: title, Path: path}
}

// renderPage executes into a buffer so that template errors still produce a
// clean 500.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template render failed", "template", name, log.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// tableHTML renders data through the shared renderer and the HTML view.
func (s *Server) tableHTML(cfg table.Config, data table.DataSet, id string) (template.HTML, error) {
	rendered := s.renderer.Render(cfg, data)
	return htmlview.HTML(rendered, htmlview.Options{ID: id, RowHref: TransactionHref})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	code := statusFor(err)
	logger := log.FromContext(r.Context())
	if code >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), msg, log.FieldError, err)
	} else {
		logger.WarnContext(r.Context(), msg, log.FieldError, err)
	}
	text := err.Error()
	switch code {
	case http.StatusInternalServerError:
		text = s.tables.text.SaveFailed
	case http.StatusNotFound:
		text = s.tables.text.NotFound
	}
	_ = ErrorFragment(code, text).Write(w)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseDateRange(r.URL.Query(), s.now())
	if err != nil {
		s.fail(w, r, "Invalid date range", err)
		return
	}
	view, err := s.dashboard.Home(r.Context(), rng)
	if err != nil {
		s.fail(w, r, "Dashboard load failed", err)
		return
	}
	tbl, err := s.tableHTML(s.tables.Transactions(false), core.Records(view.Transactions), transactionsTableID)
	if err != nil {
		s.fail(w, r, "Table render failed", err)
		return
	}

	sum := view.Summary
	data := homePage{
		pageData:   s.page(s.tables.text.Dashboard, "/"),
		From:       rng.From.String(),
		To:         rng.To.String(),
		Total:      s.tables.Money(sum.Total),
		TotalClass: signClass(sum.Total),
		Income:     s.tables.Money(sum.Income),
		Expense:    s.tables.Money(sum.Expense),
		Count:      sum.Count,
		Table:      tbl,
		Accounts:   view.Accounts,
		Cards:      view.Cards,
		Categories: view.Categories,
		Types:      s.tables.kind,
		Today:      s.now().Format(core.DateLayout),
	}
	s.renderPage(w, r, "home", data)
}

// handleTransactionsPartial serves the table alone for HTMX swaps.
func (s *Server) handleTransactionsPartial(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("loading") == "1" {
		s.writeTable(w, r, s.tables.Transactions(true), nil)
		return
	}

	rng, err := ParseDateRange(q, s.now())
	if err != nil {
		s.fail(w, r, "Invalid date range", err)
		return
	}
	txs, err := s.txs.List(r.Context(), rng)
	if err != nil {
		s.fail(w, r, "Transactions load failed", err)
		return
	}
	s.writeTable(w, r, s.tables.Transactions(false), core.Records(txs))
}

func (s *Server) writeTable(w http.ResponseWriter, r *http.Request, cfg table.Config, data table.DataSet) {
	rendered := s.renderer.Render(cfg, data)
	opts := htmlview.Options{ID: transactionsTableID, RowHref: TransactionHref}
	if err := NewFragment().Table(rendered, opts).Write(w); err != nil {
		s.fail(w, r, "Table render failed", err)
	}
}

func (s *Server) handleCreateTransactionForm(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		_ = ErrorFragment(http.StatusBadRequest, "invalid request format").Write(w)
		return
	}
	in, err := p.TransactionInput()
	if err != nil {
		s.fail(w, r, "Invalid transaction form", err)
		return
	}
	if in.Date.IsZero() {
		now := s.now()
		in.Date = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}

	tx, err := s.txs.Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, "Transaction create failed", err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created",
		log.NewFields().WithOperation(log.OpCreate).
			WithTransaction(tx.ID, tx.Description, tx.Amount.Cents).ToSlice()...)

	msg := fmt.Sprintf("%s (#%d): %s %s", s.tables.text.Saved, tx.ID, tx.Description, s.tables.Money(tx.Amount))
	_ = NewFragment().
		Created(tx).
		ResetForm().
		Refresh(transactionsTableID).
		Notify(NotificationSuccess, s.tables.text.Saved).
		Message("success", msg).
		Write(w)
}

func (s *Server) handleTransactionDetail(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err == nil && id == 0 {
		err = errInvalidID
	}
	if err != nil {
		s.fail(w, r, "Invalid transaction id", err)
		return
	}
	tx, err := s.txs.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, "Transaction load failed", err)
		return
	}
	tbl, err := s.tableHTML(s.tables.Detail(), s.tables.DetailRecords(tx), "transaction-detail")
	if err != nil {
		s.fail(w, r, "Table render failed", err)
		return
	}
	s.renderPage(w, r, "transaction", detailPage{
		pageData:    s.page(s.tables.text.Dashboard, "/transactions/"+strconv.FormatInt(id, 10)),
		Description: tx.Description,
		Table:       tbl,
	})
}

func (s *Server) handleCreditCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cardID, err := ParseID(q.Get("credit_card"))
	if err != nil {
		s.fail(w, r, "Invalid credit card", err)
		return
	}
	month, err := ParseMonth(q)
	if err != nil {
		s.fail(w, r, "Invalid statement month", err)
		return
	}
	view, err := s.dashboard.CreditCards(r.Context(), cardID, month)
	if err != nil {
		s.fail(w, r, "Credit cards load failed", err)
		return
	}
	tbl, err := s.tableHTML(s.tables.CardTransactions(), core.Records(view.Transactions), "card-transactions")
	if err != nil {
		s.fail(w, r, "Table render failed", err)
		return
	}

	data := creditCardsPage{
		pageData: s.page(s.tables.text.CreditCards, "/credit-cards"),
		Cards:    view.Cards,
		CardID:   cardID,
		Total:    s.tables.Money(view.Total),
		Table:    tbl,
	}
	if !month.IsZero() {
		data.Month = month.Format("2006-01")
	}
	if st := view.Statement; st != nil {
		data.Closing = st.Closing.String()
		data.Due = st.Due.String()
	}
	s.renderPage(w, r, "credit_cards", data)
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	view, err := s.dashboard.Accounts(r.Context())
	if err != nil {
		s.fail(w, r, "Accounts load failed", err)
		return
	}
	tbl, err := s.tableHTML(s.tables.Balances(), core.Records(view.Balances), "account-balances")
	if err != nil {
		s.fail(w, r, "Table render failed", err)
		return
	}
	s.renderPage(w, r, "accounts", accountsPage{
		pageData: s.page(s.tables.text.Accounts, "/accounts"),
		Total:    s.tables.Money(view.Total),
		Table:    tbl,
	})
}

func signClass(m core.Money) string {
	if m.Cents < 0 {
		return "neg"
	}
	return "pos"
}
