// Package http serves the dashboard pages, the HTMX partials and the JSON
// API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"cashflow/internal/log"
	"cashflow/internal/metrics"
	"cashflow/internal/middleware/ratelimit"
	"cashflow/internal/middleware/security"
	"cashflow/internal/middleware/trace"
	"cashflow/internal/services"
	"cashflow/internal/table"
	appweb "cashflow/web"
)

// Pinger reports whether the storage behind the server is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators a Server is built from. Metrics and Pinger are
// optional.
type Deps struct {
	Transactions *services.TransactionService
	Dashboard    *services.DashboardService
	Pinger       Pinger
	Renderer     *table.Renderer
	Tables       *Tables
	Metrics      *metrics.Provider
	Logger       *log.Logger
	RateLimit    ratelimit.Config
}

type Server struct {
	http.Server
	templates *template.Template
	txs       *services.TransactionService
	dashboard *services.DashboardService
	pinger    Pinger
	renderer  *table.Renderer
	tables    *Tables
	metrics   *metrics.Provider
	logger    *log.Logger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	started   time.Time
	now       func() time.Time

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and configures routes and
// middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Transactions == nil || deps.Dashboard == nil || deps.Tables == nil {
		return nil, errors.New("http: transactions, dashboard and tables are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	renderer := deps.Renderer
	if renderer == nil {
		renderer = table.NewRenderer(table.WithLogger(logger))
	}
	rl := deps.RateLimit
	if rl.RequestsPerMinute == 0 {
		rl = ratelimit.DefaultConfig()
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		templates: t,
		txs:       deps.Transactions,
		dashboard: deps.Dashboard,
		pinger:    deps.Pinger,
		renderer:  renderer,
		tables:    deps.Tables,
		metrics:   deps.Metrics,
		logger:    logger.WithComponent(log.ComponentHTTP),
		limiter:   ratelimit.NewLimiter(rl),
		detector:  security.NewDetector(),
		started:   time.Now(),
		now:       time.Now,
	}

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssets(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	s.route(mux, "GET /{$}", "home", s.handleHome)
	s.route(mux, "GET /ui/transactions", "ui_transactions", s.handleTransactionsPartial)
	s.route(mux, "POST /transactions", "create_transaction_form", s.handleCreateTransactionForm)
	s.route(mux, "GET /transactions/{id}", "transaction", s.handleTransactionDetail)
	s.route(mux, "GET /credit-cards", "credit_cards", s.handleCreditCards)
	s.route(mux, "GET /accounts", "accounts", s.handleAccounts)

	s.route(mux, "GET /api/transactions", "api_list_transactions", s.handleAPIListTransactions)
	s.route(mux, "POST /api/transactions", "api_create_transaction", s.handleAPICreateTransaction)
	s.route(mux, "DELETE /api/transactions", "api_delete_transactions", s.handleAPIDeleteTransactions)
	s.route(mux, "GET /api/transactions/{id}", "api_get_transaction", s.handleAPIGetTransaction)
	s.route(mux, "GET /api/categories", "api_categories", s.handleAPICategories)
	s.route(mux, "GET /api/credit-cards", "api_credit_cards", s.handleAPICreditCards)
	s.route(mux, "GET /api/credit-cards/transactions", "api_credit_card_transactions", s.handleAPICreditCardTransactions)
	s.route(mux, "GET /api/accounts/summary", "api_accounts_summary", s.handleAPIAccountsSummary)
	s.route(mux, "POST /api/tables/render", "api_render_table", s.handleAPIRenderTable)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) route(mux *http.ServeMux, pattern, label string, h http.HandlerFunc) {
	var handler http.Handler = h
	if s.metrics != nil {
		handler = s.metrics.InstrumentHandler(label, handler)
	}
	mux.Handle(pattern, handler)
}

// middleware wraps the mux, outermost first: request ID, request logging,
// security headers, probe detection, write rate limiting.
func (s *Server) middleware(next http.Handler) http.Handler {
	h := s.limiter.Middleware(s.detector.ClientIP, s.rateLimited)(next)
	h = s.watchProbes(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	h = log.Middleware(s.logger, func(r *http.Request) string { return r.Header.Get(trace.Header) })(h)
	return trace.Echo(h)
}

func (s *Server) watchProbes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.Suspicious(r) {
			log.FromContext(r.Context()).Warn("Suspicious request",
				log.FieldClientIP, s.detector.ClientIP(r),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).Warn("Rate limit exceeded",
		log.FieldClientIP, s.detector.ClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	if isHTMX(r) {
		_ = ErrorFragment(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
		return
	}
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
}

// Shutdown stops background work and gracefully drains connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"templates": "ok", "storage": "not_configured"}
	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			checks["storage"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	}
	cacheStats := s.renderer.CacheStats()
	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
		"table_cache": map[string]any{
			"entries": cacheStats.Size,
			"hits":    cacheStats.Hits,
			"misses":  cacheStats.Misses,
		},
		"rate_limiter": map[string]any{
			"active_clients": s.limiter.ActiveClients(),
			"rejected":       s.limiter.Rejected(),
		},
		"suspicious_requests": s.detector.SuspiciousCount(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
