package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"cashflow/internal/cache"
	"cashflow/internal/table"
)

func TestObserveRender(t *testing.T) {
	p := New()
	r := table.NewRenderer(table.WithObserver(p))
	r.Render(table.Config{}, nil)
	r.Render(table.Config{}, table.DataSet{table.RecordOf("a", 1)})
	r.Render(table.Config{}, table.DataSet{table.RecordOf("a", 2)})

	if got := testutil.ToFloat64(p.renders.WithLabelValues("populated")); got != 2 {
		t.Errorf("populated renders = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.renders.WithLabelValues("empty")); got != 1 {
		t.Errorf("empty renders = %v, want 1", got)
	}
}

func TestEvents(t *testing.T) {
	p := New()
	p.EventPublished("created", nil)
	p.EventConsumed("created", errors.New("boom"))

	if got := testutil.ToFloat64(p.events.WithLabelValues("out", "created", "ok")); got != 1 {
		t.Errorf("published = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.events.WithLabelValues("in", "created", "error")); got != 1 {
		t.Errorf("consumed errors = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	p := New()
	c := cache.NewLRUCache[int](4, time.Minute)
	c.Set("a", 1)
	if err := p.RegisterCache("columns", c.Stats); err != nil {
		t.Fatalf("RegisterCache() error = %v", err)
	}

	h := p.InstrumentHandler("ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`cashflow_cache_entries{cache="columns"} 1`,
		`cashflow_http_request_duration_seconds_count{code="418",handler="ping",method="get"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
