// Package metrics exposes Prometheus instrumentation for the HTTP server,
// the table renderer and the event pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cashflow/internal/cache"
	"cashflow/internal/table"
)

const namespace = "cashflow"

// Provider owns a private registry so tests and multiple servers in one
// process do not collide on the global one.
type Provider struct {
	registry       *prometheus.Registry
	requestLatency *prometheus.HistogramVec
	renders        *prometheus.CounterVec
	renderLatency  prometheus.Histogram
	renderRows     prometheus.Histogram
	events         *prometheus.CounterVec
}

// New returns a Provider with the Go runtime and process collectors registered.
func New() *Provider {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p := &Provider{
		registry: registry,
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "A histogram of duration for requests.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"code", "handler", "method"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_renders_total",
			Help:      "Table renders by presentation state.",
		}, []string{"state"}),
		renderLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_render_duration_seconds",
			Help:      "Time spent producing the header/body structure of a table.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 8),
		}),
		renderRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_render_rows",
			Help:      "Number of records per rendered table.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_events_total",
			Help:      "Transaction events by direction, kind and outcome.",
		}, []string{"direction", "kind", "outcome"}),
	}
	registry.MustRegister(p.requestLatency, p.renders, p.renderLatency, p.renderRows, p.events)
	return p
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Provider) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler records request durations under the given handler label.
func (p *Provider) InstrumentHandler(label string, next http.Handler) http.Handler {
	observer := p.requestLatency.MustCurryWith(prometheus.Labels{"handler": label})
	return promhttp.InstrumentHandlerDuration(observer, next)
}

// ObserveRender implements table.Observer.
func (p *Provider) ObserveRender(state table.State, _ int, rows int, elapsed time.Duration) {
	p.renders.WithLabelValues(string(state)).Inc()
	p.renderLatency.Observe(elapsed.Seconds())
	p.renderRows.Observe(float64(rows))
}

// EventPublished counts an outgoing event.
func (p *Provider) EventPublished(kind string, err error) {
	p.events.WithLabelValues("out", kind, outcome(err)).Inc()
}

// EventConsumed counts an incoming event.
func (p *Provider) EventConsumed(kind string, err error) {
	p.events.WithLabelValues("in", kind, outcome(err)).Inc()
}

// RegisterCache exports hit/miss/size counters of a named cache.
func (p *Provider) RegisterCache(name string, stats func() cache.Stats) error {
	labels := prometheus.Labels{"cache": name}
	collectorsFor := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_hits_total", Help: "Cache hits.", ConstLabels: labels,
		}, func() float64 { return float64(stats().Hits) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_misses_total", Help: "Cache misses.", ConstLabels: labels,
		}, func() float64 { return float64(stats().Misses) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace, Name: "cache_entries", Help: "Entries currently cached.", ConstLabels: labels,
		}, func() float64 { return float64(stats().Size) }),
	}
	for _, c := range collectorsFor {
		if err := p.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var _ table.Observer = (*Provider)(nil)
