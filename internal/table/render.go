package table

import (
	"fmt"
	"strings"
	"time"

	"cashflow/internal/cache"
	"cashflow/internal/i18n"
	"cashflow/internal/log"
)

// State is the presentation state chosen for one render.
type State string

const (
	StateLoading   State = "loading"
	StateEmpty     State = "empty"
	StatePopulated State = "populated"
)

// SelectState applies the precedence loading > empty > populated.
func SelectState(loading bool, records int) State {
	switch {
	case loading:
		return StateLoading
	case records == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}

// RowKind distinguishes data rows from the single placeholder rows.
type RowKind string

const (
	RowData    RowKind = "data"
	RowLoading RowKind = "loading"
	RowEmpty   RowKind = "empty"
)

// Row classes emitted by the renderer.
const (
	ClassClickable  = "clickable"
	ClassLoadingRow = "loading-row"
	ClassEmptyRow   = "empty-row"
)

// Row is one body row. Placeholder rows (loading, empty) have no cells and
// span every resolved column.
type Row struct {
	Kind          RowKind `json:"kind"`
	Identity      any     `json:"identity"`
	IndexIdentity bool    `json:"index_identity,omitempty"`
	Cells         []Cell  `json:"cells,omitempty"`
	Span          int     `json:"span,omitempty"`
	Text          string  `json:"text,omitempty"`
	Class         string  `json:"class,omitempty"`
	Clickable     bool    `json:"clickable,omitempty"`

	record  *Record
	onClick ClickHandler
}

// Record returns the raw record behind a data row.
func (r Row) Record() *Record { return r.record }

// Click invokes the row's click handler with the raw record. It reports
// false for rows that are not interactive.
func (r Row) Click() bool {
	if !r.Clickable || r.onClick == nil {
		return false
	}
	r.onClick.OnRowClick(r.record)
	return true
}

// Key returns the identity in string form, as used for element keys.
func (r Row) Key() string {
	if r.Identity == nil {
		return ""
	}
	return DefaultValue(r.Identity, i18n.Default)
}

// Rendered is the header/body tree produced by one render.
type Rendered struct {
	State   State    `json:"state"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
	Hints   Hints    `json:"hints"`
}

// Labels returns the header row.
func (r *Rendered) Labels() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Label
	}
	return out
}

// Keys returns the resolved column keys.
func (r *Rendered) Keys() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Key
	}
	return out
}

// ClassNames translates the presentation hints into the table's class list.
func (r *Rendered) ClassNames() string {
	return joinClasses("tbl",
		pick(r.Hints.Zebra, "zebra"),
		pick(r.Hints.Hover, "hover"),
		pick(r.Hints.StickyHeader, "sticky-hdr"),
		pick(r.Hints.Dense, "dense"))
}

// RowByKey finds the data row whose identity renders as key.
func (r *Rendered) RowByKey(key string) (Row, bool) {
	for _, row := range r.Rows {
		if row.Kind == RowData && row.Key() == key {
			return row, true
		}
	}
	return Row{}, false
}

// Observer is notified after every render; used for metrics.
type Observer interface {
	ObserveRender(state State, columns, rows int, elapsed time.Duration)
}

// Renderer renders tables and memoizes column resolution. It is safe for
// concurrent use; the caller-supplied callbacks in Config must be too if the
// same Config is rendered concurrently.
type Renderer struct {
	columns  *cache.LRUCache[resolved]
	logger   *log.Logger
	observer Observer
}

type resolved struct {
	signature string
	keys      []string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger attaches a logger for render summaries and identity warnings.
func WithLogger(logger *log.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger.WithComponent(log.ComponentTable)
		}
	}
}

// WithColumnCache sizes the column-resolution cache.
func WithColumnCache(size int, ttl time.Duration) Option {
	return func(r *Renderer) {
		r.columns = cache.NewLRUCache[resolved](size, ttl)
	}
}

// WithObserver registers a render observer.
func WithObserver(o Observer) Option {
	return func(r *Renderer) { r.observer = o }
}

// NewRenderer creates a renderer with a 256-entry column cache.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		columns: cache.NewLRUCache[resolved](256, 10*time.Minute),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = NewRenderer()

// Render renders data with the package default renderer.
func Render(cfg Config, data DataSet) *Rendered {
	return defaultRenderer.Render(cfg, data)
}

// CleanExpired drops stale column cache entries; it satisfies cache.Cleaner.
func (r *Renderer) CleanExpired() int {
	return r.columns.CleanExpired()
}

// CacheStats exposes the column cache counters.
func (r *Renderer) CacheStats() cache.Stats {
	return r.columns.Stats()
}

// ResolveColumns is ResolveColumns behind the renderer's memo cache.
func (r *Renderer) ResolveColumns(cfg Config, data DataSet) []string {
	mode := cfg.inferMode()
	sig := columnSignature(cfg.Columns, data, cfg.ExcludeKeys, mode)
	key := signatureKey(sig)

	if hit, ok := r.columns.Get(key); ok && hit.signature == sig {
		return append([]string(nil), hit.keys...)
	}
	keys := ResolveColumns(cfg.Columns, data, cfg.ExcludeKeys, mode)
	r.columns.Set(key, resolved{signature: sig, keys: keys})
	return append([]string(nil), keys...)
}

// Render produces the header/body structure for one configuration and data
// set. It never fails on malformed data; panics raised by caller callbacks
// propagate unchanged.
func (r *Renderer) Render(cfg Config, data DataSet) *Rendered {
	start := time.Now()
	loc := cfg.locale()
	style := cfg.LabelStyle
	if style == "" {
		style = LabelTitle
	}

	keys := r.ResolveColumns(cfg, data)
	columns := make([]Column, len(keys))
	for i, k := range keys {
		columns[i] = Column{Key: k, Label: Label(k, cfg.Headers, style)}
	}

	out := &Rendered{
		State:   SelectState(cfg.Loading, len(data)),
		Columns: columns,
		Hints:   cfg.Hints,
	}

	switch out.State {
	case StateLoading:
		out.Rows = []Row{{Kind: RowLoading, Span: len(columns), Text: loc.LoadingText, Class: ClassLoadingRow}}
	case StateEmpty:
		out.Rows = []Row{{Kind: RowEmpty, Span: len(columns), Text: cfg.emptyText(), Class: ClassEmptyRow}}
	default:
		out.Rows = make([]Row, len(data))
		indexed := 0
		for i, rec := range data {
			out.Rows[i] = r.renderRow(cfg, columns, rec, i)
			if out.Rows[i].IndexIdentity {
				indexed++
			}
		}
		if indexed > 0 && r.logger != nil {
			r.logger.Warn("Rows identified by position; identities change when data is reordered or filtered",
				log.FieldRows, indexed)
		}
	}

	if r.logger != nil {
		r.logger.Debug("Table rendered",
			log.FieldOperation, log.OpRender,
			log.FieldTableState, string(out.State),
			log.FieldColumns, len(columns),
			log.FieldRows, len(data))
	}
	if r.observer != nil {
		r.observer.ObserveRender(out.State, len(columns), len(data), time.Since(start))
	}
	return out
}

func (r *Renderer) renderRow(cfg Config, columns []Column, rec *Record, index int) Row {
	id, fromIndex := Identify(rec, index, cfg.RowKey)
	loc := cfg.locale()

	cells := make([]Cell, len(columns))
	for i, col := range columns {
		cells[i] = Cell{
			Key:   col.Key,
			Label: col.Label,
			Value: FormatCell(col.Key, rec.Value(col.Key), rec, cfg.Formatters, loc),
		}
	}

	clickable := cfg.OnRowClick != nil
	extra := ""
	if cfg.RowClassName != nil {
		extra = cfg.RowClassName.RowClass(rec)
	}

	return Row{
		Kind:          RowData,
		Identity:      id,
		IndexIdentity: fromIndex,
		Cells:         cells,
		Class:         joinClasses(pick(clickable, ClassClickable), extra),
		Clickable:     clickable,
		record:        rec,
		onClick:       cfg.OnRowClick,
	}
}

func pick(on bool, class string) string {
	if on {
		return class
	}
	return ""
}

func joinClasses(classes ...string) string {
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// String implements fmt.Stringer for debugging output.
func (r *Rendered) String() string {
	return fmt.Sprintf("table(%s, %d columns, %d rows)", r.State, len(r.Columns), len(r.Rows))
}
