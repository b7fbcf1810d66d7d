package table

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"cashflow/internal/i18n"
	"cashflow/internal/log"
)

func cellValues(row Row) []any {
	out := make([]any, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.Value
	}
	return out
}

func TestRender_EndToEnd(t *testing.T) {
	cfg := Config{
		ExcludeKeys: []string{"id"},
		Headers:     map[string]string{"date": "Data"},
		Formatters: map[string]Formatter{
			"amount": FormatterFunc(func(v any, _ *Record) any { return fmt.Sprintf("R$ %v", v) }),
		},
	}
	data := DataSet{RecordOf("id", 1, "date", "2025-11-01", "amount", 10)}

	out := NewRenderer().Render(cfg, data)

	if out.State != StatePopulated {
		t.Fatalf("State = %s, want populated", out.State)
	}
	if diff := cmp.Diff([]string{"date", "amount"}, out.Keys()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Data", "Amount"}, out.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if len(out.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(out.Rows))
	}
	if diff := cmp.Diff([]any{"2025-11-01", "R$ 10"}, cellValues(out.Rows[0])); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
	if out.Rows[0].Identity != 1 || out.Rows[0].IndexIdentity {
		t.Errorf("identity = %v (index=%v), want id field 1", out.Rows[0].Identity, out.Rows[0].IndexIdentity)
	}
}

func TestRender_EmptyDataSet(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantSpan int
	}{
		{name: "no columns resolved", cfg: Config{EmptyText: "nada"}, wantSpan: 0},
		{name: "explicit columns", cfg: Config{EmptyText: "nada", Columns: []string{"a", "b", "c"}}, wantSpan: 3},
		{name: "explicit columns with exclusion", cfg: Config{EmptyText: "nada", Columns: []string{"a", "b"}, ExcludeKeys: []string{"b"}}, wantSpan: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.cfg, DataSet{})
			if out.State != StateEmpty {
				t.Fatalf("State = %s, want empty", out.State)
			}
			if len(out.Rows) != 1 {
				t.Fatalf("rows = %d, want exactly 1", len(out.Rows))
			}
			row := out.Rows[0]
			if row.Kind != RowEmpty || row.Text != "nada" || row.Span != tt.wantSpan {
				t.Errorf("row = %+v, want empty row spanning %d with text", row, tt.wantSpan)
			}
			if row.Class != ClassEmptyRow {
				t.Errorf("class = %q, want %q", row.Class, ClassEmptyRow)
			}
		})
	}
}

func TestRender_EmptyTextDefaultsToLocale(t *testing.T) {
	out := Render(Config{Locale: i18n.English}, nil)
	if got := out.Rows[0].Text; got != i18n.English.EmptyText {
		t.Errorf("Text = %q, want %q", got, i18n.English.EmptyText)
	}
	out = Render(Config{}, nil)
	if got := out.Rows[0].Text; got != i18n.Default.EmptyText {
		t.Errorf("Text = %q, want %q", got, i18n.Default.EmptyText)
	}
}

func TestRender_LoadingWins(t *testing.T) {
	datasets := map[string]DataSet{
		"empty":     {},
		"populated": {RecordOf("a", 1, "b", 2), RecordOf("a", 3, "b", 4)},
	}
	for name, data := range datasets {
		t.Run(name, func(t *testing.T) {
			called := false
			cfg := Config{
				Loading: true,
				Formatters: map[string]Formatter{
					"a": FormatterFunc(func(v any, _ *Record) any { called = true; return v }),
				},
			}
			out := Render(cfg, data)
			if out.State != StateLoading {
				t.Fatalf("State = %s, want loading", out.State)
			}
			if len(out.Rows) != 1 || out.Rows[0].Kind != RowLoading {
				t.Fatalf("rows = %+v, want a single loading row", out.Rows)
			}
			if out.Rows[0].Span != len(out.Columns) {
				t.Errorf("Span = %d, want %d", out.Rows[0].Span, len(out.Columns))
			}
			if called {
				t.Error("formatters must not run while loading")
			}
		})
	}
}

func TestRender_ExplicitColumnMissingFromData(t *testing.T) {
	data := DataSet{RecordOf("x", "1"), RecordOf("x", "2", "z", "ignored")}
	out := Render(Config{Columns: []string{"x", "y"}}, data)

	if diff := cmp.Diff([]string{"X", "Y"}, out.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	for i, row := range out.Rows {
		if got := row.Cells[1].Value; got != "" {
			t.Errorf("row %d: cell y = %q, want empty string", i, got)
		}
	}
}

func TestRender_PreservesDataOrder(t *testing.T) {
	data := DataSet{
		RecordOf("id", 3, "n", "c"),
		RecordOf("id", 1, "n", "a"),
		RecordOf("id", 2, "n", "b"),
	}
	out := Render(Config{}, data)
	var got []any
	for _, row := range out.Rows {
		got = append(got, row.Identity)
	}
	if diff := cmp.Diff([]any{3, 1, 2}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_RowDecoration(t *testing.T) {
	var clicked []*Record
	data := DataSet{
		RecordOf("id", 1, "type", "INCOME"),
		RecordOf("id", 2, "type", "EXPENSE"),
	}
	classify := RowClassFunc(func(r *Record) string {
		if r.Value("type") == "INCOME" {
			return "tx-income"
		}
		return ""
	})

	tests := []struct {
		name      string
		cfg       Config
		wantClass []string
		clickable bool
	}{
		{name: "plain", cfg: Config{}, wantClass: []string{"", ""}},
		{name: "classifier only", cfg: Config{RowClassName: classify}, wantClass: []string{"tx-income", ""}},
		{
			name:      "clickable and classifier",
			cfg:       Config{RowClassName: classify, OnRowClick: ClickFunc(func(r *Record) { clicked = append(clicked, r) })},
			wantClass: []string{"clickable tx-income", "clickable"},
			clickable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clicked = nil
			out := Render(tt.cfg, data)
			for i, row := range out.Rows {
				if row.Class != tt.wantClass[i] {
					t.Errorf("row %d class = %q, want %q", i, row.Class, tt.wantClass[i])
				}
				if row.Clickable != tt.clickable {
					t.Errorf("row %d clickable = %v, want %v", i, row.Clickable, tt.clickable)
				}
			}
			ok := out.Rows[1].Click()
			if ok != tt.clickable {
				t.Fatalf("Click() = %v, want %v", ok, tt.clickable)
			}
			if tt.clickable && (len(clicked) != 1 || clicked[0] != data[1]) {
				t.Errorf("click handler got %v, want the raw second record", clicked)
			}
		})
	}
}

func TestRender_RowKeyStableAcrossRenders(t *testing.T) {
	cfg := Config{RowKey: RowKeyFunc(func(r *Record, _ int) any { return r.Value("id") })}
	first := Render(cfg, DataSet{RecordOf("id", "tx-9", "amount", 10)})
	second := Render(cfg, DataSet{
		RecordOf("id", "tx-1", "amount", 1),
		RecordOf("id", "tx-9", "amount", 99),
	})

	if first.Rows[0].Identity != second.Rows[1].Identity {
		t.Errorf("identity changed: %v vs %v", first.Rows[0].Identity, second.Rows[1].Identity)
	}
	row, ok := second.RowByKey("tx-9")
	if !ok || row.Record().Value("amount") != 99 {
		t.Errorf("RowByKey(tx-9) = %+v, %v", row, ok)
	}
}

func TestRender_IndexIdentityWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Output: &buf})
	r := NewRenderer(WithLogger(logger))

	out := r.Render(Config{}, DataSet{RecordOf("name", "a"), RecordOf("id", nil, "name", "b")})
	for i, row := range out.Rows {
		if row.Identity != i || !row.IndexIdentity {
			t.Errorf("row %d identity = %v (index=%v), want positional", i, row.Identity, row.IndexIdentity)
		}
	}
	if !strings.Contains(buf.String(), "identified by position") {
		t.Errorf("expected index identity warning, got log: %s", buf.String())
	}
}

func TestRender_HintsPassThrough(t *testing.T) {
	out := Render(Config{Hints: Hints{Dense: true, StickyHeader: true}}, nil)
	if want := "tbl sticky-hdr dense"; out.ClassNames() != want {
		t.Errorf("ClassNames() = %q, want %q", out.ClassNames(), want)
	}
	out = Render(DefaultConfig(), nil)
	if want := "tbl zebra hover sticky-hdr"; out.ClassNames() != want {
		t.Errorf("ClassNames() = %q, want %q", out.ClassNames(), want)
	}
}

func TestRender_FormatterPanicPropagates(t *testing.T) {
	cfg := Config{Formatters: map[string]Formatter{
		"a": FormatterFunc(func(any, *Record) any { panic("boom") }),
	}}
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v, want the formatter's panic", r)
		}
	}()
	Render(cfg, DataSet{RecordOf("a", 1)})
	t.Error("Render should not return when a formatter panics")
}

type countingObserver struct {
	states []State
}

func (o *countingObserver) ObserveRender(s State, _, _ int, _ time.Duration) {
	o.states = append(o.states, s)
}

func TestRenderer_Observer(t *testing.T) {
	obs := &countingObserver{}
	r := NewRenderer(WithObserver(obs))
	r.Render(Config{Loading: true}, nil)
	r.Render(Config{}, nil)
	r.Render(Config{}, DataSet{RecordOf("a", 1)})

	if diff := cmp.Diff([]State{StateLoading, StateEmpty, StatePopulated}, obs.states); diff != "" {
		t.Errorf("observed states mismatch (-want +got):\n%s", diff)
	}
}
