package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cashflow/internal/log"
	"cashflow/internal/table"
	"cashflow/internal/table/htmlview"
	"cashflow/internal/table/textview"
)

// Output formats of the render endpoint.
const (
	OutputJSON = "json"
	OutputHTML = "html"
	OutputText = "text"
)

// RenderRequest is the body of POST /api/tables/render.
type RenderRequest struct {
	Data   table.DataSet `json:"data"`
	Config RenderConfig  `json:"config"`
	Output string        `json:"output"`
}

// RenderConfig is the serializable subset of table.Config. Callbacks are
// chosen by name: RowKey names the identity field and Formatters maps a
// column to one of the built-in formatters.
type RenderConfig struct {
	Columns     []string          `json:"columns"`
	ExcludeKeys []string          `json:"exclude_keys"`
	Headers     map[string]string `json:"headers"`
	Formatters  map[string]string `json:"formatters"`
	EmptyText   string            `json:"empty_text"`
	Loading     bool              `json:"loading"`
	Hints       *table.Hints      `json:"hints"`
	RowKey      string            `json:"row_key"`
	InferFrom   table.InferMode   `json:"infer_from"`
	LabelStyle  table.LabelStyle  `json:"label_style"`
}

// Names accepted in RenderConfig.Formatters.
const (
	FormatterCurrency = "currency"
	FormatterDate     = "date"
	FormatterStatus   = "status"
	FormatterType     = "type"
)

// TableConfig resolves the named callbacks against ts.
func (rc RenderConfig) TableConfig(ts *Tables) (table.Config, error) {
	cfg := ts.base()
	cfg.Columns = rc.Columns
	cfg.ExcludeKeys = rc.ExcludeKeys
	cfg.Headers = rc.Headers
	cfg.EmptyText = rc.EmptyText
	cfg.Loading = rc.Loading
	if rc.Hints != nil {
		cfg.Hints = *rc.Hints
	}

	if rc.InferFrom != "" {
		if !rc.InferFrom.IsValid() {
			return table.Config{}, fmt.Errorf("unknown infer_from %q", rc.InferFrom)
		}
		cfg.InferFrom = rc.InferFrom
	}
	switch rc.LabelStyle {
	case "":
	case table.LabelTitle, table.LabelSentence:
		cfg.LabelStyle = rc.LabelStyle
	default:
		return table.Config{}, fmt.Errorf("unknown label_style %q", rc.LabelStyle)
	}

	if len(rc.Formatters) > 0 {
		cfg.Formatters = make(map[string]table.Formatter, len(rc.Formatters))
		for key, name := range rc.Formatters {
			f, err := ts.Named(name)
			if err != nil {
				return table.Config{}, err
			}
			cfg.Formatters[key] = f
		}
	}
	if field := strings.TrimSpace(rc.RowKey); field != "" {
		cfg.RowKey = table.RowKeyFunc(func(r *table.Record, index int) any {
			if v := r.Value(field); v != nil {
				return v
			}
			return index
		})
	}
	return cfg, nil
}

// Named returns one of the built-in formatters.
func (ts *Tables) Named(name string) (table.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatterCurrency:
		return ts.money, nil
	case FormatterDate:
		return ts.date, nil
	case FormatterStatus:
		return ts.status, nil
	case FormatterType:
		return ts.kind, nil
	default:
		return nil, fmt.Errorf("unknown formatter %q", name)
	}
}

// handleAPIRenderTable renders arbitrary records with a JSON configuration.
func (s *Server) handleAPIRenderTable(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	cfg, err := req.Config.TableConfig(s.tables)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rendered := s.renderer.Render(cfg, req.Data)
	log.FromContext(r.Context()).DebugContext(r.Context(), "Table rendered on request",
		log.NewFields().WithOperation(log.OpRender).
			WithTable(string(rendered.State), len(rendered.Columns), len(req.Data)).ToSlice()...)

	switch strings.ToLower(req.Output) {
	case "", OutputJSON:
		writeJSON(w, http.StatusOK, rendered)
	case OutputHTML:
		var buf bytes.Buffer
		if err := htmlview.Render(&buf, rendered, htmlview.Options{}); err != nil {
			s.apiFail(w, r, "Table render failed", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	case OutputText:
		var buf bytes.Buffer
		if err := textview.Render(&buf, rendered, textview.StyleASCII); err != nil {
			s.apiFail(w, r, "Table render failed", err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	default:
		writeJSONError(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown output %q", req.Output))
	}
}
