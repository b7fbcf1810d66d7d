// Package htmlview renders a table.Rendered as HTML. Cell values of type
// template.HTML are emitted unescaped; everything else is escaped.
package htmlview

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"cashflow/internal/table"
)

//go:embed templates/*.html
var templatesFS embed.FS

var tmpl = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Options control the embedding of a rendered table in a page.
type Options struct {
	// ID is set on the wrapper element.
	ID string
	// RowHref maps a clickable row to the URL it navigates to.
	// Rows for which it returns "" are not linked.
	RowHref func(table.Row) string
	// Target is the hx-target for row navigation; defaults to "body".
	Target string
}

type view struct {
	ID      string
	Class   string
	State   table.State
	Headers []string
	Rows    []rowView
	Target  string
}

type rowView struct {
	Kind  table.RowKind
	Key   string
	Class string
	Href  string
	Span  int
	Text  string
	Cells []cellView
}

type cellView struct {
	Label   string
	Content any
}

// Render writes the table markup to w.
func Render(w io.Writer, t *table.Rendered, opts Options) error {
	if err := tmpl.ExecuteTemplate(w, "table", newView(t, opts)); err != nil {
		return fmt.Errorf("render table html: %w", err)
	}
	return nil
}

// HTML renders the table into a template fragment for use in pages.
func HTML(t *table.Rendered, opts Options) (template.HTML, error) {
	var buf bytes.Buffer
	if err := Render(&buf, t, opts); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func newView(t *table.Rendered, opts Options) view {
	v := view{
		ID:      opts.ID,
		Class:   t.ClassNames(),
		State:   t.State,
		Headers: t.Labels(),
		Rows:    make([]rowView, len(t.Rows)),
		Target:  opts.Target,
	}
	if v.Target == "" {
		v.Target = "body"
	}
	for i, row := range t.Rows {
		rv := rowView{
			Kind:  row.Kind,
			Key:   row.Key(),
			Class: row.Class,
			Span:  row.Span,
			Text:  row.Text,
		}
		if row.Clickable && opts.RowHref != nil {
			rv.Href = opts.RowHref(row)
		}
		rv.Cells = make([]cellView, len(row.Cells))
		for j, c := range row.Cells {
			rv.Cells[j] = cellView{Label: c.Label, Content: content(c.Value)}
		}
		v.Rows[i] = rv
	}
	return v
}

func content(v any) any {
	switch c := v.(type) {
	case nil:
		return ""
	case template.HTML:
		return c
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}
