// Package textview renders a table.Rendered as a plain-text table for
// terminals and logs.
package textview

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"cashflow/internal/table"
)

// Style selects the border drawing.
type Style string

const (
	StyleASCII Style = "ascii"
	StylePlain Style = "plain"
)

// Render writes t to w. Placeholder rows are printed as a single line of
// text beneath the header.
func Render(w io.Writer, t *table.Rendered, style Style) error {
	labels := t.Labels()
	if len(labels) == 0 {
		if t.State == table.StatePopulated {
			_, err := fmt.Fprintf(w, "(%d rows, no columns to display)\n", len(t.Rows))
			return err
		}
		return writePlaceholder(w, t)
	}

	rendition := tw.Rendition{Symbols: tw.NewSymbols(tw.StyleASCII)}
	if style == StylePlain {
		rendition.Borders = tw.BorderNone
	}
	tbl := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(rendition)),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithHeader(labels),
	)

	if t.State == table.StatePopulated {
		rows := make([][]string, 0, len(t.Rows))
		for _, row := range t.Rows {
			cells := make([]string, len(row.Cells))
			for i, c := range row.Cells {
				cells[i] = cellText(c.Value)
			}
			rows = append(rows, cells)
		}
		if err := tbl.Bulk(rows); err != nil {
			return fmt.Errorf("text table rows: %w", err)
		}
	}
	if err := tbl.Render(); err != nil {
		return fmt.Errorf("render text table: %w", err)
	}
	if t.State != table.StatePopulated {
		return writePlaceholder(w, t)
	}
	return nil
}

func writePlaceholder(w io.Writer, t *table.Rendered) error {
	for _, row := range t.Rows {
		if row.Kind == table.RowData {
			continue
		}
		if _, err := fmt.Fprintln(w, row.Text); err != nil {
			return err
		}
	}
	return nil
}

func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}
