package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	apphttp "cashflow/internal/http"
	"cashflow/internal/i18n"
	"cashflow/internal/log"
	"cashflow/internal/table"
	"cashflow/internal/table/htmlview"
	"cashflow/internal/table/textview"
)

type renderParams struct {
	columns    []string
	exclude    []string
	headers    map[string]string
	formatters map[string]string
	rowKey     string
	infer      string
	labelStyle string
	emptyText  string
	loading    bool
	dense      bool
	format     string
	locale     string
	currency   string
	verbose    bool
}

var outputFormats = []string{apphttp.OutputText, apphttp.OutputJSON, apphttp.OutputHTML}

func addRenderFlags(fs *pflag.FlagSet, p *renderParams) {
	fs.StringSliceVarP(&p.columns, "columns", "c", nil, "explicit column keys, in order")
	fs.StringSliceVarP(&p.exclude, "exclude", "x", nil, "column keys to drop")
	fs.StringToStringVar(&p.headers, "header", nil, "header label override, key=label (repeatable)")
	fs.StringToStringVar(&p.formatters, "formatter", nil, "built-in formatter per column, key=currency|date|status|type (repeatable)")
	fs.StringVar(&p.rowKey, "row-key", "", "field used as row identity")
	fs.StringVar(&p.infer, "infer", string(table.InferFirst), "column inference when --columns is empty: first|union")
	fs.StringVar(&p.labelStyle, "label-style", string(table.LabelTitle), "header humanization: title|sentence")
	fs.StringVar(&p.emptyText, "empty-text", "", "text shown when there are no records")
	fs.BoolVar(&p.loading, "loading", false, "render the loading placeholder")
	fs.BoolVar(&p.dense, "dense", false, "compact presentation hint")
	fs.StringVarP(&p.format, "format", "f", apphttp.OutputText, "output format: "+strings.Join(outputFormats, "|"))
	fs.StringVar(&p.locale, "locale", i18n.Default.Tag.String(), "locale for labels and formatting")
	fs.StringVar(&p.currency, "currency", "BRL", "ISO 4217 code for the currency formatter")
	fs.BoolVarP(&p.verbose, "verbose", "v", false, "log render details to stderr")
}

func (p *renderParams) validate() error {
	for _, f := range outputFormats {
		if p.format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q: must be one of %s", p.format, strings.Join(outputFormats, ", "))
}

func (p *renderParams) renderConfig() apphttp.RenderConfig {
	rc := apphttp.RenderConfig{
		Columns:     p.columns,
		ExcludeKeys: p.exclude,
		Headers:     p.headers,
		Formatters:  p.formatters,
		EmptyText:   p.emptyText,
		Loading:     p.loading,
		RowKey:      p.rowKey,
		InferFrom:   table.InferMode(p.infer),
		LabelStyle:  table.LabelStyle(p.labelStyle),
	}
	if p.dense {
		hints := table.DefaultHints()
		hints.Dense = true
		rc.Hints = &hints
	}
	return rc
}

func newRootCommand(stdin io.Reader, stdout io.Writer) *cobra.Command {
	params := &renderParams{}
	cmd := &cobra.Command{
		Use:   "tablectl [file]",
		Short: "Render a JSON array of records as a table",
		Long: `Render a JSON array of records as a table.

Reads the records from file, or from stdin when file is omitted or "-".
Columns are inferred from the records unless --columns is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		PreRunE: func(*cobra.Command, []string) error {
			return params.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			in := stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return render(in, stdout, cmd.ErrOrStderr(), params)
		},
	}
	addRenderFlags(cmd.Flags(), params)
	return cmd
}

func render(in io.Reader, out, errOut io.Writer, p *renderParams) error {
	var data table.DataSet
	if err := json.NewDecoder(in).Decode(&data); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode records: %w", err)
	}

	loc := i18n.Lookup(p.locale)
	tables, err := apphttp.NewTables(loc, p.currency, table.InferMode(p.infer))
	if err != nil {
		return err
	}
	cfg, err := p.renderConfig().TableConfig(tables)
	if err != nil {
		return err
	}

	level := log.ParseLevel("warn")
	if p.verbose {
		level = log.ParseLevel("debug")
	}
	logger := log.New(log.Config{Level: level, Output: errOut, Component: log.ComponentCLI})
	rendered := table.NewRenderer(table.WithLogger(logger)).Render(cfg, data)

	switch p.format {
	case apphttp.OutputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rendered)
	case apphttp.OutputHTML:
		return htmlview.Render(out, rendered, htmlview.Options{})
	default:
		return textview.Render(out, rendered, textview.StyleASCII)
	}
}
