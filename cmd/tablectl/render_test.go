package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cashflow/internal/table"
)

const records = `[
  {"id": 1, "date": "2025-11-01", "description": "Compra mercado", "amount": -120.55},
  {"id": 2, "date": "2025-11-02", "description": "Salário", "amount": 4500, "note": "bonus"}
]`

func run(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr strings.Builder
	cmd := newRootCommand(strings.NewReader(input), &stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTablectl_Text(t *testing.T) {
	out, _, err := run(t, records, "--exclude", "id", "--header", "description=Descrição", "--formatter", "amount=currency")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"Descrição", "Compra mercado", "R$", "120,55"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Note") {
		t.Errorf("first-record inference should not add note:\n%s", out)
	}
}

func TestTablectl_JSON(t *testing.T) {
	out, _, err := run(t, records, "--format", "json", "--infer", "union", "--row-key", "id", "--exclude", "id")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	var got struct {
		State   table.State    `json:"state"`
		Columns []table.Column `json:"columns"`
		Rows    []struct {
			Identity any `json:"identity"`
		} `json:"rows"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if got.State != table.StatePopulated {
		t.Errorf("state = %s, want populated", got.State)
	}
	var keys []string
	for _, c := range got.Columns {
		keys = append(keys, c.Key)
	}
	if diff := cmp.Diff([]string{"date", "description", "amount", "note"}, keys); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if len(got.Rows) != 2 || got.Rows[0].Identity != float64(1) {
		t.Errorf("rows = %+v, want identities from id", got.Rows)
	}
}

func TestTablectl_Placeholders(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{name: "empty array", input: "[]", args: []string{"--columns", "a,b", "--empty-text", "nothing here"}, want: "nothing here"},
		{name: "empty input", input: "", args: []string{"--locale", "en"}, want: "No records found."},
		{name: "loading", input: records, args: []string{"--loading", "--format", "html"}, want: "loading-row"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.input, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestTablectl_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
	}{
		{name: "unknown format", input: records, args: []string{"--format", "xml"}},
		{name: "unknown infer mode", input: records, args: []string{"--infer", "all"}},
		{name: "unknown formatter", input: records, args: []string{"--formatter", "amount=roman"}},
		{name: "not an array", input: `{"a": 1}`},
		{name: "missing file", args: []string{"/nonexistent/records.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := run(t, tt.input, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
