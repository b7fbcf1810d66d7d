package services

import (
	"testing"

	"cashflow/internal/core"
)

func TestStatementFor(t *testing.T) {
	tests := []struct {
		name        string
		closing     int
		due         int
		purchase    core.Date
		wantClosing string
		wantDue     string
	}{
		{"before closing", 5, 12, core.NewDate(2025, 11, 3), "2025-11-05", "2025-11-12"},
		{"on closing day", 5, 12, core.NewDate(2025, 11, 5), "2025-11-05", "2025-11-12"},
		{"after closing rolls over", 5, 12, core.NewDate(2025, 11, 6), "2025-12-05", "2025-12-12"},
		{"due next month", 25, 3, core.NewDate(2025, 11, 10), "2025-11-25", "2025-12-03"},
		{"year rollover", 25, 3, core.NewDate(2025, 12, 28), "2026-01-25", "2026-02-03"},
		{"short month clamps", 31, 10, core.NewDate(2025, 2, 14), "2025-02-28", "2025-03-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := StatementFor(core.CreditCard{ClosingDay: tt.closing, DueDay: tt.due}, tt.purchase)
			if st.Closing.String() != tt.wantClosing || st.Due.String() != tt.wantDue {
				t.Errorf("StatementFor = %s/%s, want %s/%s", st.Closing, st.Due, tt.wantClosing, tt.wantDue)
			}
		})
	}
}
