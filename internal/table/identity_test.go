package table

import "testing"

func TestIdentify(t *testing.T) {
	byCode := RowKeyFunc(func(r *Record, _ int) any { return r.Value("code") })

	tests := []struct {
		name          string
		row           *Record
		index         int
		keyer         RowKeyer
		wantID        any
		wantFromIndex bool
	}{
		{name: "keyer wins over id", row: RecordOf("id", 1, "code", "A"), index: 4, keyer: byCode, wantID: "A"},
		{name: "keyer result is authoritative", row: RecordOf("id", 1), index: 4, keyer: byCode, wantID: nil},
		{name: "id field", row: RecordOf("id", 7), index: 2, wantID: 7},
		{name: "zero id is still an id", row: RecordOf("id", 0), index: 2, wantID: 0},
		{name: "nil id falls back to index", row: RecordOf("id", nil), index: 2, wantID: 2, wantFromIndex: true},
		{name: "missing id falls back to index", row: RecordOf("name", "x"), index: 5, wantID: 5, wantFromIndex: true},
		{name: "nil record falls back to index", row: nil, index: 0, wantID: 0, wantFromIndex: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, fromIndex := Identify(tt.row, tt.index, tt.keyer)
			if id != tt.wantID || fromIndex != tt.wantFromIndex {
				t.Errorf("Identify() = (%v, %v), want (%v, %v)", id, fromIndex, tt.wantID, tt.wantFromIndex)
			}
		})
	}
}
