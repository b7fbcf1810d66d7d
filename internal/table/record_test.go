package table

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecord_KeepsInsertionOrder(t *testing.T) {
	r := NewRecord().Set("z", 1).Set("a", 2).Set("m", 3)
	r.Set("z", 10)

	if diff := cmp.Diff([]string{"z", "a", "m"}, r.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if r.Value("z") != 10 {
		t.Errorf("Value(z) = %v, want 10", r.Value("z"))
	}

	r.Delete("a")
	if diff := cmp.Diff([]string{"z", "m"}, r.Keys()); diff != "" {
		t.Errorf("keys after delete mismatch (-want +got):\n%s", diff)
	}
	if r.Has("a") {
		t.Error("deleted field still present")
	}
}

func TestRecord_NilSafe(t *testing.T) {
	var r *Record
	if r.Has("x") || r.Value("x") != nil || r.Len() != 0 || r.Keys() != nil {
		t.Error("nil record should behave as an empty record")
	}
	if c := r.Clone(); c.Len() != 0 {
		t.Errorf("Clone of nil has %d fields", c.Len())
	}
}

func TestRecord_HasNilValue(t *testing.T) {
	r := RecordOf("id", nil, "dangling")
	if !r.Has("id") || !r.Has("dangling") {
		t.Error("fields with nil values should still exist")
	}
}

func TestRecord_JSONRoundTripKeepsOrder(t *testing.T) {
	in := `{"zeta":1,"alpha":"x","nested":{"b":true,"a":null},"list":[1,{"k":"v"}]}`

	var r Record
	if err := json.Unmarshal([]byte(in), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "nested", "list"}, r.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if r.Value("zeta") != json.Number("1") {
		t.Errorf("numbers should decode as json.Number, got %T", r.Value("zeta"))
	}
	nested, ok := r.Value("nested").(*Record)
	if !ok {
		t.Fatalf("nested object decoded as %T, want *Record", r.Value("nested"))
	}
	if diff := cmp.Diff([]string{"b", "a"}, nested.Keys()); diff != "" {
		t.Errorf("nested keys mismatch (-want +got):\n%s", diff)
	}

	out, err := json.Marshal(&r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != in {
		t.Errorf("round trip = %s, want %s", out, in)
	}
}

func TestRecord_UnmarshalRejectsNonObject(t *testing.T) {
	for _, in := range []string{`[]`, `"x"`, `12`} {
		var r Record
		if err := json.Unmarshal([]byte(in), &r); err == nil {
			t.Errorf("Unmarshal(%s) should fail", in)
		}
	}
}

func TestDataSet_UnmarshalJSON(t *testing.T) {
	var ds DataSet
	if err := json.Unmarshal([]byte(`[{"id":1,"b":2},null,{"id":3}]`), &ds); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(ds) != 3 {
		t.Fatalf("len = %d, want 3", len(ds))
	}
	if ds[1] != nil {
		t.Errorf("null entry = %v, want nil record", ds[1])
	}
	if diff := cmp.Diff([]string{"id", "b"}, ds.First().Keys()); diff != "" {
		t.Errorf("first keys mismatch (-want +got):\n%s", diff)
	}

	if err := json.Unmarshal([]byte(`[1]`), &ds); err == nil {
		t.Error("non-object entries should fail")
	}
}
