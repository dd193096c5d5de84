package endee

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestFilterRender_Eq(t *testing.T) {
	f := Filter{Eq("genre", "jazz")}
	got, err := f.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if want := `[{"genre":{"$eq":"jazz"}}]`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestFilterRender_In(t *testing.T) {
	f := Filter{In("year", 1990, 1991)}
	got, err := f.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if want := `[{"year":{"$in":[1990,1991]}}]`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestFilterRender_Range(t *testing.T) {
	f := Filter{Range("rating", 10, 99)}
	got, err := f.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if want := `[{"rating":{"$range":[10,99]}}]`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestFilterRender_MultipleClauses(t *testing.T) {
	f := Filter{Eq("genre", "jazz"), Range("year", 0, 999)}
	got, err := f.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	var arr []map[string]map[string]any
	if err := json.Unmarshal([]byte(got), &arr); err != nil {
		t.Fatalf("rendered filter is not a JSON array of objects: %v", err)
	}
	if len(arr) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(arr))
	}
	if _, ok := arr[0]["genre"]["$eq"]; !ok {
		t.Errorf("first clause missing genre $eq: %s", got)
	}
	if _, ok := arr[1]["year"]["$range"]; !ok {
		t.Errorf("second clause missing year $range: %s", got)
	}
}

func TestFilterRender_Empty(t *testing.T) {
	got, err := Filter(nil).Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestFilterRender_RangeBounds(t *testing.T) {
	cases := []FilterClause{
		Range("r", -1, 10),
		Range("r", 0, 1000),
		Range("r", -5, 1200),
	}
	for _, c := range cases {
		_, err := Filter{c}.Render()
		if !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("Range(%v): expected ErrInvalidFilter, got %v", c.Value, err)
		}
	}

	// Boundary values are accepted.
	if _, err := (Filter{Range("r", 0, 999)}).Render(); err != nil {
		t.Errorf("Range(0, 999) should be valid, got %v", err)
	}
}

func TestFilterRender_BadClauses(t *testing.T) {
	cases := []FilterClause{
		{Field: "", Op: OpEq, Value: "x"},
		{Field: "f", Op: OpIn, Value: "not-a-list"},
		{Field: "f", Op: OpRange, Value: []float64{1}},
		{Field: "f", Op: OpRange, Value: []any{"lo", "hi"}},
		{Field: "f", Op: FilterOp("$gt"), Value: 3},
	}
	for _, c := range cases {
		_, err := Filter{c}.Render()
		if !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("%+v: expected ErrInvalidFilter, got %v", c, err)
		}
	}
}

func TestParseFilter_RoundTrip(t *testing.T) {
	src := Filter{Eq("genre", "jazz"), In("year", 1990.0, 1991.0), Range("rating", 1, 99)}
	rendered, err := src.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	parsed, err := ParseFilter(rendered)
	if err != nil {
		t.Fatalf("ParseFilter failed: %v", err)
	}
	if len(parsed) != len(src) {
		t.Fatalf("expected %d clauses, got %d", len(src), len(parsed))
	}
	for i := range src {
		if parsed[i].Field != src[i].Field || parsed[i].Op != src[i].Op {
			t.Errorf("clause %d: got {%s %s}, want {%s %s}",
				i, parsed[i].Field, parsed[i].Op, src[i].Field, src[i].Op)
		}
	}

	reRendered, err := parsed.Render()
	if err != nil {
		t.Fatalf("re-render failed: %v", err)
	}
	var a, b []map[string]map[string]any
	if err := json.Unmarshal([]byte(rendered), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(reRendered), &b); err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Errorf("round-trip changed clause count: %s vs %s", rendered, reRendered)
	}
}

func TestParseFilter_Empty(t *testing.T) {
	for _, s := range []string{"", "[]"} {
		f, err := ParseFilter(s)
		if err != nil {
			t.Errorf("ParseFilter(%q) failed: %v", s, err)
		}
		if f != nil {
			t.Errorf("ParseFilter(%q) = %v, want nil", s, f)
		}
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	cases := []string{
		"not json",
		`{"genre":{"$eq":"jazz"}}`, // object, not array
		`[{"genre":{"$eq":"jazz","$in":["a"]}}]`,
		`[{"genre":{"$gt":3}}]`,
		`[{"a":{"$eq":1},"b":{"$eq":2}}]`,
	}
	for _, s := range cases {
		if _, err := ParseFilter(s); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("ParseFilter(%q): expected ErrInvalidFilter, got %v", s, err)
		}
	}
}

func TestParseFilter_RangeFromJSONNumbers(t *testing.T) {
	f, err := ParseFilter(`[{"rating":{"$range":[0,999]}}]`)
	if err != nil {
		t.Fatalf("ParseFilter failed: %v", err)
	}
	if len(f) != 1 || f[0].Op != OpRange {
		t.Fatalf("unexpected filter: %+v", f)
	}
	if _, err := ParseFilter(`[{"rating":{"$range":[0,1000]}}]`); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected out-of-range bound to be rejected, got %v", err)
	}
}

func TestFilterRender_EscapesStrings(t *testing.T) {
	f := Filter{Eq("title", `say "hi"`)}
	got, err := f.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(got, `\"hi\"`) {
		t.Errorf("expected escaped quotes in %s", got)
	}
	if _, err := ParseFilter(got); err != nil {
		t.Errorf("rendered filter does not parse back: %v", err)
	}
}
