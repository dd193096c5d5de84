package endee

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// FilterOp enumerates the operators the service's filter grammar accepts.
type FilterOp string

// Filter operators. Clauses always combine with logical AND.
const (
	OpEq    FilterOp = "$eq"
	OpIn    FilterOp = "$in"
	OpRange FilterOp = "$range"
)

// Bounds for $range clause values.
const (
	rangeMin = 0
	rangeMax = 999
)

// FilterClause matches one field against a value: a scalar for $eq, a list
// for $in, a two-element numeric range for $range.
type FilterClause struct {
	Field string
	Op    FilterOp
	Value any
}

// Filter is an ordered clause list.
type Filter []FilterClause

// Eq builds an equality clause.
func Eq(field string, value any) FilterClause {
	return FilterClause{Field: field, Op: OpEq, Value: value}
}

// In builds a membership clause.
func In(field string, values ...any) FilterClause {
	return FilterClause{Field: field, Op: OpIn, Value: values}
}

// Range builds an inclusive numeric range clause. Bounds must lie in
// [0, 999].
func Range(field string, lo, hi float64) FilterClause {
	return FilterClause{Field: field, Op: OpRange, Value: []float64{lo, hi}}
}

// Render serializes the filter into the wire grammar: a JSON array of
// single-key objects, `{"field": {"$op": value}}`. An empty filter renders
// to the empty string so callers can skip attaching it.
func (f Filter) Render() (string, error) {
	if len(f) == 0 {
		return "", nil
	}
	clauses := make([]map[string]any, 0, len(f))
	for _, c := range f {
		if err := c.validate(); err != nil {
			return "", err
		}
		clauses = append(clauses, map[string]any{c.Field: map[string]any{string(c.Op): c.Value}})
	}
	data, err := json.Marshal(clauses)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return string(data), nil
}

// ParseFilter parses the wire grammar back into a clause list. Empty input
// parses to a nil filter.
func ParseFilter(s string) (Filter, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var raw []map[string]map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	out := make(Filter, 0, len(raw))
	for _, entry := range raw {
		if len(entry) != 1 {
			return nil, fmt.Errorf("%w: clause must have exactly one field, got %d", ErrInvalidFilter, len(entry))
		}
		for field, ops := range entry {
			if len(ops) != 1 {
				return nil, fmt.Errorf("%w: field %q must have exactly one operator, got %d", ErrInvalidFilter, field, len(ops))
			}
			for op, value := range ops {
				c := FilterClause{Field: field, Op: FilterOp(op), Value: value}
				if err := c.validate(); err != nil {
					return nil, err
				}
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (c FilterClause) validate() error {
	if c.Field == "" {
		return fmt.Errorf("%w: empty field name", ErrInvalidFilter)
	}
	switch c.Op {
	case OpEq:
		return nil
	case OpIn:
		v := reflect.ValueOf(c.Value)
		if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
			return fmt.Errorf("%w: $in on %q requires a list value", ErrInvalidFilter, c.Field)
		}
		return nil
	case OpRange:
		lo, hi, ok := rangeBounds(c.Value)
		if !ok {
			return fmt.Errorf("%w: $range on %q requires a two-element numeric range", ErrInvalidFilter, c.Field)
		}
		if lo < rangeMin || lo > rangeMax || hi < rangeMin || hi > rangeMax {
			return fmt.Errorf("%w: $range bounds on %q must lie in [%d, %d]", ErrInvalidFilter, c.Field, rangeMin, rangeMax)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, c.Op)
	}
}

func rangeBounds(value any) (lo, hi float64, ok bool) {
	v := reflect.ValueOf(value)
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || v.Len() != 2 {
		return 0, 0, false
	}
	lo, ok = toFloat(v.Index(0).Interface())
	if !ok {
		return 0, 0, false
	}
	hi, ok = toFloat(v.Index(1).Interface())
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
