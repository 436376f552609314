package record

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row is one open-schema record. Every stored row carries a numeric "id";
// the remaining columns are whatever the writer put there.
type Row map[string]any

// ID returns the numeric primary key, or 0 when absent.
func (r Row) ID() int64 {
	return r.Int64("id")
}

func (r Row) Has(col string) bool {
	_, ok := r[col]
	return ok
}

func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		n, err := Normalize(v)
		if err != nil {
			return ""
		}
		if s, ok := n.(string); ok {
			return s
		}
		if num, ok := n.(json.Number); ok {
			return num.String()
		}
		b, _ := json.Marshal(n)
		return string(b)
	}
}

// StringPtr returns nil for a missing or null column.
func (r Row) StringPtr(col string) *string {
	if r[col] == nil {
		return nil
	}
	s := r.String(col)
	return &s
}

func (r Row) Int64(col string) int64 {
	n, _ := ToInt64(r[col])
	return n
}

func (r Row) Int64Ptr(col string) *int64 {
	n, ok := ToInt64(r[col])
	if !ok {
		return nil
	}
	return &n
}

func (r Row) Int(col string) int {
	return int(r.Int64(col))
}

func (r Row) Float64(col string) float64 {
	f, _ := ToFloat64(r[col])
	return f
}

// Bool accepts booleans and the 0/1 flags used by older rows.
func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		n, ok := ToFloat64(v)
		return ok && n != 0
	}
}

func (r Row) Decimal(col string) decimal.Decimal {
	d, _ := ToDecimal(r[col])
	return d
}

// Time parses RFC3339 timestamps and YYYY-MM-DD dates.
func (r Row) Time(col string) *time.Time {
	switch v := r[col].(type) {
	case time.Time:
		return &v
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t
			}
		}
	}
	return nil
}

// Map returns a nested object column. Missing or non-object values yield nil.
func (r Row) Map(col string) map[string]any {
	switch v := r[col].(type) {
	case map[string]any:
		return v
	case string:
		var m map[string]any
		dec := json.NewDecoder(strings.NewReader(v))
		dec.UseNumber()
		if err := dec.Decode(&m); err == nil {
			return m
		}
	case []byte:
		var m map[string]any
		dec := json.NewDecoder(strings.NewReader(string(v)))
		dec.UseNumber()
		if err := dec.Decode(&m); err == nil {
			return m
		}
	}
	return nil
}

// DecimalMap reads a nested string-keyed numeric object such as salary_info.
func (r Row) DecimalMap(col string) map[string]decimal.Decimal {
	m := r.Map(col)
	if m == nil {
		return map[string]decimal.Decimal{}
	}
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		if d, ok := ToDecimal(v); ok {
			out[k] = d
		}
	}
	return out
}

// Decode unmarshals a nested column (object or array) into dst.
func (r Row) Decode(col string, dst any) error {
	v := r[col]
	if v == nil {
		return nil
	}
	var raw []byte
	switch t := v.(type) {
	case string:
		raw = []byte(t)
	case []byte:
		raw = t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		raw = b
	}
	return json.Unmarshal(raw, dst)
}

// Clone deep-copies the row so callers cannot alias stored state.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies nested objects and arrays.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = CloneValue(inner)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = CloneValue(inner)
		}
		return s
	default:
		return v
	}
}

// DecimalMapValue converts a money map into its stored shape.
func DecimalMapValue(m map[string]decimal.Decimal) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = json.Number(v.String())
	}
	return out
}
