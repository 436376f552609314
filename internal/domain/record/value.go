package record

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Normalize converts a Go value into the shapes a JSON document can hold
// without loss: string, json.Number, bool, nil, map[string]any and []any.
// Both backends hand rows back in these shapes.
func Normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string, bool, json.Number:
		return t, nil
	case int:
		return json.Number(strconv.FormatInt(int64(t), 10)), nil
	case int8:
		return json.Number(strconv.FormatInt(int64(t), 10)), nil
	case int16:
		return json.Number(strconv.FormatInt(int64(t), 10)), nil
	case int32:
		return json.Number(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case uint:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint16:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint32:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), nil
	case float32:
		return normalizeFloat(float64(t))
	case float64:
		return normalizeFloat(t)
	case decimal.Decimal:
		return json.Number(t.String()), nil
	case *decimal.Decimal:
		if t == nil {
			return nil, nil
		}
		return json.Number(t.String()), nil
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano), nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		return t.UTC().Format(time.RFC3339Nano), nil
	case []byte:
		return string(t), nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			n, err := Normalize(inner)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			n, err := Normalize(inner)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case Row:
		return Normalize(map[string]any(t))
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		return Normalize(rv.Elem().Interface())
	}

	// Structs, typed maps and slices go through a JSON round trip.
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize %T: %w", v, err)
	}
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("normalize %T: %w", v, err)
	}
	return out, nil
}

func normalizeFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("normalize: %v is not representable", f)
	}
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// NormalizeRow normalizes every column of data.
func NormalizeRow(data Row) (Row, error) {
	out := make(Row, len(data))
	for k, v := range data {
		n, err := Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}

// IsNumber reports whether v is a Go or JSON number (strings excluded).
func IsNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number, decimal.Decimal:
		return true
	}
	return false
}

func ToInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return int64(t), true
	case float32:
		return int64(t), true
	case float64:
		return int64(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		if f, err := t.Float64(); err == nil {
			return int64(f), true
		}
	case decimal.Decimal:
		return t.IntPart(), true
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func ToFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case decimal.Decimal:
		return t.InexactFloat64(), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	if n, ok := ToInt64(v); ok {
		return float64(n), true
	}
	return 0, false
}

func ToDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	}
	if n, ok := ToInt64(v); ok {
		return decimal.NewFromInt(n), true
	}
	return decimal.Zero, false
}
