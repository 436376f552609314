package jsondb

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
)

// compareValues orders a against b. Numbers compare numerically when at
// least one side is a number and the other parses as one, RFC3339
// timestamps compare as instants, and everything else compares as text. ok is false when either side is null.
func compareValues(a, b any) (cmp int, ok bool) {
	if a == nil || b == nil {
		return 0, false
	}
	if record.IsNumber(a) || record.IsNumber(b) {
		fa, okA := record.ToFloat64(a)
		fb, okB := record.ToFloat64(b)
		if okA && okB {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			}
			return 0, true
		}
	}
	sa, sb := textOf(a), textOf(b)
	if ta, okA := parseTimestamp(sa); okA {
		if tb, okB := parseTimestamp(sb); okB {
			return ta.Compare(tb), true
		}
	}
	return strings.Compare(sa, sb), true
}

// parseTimestamp accepts RFC3339 timestamps only; plain dates keep
// comparing as text, which already orders correctly.
func parseTimestamp(s string) (time.Time, bool) {
	if len(s) < len("2006-01-02T15:04:05Z") || s[10] != 'T' {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	return t, err == nil
}

func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	n, err := record.Normalize(v)
	if err == nil {
		if s, ok := n.(string); ok {
			return s
		}
	}
	return fmt.Sprint(v)
}

var likeCache sync.Map

// likeRegexp translates a LIKE pattern with PostgreSQL's rules: % matches
// any run of characters, _ matches one, a backslash makes the next
// character literal, and matching ignores case.
func likeRegexp(pattern string) *regexp.Regexp {
	if re, ok := likeCache.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	var b strings.Builder
	b.WriteString("(?is)^")
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if escaped {
		b.WriteString(regexp.QuoteMeta("\\"))
	}
	b.WriteString("$")
	re := regexp.MustCompile(b.String())
	likeCache.Store(pattern, re)
	return re
}

func matchCondition(row record.Row, c record.Condition) bool {
	v, present := row[c.Column]
	if !present || v == nil || c.Value == nil {
		return false
	}
	switch c.Op {
	case record.OpLike:
		return likeRegexp(textOf(c.Value)).MatchString(textOf(v))
	case record.OpEq:
		cmp, ok := compareValues(v, c.Value)
		return ok && cmp == 0
	case record.OpGte:
		cmp, ok := compareValues(v, c.Value)
		return ok && cmp >= 0
	case record.OpLte:
		cmp, ok := compareValues(v, c.Value)
		return ok && cmp <= 0
	}
	return false
}

func matchFilter(row record.Row, f record.Filter) bool {
	for _, c := range f {
		if !matchCondition(row, c) {
			return false
		}
	}
	return true
}

func validateFilter(f record.Filter) error {
	for _, c := range f {
		if !c.Op.Valid() {
			return fmt.Errorf("%w: operator %q", record.ErrUnsupportedPredicate, c.Op)
		}
		if !record.ValidIdentifier(c.Column) {
			return fmt.Errorf("%w: %q", record.ErrInvalidIdentifier, c.Column)
		}
	}
	return nil
}
