package postgresql

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/jackc/pgx/v5"
)

// binder hands out $n placeholders in the order arguments are added.
type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, pgArg(v))
	return "$" + strconv.Itoa(len(b.args))
}

// pgArg converts a normalized row value into something pgx can encode.
func pgArg(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any, []any:
		return t
	}
	return v
}

func quoteIdent(name string) (string, error) {
	if !record.ValidIdentifier(name) {
		return "", fmt.Errorf("%w: %q", record.ErrInvalidIdentifier, name)
	}
	return pgx.Identifier{name}.Sanitize(), nil
}

func renderWhere(b *binder, filter record.Filter) (string, error) {
	if len(filter) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(filter))
	for _, c := range filter {
		col, err := quoteIdent(c.Column)
		if err != nil {
			return "", err
		}
		normalized, err := record.Normalize(c.Value)
		if err != nil {
			return "", err
		}
		switch c.Op {
		case record.OpEq:
			parts = append(parts, fmt.Sprintf("%s = %s", col, b.bind(normalized)))
		case record.OpGte:
			parts = append(parts, fmt.Sprintf("%s >= %s", col, b.bind(normalized)))
		case record.OpLte:
			parts = append(parts, fmt.Sprintf("%s <= %s", col, b.bind(normalized)))
		case record.OpLike:
			// ILIKE keeps parity with the case-insensitive JSON emulator.
			parts = append(parts, fmt.Sprintf("%s::text ILIKE %s", col, b.bind(fmt.Sprint(normalized))))
		default:
			return "", fmt.Errorf("%w: operator %q", record.ErrUnsupportedPredicate, c.Op)
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), nil
}

func buildSelect(q record.Query) (string, []any, error) {
	table, err := quoteIdent(q.Table)
	if err != nil {
		return "", nil, err
	}
	b := &binder{}
	where, err := renderWhere(b, q.Filter)
	if err != nil {
		return "", nil, err
	}
	sql := "SELECT * FROM " + table + where
	if q.Order != nil {
		col, err := quoteIdent(q.Order.Column)
		if err != nil {
			return "", nil, err
		}
		dir := "ASC"
		if q.Order.Desc {
			dir = "DESC"
		}
		sql += fmt.Sprintf(" ORDER BY %s %s NULLS LAST", col, dir)
	}
	if q.Limit > 0 {
		sql += " LIMIT " + b.bind(int64(q.Limit))
	}
	return sql, b.args, nil
}

func buildCount(table string, filter record.Filter) (string, []any, error) {
	t, err := quoteIdent(table)
	if err != nil {
		return "", nil, err
	}
	b := &binder{}
	where, err := renderWhere(b, filter)
	if err != nil {
		return "", nil, err
	}
	return "SELECT COUNT(*) FROM " + t + where, b.args, nil
}

func sortedColumns(rows ...record.Row) []string {
	seen := map[string]struct{}{}
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// buildInsert renders one multi-row INSERT. Columns missing from a row
// take their DEFAULT.
func buildInsert(table string, rows []record.Row) (string, []any, error) {
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("insert into %s: no rows", table)
	}
	t, err := quoteIdent(table)
	if err != nil {
		return "", nil, err
	}

	normalized := make([]record.Row, len(rows))
	for i, r := range rows {
		n, err := record.NormalizeRow(r)
		if err != nil {
			return "", nil, err
		}
		normalized[i] = n
	}

	cols := sortedColumns(normalized...)
	if len(cols) == 0 {
		if len(rows) > 1 {
			return "", nil, fmt.Errorf("insert into %s: empty rows cannot be batched", table)
		}
		return "INSERT INTO " + t + " DEFAULT VALUES RETURNING id", nil, nil
	}

	quoted := make([]string, len(cols))
	for i, c := range cols {
		q, err := quoteIdent(c)
		if err != nil {
			return "", nil, err
		}
		quoted[i] = q
	}

	b := &binder{}
	tuples := make([]string, len(normalized))
	for i, r := range normalized {
		slots := make([]string, len(cols))
		for j, c := range cols {
			v, ok := r[c]
			if !ok {
				slots[j] = "DEFAULT"
				continue
			}
			slots[j] = b.bind(v)
		}
		tuples[i] = "(" + strings.Join(slots, ", ") + ")"
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s RETURNING id",
		t, strings.Join(quoted, ", "), strings.Join(tuples, ", "))
	return sql, b.args, nil
}

func buildUpdate(table string, id int64, data record.Row, touch bool) (string, []any, error) {
	t, err := quoteIdent(table)
	if err != nil {
		return "", nil, err
	}
	patch, err := record.NormalizeRow(data)
	if err != nil {
		return "", nil, err
	}
	delete(patch, "id")
	if touch {
		delete(patch, "updated_at")
	}

	b := &binder{}
	var sets []string
	for _, c := range sortedColumns(patch) {
		q, err := quoteIdent(c)
		if err != nil {
			return "", nil, err
		}
		sets = append(sets, fmt.Sprintf("%s = %s", q, b.bind(patch[c])))
	}
	if touch {
		sets = append(sets, `"updated_at" = CURRENT_TIMESTAMP`)
	}
	if len(sets) == 0 {
		return "", nil, record.ErrEmptyUpdate
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s", t, strings.Join(sets, ", "), b.bind(id))
	return sql, b.args, nil
}
