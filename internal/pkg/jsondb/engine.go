// Package jsondb emulates the relational layer over a single JSON file.
//
// The in-memory document is the source of truth and a single mutex
// serializes every statement. Each mutation is written through to disk
// before the call returns, using write-to-temp then rename, so the file on
// disk is always a complete document. A mutation whose write fails is
// undone in memory as well. One process owns the file.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/sqlsubset"
)

type txKey struct{}

type Engine struct {
	mu     sync.Mutex
	path   string
	doc    *document
	dirty  bool
	writes int
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for NOW() and CURRENT_TIMESTAMP.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Open loads dir/file, creating the directory and an empty default
// document first if they do not exist.
func Open(dir, file string, opts ...Option) (*Engine, error) {
	path := filepath.Join(dir, file)
	if err := ensureDocument(path); err != nil {
		return nil, err
	}
	doc, err := readDocument(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	e := &Engine{path: path, doc: doc, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Path() string { return e.path }

// Writes reports how many times the document has been written to disk.
func (e *Engine) Writes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.writes
}

func (e *Engine) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Engine)
	return owner == e
}

// lock takes the engine lock unless ctx already belongs to a transaction
// on it.
func (e *Engine) lock(ctx context.Context) (unlock func()) {
	if e.inTx(ctx) {
		return func() {}
	}
	e.mu.Lock()
	return e.mu.Unlock
}

// mutate applies fn to the document. Outside a transaction fn runs as a
// transaction of its own, so it is either written to disk or rolled back.
func (e *Engine) mutate(ctx context.Context, fn func() error) error {
	return e.WithTx(ctx, func(context.Context) error { return fn() })
}

func (e *Engine) flushLocked() error {
	if !e.dirty {
		return nil
	}
	if err := writeDocument(e.path, e.doc); err != nil {
		return err
	}
	e.dirty = false
	e.writes++
	return nil
}

// WithTx runs fn holding the engine lock. Changes made through the
// callback's context are written once when fn succeeds and discarded when
// it fails. fn must not issue statements from other goroutines.
func (e *Engine) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if e.inTx(ctx) {
		return fn(ctx)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := e.doc.clone()
	txCtx := context.WithValue(ctx, txKey{}, e)
	if err := fn(txCtx); err != nil {
		e.doc = snapshot
		e.dirty = false
		return err
	}
	if err := e.flushLocked(); err != nil {
		e.doc = snapshot
		e.dirty = false
		return err
	}
	return nil
}

// Query parses sql, binds args and executes it.
func (e *Engine) Query(ctx context.Context, sql string, args ...any) (record.Result, error) {
	stmt, err := sqlsubset.ParseAndBind(sql, args)
	if err != nil {
		return record.Result{}, err
	}
	return e.Exec(ctx, stmt)
}

// Exec runs a bound statement.
func (e *Engine) Exec(ctx context.Context, stmt record.Statement) (record.Result, error) {
	if err := ctx.Err(); err != nil {
		return record.Result{}, err
	}

	switch s := stmt.(type) {
	case record.NowStatement:
		return record.Result{
			Rows:     []record.Row{{"now": e.now().UTC().Format(time.RFC3339Nano)}},
			RowCount: 1,
		}, nil
	case record.SelectStatement:
		if s.Count {
			n, err := e.CountRows(ctx, s.Query.Table, s.Query.Filter)
			if err != nil {
				return record.Result{}, err
			}
			return record.Result{Rows: []record.Row{{"count": json.Number(fmt.Sprint(n))}}, RowCount: 1}, nil
		}
		rows, err := e.SelectRows(ctx, s.Query)
		if err != nil {
			return record.Result{}, err
		}
		return record.Result{Rows: rows, RowCount: len(rows)}, nil
	case record.InsertStatement:
		data := make(record.Row, len(s.Columns))
		for i, col := range s.Columns {
			v := s.Values[i]
			if _, ok := v.(record.CurrentTimestamp); ok {
				v = e.timestamp()
			}
			data[col] = v
		}
		var row record.Row
		err := e.mutate(ctx, func() error {
			var err error
			row, err = e.insertLocked(s.Table, data)
			return err
		})
		if err != nil {
			return record.Result{}, err
		}
		out := record.Row{"id": row["id"]}
		if s.ReturnAll {
			out = row.Clone()
		}
		return record.Result{Rows: []record.Row{out}, RowCount: 1}, nil
	case record.UpdateStatement:
		id, ok := record.ToInt64(s.ID)
		if !ok {
			return record.Result{}, fmt.Errorf("%w: id %v", record.ErrUpdateRequiresID, s.ID)
		}
		data := make(record.Row, len(s.Set))
		for _, a := range s.Set {
			v := a.Value
			if _, ok := v.(record.CurrentTimestamp); ok {
				v = e.timestamp()
			}
			data[a.Column] = v
		}
		n, err := e.UpdateRow(ctx, s.Table, id, data, false)
		if err != nil {
			return record.Result{}, err
		}
		return record.Result{Rows: []record.Row{}, RowCount: int(n)}, nil
	case record.DeleteStatement:
		id, ok := record.ToInt64(s.ID)
		if !ok {
			return record.Result{}, fmt.Errorf("%w: id %v", record.ErrDeleteRequiresID, s.ID)
		}
		n, err := e.DeleteRow(ctx, s.Table, id)
		if err != nil {
			return record.Result{}, err
		}
		return record.Result{Rows: []record.Row{}, RowCount: int(n)}, nil
	}
	return record.Result{}, fmt.Errorf("%w: %T", record.ErrUnsupportedStatement, stmt)
}

func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339Nano)
}

// SelectRows returns copies of the matching rows. An unknown table yields
// no rows.
func (e *Engine) SelectRows(ctx context.Context, q record.Query) ([]record.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateFilter(q.Filter); err != nil {
		return nil, err
	}
	if q.Order != nil && !record.ValidIdentifier(q.Order.Column) {
		return nil, fmt.Errorf("%w: %q", record.ErrInvalidIdentifier, q.Order.Column)
	}

	unlock := e.lock(ctx)
	defer unlock()

	var out []record.Row
	for _, row := range e.doc.tables[q.Table] {
		if matchFilter(row, q.Filter) {
			out = append(out, row.Clone())
		}
	}

	if q.Order != nil {
		col, desc := q.Order.Column, q.Order.Desc
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i][col], out[j][col]
			// Nulls sort last in either direction.
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			cmp, _ := compareValues(a, b)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	if out == nil {
		out = []record.Row{}
	}
	return out, nil
}

func (e *Engine) CountRows(ctx context.Context, table string, filter record.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := validateFilter(filter); err != nil {
		return 0, err
	}
	unlock := e.lock(ctx)
	defer unlock()

	var n int64
	for _, row := range e.doc.tables[table] {
		if matchFilter(row, filter) {
			n++
		}
	}
	return n, nil
}

func (e *Engine) InsertRow(ctx context.Context, table string, data record.Row) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var row record.Row
	err := e.mutate(ctx, func() error {
		var err error
		row, err = e.insertLocked(table, data)
		return err
	})
	if err != nil {
		return 0, err
	}
	return row.ID(), nil
}

// insertLocked assigns max(id)+1 when data carries no id. An explicit id
// that already exists is a unique violation.
func (e *Engine) insertLocked(table string, data record.Row) (record.Row, error) {
	if !record.ValidIdentifier(table) {
		return nil, fmt.Errorf("%w: %q", record.ErrInvalidIdentifier, table)
	}
	row, err := record.NormalizeRow(data)
	if err != nil {
		return nil, err
	}

	rows := e.doc.tables[table]
	var maxID int64
	for _, existing := range rows {
		if id := existing.ID(); id > maxID {
			maxID = id
		}
	}

	if v, ok := row["id"]; ok && v != nil {
		id, ok := record.ToInt64(v)
		if !ok {
			return nil, fmt.Errorf("%s: id %v is not numeric", table, v)
		}
		for _, existing := range rows {
			if existing.ID() == id {
				return nil, &record.ConstraintError{Table: table, Constraint: table + "_pkey"}
			}
		}
		row["id"] = json.Number(fmt.Sprint(id))
	} else {
		row["id"] = json.Number(fmt.Sprint(maxID + 1))
	}

	e.doc.tables[table] = append(rows, row)
	e.dirty = true
	return row, nil
}

// InsertRows inserts one row at a time, so outside a transaction each row
// is its own write to disk.
func (e *Engine) InsertRows(ctx context.Context, table string, rows []record.Row) ([]int64, error) {
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		id, err := e.InsertRow(ctx, table, r)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// UpdateRow merges data into the row with the given id. Nothing is written
// when no row matches.
func (e *Engine) UpdateRow(ctx context.Context, table string, id int64, data record.Row, touch bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(data) == 0 && !touch {
		return 0, record.ErrEmptyUpdate
	}
	patch, err := record.NormalizeRow(data)
	if err != nil {
		return 0, err
	}
	delete(patch, "id")
	if touch {
		patch["updated_at"] = e.timestamp()
	}

	var n int64
	err = e.mutate(ctx, func() error {
		for _, row := range e.doc.tables[table] {
			if row.ID() != id {
				continue
			}
			for k, v := range patch {
				row[k] = record.CloneValue(v)
			}
			n++
		}
		if n > 0 {
			e.dirty = true
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (e *Engine) DeleteRow(ctx context.Context, table string, id int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	err := e.mutate(ctx, func() error {
		rows := e.doc.tables[table]
		kept := rows[:0:0]
		for _, row := range rows {
			if row.ID() == id {
				n++
				continue
			}
			kept = append(kept, row)
		}
		if n > 0 {
			e.doc.tables[table] = kept
			e.dirty = true
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
