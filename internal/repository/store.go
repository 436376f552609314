// Package repository is the record access layer shared by the domain
// services, plus the typed repositories built on it.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
)

// Store wraps the selected backend with the generic record operations.
type Store struct {
	backend record.Backend
}

func NewStore(backend record.Backend) *Store {
	return &Store{backend: backend}
}

// GetAll returns every row of table ordered by id.
func (s *Store) GetAll(ctx context.Context, table string) ([]record.Row, error) {
	return s.backend.SelectRows(ctx, record.Query{Table: table, Order: record.OrderBy("id", false)})
}

// GetByID returns record.ErrNotFound when no row has the id.
func (s *Store) GetByID(ctx context.Context, table string, id int64) (record.Row, error) {
	return s.FindOne(ctx, record.Query{Table: table, Filter: record.Where(record.Eq("id", id))})
}

func (s *Store) Find(ctx context.Context, q record.Query) ([]record.Row, error) {
	return s.backend.SelectRows(ctx, q)
}

// FindOne returns the first matching row or record.ErrNotFound.
func (s *Store) FindOne(ctx context.Context, q record.Query) (record.Row, error) {
	q.Limit = 1
	rows, err := s.backend.SelectRows(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, record.ErrNotFound
	}
	return rows[0], nil
}

func (s *Store) Count(ctx context.Context, table string, filter record.Filter) (int64, error) {
	return s.backend.CountRows(ctx, table, filter)
}

// Insert returns the id of the new row.
func (s *Store) Insert(ctx context.Context, table string, data record.Row) (int64, error) {
	return s.backend.InsertRow(ctx, table, data)
}

// InsertBatch returns the new ids in input order.
func (s *Store) InsertBatch(ctx context.Context, table string, rows []record.Row) ([]int64, error) {
	if len(rows) == 0 {
		return []int64{}, nil
	}
	return s.backend.InsertRows(ctx, table, rows)
}

// Update applies a partial update and reports affected rows. It first sets
// updated_at as well; tables without that column fail the first attempt,
// so the update is retried once without it.
func (s *Store) Update(ctx context.Context, table string, id int64, data record.Row) (int64, error) {
	n, err := s.backend.UpdateRow(ctx, table, id, data, true)
	if err == nil {
		return n, nil
	}
	slog.Debug("Update with updated_at failed, retrying without it", "table", table, "id", id, "error", err)

	n, err = s.backend.UpdateRow(ctx, table, id, data, false)
	if err != nil {
		return 0, fmt.Errorf("update %s %d: %w", table, id, err)
	}
	return n, nil
}

func (s *Store) Remove(ctx context.Context, table string, id int64) (int64, error) {
	return s.backend.DeleteRow(ctx, table, id)
}

// RemoveWhere deletes every row of table matching filter.
func (s *Store) RemoveWhere(ctx context.Context, table string, filter record.Filter) (int64, error) {
	var removed int64
	err := s.WithTx(ctx, func(ctx context.Context) error {
		rows, err := s.backend.SelectRows(ctx, record.Query{Table: table, Filter: filter})
		if err != nil {
			return err
		}
		for _, r := range rows {
			n, err := s.backend.DeleteRow(ctx, table, r.ID())
			if err != nil {
				return err
			}
			removed += n
		}
		return nil
	})
	return removed, err
}

// Query runs SQL text. On the JSON backend only the supported subset parses.
func (s *Store) Query(ctx context.Context, sql string, args ...any) (record.Result, error) {
	return s.backend.Query(ctx, sql, args...)
}

// ResetTableSequence moves the id sequence of table past its max id.
func (s *Store) ResetTableSequence(ctx context.Context, table string) error {
	return s.backend.ResetSequence(ctx, table)
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.backend.WithTx(ctx, fn)
}

func (s *Store) IsPostgres() bool {
	return s.backend.IsPostgres()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) Close() {
	s.backend.Close()
}
