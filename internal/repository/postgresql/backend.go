package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const uniqueViolationCode = "23505"

// Backend runs record queries against PostgreSQL through the pool.
type Backend struct {
	db *database.DB
}

var _ record.Backend = (*Backend)(nil)

func NewBackend(db *database.DB) *Backend {
	return &Backend{db: db}
}

func (b *Backend) IsPostgres() bool { return true }

func (b *Backend) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}

func (b *Backend) Close() {
	b.db.Close()
}

func (b *Backend) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, b.db, fn)
}

func (b *Backend) SelectRows(ctx context.Context, q record.Query) ([]record.Row, error) {
	sql, args, err := buildSelect(q)
	if err != nil {
		return nil, err
	}
	res, err := b.run(ctx, q.Table, sql, args)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

func (b *Backend) CountRows(ctx context.Context, table string, filter record.Filter) (int64, error) {
	sql, args, err := buildCount(table, filter)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := GetQuerier(ctx, b.db).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, mapError(table, err)
	}
	return n, nil
}

func (b *Backend) InsertRow(ctx context.Context, table string, data record.Row) (int64, error) {
	ids, err := b.InsertRows(ctx, table, []record.Row{data})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// InsertRows sends every row in a single INSERT statement.
func (b *Backend) InsertRows(ctx context.Context, table string, rows []record.Row) ([]int64, error) {
	if len(rows) == 0 {
		return []int64{}, nil
	}
	sql, args, err := buildInsert(table, rows)
	if err != nil {
		return nil, err
	}

	pgRows, err := GetQuerier(ctx, b.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(table, err)
	}
	ids, err := pgx.CollectRows(pgRows, pgx.RowTo[int64])
	if err != nil {
		return nil, mapError(table, err)
	}
	return ids, nil
}

// UpdateRow runs the update inside a savepoint when a transaction is open,
// so a failed attempt (for example a missing updated_at column) does not
// abort the surrounding transaction.
func (b *Backend) UpdateRow(ctx context.Context, table string, id int64, data record.Row, touch bool) (int64, error) {
	sql, args, err := buildUpdate(table, id, data, touch)
	if err != nil {
		return 0, err
	}

	if tx, ok := txFromContext(ctx); ok {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return 0, fmt.Errorf("begin savepoint: %w", err)
		}
		tag, err := sp.Exec(ctx, sql, args...)
		if err != nil {
			_ = sp.Rollback(ctx)
			return 0, mapError(table, err)
		}
		if err := sp.Commit(ctx); err != nil {
			return 0, fmt.Errorf("release savepoint: %w", err)
		}
		return tag.RowsAffected(), nil
	}

	tag, err := b.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapError(table, err)
	}
	return tag.RowsAffected(), nil
}

func (b *Backend) DeleteRow(ctx context.Context, table string, id int64) (int64, error) {
	t, err := quoteIdent(table)
	if err != nil {
		return 0, err
	}
	tag, err := GetQuerier(ctx, b.db).Exec(ctx, "DELETE FROM "+t+" WHERE id = $1", id)
	if err != nil {
		return 0, mapError(table, err)
	}
	return tag.RowsAffected(), nil
}

// Query passes SQL text straight to the server.
func (b *Backend) Query(ctx context.Context, sql string, args ...any) (record.Result, error) {
	converted := make([]any, len(args))
	for i, a := range args {
		n, err := record.Normalize(a)
		if err != nil {
			return record.Result{}, err
		}
		converted[i] = pgArg(n)
	}
	return b.run(ctx, "", sql, converted)
}

func (b *Backend) run(ctx context.Context, table, sql string, args []any) (record.Result, error) {
	rows, err := GetQuerier(ctx, b.db).Query(ctx, sql, args...)
	if err != nil {
		return record.Result{}, mapError(table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []record.Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return record.Result{}, fmt.Errorf("read row: %w", err)
		}
		r := make(record.Row, len(values))
		for i, v := range values {
			n, err := normalizeColumn(fields[i].DataTypeOID, v)
			if err != nil {
				return record.Result{}, fmt.Errorf("column %s: %w", fields[i].Name, err)
			}
			r[fields[i].Name] = n
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return record.Result{}, mapError(table, err)
	}

	count := len(out)
	if len(fields) == 0 || rows.CommandTag().Insert() || rows.CommandTag().Update() || rows.CommandTag().Delete() {
		count = int(rows.CommandTag().RowsAffected())
	}
	return record.Result{Rows: out, RowCount: count}, nil
}

// normalizeColumn brings a decoded value into the same shape the JSON
// document uses: dates as YYYY-MM-DD, timestamps as RFC3339, numerics as
// json.Number.
func normalizeColumn(oid uint32, v any) (any, error) {
	switch oid {
	case pgtype.DateOID:
		if t, ok := v.(time.Time); ok {
			return t.Format("2006-01-02"), nil
		}
	case pgtype.NumericOID:
		if n, ok := v.(pgtype.Numeric); ok {
			if !n.Valid {
				return nil, nil
			}
			dv, err := n.Value()
			if err != nil {
				return nil, err
			}
			if s, ok := dv.(string); ok {
				d, err := decimal.NewFromString(s)
				if err != nil {
					return s, nil
				}
				return json.Number(d.String()), nil
			}
		}
	}
	return record.Normalize(v)
}

// ResetSequence moves the id sequence of table past its current max(id).
// The sequence name comes from pg_get_serial_sequence, falling back to the
// <table>_id_seq convention.
func (b *Backend) ResetSequence(ctx context.Context, table string) error {
	t, err := quoteIdent(table)
	if err != nil {
		return err
	}
	q := GetQuerier(ctx, b.db)

	var seq *string
	if err := q.QueryRow(ctx, "SELECT pg_get_serial_sequence($1, 'id')", table).Scan(&seq); err != nil || seq == nil || *seq == "" {
		fallback := table + "_id_seq"
		slog.Warn("Serial sequence lookup failed, using naming convention", "table", table, "sequence", fallback, "error", err)
		seq = &fallback
	}

	query := fmt.Sprintf("SELECT setval($1, COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)", t)
	if _, err := q.Exec(ctx, query, *seq); err != nil {
		return fmt.Errorf("reset sequence %s: %w", *seq, err)
	}
	slog.Info("Reset table sequence", "table", table, "sequence", *seq)
	return nil
}

func mapError(table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return record.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		t := table
		if t == "" {
			t = pgErr.TableName
		}
		return &record.ConstraintError{Table: t, Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}
