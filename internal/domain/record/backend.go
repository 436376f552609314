package record

import "context"

// Result mirrors the {rows, rowCount} shape callers of the SQL seam expect.
type Result struct {
	Rows     []Row `json:"rows"`
	RowCount int   `json:"rowCount"`
}

// Transactor runs fn so that every statement issued with the callback's
// context commits or rolls back together.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Backend is the storage capability set shared by the relational pool and
// the JSON document emulator. It is selected once at startup.
type Backend interface {
	Transactor

	SelectRows(ctx context.Context, q Query) ([]Row, error)
	CountRows(ctx context.Context, table string, filter Filter) (int64, error)
	InsertRow(ctx context.Context, table string, data Row) (int64, error)
	// InsertRows returns the new ids in input order.
	InsertRows(ctx context.Context, table string, rows []Row) ([]int64, error)
	// UpdateRow merges data into the row with the given id. When touch is
	// set, updated_at is also set to the current timestamp.
	UpdateRow(ctx context.Context, table string, id int64, data Row, touch bool) (int64, error)
	DeleteRow(ctx context.Context, table string, id int64) (int64, error)

	// Query runs SQL text with $n placeholders.
	Query(ctx context.Context, sql string, args ...any) (Result, error)

	// ResetSequence moves the table's id sequence past max(id).
	ResetSequence(ctx context.Context, table string) error

	IsPostgres() bool
	Ping(ctx context.Context) error
	Close()
}
