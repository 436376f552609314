// Package jsonfile adapts the JSON document engine to the record.Backend
// capability set used when no database URL is configured.
package jsonfile

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jsondb"
)

type Backend struct {
	*jsondb.Engine
}

var _ record.Backend = (*Backend)(nil)

// NewBackend opens (or creates) dir/file as the backing document.
func NewBackend(dir, file string, opts ...jsondb.Option) (*Backend, error) {
	engine, err := jsondb.Open(dir, file, opts...)
	if err != nil {
		return nil, err
	}
	return &Backend{Engine: engine}, nil
}

func (b *Backend) IsPostgres() bool { return false }

// ResetSequence is a no-op: ids are always derived from max(id)+1.
func (b *Backend) ResetSequence(ctx context.Context, table string) error {
	return nil
}

// Ping succeeds once the document has loaded.
func (b *Backend) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (b *Backend) Close() {}
