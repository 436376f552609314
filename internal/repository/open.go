package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/jsonfile"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
)

// Open selects the backend once: PostgreSQL when a database URL is
// configured, otherwise the JSON document under the data directory.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.UsePostgres() {
		db, err := database.NewPostgreSQLDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open postgres pool: %w", err)
		}
		slog.Info("Using PostgreSQL backend",
			"max_conns", cfg.Database.MaxConns,
			"max_conn_idle_time", cfg.Database.MaxConnIdleTime.String(),
			"connect_timeout", cfg.Database.ConnectTimeout.String(),
		)
		return NewStore(postgresql.NewBackend(db)), nil
	}

	backend, err := jsonfile.NewBackend(cfg.Storage.DataDir, cfg.Storage.DataFile)
	if err != nil {
		return nil, fmt.Errorf("open json document: %w", err)
	}
	slog.Info("Using JSON file backend", "path", backend.Path())
	return NewStore(backend), nil
}
