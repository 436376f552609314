package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

// TestDatabaseSetup holds a pool against TEST_DATABASE_URL.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to the test database, skipping the test when
// TEST_DATABASE_URL is not set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), config.DatabaseConfig{
		URL:             dsn,
		MaxConns:        4,
		MaxConnIdleTime: 30 * time.Second,
		ConnectTimeout:  2 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	return &TestDatabaseSetup{DB: db}
}

// CreateScratchTables creates the tables the backend tests touch.
func (t *TestDatabaseSetup) CreateScratchTables(ctx context.Context) error {
	statements := []string{
		`DROP TABLE IF EXISTS backend_test_items`,
		`CREATE TABLE backend_test_items (
			id SERIAL PRIMARY KEY,
			name TEXT,
			amount NUMERIC(12,2),
			day DATE,
			code TEXT UNIQUE,
			updated_at TIMESTAMPTZ
		)`,
		`DROP TABLE IF EXISTS backend_test_plain`,
		`CREATE TABLE backend_test_plain (id SERIAL PRIMARY KEY, name TEXT)`,
	}
	for _, stmt := range statements {
		if _, err := t.DB.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare scratch tables: %w", err)
		}
	}
	return nil
}

// CreateAttendanceTable creates the attendance table the service tests
// write through.
func (t *TestDatabaseSetup) CreateAttendanceTable(ctx context.Context) error {
	statements := []string{
		`DROP TABLE IF EXISTS attendance`,
		`CREATE TABLE attendance (
			id SERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL,
			date DATE NOT NULL,
			status TEXT NOT NULL,
			time_in TEXT,
			time_out TEXT,
			remarks TEXT,
			created_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ,
			UNIQUE (employee_id, date)
		)`,
	}
	for _, stmt := range statements {
		if _, err := t.DB.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare attendance table: %w", err)
		}
	}
	return nil
}

// DropAttendanceTable removes what CreateAttendanceTable made.
func (t *TestDatabaseSetup) DropAttendanceTable(ctx context.Context) {
	_, _ = t.DB.Exec(ctx, `DROP TABLE IF EXISTS attendance`)
}

// DropScratchTables removes what CreateScratchTables made.
func (t *TestDatabaseSetup) DropScratchTables(ctx context.Context) {
	_, _ = t.DB.Exec(ctx, `DROP TABLE IF EXISTS backend_test_items`)
	_, _ = t.DB.Exec(ctx, `DROP TABLE IF EXISTS backend_test_plain`)
}

// Close closes the pool.
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
