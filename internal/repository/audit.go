package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
)

type auditRepositoryImpl struct {
	store *Store
}

func NewAuditRepository(store *Store) audit.AuditRepository {
	return &auditRepositoryImpl{store: store}
}

func auditFromRow(r record.Row) audit.Entry {
	return audit.Entry{
		ID:        r.ID(),
		UserID:    r.Int64Ptr("user_id"),
		Action:    r.String("action"),
		Entity:    r.String("entity"),
		EntityID:  r.Int64Ptr("entity_id"),
		OldValue:  r.StringPtr("old_value"),
		NewValue:  r.StringPtr("new_value"),
		CreatedAt: r.Time("created_at"),
	}
}

// Create implements audit.AuditRepository.
func (r *auditRepositoryImpl) Create(ctx context.Context, e audit.Entry) (audit.Entry, error) {
	now := time.Now().UTC()
	id, err := r.store.Insert(ctx, record.TableAuditLogs, record.Row{
		"user_id":    e.UserID,
		"action":     e.Action,
		"entity":     e.Entity,
		"entity_id":  e.EntityID,
		"old_value":  e.OldValue,
		"new_value":  e.NewValue,
		"created_at": now,
	})
	if err != nil {
		return audit.Entry{}, fmt.Errorf("failed to create audit entry: %w", err)
	}
	e.ID = id
	e.CreatedAt = &now
	return e, nil
}

// List implements audit.AuditRepository.
func (r *auditRepositoryImpl) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	var where record.Filter
	if filter.Entity != "" {
		where = append(where, record.Eq("entity", filter.Entity))
	}
	if filter.EntityID != nil {
		where = append(where, record.Eq("entity_id", *filter.EntityID))
	}
	if filter.UserID != nil {
		where = append(where, record.Eq("user_id", *filter.UserID))
	}

	rows, err := r.store.Find(ctx, record.Query{
		Table:  record.TableAuditLogs,
		Filter: where,
		Order:  record.OrderBy("id", true),
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	out := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, auditFromRow(row))
	}
	return out, nil
}
