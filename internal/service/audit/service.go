package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
)

type AuditServiceImpl struct {
	auditRepo audit.AuditRepository
}

func NewAuditService(auditRepo audit.AuditRepository) audit.AuditService {
	return &AuditServiceImpl{auditRepo: auditRepo}
}

// Log implements audit.AuditService.
func (s *AuditServiceImpl) Log(ctx context.Context, action, entity string, entityID int64, oldValue, newValue any) error {
	entry := audit.Entry{
		Action: action,
		Entity: entity,
	}
	if entityID > 0 {
		entry.EntityID = &entityID
	}

	// Unauthenticated calls (first registration, login) carry no actor.
	if claims, err := jwt.ClaimsFromContext(ctx); err == nil {
		entry.UserID = &claims.UserID
	}

	var err error
	if entry.OldValue, err = snapshot(oldValue); err != nil {
		return err
	}
	if entry.NewValue, err = snapshot(newValue); err != nil {
		return err
	}

	if _, err := s.auditRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// List implements audit.AuditService.
func (s *AuditServiceImpl) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.auditRepo.List(ctx, filter)
}

func snapshot(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit snapshot: %w", err)
	}
	s := string(data)
	return &s, nil
}
