package audit

import "context"

type AuditService interface {
	// Log records an action by the user in ctx. oldValue and newValue are
	// marshalled to JSON; nil values are stored as null.
	Log(ctx context.Context, action, entity string, entityID int64, oldValue, newValue any) error
	List(ctx context.Context, filter Filter) ([]Entry, error)
}
