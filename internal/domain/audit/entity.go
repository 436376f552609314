package audit

import "time"

// Actions recorded in the audit log.
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionSubmit  = "submit"
	ActionLogin   = "login"
	ActionLogout  = "logout"
)

// Entry is an append-only audit record. OldValue and NewValue hold JSON
// snapshots of the entity.
type Entry struct {
	ID        int64      `json:"id"`
	UserID    *int64     `json:"user_id,omitempty"`
	Action    string     `json:"action"`
	Entity    string     `json:"entity"`
	EntityID  *int64     `json:"entity_id,omitempty"`
	OldValue  *string    `json:"old_value,omitempty"`
	NewValue  *string    `json:"new_value,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type Filter struct {
	Entity   string `json:"entity,omitempty"`
	EntityID *int64 `json:"entity_id,omitempty"`
	UserID   *int64 `json:"user_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}
