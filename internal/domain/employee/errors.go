package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrEmployeeIDExists     = errors.New("employee id already exists")
	ErrInvalidEmployeeID    = errors.New("invalid employee id format")
	ErrEmptyChecklistUpdate = errors.New("checklist update has no fields")
)
