package leave

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPendingBranchManager Status = "Pending Branch Manager"
	StatusApproved             Status = "Approved"
	StatusRejected             Status = "Rejected"
)

// PendingStatus names the approver tier a request at level waits for.
func PendingStatus(level int) Status {
	if level <= 1 {
		return StatusPendingBranchManager
	}
	return Status(fmt.Sprintf("Pending Level %d", level))
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Decision string

const (
	DecisionApproved Decision = "Approved"
	DecisionRejected Decision = "Rejected"
)

// Approval is one immutable entry of a request's approval history.
type Approval struct {
	Level      int       `json:"level"`
	ApproverID *int64    `json:"approver_id,omitempty"`
	Decision   Decision  `json:"decision"`
	Remarks    *string   `json:"remarks,omitempty"`
	At         time.Time `json:"at"`
}

type LeaveRequest struct {
	ID                   int64      `json:"id"`
	EmployeeID           int64      `json:"employee_id"`
	LeaveType            string     `json:"leave_type"`
	StartDate            string     `json:"start_date"`
	EndDate              string     `json:"end_date"`
	DaysCount            int        `json:"days_count"`
	Reason               *string    `json:"reason,omitempty"`
	Approvals            []Approval `json:"approvals"`
	CurrentApprovalLevel int        `json:"current_approval_level"`
	Status               Status     `json:"status"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

// Dates returns every calendar day of the request, inclusive.
func (r LeaveRequest) Dates() ([]string, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return nil, err
	}
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format("2006-01-02"))
	}
	return out, nil
}

// DaysCount counts calendar days from start to end, inclusive.
func DaysCount(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
