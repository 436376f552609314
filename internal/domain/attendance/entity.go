package attendance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AnnualLeaveEntitlement is the number of leave days each employee may
// record per calendar year.
const AnnualLeaveEntitlement = 5

type Status string

const (
	StatusPresent       Status = "Present"
	StatusLate          Status = "Late"
	StatusAbsent        Status = "Absent"
	StatusOnLeave       Status = "On Leave"
	StatusHalfDay       Status = "Half-Day"
	StatusSickLeave     Status = "Sick Leave"
	StatusVacationLeave Status = "Vacation Leave"
)

var Statuses = []string{
	string(StatusPresent),
	string(StatusLate),
	string(StatusAbsent),
	string(StatusOnLeave),
	string(StatusHalfDay),
	string(StatusSickLeave),
	string(StatusVacationLeave),
}

// IsLeave reports whether the status consumes leave entitlement.
func (s Status) IsLeave() bool {
	return strings.Contains(strings.ToLower(string(s)), "leave")
}

type Attendance struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employee_id"`
	Date       string     `json:"date"`
	Status     Status     `json:"status"`
	TimeIn     *string    `json:"time_in,omitempty"`
	TimeOut    *string    `json:"time_out,omitempty"`
	Remarks    *string    `json:"remarks,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// Summary counts attendance days in a period.
type Summary struct {
	EmployeeID int64 `json:"employee_id"`
	Present    int   `json:"present"`
	Late       int   `json:"late"`
	Absent     int   `json:"absent"`
	HalfDay    int   `json:"half_day"`
	Leave      int   `json:"leave"`
}

// DaysWorked counts present and late days fully and half-days as 0.5.
func (s Summary) DaysWorked() decimal.Decimal {
	full := decimal.NewFromInt(int64(s.Present + s.Late))
	return full.Add(decimal.NewFromInt(int64(s.HalfDay)).Div(decimal.NewFromInt(2)))
}

func (s *Summary) Add(status Status) {
	switch {
	case status == StatusPresent:
		s.Present++
	case status == StatusLate:
		s.Late++
	case status == StatusAbsent:
		s.Absent++
	case status == StatusHalfDay:
		s.HalfDay++
	case status.IsLeave():
		s.Leave++
	}
}
