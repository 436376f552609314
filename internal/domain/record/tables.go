package record

import "regexp"

// Fixed table names of the HRIS document.
const (
	TableUsers         = "users"
	TableEmployees     = "employees"
	TableSettings      = "settings"
	TableAttendance    = "attendance"
	TableLeaveRequests = "leave_requests"
	TablePayrollRuns   = "payroll_runs"
	TablePayslips      = "payslips"
	TableDocuments     = "documents"
	TableAuditLogs     = "audit_logs"
	TableSessions      = "sessions"
	TableEducation     = "education"
)

// DefaultTables is the schema of a fresh JSON document, in file order.
var DefaultTables = []string{
	TableUsers,
	TableEmployees,
	TableSettings,
	TableAttendance,
	TableLeaveRequests,
	TablePayrollRuns,
	TablePayslips,
	TableDocuments,
	TableAuditLogs,
	TableSessions,
	TableEducation,
}

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to use as a table or column.
func ValidIdentifier(name string) bool {
	return identifierRegex.MatchString(name)
}
