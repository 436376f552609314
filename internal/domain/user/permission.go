package user

type Permission string

const (
	// Employee Management
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	// Attendance Management
	PermissionAttendanceView   Permission = "attendance.view"
	PermissionAttendanceRecord Permission = "attendance.record"

	// Leave Management
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveView    Permission = "leave.view"
	PermissionLeaveApprove Permission = "leave.approve"

	// Payroll
	PermissionPayrollView       Permission = "payroll.view"
	PermissionPayrollManage     Permission = "payroll.manage"
	PermissionPayrollApproveMgr Permission = "payroll.approve_manager"
	PermissionPayrollApproveEVP Permission = "payroll.approve_evp"

	// Audit
	PermissionAuditView Permission = "audit.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		// Admin has all permissions
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionAttendanceView,
		PermissionAttendanceRecord,
		PermissionLeaveCreate,
		PermissionLeaveView,
		PermissionLeaveApprove,
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionPayrollApproveMgr,
		PermissionPayrollApproveEVP,
		PermissionAuditView,
	},
	RoleHR: {
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionAttendanceView,
		PermissionAttendanceRecord,
		PermissionLeaveCreate,
		PermissionLeaveView,
		PermissionPayrollView,
		PermissionPayrollManage,
	},
	RoleBranchManager: {
		PermissionEmployeeView,
		PermissionAttendanceView,
		PermissionAttendanceRecord,
		PermissionLeaveView,
		PermissionLeaveApprove,
	},
	RoleManager: {
		PermissionEmployeeView,
		PermissionAttendanceView,
		PermissionLeaveView,
		PermissionLeaveApprove,
		PermissionPayrollView,
		PermissionPayrollApproveMgr,
	},
	RoleEVP: {
		PermissionEmployeeView,
		PermissionLeaveView,
		PermissionLeaveApprove,
		PermissionPayrollView,
		PermissionPayrollApproveEVP,
		PermissionAuditView,
	},
	RoleEmployee: {
		PermissionLeaveCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
