package user

import "time"

type Role string

const (
	RoleAdmin         Role = "admin"          // System administrator - full access
	RoleHR            Role = "hr"             // Maintains employee records and payroll drafts
	RoleBranchManager Role = "branch_manager" // First leave approval tier
	RoleManager       Role = "manager"        // Payroll manager approval
	RoleEVP           Role = "evp"            // Final payroll approval
	RoleEmployee      Role = "employee"       // Regular employee
)

var Roles = []string{
	string(RoleAdmin),
	string(RoleHR),
	string(RoleBranchManager),
	string(RoleManager),
	string(RoleEVP),
	string(RoleEmployee),
}

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	EmployeeID   *int64     `json:"employee_id,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// IsAdmin checks if user is a system administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
