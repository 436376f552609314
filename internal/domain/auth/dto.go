package auth

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
	EmployeeID      *int64 `json:"employee_id,omitempty"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	// Username
	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}
	if len(r.Username) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username must not exceed 100 characters",
		})
	}

	// Password
	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: user.ErrInvalidPasswordLength.Error(),
		})
	}
	if r.Password != r.ConfirmPassword {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_password",
			Message: "confirm_password does not match password",
		})
	}

	// Role
	if !validator.IsInSlice(r.Role, user.Roles) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is not a recognized role",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   int64     `json:"expires_at"`
	SessionID   string    `json:"session_id"`
	User        user.User `json:"user"`
}
