package auth

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

type AuthService interface {
	// Register creates a user. The first user may register freely and becomes
	// admin; afterwards only an authenticated admin may register users.
	Register(ctx context.Context, req RegisterRequest) (user.User, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, sessionID string) error
}
