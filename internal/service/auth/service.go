package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const auditEntity = "user"

type AuthServiceImpl struct {
	tx record.Transactor
	user.UserRepository
	session.SessionService
	jwt.Service
	auditService audit.AuditService
}

func NewAuthService(
	tx record.Transactor,
	userRepository user.UserRepository,
	sessionService session.SessionService,
	jwtService jwt.Service,
	auditService audit.AuditService,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:             tx,
		UserRepository: userRepository,
		SessionService: sessionService,
		Service:        jwtService,
		auditService:   auditService,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	var created user.User
	err := a.tx.WithTx(ctx, func(ctx context.Context) error {
		count, err := a.UserRepository.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}

		role := user.Role(req.Role)
		if count == 0 {
			// Bootstrap: the first account always administers the system.
			role = user.RoleAdmin
		} else {
			claims, err := jwt.ClaimsFromContext(ctx)
			if err != nil || claims.Role != user.RoleAdmin {
				return auth.ErrRegistrationClosed
			}
		}

		exists, err := a.UserRepository.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return err
		}
		if exists {
			return user.ErrUsernameExists
		}

		hashed, err := a.hashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		created, err = a.UserRepository.Create(ctx, user.User{
			Username:     req.Username,
			PasswordHash: hashed,
			Role:         role,
			EmployeeID:   req.EmployeeID,
		})
		if err != nil {
			return err
		}
		return a.auditService.Log(ctx, audit.ActionCreate, auditEntity, created.ID, nil, created)
	})
	if err != nil {
		return user.User{}, err
	}

	slog.Info("user registered", "user_id", created.ID, "role", created.Role)
	return created, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByUsername(ctx, loginReq.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var tokenResponse auth.TokenResponse
	err = a.tx.WithTx(ctx, func(ctx context.Context) error {
		sess, err := a.SessionService.Create(ctx, userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		tokenResponse.AccessToken, tokenResponse.ExpiresAt, err = a.Service.GenerateAccessToken(jwt.Claims{
			UserID:     userData.ID,
			Role:       userData.Role,
			EmployeeID: userData.EmployeeID,
			SessionID:  sess.SessionID,
		})
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.SessionID = sess.SessionID
		tokenResponse.User = userData

		return a.auditService.Log(ctx, audit.ActionLogin, auditEntity, userData.ID, nil, nil)
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Logout implements auth.AuthService. Logging out an unknown or already
// ended session succeeds.
func (a *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if err := a.SessionService.Delete(ctx, sessionID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		return fmt.Errorf("failed to end session: %w", err)
	}

	var userID int64
	if claims, err := jwt.ClaimsFromContext(ctx); err == nil {
		userID = claims.UserID
	}
	if err := a.auditService.Log(ctx, audit.ActionLogout, auditEntity, userID, nil, nil); err != nil {
		slog.Warn("failed to audit logout", "error", err)
	}
	return nil
}
