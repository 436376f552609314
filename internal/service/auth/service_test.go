package auth

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/jsonfile"
	auditservice "github.com/cmlabs-hris/hris-payroll-go/internal/service/audit"
	sessionservice "github.com/cmlabs-hris/hris-payroll-go/internal/service/session"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

type authFixture struct {
	svc      auth.AuthService
	jwt      jwt.Service
	sessions session.SessionService
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	backend, err := jsonfile.NewBackend(t.TempDir(), "db.json")
	require.NoError(t, err)
	store := repository.NewStore(backend)

	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp)
	require.NoError(t, err)
	sessions := sessionservice.NewSessionService(repository.NewSessionRepository(store), time.Hour)
	audits := auditservice.NewAuditService(repository.NewAuditRepository(store))

	return authFixture{
		svc:      NewAuthService(store, repository.NewUserRepository(store), sessions, jwtService, audits),
		jwt:      jwtService,
		sessions: sessions,
	}
}

// contextWithToken returns ctx carrying a verified token, as the HTTP
// verifier middleware would.
func (f authFixture) contextWithToken(t *testing.T, tokenString string) context.Context {
	t.Helper()
	token, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func registerReq(username, role string) auth.RegisterRequest {
	return auth.RegisterRequest{
		Username:        username,
		Password:        "password123",
		ConfirmPassword: "password123",
		Role:            role,
	}
}

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	f := newAuthFixture(t)

	u, err := f.svc.Register(context.Background(), registerReq("Maria", string(user.RoleEmployee)))
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, u.Role)
	assert.Equal(t, "maria", u.Username)
	assert.NotEqual(t, "password123", u.PasswordHash)
}

func TestRegister_RequiresAdminAfterBootstrap(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerReq("admin", string(user.RoleAdmin)))
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registerReq("clerk", string(user.RoleHR)))
	assert.ErrorIs(t, err, auth.ErrRegistrationClosed)

	login, err := f.svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)
	adminCtx := f.contextWithToken(t, login.AccessToken)

	clerk, err := f.svc.Register(adminCtx, registerReq("clerk", string(user.RoleHR)))
	require.NoError(t, err)
	assert.Equal(t, user.RoleHR, clerk.Role)

	_, err = f.svc.Register(adminCtx, registerReq("CLERK", string(user.RoleHR)))
	assert.ErrorIs(t, err, user.ErrUsernameExists)

	clerkLogin, err := f.svc.Login(ctx, auth.LoginRequest{Username: "clerk", Password: "password123"})
	require.NoError(t, err)
	_, err = f.svc.Register(f.contextWithToken(t, clerkLogin.AccessToken), registerReq("other", string(user.RoleHR)))
	assert.ErrorIs(t, err, auth.ErrRegistrationClosed)
}

func TestRegister_Validation(t *testing.T) {
	f := newAuthFixture(t)

	req := registerReq("admin", string(user.RoleAdmin))
	req.ConfirmPassword = "different"
	_, err := f.svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirm_password")
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerReq("admin", string(user.RoleAdmin)))
	require.NoError(t, err)

	resp, err := f.svc.Login(ctx, auth.LoginRequest{Username: "Admin", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "admin", resp.User.Username)

	claims, err := f.jwt.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, claims.SessionID)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, user.RoleAdmin, claims.Role)

	_, err = f.sessions.Get(ctx, resp.SessionID)
	assert.NoError(t, err)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerReq("admin", string(user.RoleAdmin)))
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerReq("admin", string(user.RoleAdmin)))
	require.NoError(t, err)
	resp, err := f.svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)

	authCtx := f.contextWithToken(t, resp.AccessToken)
	require.NoError(t, f.svc.Logout(authCtx, resp.SessionID))

	_, err = f.sessions.Get(ctx, resp.SessionID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	assert.NoError(t, f.svc.Logout(authCtx, resp.SessionID))
}
