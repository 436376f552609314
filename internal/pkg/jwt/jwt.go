package jwt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

var (
	ErrMissingClaims = errors.New("token claims are missing")
	ErrWrongType     = errors.New("token is not an access token")
)

// Claims are the application claims carried by an access token.
type Claims struct {
	UserID     int64
	Role       user.Role
	EmployeeID *int64
	SessionID  string
}

type Service interface {
	GenerateAccessToken(c Claims) (token string, expiresAt int64, err error)
	ParseAccessToken(token string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	exp, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	return &JWTService{
		accessTokenExpirationTime: exp,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(c Claims) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		"user_id":    c.UserID,
		"role":       string(c.Role),
		"session_id": c.SessionID,
		"type":       tokenTypeAccess,
		"exp":        expiresAt,
	}
	if c.EmployeeID != nil {
		claims["employee_id"] = *c.EmployeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ParseAccessToken verifies the signature and expiry of token.
func (j *JWTService) ParseAccessToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, err
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return Claims{}, err
	}
	return ClaimsFromMap(claims)
}

// ClaimsFromContext reads the claims jwtauth.Verifier stored in ctx.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}
	if claims == nil {
		return Claims{}, ErrMissingClaims
	}
	return ClaimsFromMap(claims)
}

func ClaimsFromMap(claims map[string]interface{}) (Claims, error) {
	if t, _ := claims["type"].(string); t != tokenTypeAccess {
		return Claims{}, ErrWrongType
	}

	userID, ok := claimInt(claims["user_id"])
	if !ok {
		return Claims{}, fmt.Errorf("%w: user_id", ErrMissingClaims)
	}
	sessionID, _ := claims["session_id"].(string)
	if sessionID == "" {
		return Claims{}, fmt.Errorf("%w: session_id", ErrMissingClaims)
	}
	role, _ := claims["role"].(string)

	out := Claims{UserID: userID, Role: user.Role(role), SessionID: sessionID}
	if v, ok := claimInt(claims["employee_id"]); ok {
		out.EmployeeID = &v
	}
	return out, nil
}

// claimInt accepts the number shapes a decoded token may carry.
func claimInt(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int64:
		return t, true
	case int:
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	}
	return 0, false
}
