package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(userID string, employeeID *string, role auth.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiry, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}
	return &JWTService{
		accessTokenExpirationTime: expiry,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, employeeID *string, role auth.Role) (token string, expiresAt int64, err error) {
	if !role.Valid() {
		return "", 0, fmt.Errorf("%w: %q", auth.ErrUnknownRole, role)
	}
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		"user_id":     userID,
		"employee_id": returnValueOrNil(employeeID),
		"role":        string(role),
		"type":        tokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

// PrincipalFromContext reads the verified access token placed in ctx by jwtauth.Verifier.
func PrincipalFromContext(ctx context.Context) (auth.Principal, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return auth.Principal{}, auth.ErrInvalidToken
	}

	if tokenType, _ := claims["type"].(string); tokenType != tokenTypeAccess {
		return auth.Principal{}, auth.ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	p := auth.Principal{Role: auth.Role(role)}
	if !p.Role.Valid() {
		return auth.Principal{}, auth.ErrInvalidToken
	}
	p.UserID, _ = claims["user_id"].(string)
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		p.EmployeeID = &employeeID
	}
	return p, nil
}
