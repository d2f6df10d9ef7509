package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService("test-secret", "15m")
	require.NoError(t, err)
	return svc
}

func contextWithToken(t *testing.T, svc Service, tokenString string) context.Context {
	t.Helper()
	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	employeeID := "emp-1"

	tokenString, expiresAt, err := svc.GenerateAccessToken("user-1", &employeeID, auth.RoleEmployee)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.Positive(t, expiresAt)

	p, err := PrincipalFromContext(contextWithToken(t, svc, tokenString))
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, auth.RoleEmployee, p.Role)
	require.NotNil(t, p.EmployeeID)
	assert.Equal(t, "emp-1", *p.EmployeeID)
}

func TestGenerateAccessToken_AdminWithoutEmployee(t *testing.T) {
	svc := newTestService(t)

	tokenString, _, err := svc.GenerateAccessToken("user-2", nil, auth.RoleAdmin)
	require.NoError(t, err)

	p, err := PrincipalFromContext(contextWithToken(t, svc, tokenString))
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
	assert.Nil(t, p.EmployeeID)
}

func TestGenerateAccessToken_UnknownRole(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.GenerateAccessToken("user-3", nil, auth.Role("owner"))
	assert.ErrorIs(t, err, auth.ErrUnknownRole)
}

func TestPrincipalFromContext_RejectsOtherTokenTypes(t *testing.T) {
	svc := newTestService(t)

	_, tokenString, err := svc.JWTAuth().Encode(map[string]interface{}{
		"user_id": "user-1",
		"role":    "admin",
		"type":    "refresh",
	})
	require.NoError(t, err)

	_, err = PrincipalFromContext(contextWithToken(t, svc, tokenString))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = PrincipalFromContext(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "soon")
	assert.Error(t, err)
}
