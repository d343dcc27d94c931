package jwt

import (
	"testing"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAccessToken(t *testing.T) {
	t.Parallel()
	svc := NewJWTService("test-secret", "1h")

	token, expiresAt, err := svc.GenerateAccessToken("user-1", user.RolePlantManager, []string{"plant-1"})
	require.NoError(t, err)
	assert.NotZero(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "plant_manager", claims["role"])
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, []interface{}{"plant-1"}, claims["plant_ids"])
}

func TestJWTService_InvalidExpiration(t *testing.T) {
	t.Parallel()
	svc := NewJWTService("test-secret", "forever")

	_, _, err := svc.GenerateAccessToken("user-1", user.RoleAdmin, nil)

	assert.Error(t, err)
}

func TestJWTService_Revoke(t *testing.T) {
	t.Parallel()
	svc := NewJWTService("test-secret", "1h")

	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc")
	assert.True(t, svc.IsTokenRevoked("abc"))
}
