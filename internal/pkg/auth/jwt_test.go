// internal/pkg/auth/jwt_test.go
package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/pkg/auth"
)

func newManager() *auth.JWTManager {
	return auth.NewJWTManager(&config.Config{
		JWT: config.JWTConfig{
			Secret:            "test-secret-key-that-is-long-enough!",
			AccessTokenExpiry: time.Hour,
		},
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := newManager()
	userID := uuid.New()
	tenantID := uuid.New()
	outletID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, tenantID, outletID, "manager")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, outletID, claims.OutletID)
	assert.Equal(t, "manager", claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	manager := newManager()
	token, err := manager.GenerateAccessToken(uuid.New(), uuid.New(), uuid.New(), "staff")
	require.NoError(t, err)

	other := auth.NewJWTManager(&config.Config{
		JWT: config.JWTConfig{
			Secret:            "a-different-secret-key-also-long-enough",
			AccessTokenExpiry: time.Hour,
		},
	})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	manager := newManager()
	_, err := manager.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", auth.ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Empty(t, auth.ExtractTokenFromHeader(""))
	assert.Empty(t, auth.ExtractTokenFromHeader("Basic abc"))
}
