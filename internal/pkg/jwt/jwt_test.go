//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loot-ledger/internal/pkg/jwt"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	memberID := uuid.New()
	tenantID := uuid.New()

	access, err := svc.GenerateAccessToken(memberID, tenantID, "operator")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, memberID, claims.MemberID)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, "operator", claims.Role)
	assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)

	refresh, err := svc.GenerateRefreshToken(memberID, tenantID, "operator")
	require.NoError(t, err)

	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, jwt.TokenTypeRefresh, claims.TokenType)
}

func TestValidateTokenFailures(t *testing.T) {
	svc := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := jwt.NewService("other-secret", 15*time.Minute, 24*time.Hour)
		token, err := other.GenerateAccessToken(uuid.New(), uuid.New(), "viewer")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		short := jwt.NewService("test-secret", -time.Minute, 24*time.Hour)
		token, err := short.GenerateAccessToken(uuid.New(), uuid.New(), "viewer")
		require.NoError(t, err)

		_, err = short.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})
}
