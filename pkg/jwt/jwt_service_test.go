package jwt

import (
	"RecipeAPI/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, 24*time.Hour)

	access, err := svc.GenerateAccessToken("user-1", domain.RoleAdmin)
	require.NoError(t, err)
	userID, role, err := svc.GetUserIDByToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, domain.RoleAdmin, role)

	refresh, err := svc.GenerateRefreshToken("user-1", domain.RoleUser)
	require.NoError(t, err)
	userID, _, err = svc.GetUserIDByRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	// Token types are not interchangeable.
	_, _, err = svc.GetUserIDByToken(refresh)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, _, err = svc.GetUserIDByRefreshToken(access)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenRejected(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, time.Hour)

	other, err := NewJWTService("other", time.Hour, time.Hour).GenerateAccessToken("user-1", domain.RoleUser)
	require.NoError(t, err)
	_, _, err = svc.GetUserIDByToken(other)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, _, err = svc.GetUserIDByToken("garbage")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	expired, err := NewJWTService("secret", -time.Minute, time.Hour).GenerateAccessToken("user-1", domain.RoleUser)
	require.NoError(t, err)
	_, _, err = svc.GetUserIDByToken(expired)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}
