package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret")

	token, err := manager.GenerateAccessJWT("user-1", time.Minute)
	require.NoError(t, err)

	userID, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestAccessToken_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret")

	token, err := manager.GenerateAccessJWT("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret")
	other := NewJWTManager("different-secret")

	token, err := manager.GenerateAccessJWT("user-1", time.Minute)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestAccessToken_Garbage(t *testing.T) {
	manager := NewJWTManager("test-secret")

	_, err := manager.ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret")

	token, err := manager.GenerateRefreshJWT("user-1", "hash-token-1", time.Hour)
	require.NoError(t, err)

	userID, err := manager.ExtractUserIDFromRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	assert.NoError(t, manager.ValidateRefreshToken(token, "hash-token-1"))
}

func TestRefreshToken_RevokedByHashTokenRotation(t *testing.T) {
	manager := NewJWTManager("test-secret")

	token, err := manager.GenerateRefreshJWT("user-1", "hash-token-1", time.Hour)
	require.NoError(t, err)

	// After the user's hash token rotates, the old refresh token must die.
	err = manager.ValidateRefreshToken(token, "hash-token-2")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestRefreshToken_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret")

	token, err := manager.GenerateRefreshJWT("user-1", "hash-token-1", -time.Minute)
	require.NoError(t, err)

	err = manager.ValidateRefreshToken(token, "hash-token-1")
	assert.ErrorIs(t, err, ErrExpiredJWTToken)

	_, err = manager.ExtractUserIDFromRefreshToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	manager := NewJWTManager("test-secret")

	access, err := manager.GenerateAccessJWT("user-1", time.Minute)
	require.NoError(t, err)

	// An access token carries no cus_key, so the refresh validation fails.
	err = manager.ValidateRefreshToken(access, "hash-token-1")
	assert.Error(t, err)
}
