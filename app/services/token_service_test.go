package services

import (
	"testing"
	"time"

	"github.com/eylemk/santral/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:      "test-secret-key-with-32-characters!",
		AccessTokenTTL: time.Hour,
		Issuer:         "santral-test",
		Audience:       "santral-operators",
	}
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testJWTConfig())
	require.NoError(t, err)

	token, err := svc.GenerateToken(42, "supervisor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "supervisor", claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestTokenServiceRejectsShortSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.SecretKey = "too-short"

	svc, err := NewTokenService(cfg)
	assert.Nil(t, svc)
	require.Error(t, err)
}

func TestTokenServiceExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenTTL = -time.Hour

	svc, err := NewTokenService(cfg)
	require.NoError(t, err)

	token, err := svc.GenerateToken(1, "agent")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenServiceInvalidToken(t *testing.T) {
	svc, err := NewTokenService(testJWTConfig())
	require.NoError(t, err)

	t.Run("Garbage", func(t *testing.T) {
		claims, err := svc.ValidateToken("not-a-token")
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongKey", func(t *testing.T) {
		otherCfg := testJWTConfig()
		otherCfg.SecretKey = "another-secret-key-with-32-chars!!!"
		other, err := NewTokenService(otherCfg)
		require.NoError(t, err)

		token, err := other.GenerateToken(1, "agent")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		otherCfg := testJWTConfig()
		otherCfg.Issuer = "someone-else"
		other, err := NewTokenService(otherCfg)
		require.NoError(t, err)

		token, err := other.GenerateToken(1, "agent")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}
