// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-shop/velora/internal/platform/sec"
)

func newTokenService(t *testing.T, secret string) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(secret, "velora.shop")
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService rejects an empty signing secret so a misconfigured
deployment fails at startup rather than issuing forgeable tokens.
*/
func TestNewTokenService(t *testing.T) {
	_, err := sec.NewTokenService("", "velora.shop")
	assert.Error(t, err)

	service, err := sec.NewTokenService("secret", "velora.shop")
	assert.NoError(t, err)
	assert.NotNil(t, service)
}

/*
TestTokenService_RoundTrip verifies that a generated token carries the full
identity payload back through verification.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, "test-signing-secret")

	token, err := service.GenerateAccessToken("u1", "ada@example.com", true, false, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.False(t, claims.IsSuperAdmin)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "velora.shop", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

/*
TestTokenService_VerifyToken_Failures ensures verification fails closed for
expired, foreign-key, and malformed tokens.
*/
func TestTokenService_VerifyToken_Failures(t *testing.T) {
	service := newTokenService(t, "test-signing-secret")

	t.Run("expired", func(t *testing.T) {
		token, err := service.GenerateAccessToken("u1", "ada@example.com", false, false, -time.Minute)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		otherService := newTokenService(t, "a-different-secret")
		token, err := otherService.GenerateAccessToken("u1", "ada@example.com", false, false, time.Hour)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := service.VerifyToken("not.a.jwt")
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := service.VerifyToken("")
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})
}
