// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/internal/platform/sec"
	"github.com/velora-shop/velora/internal/users/auth"
	"github.com/velora-shop/velora/pkg/pointer"
)

const testBootstrapEmail = "admin@velora.shop"

func newAuthFixture(t *testing.T, seed ...*auth.User) (*auth.Service, *memoryUserRepository, *sec.TokenService) {
	t.Helper()

	tokens, err := sec.NewTokenService("test-signing-secret", "velora.shop")
	require.NoError(t, err)

	repo := newMemoryUserRepository(seed...)
	service := auth.NewService(repo, auth.NewBanEvaluator(repo), tokens, testBootstrapEmail)
	return service, repo, tokens
}

/*
TestService_Signup covers account creation: the happy path, the bootstrap
admin email, and duplicate detection (case-insensitive).
*/
func TestService_Signup(t *testing.T) {
	t.Run("creates_customer_and_issues_token", func(t *testing.T) {
		service, repo, tokens := newAuthFixture(t)

		session, err := service.Signup(context.Background(), auth.SignupInput{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "pw123",
		})
		require.NoError(t, err)
		require.NotNil(t, session)

		assert.False(t, session.User.IsAdmin)
		assert.NotEmpty(t, session.User.ID)
		assert.NotEqual(t, "pw123", session.User.PasswordHash)

		// The issued token identifies the new account.
		claims, err := tokens.VerifyToken(session.Token)
		require.NoError(t, err)
		assert.Equal(t, session.User.ID, claims.UserID)
		assert.Equal(t, "ada@example.com", claims.Email)
		assert.False(t, claims.IsAdmin)

		// The record was persisted.
		stored := repo.get(session.User.ID)
		require.NotNil(t, stored)
		assert.Equal(t, "Ada", stored.Name)
	})

	t.Run("bootstrap_email_starts_as_admin", func(t *testing.T) {
		service, _, tokens := newAuthFixture(t)

		session, err := service.Signup(context.Background(), auth.SignupInput{
			Name:     "Root",
			Email:    "Admin@Velora.Shop",
			Password: "pw123",
		})
		require.NoError(t, err)
		assert.True(t, session.User.IsAdmin)
		assert.False(t, session.User.IsSuperAdmin)

		claims, err := tokens.VerifyToken(session.Token)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("duplicate_email_conflicts_case_insensitively", func(t *testing.T) {
		existing := &auth.User{ID: "u1", Email: "ada@example.com"}
		service, _, _ := newAuthFixture(t, existing)

		_, err := service.Signup(context.Background(), auth.SignupInput{
			Name:     "Imposter",
			Email:    "ADA@Example.COM",
			Password: "pw123",
		})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
		assert.Equal(t, "Email already exists", ae.Message)
	})
}

/*
TestService_Login covers credential verification, the indistinguishable
failure message, ban blocking, and last-login stamping.
*/
func TestService_Login(t *testing.T) {
	hash, err := sec.HashPassword("correct-horse")
	require.NoError(t, err)

	t.Run("valid_credentials", func(t *testing.T) {
		user := &auth.User{ID: "u1", Email: "ada@example.com", PasswordHash: hash}
		service, repo, tokens := newAuthFixture(t, user)

		session, err := service.Login(context.Background(), auth.LoginInput{
			Email:    "ada@example.com",
			Password: "correct-horse",
		})
		require.NoError(t, err)

		claims, err := tokens.VerifyToken(session.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)

		// The successful authentication was stamped.
		stored := repo.get("u1")
		assert.WithinDuration(t, time.Now(), stored.LastLogin, 5*time.Second)
	})

	t.Run("unknown_email_and_wrong_password_look_identical", func(t *testing.T) {
		user := &auth.User{ID: "u1", Email: "ada@example.com", PasswordHash: hash}
		service, _, _ := newAuthFixture(t, user)

		_, unknownErr := service.Login(context.Background(), auth.LoginInput{
			Email:    "ghost@example.com",
			Password: "correct-horse",
		})
		_, wrongErr := service.Login(context.Background(), auth.LoginInput{
			Email:    "ada@example.com",
			Password: "wrong-horse",
		})

		for _, err := range []error{unknownErr, wrongErr} {
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
			assert.Equal(t, "Invalid credentials", ae.Message)
		}
	})

	t.Run("banned_account_is_blocked_with_expiry_message", func(t *testing.T) {
		until := time.Date(2099, time.June, 1, 12, 0, 0, 0, time.UTC)
		user := &auth.User{
			ID:           "u1",
			Email:        "ada@example.com",
			PasswordHash: hash,
			IsBanned:     true,
			BanUntil:     pointer.To(until),
			BanReason:    "abuse",
		}
		service, _, _ := newAuthFixture(t, user)

		_, err := service.Login(context.Background(), auth.LoginInput{
			Email:    "ada@example.com",
			Password: "correct-horse",
		})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
		assert.True(t, ae.Banned)
		assert.Equal(t, "Your account is banned until Jun 1, 2099 12:00 UTC. Reason: abuse", ae.Message)
	})

	t.Run("expired_ban_is_cleared_and_login_succeeds", func(t *testing.T) {
		expired := time.Now().Add(-time.Hour)
		user := &auth.User{
			ID:           "u1",
			Email:        "ada@example.com",
			PasswordHash: hash,
			IsBanned:     true,
			BanUntil:     pointer.To(expired),
			BanReason:    "cooldown",
		}
		service, repo, _ := newAuthFixture(t, user)

		session, err := service.Login(context.Background(), auth.LoginInput{
			Email:    "ada@example.com",
			Password: "correct-horse",
		})
		require.NoError(t, err)
		assert.False(t, session.User.IsBanned)

		stored := repo.get("u1")
		assert.False(t, stored.IsBanned)
		assert.Nil(t, stored.BanUntil)
		assert.Empty(t, stored.BanReason)
	})
}

/*
TestService_EnsureBootstrapAdmin verifies the startup promotion of the
bootstrap admin account.
*/
func TestService_EnsureBootstrapAdmin(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("promotes_existing_account", func(t *testing.T) {
		user := &auth.User{ID: "u1", Email: testBootstrapEmail}
		service, repo, _ := newAuthFixture(t, user)

		require.NoError(t, service.EnsureBootstrapAdmin(context.Background(), discard))
		assert.True(t, repo.get("u1").IsAdmin)
	})

	t.Run("already_admin_is_a_noop", func(t *testing.T) {
		user := &auth.User{ID: "u1", Email: testBootstrapEmail, IsAdmin: true}
		service, repo, _ := newAuthFixture(t, user)

		require.NoError(t, service.EnsureBootstrapAdmin(context.Background(), discard))
		assert.True(t, repo.get("u1").IsAdmin)
	})

	t.Run("missing_account_is_not_an_error", func(t *testing.T) {
		service, _, _ := newAuthFixture(t)
		require.NoError(t, service.EnsureBootstrapAdmin(context.Background(), discard))
	})
}

/*
TestParsePermissions checks registry validation and deduplication.
*/
func TestParsePermissions(t *testing.T) {
	t.Run("valid_set", func(t *testing.T) {
		permissions, err := auth.ParsePermissions([]string{"manage_stock", "manage_users", "manage_stock"})
		require.NoError(t, err)
		assert.Equal(t, []auth.Permission{auth.PermissionManageStock, auth.PermissionManageUsers}, permissions)
	})

	t.Run("empty_set", func(t *testing.T) {
		permissions, err := auth.ParsePermissions(nil)
		require.NoError(t, err)
		assert.Empty(t, permissions)
	})

	t.Run("unknown_tag_rejected", func(t *testing.T) {
		_, err := auth.ParsePermissions([]string{"manage_stock", "rm_rf_database"})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		require.Len(t, ae.Details, 1)
		assert.Contains(t, ae.Details[0].Message, "rm_rf_database")
	})
}
