// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package auth_test

import (
	"context"
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

func newGateFixture(seed ...*auth.User) (*auth.Gate, *memoryUserRepository) {
	repo := newMemoryUserRepository(seed...)
	return auth.NewGate(repo, auth.NewBanEvaluator(repo)), repo
}

func claimsFor(user *auth.User) *sec.AuthClaims {
	return &sec.AuthClaims{
		UserID:       user.ID,
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		IsSuperAdmin: user.IsSuperAdmin,
	}
}

/*
TestGate_Authorize covers the decision ladder: identity, existence, ban
state, and role tier, always against the live record.
*/
func TestGate_Authorize(t *testing.T) {
	customer := &auth.User{ID: "u-customer", Email: "shopper@example.com"}
	admin := &auth.User{ID: "u-admin", Email: "staff@example.com", IsAdmin: true}
	superAdmin := &auth.User{ID: "u-super", Email: "root@example.com", IsAdmin: true, IsSuperAdmin: true}
	banned := &auth.User{ID: "u-banned", Email: "banned@example.com", IsBanned: true, BanReason: "fraud"}

	tests := []struct {
		name       string
		claims     *sec.AuthClaims
		required   auth.Requirement
		wantID     string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "anonymous_rejected",
			claims:     nil,
			required:   auth.Requirement{},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Access token required",
		},
		{
			name:       "unknown_account",
			claims:     &sec.AuthClaims{UserID: "u-ghost"},
			required:   auth.Requirement{},
			wantStatus: http.StatusNotFound,
			wantMsg:    "User not found",
		},
		{
			name:     "bearer_access",
			claims:   claimsFor(customer),
			required: auth.Requirement{},
			wantID:   customer.ID,
		},
		{
			name:       "banned_blocked",
			claims:     claimsFor(banned),
			required:   auth.Requirement{},
			wantStatus: http.StatusForbidden,
			wantMsg:    "Your account has been permanently banned. Reason: fraud",
		},
		{
			name:       "customer_denied_admin_tier",
			claims:     claimsFor(customer),
			required:   auth.Requirement{Admin: true},
			wantStatus: http.StatusForbidden,
			wantMsg:    "Admin access required",
		},
		{
			name:     "admin_granted_admin_tier",
			claims:   claimsFor(admin),
			required: auth.Requirement{Admin: true},
			wantID:   admin.ID,
		},
		{
			name:       "admin_denied_super_tier",
			claims:     claimsFor(admin),
			required:   auth.Requirement{SuperAdmin: true},
			wantStatus: http.StatusForbidden,
			wantMsg:    "Super admin access required",
		},
		{
			name:     "super_admin_granted_super_tier",
			claims:   claimsFor(superAdmin),
			required: auth.Requirement{Admin: true, SuperAdmin: true},
			wantID:   superAdmin.ID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate, _ := newGateFixture(customer, admin, superAdmin, banned)

			user, err := gate.Authorize(context.Background(), tt.claims, tt.required)

			if tt.wantStatus != 0 {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
				assert.Equal(t, tt.wantMsg, ae.Message)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, user)
			assert.Equal(t, tt.wantID, user.ID)
		})
	}
}

/*
TestGate_Authorize_StaleClaims proves the gate trusts the live record, not
the token: a demotion or ban takes effect while the old token is still valid,
and a promotion is honored without re-login.
*/
func TestGate_Authorize_StaleClaims(t *testing.T) {
	t.Run("demoted_admin_is_cut_off", func(t *testing.T) {
		user := &auth.User{ID: "u1", Email: "staff@example.com", IsAdmin: true}
		gate, repo := newGateFixture(user)

		// Token minted while the account was an admin.
		staleClaims := claimsFor(user)

		require.NoError(t, repo.SetAdminFlag(context.Background(), user.ID, false))

		_, err := gate.Authorize(context.Background(), staleClaims, auth.Requirement{Admin: true})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
		assert.Equal(t, "Admin access required", ae.Message)
	})

	t.Run("freshly_banned_user_is_cut_off", func(t *testing.T) {
		user := &auth.User{ID: "u1", Email: "shopper@example.com"}
		gate, repo := newGateFixture(user)

		staleClaims := claimsFor(user)

		until := time.Now().Add(30 * time.Minute)
		require.NoError(t, repo.ApplyBan(context.Background(), user.ID, pointer.To(until), "abuse", "admin-1"))

		_, err := gate.Authorize(context.Background(), staleClaims, auth.Requirement{})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
		assert.True(t, ae.Banned)
		assert.Contains(t, ae.Message, "Your account is banned until")
		assert.Contains(t, ae.Message, "Reason: abuse")
	})

	t.Run("promotion_works_without_relogin", func(t *testing.T) {
		user := &auth.User{ID: "u1", Email: "shopper@example.com"}
		gate, repo := newGateFixture(user)

		// Token minted while the account was a plain customer.
		staleClaims := claimsFor(user)

		require.NoError(t, repo.SetAdminFlag(context.Background(), user.ID, true))

		live, err := gate.Authorize(context.Background(), staleClaims, auth.Requirement{Admin: true})
		require.NoError(t, err)
		assert.True(t, live.IsAdmin)
	})
}

/*
TestGate_Authorize_LazyExpiry verifies that passing the gate clears an
expired temporary ban and lets the request through.
*/
func TestGate_Authorize_LazyExpiry(t *testing.T) {
	expired := time.Now().Add(-time.Minute)
	user := &auth.User{
		ID:       "u1",
		Email:    "shopper@example.com",
		IsBanned: true,
		BanUntil: pointer.To(expired),
	}
	gate, repo := newGateFixture(user)

	live, err := gate.Authorize(context.Background(), claimsFor(user), auth.Requirement{})
	require.NoError(t, err)
	assert.False(t, live.IsBanned)

	stored := repo.get("u1")
	require.NotNil(t, stored)
	assert.False(t, stored.IsBanned)
	assert.Nil(t, stored.BanUntil)
}
