// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package auth

import (
	"context"

	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/internal/platform/sec"
)

// # Authorization Gate

// Requirement declares the role tier a protected operation demands.
//
// The zero value requires only a valid, non-banned account (bearer access).
type Requirement struct {
	// Admin requires the LIVE account record to have IsAdmin set.
	Admin bool

	// SuperAdmin requires the LIVE account record to have IsSuperAdmin set.
	SuperAdmin bool
}

// Gate composes token identity, a live account lookup, ban evaluation, and
// role checks into a single authorization decision.
//
// # Why re-read the store on every call?
//
// Token claims carry the role flags the account had AT ISSUANCE. An admin
// can ban or demote a user while that user still holds a valid 24h token.
// Checking the live row on every protected call closes that window: a
// banned or demoted user is cut off immediately, and a freshly promoted
// user gains access without re-logging in.
type Gate struct {
	users UserRepository
	bans  *BanEvaluator
}

// NewGate constructs a [Gate] backed by the given repository and evaluator.
func NewGate(users UserRepository, bans *BanEvaluator) *Gate {
	return &Gate{users: users, bans: bans}
}

/*
Authorize validates the caller against the requirement and returns the live
account record for the handler to use.

Description: Steps through identity → existence → ban state → role tier.
Each step fails terminally with the matching taxonomy error; the ban check
may lazily clear an expired temporary ban as a side effect.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (nil for anonymous requests)
  - required: Requirement

Returns:
  - *User: The LIVE account record (never the claims' stale copy)
  - error: apperr.Unauthorized, apperr.NotFound, apperr.BannedError,
    apperr.Forbidden, or storage failures
*/
func (gate *Gate) Authorize(context context.Context, claims *sec.AuthClaims, required Requirement) (*User, error) {

	// ── 1. Identity ───────────────────────────────────────────────────────
	if claims == nil {
		return nil, apperr.Unauthorized("Access token required")
	}

	// ── 2. Live Account Lookup ────────────────────────────────────────────
	user, err := gate.users.FindByID(context, claims.UserID)
	if err != nil {
		return nil, err
	}

	// ── 3. Ban State (with lazy expiry) ───────────────────────────────────
	status, err := gate.bans.Evaluate(context, user)
	if err != nil {
		return nil, err
	}
	if status.Blocked {
		return nil, apperr.BannedError(status.Message)
	}

	// ── 4. Role Tier (live flags, never token claims) ─────────────────────
	if required.Admin && !user.IsAdmin {
		return nil, apperr.Forbidden("Admin access required")
	}

	if required.SuperAdmin && !user.IsSuperAdmin {
		return nil, apperr.Forbidden("Super admin access required")
	}

	return user, nil
}
