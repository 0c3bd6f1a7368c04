// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package auth

import (
	"context"
	"fmt"
	"time"
)

// # Ban Evaluation

// BanStatus is the outcome of evaluating an account's ban state.
type BanStatus struct {
	// Blocked reports whether access is currently denied.
	Blocked bool

	// Permanent is true when the ban has no expiry.
	Permanent bool

	// Message is the client-safe explanation (reason + formatted expiry).
	Message string
}

// BanEvaluator decides whether an account's access is currently blocked and
// lazily clears temporary bans that have expired.
//
// # Lazy Expiry
//
// There is no background sweep. A banned account whose BanUntil has passed
// stays marked banned in storage until its next access attempt, at which
// point this evaluator clears every ban field and reports the account as
// unblocked. This runs on every login and on every gate pass.
type BanEvaluator struct {
	users UserRepository
}

// NewBanEvaluator constructs a [BanEvaluator] backed by the given repository.
func NewBanEvaluator(users UserRepository) *BanEvaluator {
	return &BanEvaluator{users: users}
}

/*
Evaluate inspects the account's ban fields and reports the current status.

Description: Side-effecting for expired temporary bans: the record is
updated (IsBanned, BanUntil, BanReason, BannedBy all cleared) before the
account is reported unblocked, and the in-memory entity is synchronized
with that write.

Parameters:
  - context: context.Context
  - user: *User (live record, mutated on lazy expiry)

Returns:
  - BanStatus: Blocked/Permanent flags plus client-safe message
  - error: Storage failures while clearing an expired ban
*/
func (evaluator *BanEvaluator) Evaluate(context context.Context, user *User) (BanStatus, error) {

	// Fast path: the account is not banned at all.
	if !user.IsBanned {
		return BanStatus{}, nil
	}

	// Permanent ban: no expiry to check.
	if user.BanUntil == nil {
		message := "Your account has been permanently banned."
		if user.BanReason != "" {
			message = fmt.Sprintf("%s Reason: %s", message, user.BanReason)
		}
		return BanStatus{Blocked: true, Permanent: true, Message: message}, nil
	}

	// Temporary ban still in force.
	if user.BanUntil.After(time.Now()) {
		message := fmt.Sprintf("Your account is banned until %s.", user.BanUntil.Format(BanTimeLayout))
		if user.BanReason != "" {
			message = fmt.Sprintf("%s Reason: %s", message, user.BanReason)
		}
		return BanStatus{Blocked: true, Message: message}, nil
	}

	// Temporary ban has expired: clear it now (lazy expiry).
	if err := evaluator.users.ClearBan(context, user.ID); err != nil {
		return BanStatus{}, fmt.Errorf("auth_ban_lazy_expiry_failed: %w", err)
	}

	// Keep the in-memory entity consistent with the write.
	user.IsBanned = false
	user.BanUntil = nil
	user.BanReason = ""
	user.BannedBy = nil

	return BanStatus{}, nil
}
