// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/internal/platform/dberr"
	"github.com/velora-shop/velora/internal/platform/sec"
	"github.com/velora-shop/velora/internal/users/auth"
	"github.com/velora-shop/velora/pkg/pointer"
	"github.com/velora-shop/velora/pkg/slice"
	"github.com/velora-shop/velora/pkg/uuid"
)

// # Service Layer

// Service orchestrates moderation and role management use cases.
//
// # Caller Contract
//
// Every method that takes an actor expects the LIVE account record produced
// by the authorization gate, never an entity reconstructed from token
// claims. Role-tier enforcement happens at the gate; this layer enforces
// the finer rules (super admin immunity, target preconditions).
type Service struct {
	userRepository  auth.UserRepository
	banEvaluator    *auth.BanEvaluator
	auditRepository AuditRepository
	tokenProvider   auth.TokenProvider
	logger          *slog.Logger
}

// NewService constructs a new admin [Service] with its dependencies.
func NewService(
	userRepo auth.UserRepository,
	banEval *auth.BanEvaluator,
	auditRepo AuditRepository,
	tokenProv auth.TokenProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:  userRepo,
		banEvaluator:    banEval,
		auditRepository: auditRepo,
		tokenProvider:   tokenProv,
		logger:          logger,
	}
}

// # User Directory

/*
ListUsers returns every account for the admin dashboard, ordered by name.

Parameters:
  - context: context.Context

Returns:
  - []*auth.User: All accounts (password hashes never serialize)
  - error: Storage failures
*/
func (service *Service) ListUsers(context context.Context) ([]*auth.User, error) {
	return service.userRepository.List(context)
}

// # Role Management

/*
SetAdminFlag promotes or demotes a target account's admin role.

Description: A super admin target is immune unless the actor is a super
admin too. Demotion clears the target's permission set.

Parameters:
  - context: context.Context
  - actor: *auth.User (live acting admin)
  - targetID: string
  - isAdmin: bool

Returns:
  - *auth.User: The updated target
  - error: apperr.NotFound, apperr.Forbidden (immunity), or storage failures
*/
func (service *Service) SetAdminFlag(context context.Context, actor *auth.User, targetID string, isAdmin bool) (*auth.User, error) {
	target, err := service.userRepository.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if err := guardSuperAdminTarget(actor, target); err != nil {
		return nil, err
	}

	if err := service.userRepository.SetAdminFlag(context, target.ID, isAdmin); err != nil {
		return nil, err
	}

	target.IsAdmin = isAdmin
	if !isAdmin {
		target.Permissions = nil
	}

	service.recordAction(context, actor.ID, &target.ID, ActionSetAdminFlag, map[string]any{
		auth.FieldIsAdmin: isAdmin,
	})

	return target, nil
}

// # Ban Management

// BanInput describes a ban request. A nil DurationMinutes makes the ban
// permanent.
type BanInput struct {
	DurationMinutes *int
	Reason          string
}

/*
Ban blocks a target account, permanently or for a bounded duration.

Description: Overwrites any previous ban in place. The expiry is computed
once, here, from the duration; expiry enforcement is lazy (see
[auth.BanEvaluator]).

Parameters:
  - context: context.Context
  - actor: *auth.User (live acting admin)
  - targetID: string
  - input: BanInput

Returns:
  - *auth.User: The updated target
  - error: apperr.NotFound, apperr.Forbidden (immunity), or storage failures
*/
func (service *Service) Ban(context context.Context, actor *auth.User, targetID string, input BanInput) (*auth.User, error) {
	target, err := service.userRepository.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if err := guardSuperAdminTarget(actor, target); err != nil {
		return nil, err
	}

	var until *time.Time
	if input.DurationMinutes != nil {
		until = pointer.To(time.Now().Add(time.Duration(*input.DurationMinutes) * time.Minute))
	}

	if err := service.userRepository.ApplyBan(context, target.ID, until, input.Reason, actor.ID); err != nil {
		return nil, err
	}

	target.IsBanned = true
	target.BanUntil = until
	target.BanReason = input.Reason
	target.BannedBy = pointer.To(actor.ID)

	service.recordAction(context, actor.ID, &target.ID, ActionBanUser, map[string]any{
		auth.FieldReason:          input.Reason,
		auth.FieldDurationMinutes: pointer.Val(input.DurationMinutes),
	})

	return target, nil
}

/*
Unban lifts a target account's ban.

Description: Idempotent; unbanning an account that is not banned succeeds
without complaint.

Parameters:
  - context: context.Context
  - actor: *auth.User (live acting admin)
  - targetID: string

Returns:
  - *auth.User: The updated target
  - error: apperr.NotFound, apperr.Forbidden (immunity), or storage failures
*/
func (service *Service) Unban(context context.Context, actor *auth.User, targetID string) (*auth.User, error) {
	target, err := service.userRepository.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if err := guardSuperAdminTarget(actor, target); err != nil {
		return nil, err
	}

	if err := service.userRepository.ClearBan(context, target.ID); err != nil {
		return nil, err
	}

	target.IsBanned = false
	target.BanUntil = nil
	target.BanReason = ""
	target.BannedBy = nil

	service.recordAction(context, actor.ID, &target.ID, ActionUnbanUser, nil)

	return target, nil
}

// # Permission Management

/*
SetPermissions replaces a target admin's permission set.

Description: The raw tags are validated against the closed registry. The
target must currently hold the admin role; granting permissions to a plain
customer is rejected as semantically invalid.

Parameters:
  - context: context.Context
  - actor: *auth.User (live acting super admin)
  - targetID: string
  - rawPermissions: []string

Returns:
  - *auth.User: The updated target
  - error: apperr.ValidationError (unknown tags), apperr.NotFound,
    apperr.Unprocessable (target not an admin), or storage failures
*/
func (service *Service) SetPermissions(context context.Context, actor *auth.User, targetID string, rawPermissions []string) (*auth.User, error) {
	permissions, err := auth.ParsePermissions(rawPermissions)
	if err != nil {
		return nil, err
	}

	target, err := service.userRepository.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if !target.IsAdmin {
		return nil, apperr.Unprocessable("Permissions can only be assigned to admin accounts")
	}

	if err := service.userRepository.SetPermissions(context, target.ID, permissions); err != nil {
		return nil, err
	}

	target.Permissions = permissions

	service.recordAction(context, actor.ID, &target.ID, ActionSetPermissions, map[string]any{
		auth.FieldPermissions: permissions,
	})

	return target, nil
}

// # Admin Provisioning

// CreateAdminInput describes a new staff account.
type CreateAdminInput struct {
	Name        string
	Email       string
	Password    string
	Permissions []string
}

/*
CreateAdmin provisions a new admin account directly.

Description: The account is created with the admin role already set and an
optional initial permission set, bypassing the public signup flow.

Parameters:
  - context: context.Context
  - actor: *auth.User (live acting super admin)
  - input: CreateAdminInput

Returns:
  - *auth.User: The created admin
  - error: apperr.ValidationError (unknown permission tags), apperr.Conflict
    (duplicate email), or storage failures
*/
func (service *Service) CreateAdmin(context context.Context, actor *auth.User, input CreateAdminInput) (*auth.User, error) {
	permissions, err := auth.ParsePermissions(input.Permissions)
	if err != nil {
		return nil, err
	}

	if _, err := service.userRepository.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email already exists")
	} else if !dberr.IsNotFound(err) {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("admin_service_hash_failed: %w", err)
	}

	user := &auth.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		IsAdmin:      true,
		Permissions:  permissions,
		LastLogin:    time.Now(),
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.recordAction(context, actor.ID, &user.ID, ActionCreateAdmin, map[string]any{
		auth.FieldEmail: input.Email,
	})

	return user, nil
}

// # Super Admin Verification

// SuperAdminVerification is the result of a super admin status probe.
type SuperAdminVerification struct {
	IsSuperAdmin bool   `json:"isSuperAdmin"`
	Message      string `json:"message"`
}

/*
VerifySuperAdmin reports whether the actor holds the super admin role.

Description: A probe, not a gate; it answers with a flag either way so the
dashboard can reveal or hide the privileged panels.

Parameters:
  - context: context.Context (unused, kept for interface symmetry)
  - actor: *auth.User (live acting admin)

Returns:
  - SuperAdminVerification: Flag plus dashboard message
*/
func (service *Service) VerifySuperAdmin(_ context.Context, actor *auth.User) SuperAdminVerification {
	if actor.IsSuperAdmin {
		return SuperAdminVerification{
			IsSuperAdmin: true,
			Message:      "Super admin access confirmed",
		}
	}
	return SuperAdminVerification{
		Message: "Access denied - insufficient privileges",
	}
}

/*
VerifyPassword checks a password attempt against every super admin account.

Description: Used by the dashboard to re-confirm sensitive operations. The
attempt matches if ANY super admin's password hash verifies, so a shared
operations account keeps working after staff turnover.

Parameters:
  - context: context.Context
  - password: string

Returns:
  - error: apperr.Unauthorized when no super admin password matches, or
    storage failures
*/
func (service *Service) VerifyPassword(context context.Context, password string) error {
	users, err := service.userRepository.List(context)
	if err != nil {
		return err
	}

	superAdmins := slice.Filter(users, func(user *auth.User) bool {
		return user.IsSuperAdmin
	})

	for _, superAdmin := range superAdmins {
		if sec.CheckPasswordHash(password, superAdmin.PasswordHash) {
			return nil
		}
	}

	return apperr.Unauthorized("Invalid super admin password")
}

/*
AuthenticateSuperAdmin performs a dedicated super admin login.

Description: A stricter variant of the regular login: the account must
exist, hold the super admin role, pass the password check, and not be
banned. All failures collapse into one message so the endpoint leaks
nothing about which check failed.

Parameters:
  - context: context.Context
  - email, password: string

Returns:
  - *auth.Session: Token plus authenticated super admin
  - error: apperr.Unauthorized, apperr.BannedError, or storage failures
*/
func (service *Service) AuthenticateSuperAdmin(context context.Context, email, password string) (*auth.Session, error) {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid credentials or insufficient privileges")
		}
		return nil, err
	}

	if !user.IsSuperAdmin || !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials or insufficient privileges")
	}

	status, err := service.banEvaluator.Evaluate(context, user)
	if err != nil {
		return nil, err
	}
	if status.Blocked {
		return nil, apperr.BannedError(status.Message)
	}

	if err := service.userRepository.UpdateLastLogin(context, user.ID); err != nil {
		return nil, err
	}
	user.LastLogin = time.Now()

	token, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Email, user.IsAdmin, user.IsSuperAdmin, auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("admin_service_token_generation_failed: %w", err)
	}

	return &auth.Session{Token: token, User: user}, nil
}

// # Internals

// guardSuperAdminTarget enforces super admin immunity: only a super admin
// may mutate another super admin's account state.
func guardSuperAdminTarget(actor, target *auth.User) error {
	if target.IsSuperAdmin && !actor.IsSuperAdmin {
		return apperr.Forbidden("Cannot modify a super admin account")
	}
	return nil
}

// recordAction appends to the audit trail. Best-effort: failures are logged
// and swallowed so the moderation action itself never rolls back.
func (service *Service) recordAction(context context.Context, actorID string, targetID *string, action string, details map[string]any) {
	entry := &Action{
		ID:        uuid.New(),
		ActorID:   actorID,
		TargetID:  targetID,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now(),
	}

	if err := service.auditRepository.Record(context, entry); err != nil {
		service.logger.Warn("admin_audit_record_failed",
			slog.String("action", action),
			slog.String("actor_id", actorID),
			slog.String("error", err.Error()))
	}
}
