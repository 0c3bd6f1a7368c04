// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/internal/platform/dberr"
	"github.com/velora-shop/velora/internal/platform/sec"
	"github.com/velora-shop/velora/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - isAdmin, isSuperAdmin: Role flags at issuance time.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	GenerateAccessToken(userID, email string, isAdmin, isSuperAdmin bool, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, signup,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	banEvaluator   *BanEvaluator
	tokenProvider  TokenProvider
	bootstrapEmail string
}

// NewService constructs a new auth [Service] with necessary dependencies.
//
// bootstrapEmail is the single address recognized as the bootstrap admin:
// a signup with that email is created as an admin, and [EnsureBootstrapAdmin]
// promotes a pre-existing row at startup.
func NewService(
	userRepo UserRepository,
	banEval *BanEvaluator,
	tokenProv TokenProvider,
	bootstrapEmail string,
) *Service {
	return &Service{
		userRepository: userRepo,
		banEvaluator:   banEval,
		tokenProvider:  tokenProv,
		bootstrapEmail: bootstrapEmail,
	}
}

// # Signup Flow

// SignupInput holds the data required to enroll a new customer.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Session represents a successfully established stateless session.
type Session struct {
	Token string
	User  *User
}

/*
Signup validates, hashes, and persists a brand new user account.

Description: Creates a regular customer account, unless the email matches
the bootstrap admin address, in which case the account starts as an admin.
Issues a 24h access token so the client is logged in immediately.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *Session: Token plus created entity
  - error: apperr.Conflict (duplicate email, case-insensitive) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*Session, error) {

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email already exists")
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during signup spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		IsAdmin:      service.isBootstrapAdmin(input.Email),
		LastLogin:    time.Now(),
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	token, err := service.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, User: user}, nil
}

// # Login Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials and issues a 24h access token.

Description: Verifies identity via constant-time password comparison, runs
the ban evaluator (lazily clearing an expired temporary ban), and stamps
LastLogin on success.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Token plus authenticated entity
  - error: apperr.Unauthorized for unknown email or bad password (identical
    message to prevent account enumeration), apperr.BannedError while the
    account is banned, or storage failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {

	user, err := service.userRepository.FindByEmail(context, input.Email)

	// Unknown email and wrong password must be indistinguishable.
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	// Verify password hash using bcrypt's constant-time comparison.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	// Ban gate: may lazily clear an expired temporary ban.
	status, err := service.banEvaluator.Evaluate(context, user)
	if err != nil {
		return nil, err
	}
	if status.Blocked {
		return nil, apperr.BannedError(status.Message)
	}

	// Stamp the successful authentication.
	if err := service.userRepository.UpdateLastLogin(context, user.ID); err != nil {
		return nil, err
	}
	user.LastLogin = time.Now()

	token, err := service.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, User: user}, nil
}

// # Bootstrap Admin

/*
EnsureBootstrapAdmin promotes the bootstrap admin account at startup.

Description: If an account with the bootstrap email already exists and is
not yet an admin, it is promoted in place. A missing account is not an
error; the email is also recognized at signup time.

Parameters:
  - context: context.Context
  - logger: *slog.Logger

Returns:
  - error: Storage failures (a missing bootstrap account is not one)
*/
func (service *Service) EnsureBootstrapAdmin(context context.Context, logger *slog.Logger) error {
	user, err := service.userRepository.FindByEmail(context, service.bootstrapEmail)
	if err != nil {
		if dberr.IsNotFound(err) {
			logger.Info("bootstrap_admin_not_registered_yet",
				slog.String("email", service.bootstrapEmail))
			return nil
		}
		return err
	}

	if user.IsAdmin {
		return nil
	}

	if err := service.userRepository.SetAdminFlag(context, user.ID, true); err != nil {
		return fmt.Errorf("auth_service_bootstrap_promote_failed: %w", err)
	}

	logger.Info("bootstrap_admin_promoted", slog.String("user_id", user.ID))
	return nil
}

// isBootstrapAdmin reports whether the email matches the bootstrap admin
// address (case-insensitive, like all email comparisons in this system).
func (service *Service) isBootstrapAdmin(email string) bool {
	return service.bootstrapEmail != "" &&
		strings.EqualFold(email, service.bootstrapEmail)
}

// issueToken mints a 24h access token carrying the account's identity and
// informational role flags.
func (service *Service) issueToken(user *User) (string, error) {
	token, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Email, user.IsAdmin, user.IsSuperAdmin, AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}
	return token, nil
}
