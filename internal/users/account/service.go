// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package account

import (
	"context"
	"strings"

	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/internal/platform/dberr"
	"github.com/velora-shop/velora/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for the account owner's own profile.
type Service struct {
	userRepository auth.UserRepository
}

// NewService constructs a new account [Service].
func NewService(userRepo auth.UserRepository) *Service {
	return &Service{userRepository: userRepo}
}

// # Profile Management

// UpdateProfileInput defines the mutable subset of profile fields. Both
// fields are always replaced; the handler validates presence.
type UpdateProfileInput struct {
	Name  string
	Email string
}

/*
UpdateProfile applies changes to the authenticated user's own profile.

Description: Verifies the new email is not claimed by another account
(case-insensitive) before persisting, then returns the updated entity.

Parameters:
  - context: context.Context
  - user: *auth.User (the live record from the authorization gate)
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated entity
  - error: apperr.Conflict when the email belongs to another account, or
    persistence failures
*/
func (service *Service) UpdateProfile(context context.Context, user *auth.User, input UpdateProfileInput) (*auth.User, error) {

	// Uniqueness pre-check. The unique index still backstops races; this
	// just produces the friendly Conflict before touching the row.
	if !strings.EqualFold(user.Email, input.Email) {
		owner, err := service.userRepository.FindByEmail(context, input.Email)
		if err == nil && owner.ID != user.ID {
			return nil, apperr.Conflict("Email already exists")
		}
		if err != nil && !dberr.IsNotFound(err) {
			return nil, err
		}
	}

	if err := service.userRepository.UpdateProfile(context, user.ID, input.Name, input.Email); err != nil {
		return nil, err
	}

	user.Name = input.Name
	user.Email = input.Email
	return user, nil
}
