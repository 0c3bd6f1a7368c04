// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Every mutation is a single atomic UPDATE/INSERT statement: concurrent
// operations on the same row are ordered only by the database's native
// per-row atomicity (last write wins at statement granularity).
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.
		The comparison is case-insensitive.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		List returns every account ordered by name.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*User: All accounts (password hashes included; callers must
		    never serialize the entity list without mapping)
		  - error: Database retrieval failures
	*/
	List(context context.Context) ([]*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on duplicate email, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateProfile persists changes to the mutable profile fields.

		Parameters:
		  - context: context.Context
		  - id: string
		  - name: string
		  - email: string

		Returns:
		  - error: apperr.Conflict on duplicate email, or persistence failures
	*/
	UpdateProfile(context context.Context, id, name, email string) error

	/*
		UpdateLastLogin stamps the account's last successful authentication.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateLastLogin(context context.Context, id string) error

	/*
		SetAdminFlag toggles the admin role for an account. Demoting an
		admin also clears its permission set in the same statement.

		Parameters:
		  - context: context.Context
		  - id: string
		  - isAdmin: bool

		Returns:
		  - error: Persistence failures
	*/
	SetAdminFlag(context context.Context, id string, isAdmin bool) error

	/*
		SetPermissions replaces the account's permission set.

		Parameters:
		  - context: context.Context
		  - id: string
		  - permissions: []Permission

		Returns:
		  - error: Persistence failures
	*/
	SetPermissions(context context.Context, id string, permissions []Permission) error

	/*
		ApplyBan blocks the account. A nil until makes the ban permanent;
		a concrete time makes it temporary.

		Parameters:
		  - context: context.Context
		  - id: string (target account)
		  - until: *time.Time (nil = permanent)
		  - reason: string
		  - bannedBy: string (acting admin's account ID)

		Returns:
		  - error: Persistence failures
	*/
	ApplyBan(context context.Context, id string, until *time.Time, reason, bannedBy string) error

	/*
		ClearBan resets every ban field on the account. Clearing an account
		that is not banned is a no-op, not an error.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	ClearBan(context context.Context, id string) error
}
