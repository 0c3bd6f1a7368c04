// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

/*
Package auth implements the user identity, role, and ban-state layer.

It defines the core domain entity (User), the closed permission registry for
admin capabilities, and the logic for authentication, authorization, and
account bans.

# Architecture

This layer is the "Truth" of the system. The role model is deliberately
strict: every authorization-sensitive decision re-reads the account record
from storage instead of trusting token claims, because claims go stale the
moment an admin bans or demotes a user.
*/
package auth

import (
	"fmt"
	"time"

	"github.com/velora-shop/velora/internal/platform/apperr"
)

// # Admin Permissions

// Permission is a fine-grained capability tag for admin accounts.
//
// Permissions are interpreted by the admin dashboard; the authorization gate
// enforces only the role tier (admin / super admin). They are validated
// against the closed registry below rather than stored as free-form strings.
type Permission string

const (
	// PermissionManageStock allows editing product stock levels.
	PermissionManageStock Permission = "manage_stock"

	// PermissionManageUsers allows user listing, role toggles, and bans.
	PermissionManageUsers Permission = "manage_users"

	// PermissionManageOrders allows access to order tooling.
	PermissionManageOrders Permission = "manage_orders"

	// PermissionViewAnalytics allows read access to the analytics panels.
	PermissionViewAnalytics Permission = "view_analytics"
)

// registry is the closed set of valid permissions.
var registry = map[Permission]struct{}{
	PermissionManageStock:   {},
	PermissionManageUsers:   {},
	PermissionManageOrders:  {},
	PermissionViewAnalytics: {},
}

// IsValid reports whether the permission is part of the closed registry.
func (p Permission) IsValid() bool {
	_, ok := registry[p]
	return ok
}

// ParsePermissions validates raw permission strings against the registry.
//
// # Returns
//   - The typed permission set (deduplicated, input order preserved).
//   - [apperr.ValidationError] naming every unknown tag.
func ParsePermissions(raw []string) ([]Permission, error) {
	seen := make(map[Permission]struct{}, len(raw))
	permissions := make([]Permission, 0, len(raw))

	var fieldErrors []apperr.FieldError
	for _, tag := range raw {
		permission := Permission(tag)
		if !permission.IsValid() {
			fieldErrors = append(fieldErrors, apperr.FieldError{
				Field:   FieldPermissions,
				Message: fmt.Sprintf("Unknown permission %q", tag),
			})
			continue
		}
		if _, dup := seen[permission]; dup {
			continue
		}
		seen[permission] = struct{}{}
		permissions = append(permissions, permission)
	}

	if len(fieldErrors) > 0 {
		return nil, apperr.ValidationError("Validation failed", fieldErrors...)
	}

	return permissions, nil
}

// # Domain Entities

// User represents a registered customer or administrator of the Velora storefront.
//
// # Rules
//   - Email is unique (case-insensitive) and validated.
//   - PasswordHash is generated via bcrypt exclusively through [Service].
//   - Permissions are meaningful only while IsAdmin is true.
//   - BanUntil is meaningful only while IsBanned is true: nil means the ban
//     is permanent, a concrete time means it expires (lazily, on next access).
//   - Accounts are never hard-deleted.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	IsAdmin      bool         `json:"isAdmin"`
	IsSuperAdmin bool         `json:"isSuperAdmin"`
	Permissions  []Permission `json:"permissions,omitempty"`
	IsBanned     bool         `json:"isBanned"`
	BanUntil     *time.Time   `json:"banUntil,omitempty"`
	BanReason    string       `json:"banReason,omitempty"`
	BannedBy     *string      `json:"bannedBy,omitempty"`
	LastLogin    time.Time    `json:"lastLogin"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// PublicProfile is the transport shape for the account owner's own view.
//
// It deliberately omits ban bookkeeping and permissions: the storefront
// profile page only needs identity and the admin flag.
type PublicProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	LastLogin time.Time `json:"lastLogin"`
}

// Profile maps the full entity to its owner-facing transport shape.
func (u *User) Profile() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		LastLogin: u.LastLogin,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldPermissions     = "permissions"
	FieldToken           = "token"
	FieldUser            = "user"
	FieldUsers           = "users"
	FieldMessage         = "message"
	FieldIsAdmin         = "isAdmin"
	FieldIsSuperAdmin    = "isSuperAdmin"
	FieldCurrentUser     = "currentUser"
	FieldDurationMinutes = "durationMinutes"
	FieldReason          = "reason"
)
