// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velora-shop/velora/internal/platform/dberr"
)

// # Postgres User Repository

// userColumns is the canonical select list; every scan goes through
// [scanUser], so the order here is load-bearing.
const userColumns = `
	id, name, email, password_hash, is_admin, is_super_admin, permissions,
	is_banned, ban_until, ban_reason, banned_by, last_login, created_at, updated_at`

// PostgresUserRepository implements the [UserRepository] interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, unique violations) are mapped to
// domain-friendly [apperr.AppError] values through the dberr helpers so the
// services above never see driver types.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// rowScanner abstracts pgx.Row and pgx.Rows for the shared scan helper.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser hydrates a [User] from a row produced with [userColumns].
// Permissions are stored as a jsonb array of tags.
func scanUser(row rowScanner) (*User, error) {
	var (
		user     User
		rawPerms []byte
	)

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.IsSuperAdmin,
		&rawPerms,
		&user.IsBanned,
		&user.BanUntil,
		&user.BanReason,
		&user.BannedBy,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(rawPerms) > 0 {
		if err := json.Unmarshal(rawPerms, &user.Permissions); err != nil {
			return nil, fmt.Errorf("postgres_user_repo_permissions_decode_failed: %w", err)
		}
	}

	return &user, nil
}

/*
FindByID retrieves a user record by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "")
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by email address.

Description: The comparison is case-insensitive; the unique index on
LOWER(email) keeps this lookup on an index scan.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "")
	}

	return user, nil
}

/*
List retrieves every account, ordered by name for stable admin listings.

Parameters:
  - context: context.Context

Returns:
  - []*User: All accounts
  - error: Database errors
*/
func (repository *PostgresUserRepository) List(context context.Context) ([]*User, error) {
	query := `SELECT` + userColumns + ` FROM users ORDER BY name, id`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_rows_failed: %w", err)
	}

	return users, nil
}

/*
Create persists a new user record into the users table.

Description: Initializes timestamps if not provided. The permission set is
serialized as a jsonb array.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, name, email, password_hash, is_admin, is_super_admin, permissions,
			is_banned, ban_until, ban_reason, banned_by, last_login, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	rawPerms, err := encodePermissions(user.Permissions)
	if err != nil {
		return err
	}

	_, err = repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		user.IsSuperAdmin,
		rawPerms,
		user.IsBanned,
		user.BanUntil,
		user.BanReason,
		user.BannedBy,
		user.LastLogin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "User", "Email already exists")
	}

	return nil
}

/*
UpdateProfile persists changes to the mutable profile fields.

Parameters:
  - context: context.Context
  - id, name, email: string

Returns:
  - error: apperr.NotFound, apperr.Conflict on duplicate email, or database errors
*/
func (repository *PostgresUserRepository) UpdateProfile(context context.Context, id, name, email string) error {
	const query = `
		UPDATE users
		SET name = $2, email = $3, updated_at = NOW()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, name, email)
	if err != nil {
		return dberr.Wrap(err, "User", "Email already exists")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", "")
	}

	return nil
}

/*
UpdateLastLogin stamps the account's last successful authentication.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Database errors
*/
func (repository *PostgresUserRepository) UpdateLastLogin(context context.Context, id string) error {
	const query = `UPDATE users SET last_login = NOW(), updated_at = NOW() WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return fmt.Errorf("postgres_user_repo_update_last_login_failed: %w", err)
	}

	return nil
}

/*
SetAdminFlag toggles the admin role for an account.

Description: Demotion clears the permission set in the same statement so a
demoted admin can never retain granular grants.

Parameters:
  - context: context.Context
  - id: string
  - isAdmin: bool

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) SetAdminFlag(context context.Context, id string, isAdmin bool) error {
	const query = `
		UPDATE users
		SET is_admin = $2,
		    permissions = CASE WHEN $2 THEN permissions ELSE '[]'::jsonb END,
		    updated_at = NOW()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, isAdmin)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_admin_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", "")
	}

	return nil
}

/*
SetPermissions replaces the account's permission set.

Parameters:
  - context: context.Context
  - id: string
  - permissions: []Permission

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) SetPermissions(context context.Context, id string, permissions []Permission) error {
	const query = `UPDATE users SET permissions = $2, updated_at = NOW() WHERE id = $1`

	rawPerms, err := encodePermissions(permissions)
	if err != nil {
		return err
	}

	tag, err := repository.pool.Exec(context, query, id, rawPerms)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_permissions_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", "")
	}

	return nil
}

/*
ApplyBan blocks the account, overwriting any previous ban in place.

Parameters:
  - context: context.Context
  - id: string (target account)
  - until: *time.Time (nil = permanent)
  - reason: string
  - bannedBy: string (acting admin's account ID)

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) ApplyBan(context context.Context, id string, until *time.Time, reason, bannedBy string) error {
	const query = `
		UPDATE users
		SET is_banned = TRUE, ban_until = $2, ban_reason = $3, banned_by = $4, updated_at = NOW()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, until, reason, bannedBy)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_apply_ban_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", "")
	}

	return nil
}

/*
ClearBan resets every ban field on the account.

Description: Clearing an account that is not banned rewrites the already
clear fields, which keeps the statement idempotent.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) ClearBan(context context.Context, id string) error {
	const query = `
		UPDATE users
		SET is_banned = FALSE, ban_until = NULL, ban_reason = '', banned_by = NULL, updated_at = NOW()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_clear_ban_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", "")
	}

	return nil
}

// encodePermissions serializes a permission set for jsonb storage.
// A nil set is stored as an empty array, never SQL NULL.
func encodePermissions(permissions []Permission) ([]byte, error) {
	if permissions == nil {
		permissions = []Permission{}
	}

	raw, err := json.Marshal(permissions)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_permissions_encode_failed: %w", err)
	}

	return raw, nil
}
