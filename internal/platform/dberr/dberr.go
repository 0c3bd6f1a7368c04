// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// It hides internal database details from the client while classifying the
// error type, so repositories never leak SQLSTATE codes or driver errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/velora-shop/velora/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
//
// # Mapping
//   - pgx.ErrNoRows          → 404 NotFound for the named resource
//   - SQLSTATE 23505 (unique) → 409 Conflict using conflictMsg
//   - anything else          → 500 Internal (cause kept for logging only)
func Wrap(err error, resource, conflictMsg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return apperr.Conflict(conflictMsg)
	}

	return apperr.Internal(err)
}

// IsNotFound reports whether err maps to a missing row.
func IsNotFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	ae := apperr.As(err)
	return ae != nil && ae.Code == "NOT_FOUND"
}
