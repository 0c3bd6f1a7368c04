// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// # Postgres Audit Repository

// PostgresAuditRepository implements [AuditRepository] using pgx.
type PostgresAuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new PostgreSQL implementation of the [AuditRepository].
func NewAuditRepository(pool *pgxpool.Pool) *PostgresAuditRepository {
	return &PostgresAuditRepository{pool: pool}
}

/*
Record persists a single audit entry into the admin_actions table.

Parameters:
  - context: context.Context
  - action: *Action

Returns:
  - error: Database errors (callers treat these as non-fatal)
*/
func (repository *PostgresAuditRepository) Record(context context.Context, action *Action) error {
	const query = `
		INSERT INTO admin_actions (id, actor_id, target_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	details := action.Details
	if details == nil {
		details = map[string]any{}
	}
	rawDetails, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("postgres_audit_repo_details_encode_failed: %w", err)
	}

	_, err = repository.pool.Exec(context, query,
		action.ID,
		action.ActorID,
		action.TargetID,
		action.Action,
		rawDetails,
		action.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_audit_repo_record_failed: %w", err)
	}

	return nil
}
