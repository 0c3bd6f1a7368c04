// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package admin

import (
	"context"
	"time"
)

// # Audit Trail

// Audit action identifiers recorded for moderation operations.
const (
	ActionSetAdminFlag   = "set_admin_flag"
	ActionBanUser        = "ban_user"
	ActionUnbanUser      = "unban_user"
	ActionSetPermissions = "set_permissions"
	ActionCreateAdmin    = "create_admin"
)

// Action is a single entry in the administrative audit trail.
//
// The trail is best-effort: a failed insert is logged and swallowed so an
// audit outage can never roll back the moderation action it describes.
type Action struct {
	ID       string         `json:"id"`
	ActorID  string         `json:"actorId"`
	TargetID *string        `json:"targetId,omitempty"`
	Action   string         `json:"action"`
	Details  map[string]any `json:"details,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// AuditRepository defines the data access contract for the audit trail.
type AuditRepository interface {

	/*
		Record persists a single audit entry.

		Parameters:
		  - context: context.Context
		  - action: *Action

		Returns:
		  - error: Persistence failures (callers treat these as non-fatal)
	*/
	Record(context context.Context, action *Action) error
}
