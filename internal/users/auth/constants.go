// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// 24 hours matches the storefront session model: there are no refresh
	// tokens, so a shorter TTL would log shoppers out mid-browse.
	AccessTokenTTL = 24 * time.Hour

	// BanTimeLayout is the human-readable format used when telling a
	// temporarily banned user when their ban lifts.
	BanTimeLayout = "Jan 2, 2006 15:04 MST"
)
