// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Authentication Constraints

const (
	// MinPasswordLength matches the registration form rule.
	MinPasswordLength = 6

	// MaxNameLength bounds full names, company names and job titles.
	MaxNameLength = 120

	// TokenTypeBearer is echoed in the login payload.
	TokenTypeBearer = "Bearer"

	// RecentSessionsLimit caps the login audit returned to a user.
	RecentSessionsLimit = 20
)
