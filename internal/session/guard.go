// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "github.com/taibuivan/collabconnect/internal/platform/sec"

// Decision is the outcome of a route guard check.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionRedirectToLogin
	DecisionRedirectToDefault
)

func (decision Decision) String() string {
	switch decision {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectToLogin:
		return "redirect-to-login"
	case DecisionRedirectToDefault:
		return "redirect-to-default"
	default:
		return "unknown"
	}
}

// Guard decides whether user may open a view restricted to required roles.
//
// An empty required list admits any authenticated user. A role mismatch is a
// silent downgrade to the default landing view, never an error.
func Guard(user *AuthenticatedUser, required []sec.SystemRole) Decision {
	if user == nil {
		return DecisionRedirectToLogin
	}
	if len(required) > 0 && !user.Role.In(required...) {
		return DecisionRedirectToDefault
	}
	return DecisionAllow
}
