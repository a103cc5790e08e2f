// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles the collaborator's own profile and the HR employee
directory.

# Architecture

  - Entities: Profile (the session identity plus derived fields), SessionInfo (DTO).
  - Domain: This package depends on the auth package for the User entity and
    the login audit.
  - Profile defaults (department, leader, PTO, start date) are applied once when
    a record leaves storage, never at display time.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/collabconnect/internal/session"
	"github.com/taibuivan/collabconnect/internal/users/auth"
	"github.com/taibuivan/collabconnect/pkg/pagination"
)

// # Domain Entities

// Profile is the defaulted view of an account.
type Profile struct {
	session.AuthenticatedUser
	PTORemaining int       `json:"ptoRemaining"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewProfile applies the profile defaults to a stored account.
func NewProfile(user *auth.User) *Profile {
	identity := user.Authenticated()
	return &Profile{
		AuthenticatedUser: identity,
		PTORemaining:      identity.PTORemaining(),
		CreatedAt:         user.CreatedAt,
	}
}

// SessionInfo is a login audit row as shown to its owner.
type SessionInfo struct {
	ID        string     `json:"id"`
	UserAgent string     `json:"userAgent"`
	IPAddress string     `json:"ipAddress"`
	CreatedAt time.Time  `json:"createdAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	EndReason string     `json:"endReason,omitempty"`
	IsCurrent bool       `json:"isCurrent"`
}

// EmployeeFilter narrows the employee directory.
type EmployeeFilter struct {
	CompanyID string
	Role      string
	Query     string
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	// UpdateProfile persists the fields a collaborator may edit.
	UpdateProfile(context context.Context, user *auth.User) error

	// UpdateEmployment persists the fields only HR may edit.
	UpdateEmployment(context context.Context, user *auth.User) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	SoftDelete(context context.Context, id string) error

	/*
		List returns one page of live accounts matching filter.

		Parameters:
		  - context: context.Context
		  - filter: EmployeeFilter
		  - page: pagination.Params

		Returns:
		  - []*auth.User
		  - int: total matches
		  - error: Retrieval failures
	*/
	List(context context.Context, filter EmployeeFilter, page pagination.Params) ([]*auth.User, int, error)
}

// SessionDirectory exposes the login audit and bulk session termination.
type SessionDirectory interface {
	RecentSessions(context context.Context, userID string) ([]*auth.LoginRecord, error)
	EndAllSessions(context context.Context, userID, keep string)
}

// SessionRefresher swaps the identity of a live session after an edit.
type SessionRefresher interface {
	Refresh(context context.Context, sessionID string, user session.AuthenticatedUser) error
}
