// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/session"
)

// UserRepository stores accounts. Lookups return apperr.NotFound for unknown
// or deleted accounts; emails are passed already normalised.
type UserRepository interface {
	FindByID(context context.Context, id string) (*User, error)
	FindByEmail(context context.Context, email string) (*User, error)

	// Create returns apperr.AccountExists when the email is taken.
	Create(context context.Context, user *User) error

	UpdatePassword(context context.Context, userID, newHash string) error
	TouchLogin(context context.Context, userID string, at time.Time) error
}

// SessionAuditRepository keeps one row per session: when it started, from
// where, and how it ended. As a [session.EndRecorder] it is told about
// timeouts by the session runtime itself.
type SessionAuditRepository interface {
	session.EndRecorder

	Create(context context.Context, record *LoginRecord) error

	// ListByUser returns at most limit sessions, newest first.
	ListByUser(context context.Context, userID string, limit int) ([]*LoginRecord, error)

	// ListOpen returns the ids of sessions that have not ended.
	ListOpen(context context.Context, userID string) ([]string, error)
}

// ResetTokenRepository holds hashed password reset tokens until they expire
// or are redeemed.
type ResetTokenRepository interface {
	Set(context context.Context, tokenHash, userID string, ttl time.Duration) error

	// Consume returns the owner of tokenHash and deletes it in one step, so a
	// token is redeemable once. Unknown or expired tokens are apperr.NotFound.
	Consume(context context.Context, tokenHash string) (string, error)
}

// CompanyDirectory resolves the company a registering collaborator belongs to.
type CompanyDirectory interface {
	// Ensure returns the ID of the company with the given display name,
	// creating it when no company with the same slug exists.
	Ensure(context context.Context, name string) (string, error)
}

// SessionStarter is the part of the session runtime the auth flows drive.
type SessionStarter interface {
	Start(context context.Context, user session.AuthenticatedUser) (*session.Runtime, error)
	End(context context.Context, sessionID string, reason session.EndReason) error
}

// TokenIssuer mints access tokens bound to a session.
type TokenIssuer interface {
	GenerateAccessToken(userID, name string, role sec.SystemRole, sessionID string, ttl time.Duration) (string, error)
}

// Observer receives identity outcomes for metrics.
type Observer interface {
	RecordLogin(outcome string)
	RecordRegistration(role string)
}

type nopObserver struct{}

func (nopObserver) RecordLogin(string)        {}
func (nopObserver) RecordRegistration(string) {}
