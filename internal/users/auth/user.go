// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements collaborator identity: registration, credential checks,
login, logout and password recovery.

It defines the account entity and the login audit record, and it is the only
package allowed to start or end a session runtime on behalf of a user.

# Architecture

Entities here carry the business rules of identity. The system role is never
accepted from a client: it is always derived from the job title and company
through [sec.ResolveRole].
*/
package auth

import (
	"time"

	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/session"
)

// # Domain Entities

// User represents a registered CollabConnect collaborator.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"` // Explicitly omitted from JSON for security.
	FullName     string         `json:"fullName"`
	Role         sec.SystemRole `json:"role"`
	JobTitle     string         `json:"jobTitle"`
	CompanyID    string         `json:"companyId,omitempty"`
	CompanyName  string         `json:"companyName"`
	Department   string         `json:"department"`
	Leader       string         `json:"leader"`
	StartDate    *time.Time     `json:"startDate,omitempty"`
	AvatarURL    string         `json:"avatarUrl,omitempty"`
	PTOTotal     int            `json:"ptoTotal"`
	PTOTaken     int            `json:"ptoTaken"`
	Skills       []string       `json:"skills"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Authenticated converts the stored account into the session identity with the
// profile defaults applied.
func (user *User) Authenticated() session.AuthenticatedUser {
	identity := session.AuthenticatedUser{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
		CompanyID:   user.CompanyID,
		CompanyName: user.CompanyName,
		JobTitle:    user.JobTitle,
		Department:  user.Department,
		Leader:      user.Leader,
		AvatarURL:   user.AvatarURL,
		PTOTotal:    user.PTOTotal,
		PTOTaken:    user.PTOTaken,
		Skills:      append([]string(nil), user.Skills...),
	}
	if user.StartDate != nil {
		identity.StartDate = *user.StartDate
	}
	return identity.WithDefaults(user.CreatedAt)
}

// LoginRecord is one row of the login audit. EndedAt stays nil while the
// session is open.
type LoginRecord struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	UserAgent string     `json:"userAgent"`
	IPAddress string     `json:"ipAddress"`
	CreatedAt time.Time  `json:"createdAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	EndReason string     `json:"endReason,omitempty"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldFullName        = "fullName"
	FieldCompanyName     = "companyName"
	FieldJobTitle        = "jobTitle"
	FieldToken           = "token"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
	FieldAccessToken     = "accessToken"
	FieldTokenType       = "tokenType"
	FieldExpiresIn       = "expiresIn"
	FieldSessionID       = "sessionId"
	FieldUser            = "user"
	FieldMessage         = "message"
)
