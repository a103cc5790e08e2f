// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"time"

	"github.com/taibuivan/collabconnect/internal/platform/sec"
)

// Profile defaults applied once when a record leaves storage.
const (
	DefaultDepartment = "No asignado"
	DefaultLeader     = "Pendiente"
	DefaultPTOTotal   = 15
)

// AuthenticatedUser is the identity of the logged-in collaborator.
//
// It is the only session state persisted to the durable [Store] and the only
// state shared across reloads.
type AuthenticatedUser struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	FullName    string         `json:"fullName"`
	Role        sec.SystemRole `json:"role"`
	CompanyID   string         `json:"companyId,omitempty"`
	CompanyName string         `json:"companyName"`
	JobTitle    string         `json:"jobTitle"`
	Department  string         `json:"department"`
	Leader      string         `json:"leader"`
	StartDate   time.Time      `json:"startDate"`
	AvatarURL   string         `json:"avatarUrl,omitempty"`
	PTOTotal    int            `json:"ptoTotal"`
	PTOTaken    int            `json:"ptoTaken"`
	Skills      []string       `json:"skills,omitempty"`
}

// WithDefaults fills missing optional fields. createdAt is used when the
// record carries no start date.
func (user AuthenticatedUser) WithDefaults(createdAt time.Time) AuthenticatedUser {
	if user.Department == "" {
		user.Department = DefaultDepartment
	}
	if user.Leader == "" {
		user.Leader = DefaultLeader
	}
	if user.PTOTotal <= 0 {
		user.PTOTotal = DefaultPTOTotal
	}
	if user.PTOTaken < 0 {
		user.PTOTaken = 0
	}
	if user.StartDate.IsZero() {
		user.StartDate = createdAt
	}
	if !user.Role.Valid() {
		user.Role = sec.RoleCollaborator
	}
	return user
}

// PTORemaining returns the unused paid time off days.
func (user AuthenticatedUser) PTORemaining() int {
	remaining := user.PTOTotal - user.PTOTaken
	if remaining < 0 {
		return 0
	}
	return remaining
}
