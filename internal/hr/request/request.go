// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request manages the HR requests collaborators file through the portal:
days off, employment certificates, recommendation and reference letters, and
general consultations.

# Lifecycle

A request is created as [StatusPending]. HR may move it to [StatusInProgress]
and finally to [StatusApproved] or [StatusRejected], which are terminal.
Approving a time-off request debits its business days from the collaborator's
paid time off in the same transaction.
*/
package request

import (
	"context"
	"time"
)

// # Enums

// Type is the kind of request.
type Type string

const (
	TypeTimeOff        Type = "time-off"
	TypeCertificate    Type = "certificate"
	TypeRecommendation Type = "recommendation"
	TypeReference      Type = "reference"
	TypeConsultation   Type = "consultation"
)

// Types lists every request type in display order.
var Types = []Type{TypeTimeOff, TypeCertificate, TypeRecommendation, TypeReference, TypeConsultation}

// Label returns the portal's display name of the type.
func (t Type) Label() string {
	switch t {
	case TypeTimeOff:
		return "Día Libre (TPP)"
	case TypeCertificate:
		return "Constancia Laboral"
	case TypeRecommendation:
		return "Recomendación Laboral"
	case TypeReference:
		return "Referencia Laboral"
	case TypeConsultation:
		return "Consulta"
	}
	return string(t)
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Status is the review state of a request.
type Status string

const (
	StatusPending    Status = "Pendiente"
	StatusInProgress Status = "En Progreso"
	StatusApproved   Status = "Aprobado"
	StatusRejected   Status = "Rechazado"
)

// Statuses lists every status.
var Statuses = []Status{StatusPending, StatusInProgress, StatusApproved, StatusRejected}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Final reports whether no further transition is allowed.
func (s Status) Final() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanMoveTo reports whether the review workflow allows from -> to.
func (s Status) CanMoveTo(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusInProgress || to == StatusApproved || to == StatusRejected
	case StatusInProgress:
		return to == StatusApproved || to == StatusRejected
	}
	return false
}

// # Entities

// Request is one HR request.
type Request struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	RequesterName string     `json:"requesterName,omitempty"`
	CompanyID     string     `json:"companyId,omitempty"`
	Type          Type       `json:"type"`
	TypeLabel     string     `json:"typeLabel"`
	Status        Status     `json:"status"`
	Details       string     `json:"details"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	Days          int        `json:"days"`
	ReviewedBy    string     `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Filter narrows request listings.
type Filter struct {
	UserID    string
	CompanyID string
	Status    Status
	Type      Type

	// ScopeUserID restricts results to the company of that user.
	ScopeUserID string
}

// # Data Access

// Repository defines the data access contract for requests.
type Repository interface {
	// Create stores request. The company is taken from the requester's account.
	Create(context context.Context, request *Request) error

	FindByID(context context.Context, id string) (*Request, error)

	List(context context.Context, filter Filter, limit, offset int) ([]*Request, int, error)

	/*
		UpdateStatus persists a review decision.

		Parameters:
		  - context: context.Context
		  - request: *Request (Status, ReviewedBy, ReviewedAt already set)
		  - from: Status (the state the decision was taken on)
		  - debitDays: int (PTO days charged to the requester; 0 for none)

		Returns:
		  - error: apperr.Conflict when the status changed concurrently,
		    apperr.Unprocessable when the PTO balance is insufficient
	*/
	UpdateStatus(context context.Context, request *Request, from Status, debitDays int) error
}
