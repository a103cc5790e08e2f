// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package request

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/platform/validate"
	"github.com/taibuivan/collabconnect/pkg/sanitize"
	"github.com/taibuivan/collabconnect/pkg/uuid"
)

// Validation field names and limits.
const (
	FieldType      = "type"
	FieldStatus    = "status"
	FieldDetails   = "details"
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"

	MaxDetailsLength = 2000
	MaxTimeOffDays   = 30
)

// reviewerRoles may see every request and decide on them.
var reviewerRoles = []sec.SystemRole{sec.RoleHR, sec.RoleSuperAdmin, sec.RoleDirector}

// # Service Layer

// Service orchestrates filing and reviewing HR requests.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a new request [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithClock replaces the time source.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// CreateInput holds the fields a collaborator submits.
type CreateInput struct {
	Type      Type
	Details   string
	StartDate *time.Time
	EndDate   *time.Time
}

/*
Create files a new request on behalf of userID.

Description: Time-off requests need a date range and are charged in business
days. Consultations need details. Other types accept optional details.

Parameters:
  - context: context.Context
  - userID: string
  - input: CreateInput

Returns:
  - *Request: The stored request in [StatusPending]
  - error: apperr.ValidationError or storage failures
*/
func (service *Service) Create(context context.Context, userID string, input CreateInput) (*Request, error) {
	details := sanitize.Text(input.Details)

	validator := &validate.Validator{}
	validator.Custom(FieldType, !input.Type.Valid(), "Unknown request type").
		MaxLen(FieldDetails, details, MaxDetailsLength)

	request := &Request{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      input.Type,
		TypeLabel: input.Type.Label(),
		Status:    StatusPending,
		Details:   details,
	}

	switch input.Type {
	case TypeTimeOff:
		validator.Custom(FieldStartDate, input.StartDate == nil, "Start date is required").
			Custom(FieldEndDate, input.EndDate == nil, "End date is required")
		if input.StartDate != nil && input.EndDate != nil {
			start, end := dateOnly(*input.StartDate), dateOnly(*input.EndDate)
			days := MaxTimeOffDays + 1
			if end.Sub(start) < 365*24*time.Hour {
				days = BusinessDays(start, end)
			}

			validator.Custom(FieldEndDate, end.Before(start), "Must not be before the start date").
				Custom(FieldStartDate, start.Before(dateOnly(service.now())), "Must not be in the past").
				Custom(FieldEndDate, !end.Before(start) && days == 0, "The range has no business days").
				Custom(FieldEndDate, days > MaxTimeOffDays, fmt.Sprintf("At most %d business days per request", MaxTimeOffDays))

			request.StartDate, request.EndDate, request.Days = &start, &end, days
		}
	case TypeConsultation:
		validator.Required(FieldDetails, details)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, request); err != nil {
		return nil, fmt.Errorf("request_service_create_failed: %w", err)
	}

	service.logger.Info("hr_request_created",
		slog.String("request_id", request.ID),
		slog.String("user_id", userID),
		slog.String("type", string(request.Type)),
	)

	return request, nil
}

// ListOwn returns the caller's requests, newest first.
func (service *Service) ListOwn(context context.Context, userID string, filter Filter, limit, offset int) ([]*Request, int, error) {
	filter.UserID = userID
	filter.ScopeUserID = ""
	return service.repo.List(context, filter, limit, offset)
}

/*
ListAll returns every request visible to an HR viewer.

Description: Directors are limited to their own company.
*/
func (service *Service) ListAll(context context.Context, viewer *sec.AuthClaims, filter Filter, limit, offset int) ([]*Request, int, error) {
	if sec.ParseRole(viewer.Role) == sec.RoleDirector {
		filter.ScopeUserID = viewer.UserID
	}
	return service.repo.List(context, filter, limit, offset)
}

/*
Get returns a request to its owner or to an HR viewer.

Returns:
  - *Request
  - error: apperr.NotFound when the viewer may not see it
*/
func (service *Service) Get(context context.Context, viewer *sec.AuthClaims, id string) (*Request, error) {
	request, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if request.UserID != viewer.UserID && !sec.ParseRole(viewer.Role).In(reviewerRoles...) {
		return nil, apperr.NotFound("Request")
	}

	return request, nil
}

/*
Review moves a request to status on behalf of an HR reviewer.

Description: Final statuses cannot change. Approving a time-off request debits
its days from the requester's PTO balance. Nobody reviews their own request.

Parameters:
  - context: context.Context
  - reviewer: *sec.AuthClaims
  - id: string
  - status: Status

Returns:
  - *Request: The updated request
  - error: apperr.ValidationError, apperr.Forbidden, apperr.Unprocessable
    (illegal transition or insufficient PTO) or apperr.Conflict
*/
func (service *Service) Review(context context.Context, reviewer *sec.AuthClaims, id string, status Status) (*Request, error) {
	if !status.Valid() {
		return nil, apperr.ValidationError("Invalid status",
			apperr.FieldError{Field: FieldStatus, Message: "Unknown status"})
	}

	request, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if request.UserID == reviewer.UserID {
		return nil, apperr.Forbidden("You cannot review your own request")
	}

	from := request.Status
	if !from.CanMoveTo(status) {
		return nil, apperr.Unprocessable(fmt.Sprintf("A request in %q cannot move to %q", from, status))
	}

	debit := 0
	if status == StatusApproved && request.Type == TypeTimeOff {
		debit = request.Days
	}

	reviewedAt := service.now().UTC()
	request.Status = status
	request.ReviewedBy = reviewer.UserID
	request.ReviewedAt = &reviewedAt

	if err := service.repo.UpdateStatus(context, request, from, debit); err != nil {
		return nil, err
	}

	service.logger.Info("hr_request_reviewed",
		slog.String("request_id", request.ID),
		slog.String("reviewer_id", reviewer.UserID),
		slog.String("from", string(from)),
		slog.String("to", string(status)),
		slog.Int("pto_debit", debit),
	)

	return request, nil
}

// # Calendar Helpers

// dateOnly truncates t to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// BusinessDays counts Monday to Friday days in [start, end]. It returns 0 when
// end precedes start.
func BusinessDays(start, end time.Time) int {
	start, end = dateOnly(start), dateOnly(end)
	days := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if weekday := day.Weekday(); weekday != time.Saturday && weekday != time.Sunday {
			days++
		}
	}
	return days
}
