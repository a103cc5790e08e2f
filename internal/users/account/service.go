// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/session"
	"github.com/taibuivan/collabconnect/pkg/pagination"
	"github.com/taibuivan/collabconnect/pkg/sanitize"
)

// # Service Layer

// Service orchestrates profile edits, the login audit view and the HR
// employee directory.
type Service struct {
	accountRepository AccountRepository
	sessions          SessionDirectory
	refresher         SessionRefresher
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	accountRepo AccountRepository,
	sessions SessionDirectory,
	refresher SessionRefresher,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessions:          sessions,
		refresher:         refresher,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the defaulted profile of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*Profile, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return NewProfile(user), nil
}

// UpdateProfileInput defines the self-service subset of profile fields.
type UpdateProfileInput struct {
	FullName  *string
	AvatarURL *string
	Skills    *[]string
}

/*
UpdateProfile applies a partial set of changes to the caller's profile.

Description: Free text is sanitized before storage. The caller's live session
is refreshed so later snapshots show the new identity.

Parameters:
  - context: context.Context
  - userID: string
  - sessionID: string
  - input: UpdateProfileInput

Returns:
  - *Profile: The updated profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID, sessionID string, input UpdateProfileInput) (*Profile, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	if input.FullName != nil {
		user.FullName = sanitize.Text(*input.FullName)
	}
	if input.AvatarURL != nil {
		user.AvatarURL = sanitize.Text(*input.AvatarURL)
	}
	if input.Skills != nil {
		user.Skills = sanitize.List(*input.Skills)
	}

	if err := service.accountRepository.UpdateProfile(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	profile := NewProfile(user)
	service.refresh(context, sessionID, profile.AuthenticatedUser)
	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return profile, nil
}

// refresh updates the live session, ignoring sessions that already ended.
func (service *Service) refresh(context context.Context, sessionID string, user session.AuthenticatedUser) {
	if service.refresher == nil || sessionID == "" {
		return
	}
	err := service.refresher.Refresh(context, sessionID, user)
	if err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		service.logger.Warn("session_refresh_failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
	}
}

/*
DeleteAccount performs a soft-deletion of a user account.

Description: Flags the account as deleted and ends every open session to
force a global sign-out.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {
	if err := service.accountRepository.SoftDelete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.sessions.EndAllSessions(context, userID, "")
	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}

// # Session Transparency

/*
ListSessions returns the caller's recent sessions.

Parameters:
  - context: context.Context
  - userID: string
  - currentSessionID: string (flagged as current)

Returns:
  - []SessionInfo
  - error: Retrieval failures
*/
func (service *Service) ListSessions(context context.Context, userID, currentSessionID string) ([]SessionInfo, error) {
	records, err := service.sessions.RecentSessions(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_sessions_failed: %w", err)
	}

	infos := make([]SessionInfo, 0, len(records))
	for _, record := range records {
		infos = append(infos, SessionInfo{
			ID:        record.ID,
			UserAgent: record.UserAgent,
			IPAddress: record.IPAddress,
			CreatedAt: record.CreatedAt,
			EndedAt:   record.EndedAt,
			EndReason: record.EndReason,
			IsCurrent: record.ID == currentSessionID,
		})
	}

	return infos, nil
}

// EndOtherSessions ends every open session of the caller except the current one.
func (service *Service) EndOtherSessions(context context.Context, userID, currentSessionID string) {
	service.sessions.EndAllSessions(context, userID, currentSessionID)
	service.logger.Info("user_other_sessions_ended", slog.String("user_id", userID))
}

// # Employee Directory

/*
ListEmployees returns one page of the employee directory.

Description: Directors only see their own company; HR and SuperAdmin see every
company unless a filter narrows it.

Parameters:
  - context: context.Context
  - viewer: *sec.AuthClaims
  - filter: EmployeeFilter
  - page: pagination.Params

Returns:
  - []*Profile
  - int: total matches
  - error: Retrieval failures
*/
func (service *Service) ListEmployees(context context.Context, viewer *sec.AuthClaims, filter EmployeeFilter, page pagination.Params) ([]*Profile, int, error) {
	if sec.ParseRole(viewer.Role) == sec.RoleDirector {
		director, err := service.accountRepository.FindByID(context, viewer.UserID)
		if err != nil {
			return nil, 0, fmt.Errorf("account_service_director_lookup_failed: %w", err)
		}
		filter.CompanyID = director.CompanyID
	}

	users, total, err := service.accountRepository.List(context, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_employees_failed: %w", err)
	}

	profiles := make([]*Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, NewProfile(user))
	}

	return profiles, total, nil
}

// UpdateEmploymentInput defines the HR-managed profile fields.
type UpdateEmploymentInput struct {
	Department *string
	Leader     *string
	PTOTotal   *int
	PTOTaken   *int
	StartDate  *time.Time
}

/*
UpdateEmployment applies HR changes to an employee record.

Parameters:
  - context: context.Context
  - employeeID: string
  - input: UpdateEmploymentInput

Returns:
  - *Profile
  - error: apperr.ValidationError when PTO taken exceeds the total, or storage failures
*/
func (service *Service) UpdateEmployment(context context.Context, employeeID string, input UpdateEmploymentInput) (*Profile, error) {
	user, err := service.accountRepository.FindByID(context, employeeID)
	if err != nil {
		return nil, fmt.Errorf("account_service_employment_lookup_failed: %w", err)
	}

	// Start from the defaulted values so a partial edit never stores blanks
	current := user.Authenticated()
	user.Department = current.Department
	user.Leader = current.Leader
	user.PTOTotal = current.PTOTotal
	user.PTOTaken = current.PTOTaken

	if input.Department != nil {
		user.Department = sanitize.Text(*input.Department)
	}
	if input.Leader != nil {
		user.Leader = sanitize.Text(*input.Leader)
	}
	if input.PTOTotal != nil {
		user.PTOTotal = *input.PTOTotal
	}
	if input.PTOTaken != nil {
		user.PTOTaken = *input.PTOTaken
	}
	if input.StartDate != nil {
		startDate := *input.StartDate
		user.StartDate = &startDate
	}

	if user.PTOTaken > user.PTOTotal {
		return nil, apperr.ValidationError("PTO taken exceeds the yearly total",
			apperr.FieldError{Field: FieldPTOTaken, Message: "Must not exceed ptoTotal"})
	}

	if err := service.accountRepository.UpdateEmployment(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_employment_failed: %w", err)
	}

	service.logger.Info("employee_record_updated", slog.String("user_id", employeeID))
	return NewProfile(user), nil
}
