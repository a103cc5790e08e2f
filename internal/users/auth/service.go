// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/constants"
	"github.com/taibuivan/collabconnect/internal/platform/ctxutil"
	"github.com/taibuivan/collabconnect/internal/platform/metrics"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/session"
	"github.com/taibuivan/collabconnect/pkg/sanitize"
	"github.com/taibuivan/collabconnect/pkg/uuid"
)

// # Service

// Service implements the identity use cases of the portal.
//
// # Boundaries
//
// Credential failures are reported as INVALID_CREDENTIALS without telling
// whether the email exists. Storage outages surface as BACKEND_UNAVAILABLE and
// are never retried here.
type Service struct {
	userRepository       UserRepository
	auditRepository      SessionAuditRepository
	resetTokenRepository ResetTokenRepository
	sessions             SessionStarter
	tokenIssuer          TokenIssuer
	accessTokenTTL       time.Duration

	companies CompanyDirectory
	observer  Observer
	now       func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	auditRepo SessionAuditRepository,
	resetRepo ResetTokenRepository,
	sessions SessionStarter,
	tokenIssuer TokenIssuer,
	accessTokenTTL time.Duration,
) *Service {
	return &Service{
		userRepository:       userRepo,
		auditRepository:      auditRepo,
		resetTokenRepository: resetRepo,
		sessions:             sessions,
		tokenIssuer:          tokenIssuer,
		accessTokenTTL:       accessTokenTTL,
		observer:             nopObserver{},
		now:                  func() time.Time { return time.Now().UTC() },
	}
}

// WithCompanies links registrations to the company directory.
func (service *Service) WithCompanies(directory CompanyDirectory) *Service {
	service.companies = directory
	return service
}

// WithObserver reports login and registration outcomes.
func (service *Service) WithObserver(observer Observer) *Service {
	if observer != nil {
		service.observer = observer
	}
	return service
}

// AccessTokenTTL returns the lifetime of issued access tokens.
func (service *Service) AccessTokenTTL() time.Duration {
	return service.accessTokenTTL
}

// # Registration Flow

// RegisterInput holds the data submitted by the registration form.
type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	CompanyName string
	JobTitle    string
}

// hashPassword reports an over-long password against the given field.
func hashPassword(field, password string) (string, error) {
	hashed, err := sec.HashPassword(password)
	if errors.Is(err, sec.ErrPasswordTooLong) {
		return "", apperr.ValidationError("Password is too long", apperr.FieldError{Field: field, Message: "Must be at most 72 bytes"})
	}
	return hashed, err
}

// normalizeEmail is the single canonical form used for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

/*
Register creates a new collaborator account.

Description: The system role is derived from the job title and company; it is
never taken from the caller. When a company directory is configured, the
account is linked to the company with the same slug, which is created on first
use.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: apperr.AccountExists, apperr.BackendUnavailable or internal failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := normalizeEmail(input.Email)

	// Surface duplicates before paying for a bcrypt hash
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.AccountExists()
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	fullName := sanitize.Text(input.FullName)
	companyName := sanitize.Text(input.CompanyName)
	jobTitle := sanitize.Text(input.JobTitle)
	role := sec.ResolveRole(jobTitle, companyName)

	hashedPassword, err := hashPassword(FieldPassword, input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		FullName:     fullName,
		Role:         role,
		JobTitle:     jobTitle,
		CompanyName:  companyName,
		Department:   session.DefaultDepartment,
		Leader:       session.DefaultLeader,
		PTOTotal:     session.DefaultPTOTotal,
		Skills:       []string{},
		CreatedAt:    service.now(),
	}

	if service.companies != nil && companyName != "" {
		companyID, err := service.companies.Ensure(context, companyName)
		if err != nil {
			return nil, fmt.Errorf("auth_service_register_company_failed: %w", err)
		}
		user.CompanyID = companyID
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.observer.RecordRegistration(string(role))
	ctxutil.Logger(context).Info("account_registered",
		"user_id", user.ID,
		"role", string(role),
	)

	return user, nil
}

// # Authentication Flow

/*
Authenticate verifies an email and password pair.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *User: The matching account
  - error: apperr.InvalidCredentials or apperr.BackendUnavailable
*/
func (service *Service) Authenticate(context context.Context, email, password string) (*User, error) {
	user, err := service.userRepository.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			sec.BurnPasswordCheck(password)
			return nil, apperr.InvalidCredentials()
		}
		return nil, fmt.Errorf("auth_service_authenticate_failed: %w", err)
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	return user, nil
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginResult is an established session.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	SessionID   string
	User        session.AuthenticatedUser
}

/*
Login authenticates a collaborator and starts a session runtime.

Description: The access token carries the session id, so every later request
can be matched with the runtime holding its inactivity timers. The login audit
is best effort: a failed insert is logged and does not reject the login.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult
  - error: apperr.InvalidCredentials, apperr.BackendUnavailable or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	user, err := service.Authenticate(context, input.Email, input.Password)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeInvalidCredentials) {
			service.observer.RecordLogin(metrics.LoginRejected)
		} else {
			service.observer.RecordLogin(metrics.LoginFailed)
		}
		return nil, err
	}

	runtime, err := service.sessions.Start(context, user.Authenticated())
	if err != nil {
		service.observer.RecordLogin(metrics.LoginFailed)
		return nil, fmt.Errorf("auth_service_session_start_failed: %w", err)
	}

	accessToken, err := service.tokenIssuer.GenerateAccessToken(user.ID, user.FullName, user.Role, runtime.ID(), service.accessTokenTTL)
	if err != nil {
		_ = service.sessions.End(context, runtime.ID(), session.EndReasonLogout)
		service.observer.RecordLogin(metrics.LoginFailed)
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	now := service.now()
	logger := ctxutil.Logger(context)

	record := &LoginRecord{
		ID:        runtime.ID(),
		UserID:    user.ID,
		UserAgent: input.UserAgent,
		IPAddress: input.IPAddress,
		CreatedAt: now,
	}
	if err := service.auditRepository.Create(context, record); err != nil {
		logger.Warn("session_audit_create_failed", "session_id", runtime.ID(), "error", err)
	}
	if err := service.userRepository.TouchLogin(context, user.ID, now); err != nil {
		logger.Warn("account_touch_login_failed", "user_id", user.ID, "error", err)
	}

	service.observer.RecordLogin(metrics.LoginSucceeded)

	return &LoginResult{
		AccessToken: accessToken,
		ExpiresAt:   now.Add(service.accessTokenTTL),
		SessionID:   runtime.ID(),
		User:        *runtime.User(),
	}, nil
}

/*
EndSession terminates a session for the given reason.

Description: Ending an unknown or already ended session succeeds, so a logout
racing with the inactivity timeout is harmless.

Parameters:
  - context: context.Context
  - sessionID: string
  - reason: session.EndReason

Returns:
  - error: Storage failures while clearing the durable copy
*/
func (service *Service) EndSession(context context.Context, sessionID string, reason session.EndReason) error {
	if sessionID == "" {
		return nil
	}
	if err := service.sessions.End(context, sessionID, reason); err != nil {
		return fmt.Errorf("auth_service_end_session_failed: %w", err)
	}
	return nil
}

// Logout ends a session at the user's request.
func (service *Service) Logout(context context.Context, sessionID string) error {
	return service.EndSession(context, sessionID, session.EndReasonLogout)
}

// RecentSessions returns the login audit of a user, newest first.
func (service *Service) RecentSessions(context context.Context, userID string) ([]*LoginRecord, error) {
	records, err := service.auditRepository.ListByUser(context, userID, RecentSessionsLimit)
	if err != nil {
		return nil, fmt.Errorf("auth_service_recent_sessions_failed: %w", err)
	}
	return records, nil
}

// EndAllSessions ends every open session of a user except keep.
func (service *Service) EndAllSessions(context context.Context, userID, keep string) {
	logger := ctxutil.Logger(context)

	sessionIDs, err := service.auditRepository.ListOpen(context, userID)
	if err != nil {
		logger.Warn("session_audit_list_open_failed", "user_id", userID, "error", err)
		return
	}

	for _, sessionID := range sessionIDs {
		if sessionID == keep {
			continue
		}
		if err := service.sessions.End(context, sessionID, session.EndReasonLogout); err != nil {
			logger.Warn("session_end_failed", "session_id", sessionID, "error", err)
		}
	}
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Only the hash of the token is stored. An unknown email yields an
empty token and no error, so callers cannot discover accounts.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Raw reset token, empty when the email is unknown
  - error: Generation or storage errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	user, err := service.userRepository.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}

	token, err := sec.GenerateSecureToken(constants.ResetTokenBytes)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, sec.HashToken(token), user.ID, constants.ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Consumes the token before anything else, so two concurrent
redemptions cannot both succeed. Stores the new hash and ends every open
session of the account.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: apperr.NotFound for an unknown token, or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	tokenHash := sec.HashToken(token)

	userID, err := service.resetTokenRepository.Consume(context, tokenHash)
	if err != nil {
		return err
	}

	hashedPassword, err := hashPassword(FieldPassword, newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	service.EndAllSessions(context, userID, "")

	return nil
}

/*
ChangePassword lets an authenticated user rotate their password.

Description: Every other open session of the account is ended; the calling
session stays alive.

Parameters:
  - context: context.Context
  - userID: string
  - sessionID: string (the caller's session, kept open)
  - currentPassword: string
  - newPassword: string

Returns:
  - error: apperr.InvalidCredentials or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, sessionID, currentPassword, newPassword string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.InvalidCredentials()
	}

	hashedPassword, err := hashPassword(FieldNewPassword, newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	service.EndAllSessions(context, userID, sessionID)

	return nil
}
