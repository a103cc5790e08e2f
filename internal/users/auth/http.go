// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/collabconnect/internal/platform/constants"
	"github.com/taibuivan/collabconnect/internal/platform/middleware"
	requestutil "github.com/taibuivan/collabconnect/internal/platform/request"
	"github.com/taibuivan/collabconnect/internal/platform/respond"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/platform/validate"
)

// Handler serves the public sign-in surface of the portal.
//
// A successful login also sets the access token as an HttpOnly cookie, so a
// plain browser navigation to a guarded view carries the session.
type Handler struct {
	authService      *Service
	secureCookie     bool
	exposeResetToken bool
}

// NewHandler builds the auth endpoints.
//
// exposeResetToken echoes the reset token from forgot-password; it is meant
// for development, where no mail is sent.
func NewHandler(service *Service, secureCookie, exposeResetToken bool) *Handler {
	return &Handler{
		authService:      service,
		secureCookie:     secureCookie,
		exposeResetToken: exposeResetToken,
	}
}

// Routes mounts under /api/v1/auth.
//
//	GET  /job-titles       registration form catalogue
//	POST /register         create an account with its resolved role
//	POST /login            verify credentials and start a session
//	POST /forgot-password  issue a reset token
//	POST /reset-password   redeem a reset token
//	POST /logout           end the caller's session (authenticated)
//	POST /change-password  rotate the caller's password (authenticated)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/job-titles", handler.jobTitles)
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/logout", handler.logout)
		protected.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Payloads

type registerBody struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	CompanyName string `json:"companyName"`
	JobTitle    string `json:"jobTitle"`
}

func (body *registerBody) Check(validator *validate.Validator) {
	validator.Required(FieldEmail, body.Email).Email(FieldEmail, body.Email)
	checkNewPassword(validator, FieldPassword, body.Password)

	validator.Required(FieldFullName, body.FullName).MaxLen(FieldFullName, body.FullName, MaxNameLength).
		Required(FieldCompanyName, body.CompanyName).MaxLen(FieldCompanyName, body.CompanyName, MaxNameLength).
		Required(FieldJobTitle, body.JobTitle).MaxLen(FieldJobTitle, body.JobTitle, MaxNameLength)
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Only presence is checked; a malformed email simply fails to authenticate.
func (body *credentialsBody) Check(validator *validate.Validator) {
	validator.Required(FieldEmail, body.Email).Required(FieldPassword, body.Password)
}

type forgotPasswordBody struct {
	Email string `json:"email"`
}

func (body *forgotPasswordBody) Check(validator *validate.Validator) {
	validator.Required(FieldEmail, body.Email).Email(FieldEmail, body.Email)
}

type resetPasswordBody struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (body *resetPasswordBody) Check(validator *validate.Validator) {
	validator.Required(FieldToken, body.Token)
	checkNewPassword(validator, FieldPassword, body.Password)
}

type changePasswordBody struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (body *changePasswordBody) Check(validator *validate.Validator) {
	validator.Required(FieldCurrentPassword, body.CurrentPassword)
	checkNewPassword(validator, FieldNewPassword, body.NewPassword)
}

func checkNewPassword(validator *validate.Validator, field, password string) {
	validator.Required(field, password).MinLen(field, password, MinPasswordLength)
}

// # Endpoints

func (handler *Handler) jobTitles(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, sec.JobTitles)
}

/*
register creates a collaborator account. The role is derived from the job
title and company, never taken from the body.

	201 the created user
	400 VALIDATION_ERROR
	409 ACCOUNT_EXISTS
	503 BACKEND_UNAVAILABLE
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	body := &registerBody{}
	if err := requestutil.Bind(request, body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput(*body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

/*
login verifies credentials and starts the caller's session runtime.

	200 access token, session id and the user
	401 INVALID_CREDENTIALS
	503 BACKEND_UNAVAILABLE
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	body := &credentialsBody{}
	if err := requestutil.Bind(request, body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:     body.Email,
		Password:  body.Password,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, handler.sessionCookie(result.AccessToken, result.ExpiresAt))
	respond.OK(writer, map[string]any{
		FieldAccessToken: result.AccessToken,
		FieldTokenType:   TokenTypeBearer,
		FieldExpiresIn:   int(handler.authService.AccessTokenTTL() / time.Second),
		FieldSessionID:   result.SessionID,
		FieldUser:        result.User,
	})
}

// logout answers 204 even when the session had already ended.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims.SessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, handler.sessionCookie("", time.Time{}))
	respond.NoContent(writer)
}

// forgotPassword answers the same message whether or not the email exists.
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	body := &forgotPasswordBody{}
	if err := requestutil.Bind(request, body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.RequestPasswordReset(request.Context(), body.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload := map[string]string{FieldMessage: "If the email is registered, a reset link has been issued"}
	if handler.exposeResetToken && token != "" {
		payload[FieldToken] = token
	}
	respond.OK(writer, payload)
}

func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	body := &resetPasswordBody{}
	if err := requestutil.Bind(request, body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), body.Token, body.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{FieldMessage: "Password has been reset"})
}

func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body := &changePasswordBody{}
	if err := requestutil.Bind(request, body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(request.Context(), claims.UserID, claims.SessionID, body.CurrentPassword, body.NewPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// sessionCookie carries the access token. An empty value expires the cookie.
func (handler *Handler) sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    value,
		Path:     constants.AccessTokenCookiePath,
		Secure:   handler.secureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	} else {
		cookie.Expires = expires
	}
	return cookie
}
