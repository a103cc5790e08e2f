// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error vocabulary shared by every CollabConnect service.

An [AppError] pairs a stable machine code with an HTTP status and a message
that is safe to show the portal. Services return them directly; storage
failures reach them through dberr. The respond package is the only place that
turns one into bytes.

Codes the portal client branches on:

	INVALID_CREDENTIALS  login failed, never says which field was wrong
	ACCOUNT_EXISTS       registration with a taken email
	SESSION_EXPIRED      the token's session has ended (timeout or logout)
	BACKEND_UNAVAILABLE  postgres or redis could not be reached
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes carried in every error body.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeAccountExists      = "ACCOUNT_EXISTS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnprocessable      = "UNPROCESSABLE"
	CodeInternal           = "INTERNAL_ERROR"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
)

// AppError is the error type every handler can render.
//
// Cause stays on the server: it is logged, never serialised.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError names one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

func newError(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NotFound reports a missing resource, e.g. NotFound("Company").
func NotFound(resource string) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, resource+" not found")
}

func Unauthorized(msg string) *AppError {
	return newError(CodeUnauthorized, http.StatusUnauthorized, msg)
}

// InvalidCredentials is returned for an unknown email and a wrong password alike.
func InvalidCredentials() *AppError {
	return newError(CodeInvalidCredentials, http.StatusUnauthorized, "Invalid email or password")
}

// SessionExpired rejects a token whose session has ended.
func SessionExpired() *AppError {
	return newError(CodeSessionExpired, http.StatusUnauthorized, "Session has ended, please sign in again")
}

func Forbidden(msg string) *AppError {
	return newError(CodeForbidden, http.StatusForbidden, msg)
}

// Conflict reports a write that lost against existing state.
func Conflict(msg string) *AppError {
	return newError(CodeConflict, http.StatusConflict, msg)
}

func AccountExists() *AppError {
	return newError(CodeAccountExists, http.StatusConflict, "An account with this email already exists")
}

// ValidationError is a 400 with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	appError := newError(CodeValidation, http.StatusBadRequest, msg)
	appError.Details = details
	return appError
}

func RateLimited(retryAfterSeconds int) *AppError {
	return newError(CodeRateLimited, http.StatusTooManyRequests,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// Unprocessable is for well-formed input that breaks a business rule.
func Unprocessable(msg string) *AppError {
	return newError(CodeUnprocessable, http.StatusUnprocessableEntity, msg)
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	appError := newError(CodeInternal, http.StatusInternalServerError, "An unexpected error occurred")
	appError.Cause = cause
	return appError
}

// BackendUnavailable marks a storage outage. Clients may retry; the server never does.
func BackendUnavailable(cause error) *AppError {
	appError := newError(CodeBackendUnavailable, http.StatusServiceUnavailable,
		"The service is temporarily unavailable, please retry")
	appError.Cause = cause
	return appError
}

// IsAppError reports whether err's chain holds an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// HasCode reports whether err's chain holds an [*AppError] with code.
func HasCode(err error, code string) bool {
	appError := As(err)
	return appError != nil && appError.Code == code
}

func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
