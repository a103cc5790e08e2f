// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads bodies, path parameters and caller identity from
// portal API requests.
package requestutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/ctxutil"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/platform/validate"
)

// MaxBodyBytes bounds every JSON payload. The largest legitimate body is an
// HR request with 2000 characters of details.
const MaxBodyBytes = 64 << 10

/*
DecodeJSON decodes exactly one JSON value from the request body into target.

Returns:
  - error: VALIDATION_ERROR for malformed, oversized or trailing content
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, MaxBodyBytes))

	if err := decoder.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.ValidationError(fmt.Sprintf("Request body exceeds %d bytes", MaxBodyBytes))
		}
		return validate.ErrInvalidJSON
	}

	if decoder.More() {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Checker is a request payload that validates its own fields.
type Checker interface {
	Check(validator *validate.Validator)
}

// Bind decodes the body into target and runs its field checks.
func Bind(request *http.Request, target Checker) error {
	if err := DecodeJSON(request, target); err != nil {
		return err
	}

	validator := &validate.Validator{}
	target.Check(validator)
	return validator.Err()
}

// Param returns a trimmed path parameter.
func Param(request *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(request, name))
}

/*
RequiredClaims returns the caller's token claims.

Returns:
  - error: apperr.Unauthorized for anonymous requests
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.Claims(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

// RequiredUserID returns the caller's account id.
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
