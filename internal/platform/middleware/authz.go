// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/constants"
	"github.com/taibuivan/collabconnect/internal/platform/ctxutil"
	"github.com/taibuivan/collabconnect/internal/platform/respond"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/session"
)

// TokenVerifier is satisfied by [*sec.TokenService].
type TokenVerifier interface {
	VerifyToken(raw string) (*sec.AuthClaims, error)
}

// SessionResolver returns the live runtime behind a session id.
//
// [*session.Manager] implements it; a process restart rehydrates the runtime
// from the session store on first use.
type SessionResolver interface {
	Resume(context context.Context, sessionID string) (*session.Runtime, error)
}

// errMalformedAuthorization rejects a header that is not "Bearer <token>".
var errMalformedAuthorization = apperr.Unauthorized("Invalid authorization format")

// accessToken finds the caller's token. The Authorization header wins over
// the session cookie; fromHeader tells which one was used.
func accessToken(request *http.Request) (token string, fromHeader bool, err error) {
	if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
		scheme, value, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || value == "" || strings.Contains(value, " ") {
			return "", true, errMalformedAuthorization
		}
		return value, true, nil
	}

	cookie, cookieErr := request.Cookie(constants.AccessTokenCookieName)
	if cookieErr != nil {
		return "", false, nil
	}
	return cookie.Value, false, nil
}

// Authenticate attaches verified [*sec.AuthClaims] to the request context.
// Requests without a token continue anonymously.
//
// A bad header is rejected with 401. A bad cookie is treated as anonymous so
// the view guard can redirect the browser to the login surface.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, fromHeader, err := accessToken(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyToken(token)
			switch {
			case err != nil && fromHeader:
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			case err != nil:
				next.ServeHTTP(writer, request)
				return
			}

			noteCaller(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithClaims(request.Context(), claims)))
		})
	}
}

// RequireAuth rejects anonymous requests. Mount it after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.Claims(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireSession blocks requests whose token belongs to a session that has
// ended by logout or inactivity.
//
// # Flow
//  1. Require [*sec.AuthClaims] (implies AuthN).
//  2. Resolve the session runtime; an ended session yields 401 SESSION_EXPIRED.
//  3. A runtime owned by another user is rejected the same way.
//
// API calls do not count as activity; only explicit activity events do.
func RequireSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.Claims(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			runtime, err := resolveUser(request.Context(), resolver, claims)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			if runtime == nil {
				respond.Error(writer, request, apperr.SessionExpired())
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireRoles answers 401 to anonymous callers and 403 to callers whose role
// is not listed. With no roles it only requires authentication.
func RequireRoles(roles ...sec.SystemRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			role := ctxutil.Role(request.Context())

			switch {
			case role == "":
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			case len(roles) > 0 && !role.In(roles...):
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
			default:
				next.ServeHTTP(writer, request)
			}
		})
	}
}

// GuardView applies the route guard to a browser-facing view.
//
// # Flow
//  1. Resolve the current user from the token and its live session.
//  2. Run [session.Guard] against the required roles.
//  3. Redirect with 303 See Other to loginPath or defaultPath, or render.
//
// The guard is evaluated on every request; nothing is cached between navigations.
func GuardView(resolver SessionResolver, required []sec.SystemRole, loginPath, defaultPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var user *session.AuthenticatedUser

			if claims := ctxutil.Claims(request.Context()); claims != nil {
				runtime, err := resolveUser(request.Context(), resolver, claims)
				if err != nil {
					respond.Error(writer, request, err)
					return
				}
				if runtime != nil {
					user = runtime.User()
				}
			}

			switch session.Guard(user, required) {
			case session.DecisionRedirectToLogin:
				http.Redirect(writer, request, loginPath, http.StatusSeeOther)
			case session.DecisionRedirectToDefault:
				http.Redirect(writer, request, defaultPath, http.StatusSeeOther)
			default:
				next.ServeHTTP(writer, request)
			}
		})
	}
}

// resolveUser returns the runtime of the token's session, or nil when the
// session has ended. Only backend failures are returned as errors.
func resolveUser(ctx context.Context, resolver SessionResolver, claims *sec.AuthClaims) (*session.Runtime, error) {
	if claims.SessionID == "" {
		return nil, nil
	}

	runtime, err := resolver.Resume(ctx, claims.SessionID)
	if errors.Is(err, session.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.BackendUnavailable(err)
	}

	user := runtime.User()
	if user == nil || user.ID != claims.UserID {
		return nil, nil
	}
	return runtime, nil
}
