// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed values of the portal API: server timing,
// request budgets, cookie and token names, session paths and storage keys.
// Values an operator may tune live in internal/platform/config instead.
package constants

import "time"

// # Metadata

const (
	AppName    = "collabconnect-api"
	AppVersion = "0.3.0"
)

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// DefaultWriteTimeout covers ordinary responses. Session event streams
	// lift it per request.
	DefaultWriteTimeout = 15 * time.Second

	// GlobalRequestTimeout is the context deadline of a non-streaming request
	// and the statement_timeout of every database connection.
	GlobalRequestTimeout = 10 * time.Second

	// ShutdownTimeout is how long in-flight requests may drain on SIGTERM.
	ShutdownTimeout = 20 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the steady request rate allowed per client IP.
	// A tab sends at most one activity batch every few seconds.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst absorbs the page-load fan-out of the dashboard.
	DefaultRateLimitBurst = 60

	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 5 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the 'iss' claim of access tokens.
	AuthIssuer = "collabconnect.app"

	// AccessTokenCookieName carries the access token for browser navigations
	// that cannot set an Authorization header (views, event streams).
	AccessTokenCookieName = "cc_session"
	AccessTokenCookiePath = "/"

	// ResetTokenTTL is how long a password reset link stays valid.
	ResetTokenTTL = 30 * time.Minute

	// ResetTokenBytes is the entropy of a password reset token.
	ResetTokenBytes = 32
)

// # Session

const (
	// SessionEventsKeepAlive is the comment interval on idle event streams.
	SessionEventsKeepAlive = 25 * time.Second

	// LoginPath and DefaultPath are the redirect targets of the route guard
	// when the config leaves them unset.
	LoginPath   = "/"
	DefaultPath = "/dashboard"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON and Log Fields

const (
	FieldData    = "data"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Keys

const (
	RedisPrefixResetToken = "auth:reset_token:"
	RedisPrefixSession    = "session:user:"
)
