// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines the typed context keys of a portal request.
package ctxkey

// key is unexported so no other package can forge or collide with these keys.
type key string

const (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyClaims holds the verified access token claims ([sec.AuthClaims]).
	KeyClaims key = "claims"

	// KeyLogger holds the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
