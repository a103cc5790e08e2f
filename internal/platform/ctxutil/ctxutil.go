// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil reads and writes the per-request values of the portal:
// correlation id, logger and the caller's token claims.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/collabconnect/internal/platform/ctxkey"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
)

// # Request Tracing

// WithRequestID attaches the correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// RequestID returns the correlation id, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger attaches the request logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// Logger returns the request logger, falling back to [slog.Default].
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity

// WithClaims attaches the verified token claims and tags the request logger
// with the caller's user and session.
func WithClaims(ctx context.Context, claims *sec.AuthClaims) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeyClaims, claims)
	if claims == nil {
		return ctx
	}
	return WithLogger(ctx, Logger(ctx).With(
		slog.String("user_id", claims.UserID),
		slog.String("session_id", claims.SessionID),
	))
}

// Claims returns the caller's token claims, or nil for anonymous requests.
func Claims(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyClaims).(*sec.AuthClaims)
	return claims
}

// SessionID returns the session the caller's token was issued for.
func SessionID(ctx context.Context) string {
	if claims := Claims(ctx); claims != nil {
		return claims.SessionID
	}
	return ""
}

// Role returns the caller's system role, or "" for anonymous requests.
// A token carrying an unknown role yields Collaborator.
func Role(ctx context.Context) sec.SystemRole {
	claims := Claims(ctx)
	if claims == nil {
		return ""
	}
	return sec.ParseRole(claims.Role)
}
