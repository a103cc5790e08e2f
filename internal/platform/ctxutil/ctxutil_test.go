// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collabconnect/internal/platform/ctxutil"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
)

/*
TestContext_RequestID stores and reads the correlation id.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.RequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.RequestID(ctx))
}

/*
TestContext_Logger falls back to the default logger outside a request.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, slog.Default(), ctxutil.Logger(ctx))

	logger := slog.New(slog.DiscardHandler)
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.Logger(ctx))
}

/*
TestContext_Claims exposes the caller's session and role, and tags the request logger.
*/
func TestContext_Claims(t *testing.T) {
	var buffer bytes.Buffer
	ctx := ctxutil.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buffer, nil)))

	assert.Nil(t, ctxutil.Claims(ctx))
	assert.Empty(t, ctxutil.SessionID(ctx))
	assert.Empty(t, ctxutil.Role(ctx))

	ctx = ctxutil.WithClaims(ctx, &sec.AuthClaims{UserID: "user-123", Role: "HR", SessionID: "01J0SESSION"})

	claims := ctxutil.Claims(ctx)
	require.NotNil(t, claims)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "01J0SESSION", ctxutil.SessionID(ctx))
	assert.Equal(t, sec.RoleHR, ctxutil.Role(ctx))

	ctxutil.Logger(ctx).Info("session_extended")
	assert.Contains(t, buffer.String(), `"user_id":"user-123"`)
	assert.Contains(t, buffer.String(), `"session_id":"01J0SESSION"`)
}

/*
TestContext_Role degrades unknown token roles to Collaborator.
*/
func TestContext_Role(t *testing.T) {
	ctx := ctxutil.WithClaims(context.Background(), &sec.AuthClaims{UserID: "u", Role: "admin"})
	assert.Equal(t, sec.RoleCollaborator, ctxutil.Role(ctx))
}
