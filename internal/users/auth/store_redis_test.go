// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/users/auth"
)

/*
TestResetTokenRepository_Consume verifies a token is redeemable exactly once and expires.
*/
func TestResetTokenRepository_Consume(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repository := auth.NewResetTokenRepository(client)
	ctx := context.Background()

	require.NoError(t, repository.Set(ctx, "hash-1", "user-1", time.Hour))

	userID, err := repository.Consume(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = repository.Consume(ctx, "hash-1")
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, repository.Set(ctx, "hash-2", "user-2", time.Minute))
	server.FastForward(2 * time.Minute)
	_, err = repository.Consume(ctx, "hash-2")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestResetTokenRepository_Unavailable classifies a dead server as a backend outage.
*/
func TestResetTokenRepository_Unavailable(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	server.Close()

	err := auth.NewResetTokenRepository(client).Set(context.Background(), "hash-1", "user-1", time.Hour)
	assert.True(t, apperr.HasCode(err, apperr.CodeBackendUnavailable))
}
