// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collabconnect/internal/platform/sec"
)

func newTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKey(key, &key.PublicKey, issuer)
}

/*
TestTokenService_RoundTrip signs and verifies an access token.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, "collabconnect")

	token, err := service.GenerateAccessToken("u-1", "Ana", sec.RoleHR, "s-1", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "HR", claims.Role)
	assert.Equal(t, "s-1", claims.SessionID)
}

/*
TestTokenService_Rejects covers expired tokens and foreign signers.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t, "collabconnect")

	expired, err := service.GenerateAccessToken("u-1", "Ana", sec.RoleHR, "s-1", -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)

	foreign := newTokenService(t, "collabconnect")
	token, err := foreign.GenerateAccessToken("u-1", "Ana", sec.RoleHR, "s-1", time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(token)
	assert.Error(t, err)

	_, err = service.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	otherIssuer := newTokenService(t, "someone-else")
	token, err = otherIssuer.GenerateAccessToken("u-1", "Ana", sec.RoleHR, "s-1", time.Minute)
	require.NoError(t, err)
	_, err = otherIssuer.VerifyToken(token)
	require.NoError(t, err)
	_, err = service.VerifyToken(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	unbound, err := service.GenerateAccessToken("u-1", "Ana", sec.RoleHR, "", time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(unbound)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestPasswordHash verifies bcrypt round trip.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
}

/*
TestSecureToken verifies tokens are unique and hashes are stable.
*/
func TestSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.Len(t, sec.HashToken(first), 64)
}
