// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/constants"
	"github.com/taibuivan/collabconnect/internal/platform/dberr"
)

// RedisResetTokenRepository keeps reset tokens as expiring keys mapping the
// token hash to the account id.
type RedisResetTokenRepository struct {
	client *redis.Client
}

func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

func resetTokenKey(tokenHash string) string {
	return constants.RedisPrefixResetToken + tokenHash
}

// Set overwrites any token stored under the same hash.
func (repository *RedisResetTokenRepository) Set(context context.Context, tokenHash, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, resetTokenKey(tokenHash), userID, ttl).Err(); err != nil {
		return dberr.Wrap(err, "redis_reset_token_set_failed")
	}
	return nil
}

// Consume uses GETDEL so that of two racing redemptions only one sees the id.
func (repository *RedisResetTokenRepository) Consume(context context.Context, tokenHash string) (string, error) {
	userID, err := repository.client.GetDel(context, resetTokenKey(tokenHash)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", apperr.NotFound("Reset token")
	case err != nil:
		return "", dberr.Wrap(err, "redis_reset_token_consume_failed")
	}
	return userID, nil
}
