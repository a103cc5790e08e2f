// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/collabconnect/internal/platform/constants"
	"github.com/taibuivan/collabconnect/internal/platform/dberr"
)

const storeKeyPrefix = constants.RedisPrefixSession

// RedisStore implements [Store] as JSON blobs with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

/*
Save writes the user under the session key and refreshes its TTL.

Parameters:
  - context: context.Context
  - sessionID: string
  - user: AuthenticatedUser

Returns:
  - error: Encoding or connectivity errors
*/
func (store *RedisStore) Save(context context.Context, sessionID string, user AuthenticatedUser) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := store.client.Set(context, storeKeyPrefix+sessionID, payload, store.ttl).Err(); err != nil {
		return dberr.Wrap(err, "redis_session_save_failed")
	}
	return nil
}

/*
Load reads the user stored under the session key.

Description: An absent or expired key yields (nil, nil). A corrupt blob is
treated as absent and removed, so a bad record never blocks a fresh login.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *AuthenticatedUser: nil when absent
  - error: BACKEND_UNAVAILABLE when Redis cannot be reached
*/
func (store *RedisStore) Load(context context.Context, sessionID string) (*AuthenticatedUser, error) {
	payload, err := store.client.Get(context, storeKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "redis_session_load_failed")
	}

	var user AuthenticatedUser
	if err := json.Unmarshal(payload, &user); err != nil {
		_ = store.client.Del(context, storeKeyPrefix+sessionID).Err()
		return nil, nil
	}
	return &user, nil
}

// Clear deletes the session key. Deleting an absent key is not an error.
func (store *RedisStore) Clear(context context.Context, sessionID string) error {
	if err := store.client.Del(context, storeKeyPrefix+sessionID).Err(); err != nil {
		return dberr.Wrap(err, "redis_session_clear_failed")
	}
	return nil
}
