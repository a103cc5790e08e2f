// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/session"
)

func sampleUser() session.AuthenticatedUser {
	return session.AuthenticatedUser{
		ID:          "0190c8a0-0000-7000-8000-000000000001",
		Email:       "ana@talent.mx",
		FullName:    "Ana Torres",
		Role:        sec.RoleHR,
		CompanyName: "Talent",
		JobTitle:    "HR Manager",
		Department:  "People",
		Leader:      "Luis",
		StartDate:   epoch,
		PTOTotal:    15,
	}
}

func newRedisStore(t *testing.T) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewRedisStore(client, time.Hour), server
}

/*
TestContainer_LoginLogoutReload verifies that logout survives a reload.
*/
func TestContainer_LoginLogoutReload(t *testing.T) {
	redisStore, _ := newRedisStore(t)

	stores := map[string]session.Store{
		"memory": session.NewMemoryStore(),
		"redis":  redisStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			container := session.NewContainer("sid-"+name, store)

			found, err := container.Init(ctx)
			require.NoError(t, err)
			assert.False(t, found)
			assert.Nil(t, container.CurrentUser())

			require.NoError(t, container.Login(ctx, sampleUser()))
			require.NotNil(t, container.CurrentUser())
			assert.Equal(t, "Ana Torres", container.CurrentUser().FullName)

			// A fresh container over the same store restores the user.
			reloaded := session.NewContainer("sid-"+name, store)
			found, err = reloaded.Init(ctx)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, sec.RoleHR, reloaded.CurrentUser().Role)

			require.NoError(t, container.Logout(ctx))
			require.NoError(t, container.Logout(ctx))
			assert.Nil(t, container.CurrentUser())

			afterLogout := session.NewContainer("sid-"+name, store)
			found, err = afterLogout.Init(ctx)
			require.NoError(t, err)
			assert.False(t, found)
			assert.Nil(t, afterLogout.CurrentUser())
		})
	}
}

/*
TestContainer_CurrentUserIsCopy verifies callers cannot mutate container state.
*/
func TestContainer_CurrentUserIsCopy(t *testing.T) {
	container := session.NewContainer("sid", session.NewMemoryStore())
	require.NoError(t, container.Login(context.Background(), sampleUser()))

	user := container.CurrentUser()
	user.Role = sec.RoleSuperAdmin
	assert.Equal(t, sec.RoleHR, container.CurrentUser().Role)
}

// saveFailingStore rejects saves once failSave is set.
type saveFailingStore struct {
	*session.MemoryStore
	failSave bool
}

func (store *saveFailingStore) Save(ctx context.Context, sessionID string, user session.AuthenticatedUser) error {
	if store.failSave {
		return errors.New("redis: connection refused")
	}
	return store.MemoryStore.Save(ctx, sessionID, user)
}

/*
TestContainer_LoginSaveFailure verifies memory keeps the stored user when a save fails.
*/
func TestContainer_LoginSaveFailure(t *testing.T) {
	ctx := context.Background()
	store := &saveFailingStore{MemoryStore: session.NewMemoryStore()}
	container := session.NewContainer("sid", store)
	require.NoError(t, container.Login(ctx, sampleUser()))

	store.failSave = true
	promoted := sampleUser()
	promoted.Role = sec.RoleDirector
	require.Error(t, container.Login(ctx, promoted))

	assert.Equal(t, sec.RoleHR, container.CurrentUser().Role)
	stored, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, container.CurrentUser(), stored)

	fresh := session.NewContainer("sid-new", store)
	require.Error(t, fresh.Login(ctx, sampleUser()))
	assert.Nil(t, fresh.CurrentUser())
}

/*
TestRedisStore_TTLAndCorruption covers key expiry and corrupt blobs.
*/
func TestRedisStore_TTLAndCorruption(t *testing.T) {
	store, server := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid-ttl", sampleUser()))
	assert.True(t, server.Exists("session:user:sid-ttl"))
	assert.Equal(t, time.Hour, server.TTL("session:user:sid-ttl"))

	server.FastForward(2 * time.Hour)
	user, err := store.Load(ctx, "sid-ttl")
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, server.Set("session:user:sid-bad", "{not json"))
	user, err = store.Load(ctx, "sid-bad")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.False(t, server.Exists("session:user:sid-bad"))
}

/*
TestRedisStore_Unavailable verifies connectivity errors surface.
*/
func TestRedisStore_Unavailable(t *testing.T) {
	store, server := newRedisStore(t)
	server.Close()

	_, err := store.Load(context.Background(), "sid")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "BACKEND_UNAVAILABLE"))
}

/*
TestAuthenticatedUser_WithDefaults verifies boundary defaults.
*/
func TestAuthenticatedUser_WithDefaults(t *testing.T) {
	user := session.AuthenticatedUser{ID: "u", Role: "Unknown", PTOTaken: -2}.WithDefaults(epoch)

	assert.Equal(t, session.DefaultDepartment, user.Department)
	assert.Equal(t, session.DefaultLeader, user.Leader)
	assert.Equal(t, session.DefaultPTOTotal, user.PTOTotal)
	assert.Equal(t, 0, user.PTOTaken)
	assert.Equal(t, epoch, user.StartDate)
	assert.Equal(t, sec.RoleCollaborator, user.Role)
	assert.Equal(t, 15, user.PTORemaining())

	kept := sampleUser().WithDefaults(epoch.Add(time.Hour))
	assert.Equal(t, "People", kept.Department)
	assert.Equal(t, epoch, kept.StartDate)
}
