// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"sync"
)

// MemoryStore is a process-local [Store] for tests and single-node development.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]AuthenticatedUser
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]AuthenticatedUser)}
}

func (store *MemoryStore) Save(_ context.Context, sessionID string, user AuthenticatedUser) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.users[sessionID] = user
	return nil
}

func (store *MemoryStore) Load(_ context.Context, sessionID string) (*AuthenticatedUser, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	user, ok := store.users[sessionID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (store *MemoryStore) Clear(_ context.Context, sessionID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.users, sessionID)
	return nil
}
