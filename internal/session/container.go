// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"
	"sync"
)

// Container is the single source of truth for who is logged in to one session.
//
// Memory is authoritative while the process runs; the [Store] copy lets Init
// restore the user after a restart.
type Container struct {
	sessionID string
	store     Store

	mu   sync.RWMutex
	user *AuthenticatedUser
}

// NewContainer creates an empty container bound to a session id.
func NewContainer(sessionID string, store Store) *Container {
	return &Container{sessionID: sessionID, store: store}
}

// SessionID returns the session this container belongs to.
func (container *Container) SessionID() string {
	return container.sessionID
}

// Init restores the user from the store. It reports whether a user was found.
func (container *Container) Init(context context.Context) (bool, error) {
	user, err := container.store.Load(context, container.sessionID)
	if err != nil {
		return false, fmt.Errorf("session_container_init_failed: %w", err)
	}

	container.mu.Lock()
	container.user = user
	container.mu.Unlock()

	return user != nil, nil
}

// Login stores the user in the durable store, then in memory. A failed save
// leaves the previous user in place.
func (container *Container) Login(context context.Context, user AuthenticatedUser) error {
	if err := container.store.Save(context, container.sessionID, user); err != nil {
		return fmt.Errorf("session_container_login_failed: %w", err)
	}

	container.mu.Lock()
	container.user = &user
	container.mu.Unlock()
	return nil
}

// Logout clears memory and the durable store. Idempotent.
//
// Memory is cleared even when the store call fails.
func (container *Container) Logout(context context.Context) error {
	container.mu.Lock()
	container.user = nil
	container.mu.Unlock()

	if err := container.store.Clear(context, container.sessionID); err != nil {
		return fmt.Errorf("session_container_logout_failed: %w", err)
	}
	return nil
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (container *Container) CurrentUser() *AuthenticatedUser {
	container.mu.RLock()
	defer container.mu.RUnlock()

	if container.user == nil {
		return nil
	}
	user := *container.user
	return &user
}
