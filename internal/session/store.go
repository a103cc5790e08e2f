// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "context"

// Store persists the authenticated user of a session so it survives a
// process restart.
//
// Load returns (nil, nil) when nothing is stored for the session.
type Store interface {
	Save(context context.Context, sessionID string, user AuthenticatedUser) error
	Load(context context.Context, sessionID string) (*AuthenticatedUser, error)
	Clear(context context.Context, sessionID string) error
}
