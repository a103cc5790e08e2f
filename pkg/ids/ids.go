// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ids generates lexicographically sortable session identifiers.
//
// Rows keep UUIDv7 primary keys (see pkg/uuid). Session ids travel inside
// access tokens and Redis keys, where the shorter ULID form is preferred.
package ids

import (
	cryptorand "crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(cryptorand.Reader, 0)
)

// New returns a new ULID string.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Valid reports whether raw parses as a ULID.
func Valid(raw string) bool {
	_, err := ulid.ParseStrict(raw)
	return err == nil
}
