// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid issues the row identifiers of accounts, companies and HR
// requests. Rows use UUIDv7 so b-tree inserts stay append-only; session ids
// are ULIDs and live in pkg/ids.
package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a lowercase UUIDv7 string.
//
// It panics when the system entropy source fails, which leaves the process
// unable to create any row.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: entropy source failed: " + err.Error())
	}
	return id.String()
}

// Valid reports whether value is a UUID in canonical 8-4-4-4-12 form, in any
// letter case. Braced and URN forms are rejected.
func Valid(value string) bool {
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

// Canonical lowercases a valid UUID so it compares equal to stored ids.
// Invalid input is returned unchanged.
func Canonical(value string) string {
	if !Valid(value) {
		return value
	}
	return strings.ToLower(value)
}
