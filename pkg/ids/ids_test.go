// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ids_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/collabconnect/pkg/ids"
)

/*
TestNew verifies identifiers are valid, unique and sortable.
*/
func TestNew(t *testing.T) {
	previous := ids.New()
	assert.True(t, ids.Valid(previous))
	assert.Len(t, previous, 26)

	for i := 0; i < 100; i++ {
		next := ids.New()
		assert.Greater(t, next, previous)
		previous = next
	}

	assert.False(t, ids.Valid("not-a-ulid"))
}
