// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collabconnect/internal/session"
)

/*
TestNotifier_Fanout verifies per-session delivery and cleanup.
*/
func TestNotifier_Fanout(t *testing.T) {
	notifier := session.NewNotifier()
	ctx, cancel := context.WithCancel(context.Background())

	first := notifier.Subscribe(ctx, "a")
	second := notifier.Subscribe(context.Background(), "a")
	other := notifier.Subscribe(context.Background(), "b")
	assert.Equal(t, 2, notifier.Subscribers("a"))

	notifier.Publish("a", session.Event{Type: session.EventTypeWarning})
	assert.Equal(t, session.EventTypeWarning, (<-first).Type)
	assert.Equal(t, session.EventTypeWarning, (<-second).Type)
	assert.Empty(t, other)

	cancel()
	require.Eventually(t, func() bool { return notifier.Subscribers("a") == 1 }, time.Second, 5*time.Millisecond)

	notifier.Close("a")
	_, open := <-second
	assert.False(t, open)
	assert.Zero(t, notifier.Subscribers("a"))
}

/*
TestNotifier_CloseReleasesWatchers verifies Close ends subscriptions whose context never ends.
*/
func TestNotifier_CloseReleasesWatchers(t *testing.T) {
	notifier := session.NewNotifier()
	baseline := runtime.NumGoroutine()

	streams := make([]<-chan session.Event, 0, 50)
	for i := 0; i < 50; i++ {
		streams = append(streams, notifier.Subscribe(context.Background(), "sid"))
	}
	require.GreaterOrEqual(t, runtime.NumGoroutine(), baseline+50)

	notifier.Close("sid")
	for _, events := range streams {
		_, open := <-events
		assert.False(t, open)
	}
	assert.Zero(t, notifier.Subscribers("sid"))

	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, time.Second, 5*time.Millisecond)
}
