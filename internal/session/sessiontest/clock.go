// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sessiontest provides test doubles for the session package.
package sessiontest

import (
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/collabconnect/internal/session"
)

var _ session.Clock = (*ManualClock)(nil)

// ManualClock is a deterministic clock whose time only moves on [ManualClock.Advance].
//
// Due callbacks run synchronously inside Advance, in deadline order and then
// in scheduling order.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Time
	seq      uint64
	fn       func()
	stopped  bool
}

// NewManualClock creates a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the frozen time.
func (clock *ManualClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// AfterFunc registers f to run once the clock has advanced by d.
func (clock *ManualClock) AfterFunc(d time.Duration, f func()) session.Timer {
	clock.mu.Lock()
	defer clock.mu.Unlock()

	clock.seq++
	timer := &manualTimer{clock: clock, deadline: clock.now.Add(d), seq: clock.seq, fn: f}
	clock.timers = append(clock.timers, timer)
	return timer
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (clock *ManualClock) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.timers)
}

// Advance moves the clock forward by d, firing every timer that falls due.
func (clock *ManualClock) Advance(d time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(d)
	clock.mu.Unlock()

	for {
		clock.mu.Lock()
		next := clock.popDue(target)
		if next == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		clock.now = next.deadline
		clock.mu.Unlock()

		next.fn()
	}
}

// popDue removes and returns the earliest timer due at or before target.
// The caller must hold mu.
func (clock *ManualClock) popDue(target time.Time) *manualTimer {
	if len(clock.timers) == 0 {
		return nil
	}
	sort.SliceStable(clock.timers, func(i, j int) bool {
		if clock.timers[i].deadline.Equal(clock.timers[j].deadline) {
			return clock.timers[i].seq < clock.timers[j].seq
		}
		return clock.timers[i].deadline.Before(clock.timers[j].deadline)
	})
	head := clock.timers[0]
	if head.deadline.After(target) {
		return nil
	}
	clock.timers = clock.timers[1:]
	head.stopped = true
	return head
}

func (timer *manualTimer) Stop() bool {
	clock := timer.clock
	clock.mu.Lock()
	defer clock.mu.Unlock()

	if timer.stopped {
		return false
	}
	timer.stopped = true
	for i, candidate := range clock.timers {
		if candidate == timer {
			clock.timers = append(clock.timers[:i], clock.timers[i+1:]...)
			break
		}
	}
	return true
}
