// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// # Interaction Events

// EventKind is a category of UI interaction that counts as user activity.
type EventKind string

const (
	EventPointerDown EventKind = "pointerdown"
	EventPointerMove EventKind = "pointermove"
	EventKeyDown     EventKind = "keydown"
	EventScroll      EventKind = "scroll"
	EventTouchStart  EventKind = "touchstart"
	EventClick       EventKind = "click"
	EventKeyPress    EventKind = "keypress"
)

// ActivityEvents is the fixed set a live session listens to.
var ActivityEvents = []EventKind{
	EventPointerDown, EventPointerMove, EventKeyDown, EventScroll,
	EventTouchStart, EventClick, EventKeyPress,
}

// Browsers without pointer events still report mouse events.
var eventAliases = map[string]EventKind{
	"mousedown": EventPointerDown,
	"mousemove": EventPointerMove,
}

// ParseEventKind validates a client supplied event name.
func ParseEventKind(raw string) (EventKind, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := eventAliases[name]; ok {
		return alias, nil
	}
	for _, kind := range ActivityEvents {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", fmt.Errorf("session: unknown activity event %q", raw)
}

// # Tracker

// Tracker collapses interaction events into a single "last activity" instant.
//
// RecordActivity is a single atomic store, so it is safe to call from every
// event listener at full event rate.
type Tracker struct {
	clock Clock
	last  atomic.Int64
}

// NewTracker creates a tracker whose last activity is the current instant.
func NewTracker(clock Clock) *Tracker {
	tracker := &Tracker{clock: clock}
	tracker.RecordActivity()
	return tracker
}

// RecordActivity marks the current instant as the latest activity.
func (tracker *Tracker) RecordActivity() {
	tracker.last.Store(tracker.clock.Now().UnixNano())
}

// LastActivityTime returns the instant of the latest recorded activity.
func (tracker *Tracker) LastActivityTime() time.Time {
	return time.Unix(0, tracker.last.Load())
}

// RemainingTime returns how long until timeout elapses without activity,
// clamped at zero.
func (tracker *Tracker) RemainingTime(timeout time.Duration) time.Duration {
	elapsed := tracker.clock.Now().Sub(tracker.LastActivityTime())
	remaining := timeout - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
