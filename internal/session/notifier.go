// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"sync"
	"time"
)

// Event types pushed to session subscribers.
const (
	EventTypeWarning  = "session.warning"
	EventTypeExtended = "session.extended"
	EventTypeExpired  = "session.expired"
	EventTypeEnded    = "session.ended"
)

// Event is a session notification delivered to connected clients.
type Event struct {
	Type             string    `json:"type"`
	SessionID        string    `json:"sessionId"`
	RemainingSeconds int       `json:"remainingSeconds"`
	Reason           string    `json:"reason,omitempty"`
	At               time.Time `json:"at"`
}

// Notifier fans session events out to the subscribers of each session.
//
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Notifier struct {
	mu   sync.RWMutex
	subs map[string]map[int]stream
	next int
}

// stream is one open event subscription. done is closed together with events
// so the context watcher of the stream exits.
type stream struct {
	events chan Event
	done   chan struct{}
}

func (sub stream) close() {
	close(sub.events)
	close(sub.done)
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[int]stream)}
}

// Subscribe returns a channel of events for sessionID. The channel is closed
// when ctx ends or the session is closed with [Notifier.Close].
func (notifier *Notifier) Subscribe(ctx context.Context, sessionID string) <-chan Event {
	sub := stream{events: make(chan Event, 8), done: make(chan struct{})}

	notifier.mu.Lock()
	id := notifier.next
	notifier.next++
	if notifier.subs[sessionID] == nil {
		notifier.subs[sessionID] = make(map[int]stream)
	}
	notifier.subs[sessionID][id] = sub
	notifier.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			notifier.remove(sessionID, id)
		case <-sub.done:
		}
	}()

	return sub.events
}

// Publish delivers evt to every subscriber of sessionID.
func (notifier *Notifier) Publish(sessionID string, evt Event) {
	notifier.mu.RLock()
	defer notifier.mu.RUnlock()

	for _, sub := range notifier.subs[sessionID] {
		select {
		case sub.events <- evt:
		default:
		}
	}
}

// Close ends every subscription of sessionID.
func (notifier *Notifier) Close(sessionID string) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	for _, sub := range notifier.subs[sessionID] {
		sub.close()
	}
	delete(notifier.subs, sessionID)
}

// Subscribers returns the number of open subscriptions for sessionID.
func (notifier *Notifier) Subscribers(sessionID string) int {
	notifier.mu.RLock()
	defer notifier.mu.RUnlock()
	return len(notifier.subs[sessionID])
}

func (notifier *Notifier) remove(sessionID string, id int) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	subs := notifier.subs[sessionID]
	sub, ok := subs[id]
	if !ok {
		return
	}
	sub.close()
	delete(subs, id)
	if len(subs) == 0 {
		delete(notifier.subs, sessionID)
	}
}
