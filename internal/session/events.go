// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "sync"

// Listener handles one interaction event.
type Listener func(kind EventKind)

type subscription struct {
	kinds    map[EventKind]struct{}
	listener Listener
}

// Dispatcher is the per-session input surface interaction events arrive on.
//
// Listeners are invoked outside the dispatcher lock, in arrival order of
// events, so a listener may unsubscribe itself.
type Dispatcher struct {
	mu   sync.RWMutex
	subs map[uint64]subscription
	next uint64
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[uint64]subscription)}
}

// Subscribe registers listener for kinds and returns its unsubscribe function.
// The returned function is idempotent.
func (dispatcher *Dispatcher) Subscribe(kinds []EventKind, listener Listener) func() {
	set := make(map[EventKind]struct{}, len(kinds))
	for _, kind := range kinds {
		set[kind] = struct{}{}
	}

	dispatcher.mu.Lock()
	id := dispatcher.next
	dispatcher.next++
	dispatcher.subs[id] = subscription{kinds: set, listener: listener}
	dispatcher.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			dispatcher.mu.Lock()
			delete(dispatcher.subs, id)
			dispatcher.mu.Unlock()
		})
	}
}

// Dispatch delivers kind to every listener subscribed to it.
func (dispatcher *Dispatcher) Dispatch(kind EventKind) {
	dispatcher.mu.RLock()
	listeners := make([]Listener, 0, len(dispatcher.subs))
	for _, sub := range dispatcher.subs {
		if _, ok := sub.kinds[kind]; ok {
			listeners = append(listeners, sub.listener)
		}
	}
	dispatcher.mu.RUnlock()

	for _, listener := range listeners {
		listener(kind)
	}
}

// Len returns the number of active subscriptions.
func (dispatcher *Dispatcher) Len() int {
	dispatcher.mu.RLock()
	defer dispatcher.mu.RUnlock()
	return len(dispatcher.subs)
}

// Close removes every subscription.
func (dispatcher *Dispatcher) Close() {
	dispatcher.mu.Lock()
	dispatcher.subs = make(map[uint64]subscription)
	dispatcher.mu.Unlock()
}
