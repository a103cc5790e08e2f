// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"errors"
	"sync"
	"time"
)

// ErrInvalidTimeout is returned when a scheduler configuration would let the
// warning fire at or after the timeout.
var ErrInvalidTimeout = errors.New("session: timeout must be positive and greater than the warning lead")

// # Timer States

// State is the phase of a session timer.
type State int

const (
	// No timers armed
	StateIdle State = iota

	// Warning and timeout timers both pending
	StateArmed

	// Warning delivered, timeout pending
	StateWarned

	// Timeout delivered, session must end
	StateExpired
)

// String returns the lower-case state name used in logs and API payloads.
func (state State) String() string {
	switch state {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateWarned:
		return "warned"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// SchedulerConfig configures a [Scheduler].
type SchedulerConfig struct {
	Timeout     time.Duration
	WarningLead time.Duration
	OnWarning   func()
	OnTimeout   func()
}

// Validate reports whether the warning lead and timeout are consistent.
func (cfg SchedulerConfig) Validate() error {
	if cfg.Timeout <= 0 || cfg.WarningLead < 0 || cfg.WarningLead >= cfg.Timeout {
		return ErrInvalidTimeout
	}
	return nil
}

// # Scheduler

/*
Scheduler drives the idle -> armed -> warned -> expired state machine.

Description: Reset is the single entry point that arms timers, and it always
arms the warning and timeout timers together. Every arm bumps a generation
counter; a timer callback carrying an older generation is a no-op, so
callbacks racing a Reset or Cancel never act on a superseded schedule.

Callbacks of one scheduler are serialized by fireMu and run without holding
the state lock, so they may call Reset or Cancel.
*/
type Scheduler struct {
	clock Clock
	cfg   SchedulerConfig

	fireMu sync.Mutex

	mu           sync.Mutex
	state        State
	generation   uint64
	warningTimer Timer
	timeoutTimer Timer
	warningAt    time.Time
	expiresAt    time.Time
}

// NewScheduler validates cfg and returns an idle scheduler.
func NewScheduler(clock Clock, cfg SchedulerConfig) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock, cfg: cfg, state: StateIdle}, nil
}

// Reset cancels pending timers and re-arms both from now. Valid from any state.
func (scheduler *Scheduler) Reset() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	scheduler.stopLocked()
	scheduler.generation++
	generation := scheduler.generation

	now := scheduler.clock.Now()
	warningDelay := scheduler.cfg.Timeout - scheduler.cfg.WarningLead
	scheduler.warningAt = now.Add(warningDelay)
	scheduler.expiresAt = now.Add(scheduler.cfg.Timeout)
	scheduler.state = StateArmed

	scheduler.warningTimer = scheduler.clock.AfterFunc(warningDelay, func() {
		scheduler.fire(generation, StateArmed, StateWarned, scheduler.cfg.OnWarning)
	})
	scheduler.timeoutTimer = scheduler.clock.AfterFunc(scheduler.cfg.Timeout, func() {
		scheduler.fire(generation, StateWarned, StateExpired, scheduler.cfg.OnTimeout)
	})
}

// Cancel stops both timers and returns to idle. Idempotent.
func (scheduler *Scheduler) Cancel() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	scheduler.stopLocked()
	scheduler.generation++
	scheduler.state = StateIdle
	scheduler.warningAt = time.Time{}
	scheduler.expiresAt = time.Time{}
}

// State returns the current phase.
func (scheduler *Scheduler) State() State {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.state
}

// WarningAt returns when the warning is due, zero when idle.
func (scheduler *Scheduler) WarningAt() time.Time {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.warningAt
}

// ExpiresAt returns when the timeout is due, zero when idle.
func (scheduler *Scheduler) ExpiresAt() time.Time {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.expiresAt
}

// Config returns the durations the scheduler was built with.
func (scheduler *Scheduler) Config() SchedulerConfig {
	return scheduler.cfg
}

func (scheduler *Scheduler) stopLocked() {
	if scheduler.warningTimer != nil {
		scheduler.warningTimer.Stop()
		scheduler.warningTimer = nil
	}
	if scheduler.timeoutTimer != nil {
		scheduler.timeoutTimer.Stop()
		scheduler.timeoutTimer = nil
	}
}

// fire applies a timer transition and runs its callback.
//
// The warning timer moves armed -> warned. The timeout timer moves armed or
// warned -> expired; from is the latest state it accepts.
func (scheduler *Scheduler) fire(generation uint64, from, to State, callback func()) {
	scheduler.fireMu.Lock()
	defer scheduler.fireMu.Unlock()

	scheduler.mu.Lock()
	if generation != scheduler.generation || scheduler.state == StateIdle || scheduler.state > from {
		scheduler.mu.Unlock()
		return
	}
	scheduler.state = to
	scheduler.warningTimer = nil
	if to == StateExpired {
		scheduler.timeoutTimer = nil
	}
	scheduler.mu.Unlock()

	if callback != nil {
		callback()
	}
}
