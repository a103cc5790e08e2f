// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/collabconnect/pkg/ids"
)

// ErrSessionNotFound is returned for a session id with no live runtime and
// nothing in the store.
var ErrSessionNotFound = errors.New("session: not found")

// EndReason records why a session ended.
type EndReason string

const (
	EndReasonLogout  EndReason = "logout"
	EndReasonTimeout EndReason = "timeout"
)

// # Collaborators

// EndRecorder persists the end of a session, e.g. to the login audit.
type EndRecorder interface {
	RecordEnd(context context.Context, sessionID string, reason EndReason) error
}

// Observer receives lifecycle counters.
type Observer interface {
	SessionStarted()
	SessionWarned()
	SessionEnded(reason string)
}

type nopObserver struct{}

func (nopObserver) SessionStarted()     {}
func (nopObserver) SessionWarned()      {}
func (nopObserver) SessionEnded(string) {}

// Config holds the inactivity policy shared by every session.
type Config struct {
	Timeout     time.Duration
	WarningLead time.Duration

	// EndedRetention is how long an ended session id stays refused by
	// Resume. It should cover the store TTL; zero means 12h.
	EndedRetention time.Duration
}

const defaultEndedRetention = 12 * time.Hour

// Deps are the collaborators of a [Manager]. Only Store is required.
type Deps struct {
	Store    Store
	Clock    Clock
	Notifier *Notifier
	Recorder EndRecorder
	Observer Observer
	Logger   *slog.Logger
	NewID    func() string
}

// # Runtime

// Runtime is the live state of one login session.
type Runtime struct {
	id         string
	container  *Container
	tracker    *Tracker
	scheduler  *Scheduler
	dispatcher *Dispatcher
	startedAt  time.Time
}

// ID returns the session id.
func (runtime *Runtime) ID() string { return runtime.id }

// User returns the logged-in user, nil once the session has ended.
func (runtime *Runtime) User() *AuthenticatedUser { return runtime.container.CurrentUser() }

// State returns the timer phase.
func (runtime *Runtime) State() State { return runtime.scheduler.State() }

// ExpiresAt returns when the session times out without further activity.
func (runtime *Runtime) ExpiresAt() time.Time { return runtime.scheduler.ExpiresAt() }

// WarningAt returns when the expiry warning is due.
func (runtime *Runtime) WarningAt() time.Time { return runtime.scheduler.WarningAt() }

// StartedAt returns when the runtime was created or resumed.
func (runtime *Runtime) StartedAt() time.Time { return runtime.startedAt }

// LastActivity returns the latest recorded activity.
func (runtime *Runtime) LastActivity() time.Time { return runtime.tracker.LastActivityTime() }

// # Manager

/*
Manager owns one [Runtime] per live session.

Description: It wires the container, the activity tracker and the timeout
scheduler of each session together. Activity on the session dispatcher
resets the scheduler. A warning is published to the [Notifier]; a timeout
publishes the expiry, logs the user out and drops the runtime. A later login
always gets a new runtime.

Ended session ids are remembered for Config.EndedRetention, so a store entry
that outlived a failed clear cannot be resumed.
*/
type Manager struct {
	cfg      Config
	store    Store
	clock    Clock
	notifier *Notifier
	recorder EndRecorder
	observer Observer
	logger   *slog.Logger
	newID    func() string

	mu       sync.Mutex
	runtimes map[string]*Runtime
	ended    map[string]time.Time
}

// NewManager validates the inactivity policy and builds a manager.
func NewManager(cfg Config, deps Deps) (*Manager, error) {
	if err := (SchedulerConfig{Timeout: cfg.Timeout, WarningLead: cfg.WarningLead}).Validate(); err != nil {
		return nil, err
	}
	if deps.Store == nil {
		return nil, errors.New("session: store is required")
	}

	manager := &Manager{
		cfg:      cfg,
		store:    deps.Store,
		clock:    deps.Clock,
		notifier: deps.Notifier,
		recorder: deps.Recorder,
		observer: deps.Observer,
		logger:   deps.Logger,
		newID:    deps.NewID,
		runtimes: make(map[string]*Runtime),
		ended:    make(map[string]time.Time),
	}
	if manager.cfg.EndedRetention <= 0 {
		manager.cfg.EndedRetention = defaultEndedRetention
	}
	if manager.clock == nil {
		manager.clock = SystemClock{}
	}
	if manager.notifier == nil {
		manager.notifier = NewNotifier()
	}
	if manager.observer == nil {
		manager.observer = nopObserver{}
	}
	if manager.logger == nil {
		manager.logger = slog.Default()
	}
	if manager.newID == nil {
		manager.newID = ids.New
	}
	return manager, nil
}

// Config returns the inactivity policy.
func (manager *Manager) Config() Config { return manager.cfg }

// Notifier returns the event fan-out used by the manager.
func (manager *Manager) Notifier() *Notifier { return manager.notifier }

/*
Start creates a session for user and arms its timers.

Parameters:
  - context: context.Context
  - user: AuthenticatedUser

Returns:
  - *Runtime: the new live session
  - error: store failures
*/
func (manager *Manager) Start(context context.Context, user AuthenticatedUser) (*Runtime, error) {
	runtime, err := manager.build(manager.newID())
	if err != nil {
		return nil, err
	}

	if err := runtime.container.Login(context, user); err != nil {
		return nil, fmt.Errorf("session_manager_start_failed: %w", err)
	}

	manager.mu.Lock()
	manager.runtimes[runtime.id] = runtime
	manager.mu.Unlock()

	runtime.scheduler.Reset()
	manager.observer.SessionStarted()

	manager.logger.Info("session_started",
		slog.String("session_id", runtime.id),
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return runtime, nil
}

/*
Resume returns the live runtime of sessionID, rehydrating it from the store
when the process has none (after a restart).

Description: A rehydrated runtime counts the resume as activity, so its timers
start from now.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *Runtime: the live session
  - error: ErrSessionNotFound or store failures
*/
func (manager *Manager) Resume(context context.Context, sessionID string) (*Runtime, error) {
	if runtime, ok := manager.Lookup(sessionID); ok {
		return runtime, nil
	}
	if manager.hasEnded(sessionID) {
		return nil, ErrSessionNotFound
	}

	runtime, err := manager.build(sessionID)
	if err != nil {
		return nil, err
	}

	found, err := runtime.container.Init(context)
	if err != nil {
		return nil, fmt.Errorf("session_manager_resume_failed: %w", err)
	}
	if !found {
		return nil, ErrSessionNotFound
	}

	manager.mu.Lock()
	if existing, ok := manager.runtimes[sessionID]; ok {
		manager.mu.Unlock()
		runtime.dispatcher.Close()
		return existing, nil
	}
	if _, gone := manager.ended[sessionID]; gone {
		manager.mu.Unlock()
		runtime.dispatcher.Close()
		return nil, ErrSessionNotFound
	}
	manager.runtimes[sessionID] = runtime
	manager.mu.Unlock()

	runtime.scheduler.Reset()
	manager.logger.Info("session_resumed", slog.String("session_id", sessionID))
	return runtime, nil
}

// Lookup returns the live runtime of sessionID without touching the store.
func (manager *Manager) Lookup(sessionID string) (*Runtime, bool) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	runtime, ok := manager.runtimes[sessionID]
	return runtime, ok
}

// Active returns the number of live sessions.
func (manager *Manager) Active() int {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return len(manager.runtimes)
}

// Activity delivers one interaction event to the session.
func (manager *Manager) Activity(sessionID string, kind EventKind) error {
	runtime, ok := manager.Lookup(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	runtime.dispatcher.Dispatch(kind)
	return nil
}

// Extend is the explicit "keep me signed in" action. It resets the timers
// from any live state.
func (manager *Manager) Extend(sessionID string) error {
	runtime, ok := manager.Lookup(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	runtime.tracker.RecordActivity()
	runtime.scheduler.Reset()

	manager.notifier.Publish(sessionID, Event{
		Type:             EventTypeExtended,
		SessionID:        sessionID,
		RemainingSeconds: int(manager.cfg.Timeout / time.Second),
		At:               manager.clock.Now(),
	})
	return nil
}

// Remaining returns the time left before the session times out.
func (manager *Manager) Remaining(sessionID string) (time.Duration, error) {
	runtime, ok := manager.Lookup(sessionID)
	if !ok {
		return 0, ErrSessionNotFound
	}
	return runtime.tracker.RemainingTime(manager.cfg.Timeout), nil
}

// Refresh replaces the identity held by a live session, for example after a
// profile edit. It does not count as activity.
func (manager *Manager) Refresh(context context.Context, sessionID string, user AuthenticatedUser) error {
	runtime, ok := manager.Lookup(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	if err := runtime.container.Login(context, user); err != nil {
		return fmt.Errorf("session_manager_refresh_failed: %w", err)
	}
	return nil
}

/*
End terminates a session. Idempotent: ending an unknown session still clears
the store and succeeds. The id is refused by [Manager.Resume] afterwards, even
when clearing the store failed.

Parameters:
  - context: context.Context
  - sessionID: string
  - reason: EndReason

Returns:
  - error: store failures
*/
func (manager *Manager) End(context context.Context, sessionID string, reason EndReason) error {
	manager.mu.Lock()
	runtime, ok := manager.runtimes[sessionID]
	delete(manager.runtimes, sessionID)
	manager.markEnded(sessionID)
	manager.mu.Unlock()

	if !ok {
		if err := manager.store.Clear(context, sessionID); err != nil {
			return fmt.Errorf("session_manager_end_failed: %w", err)
		}
		return nil
	}

	runtime.dispatcher.Close()
	runtime.scheduler.Cancel()
	logoutErr := runtime.container.Logout(context)

	if manager.recorder != nil {
		if err := manager.recorder.RecordEnd(context, sessionID, reason); err != nil {
			manager.logger.Warn("session_end_record_failed",
				slog.String("session_id", sessionID),
				slog.Any("error", err),
			)
		}
	}

	manager.notifier.Publish(sessionID, Event{
		Type:      EventTypeEnded,
		SessionID: sessionID,
		Reason:    string(reason),
		At:        manager.clock.Now(),
	})
	manager.notifier.Close(sessionID)
	manager.observer.SessionEnded(string(reason))

	manager.logger.Info("session_ended",
		slog.String("session_id", sessionID),
		slog.String("reason", string(reason)),
	)

	if logoutErr != nil {
		return fmt.Errorf("session_manager_end_failed: %w", logoutErr)
	}
	return nil
}

// Shutdown stops every timer without clearing the store, so sessions can be
// resumed by the next process.
func (manager *Manager) Shutdown() {
	manager.mu.Lock()
	runtimes := manager.runtimes
	manager.runtimes = make(map[string]*Runtime)
	manager.mu.Unlock()

	for id, runtime := range runtimes {
		runtime.dispatcher.Close()
		runtime.scheduler.Cancel()
		manager.notifier.Close(id)
	}
}

// # Internals

func (manager *Manager) hasEnded(sessionID string) bool {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	_, ok := manager.ended[sessionID]
	return ok
}

// markEnded records sessionID and drops records past the retention.
// The caller must hold mu.
func (manager *Manager) markEnded(sessionID string) {
	now := manager.clock.Now()
	for id, at := range manager.ended {
		if now.Sub(at) >= manager.cfg.EndedRetention {
			delete(manager.ended, id)
		}
	}
	manager.ended[sessionID] = now
}

func (manager *Manager) build(sessionID string) (*Runtime, error) {
	runtime := &Runtime{
		id:         sessionID,
		container:  NewContainer(sessionID, manager.store),
		tracker:    NewTracker(manager.clock),
		dispatcher: NewDispatcher(),
		startedAt:  manager.clock.Now(),
	}

	scheduler, err := NewScheduler(manager.clock, SchedulerConfig{
		Timeout:     manager.cfg.Timeout,
		WarningLead: manager.cfg.WarningLead,
		OnWarning:   func() { manager.onWarning(runtime) },
		OnTimeout:   func() { manager.onTimeout(runtime) },
	})
	if err != nil {
		return nil, err
	}
	runtime.scheduler = scheduler

	runtime.dispatcher.Subscribe(ActivityEvents, func(EventKind) {
		runtime.tracker.RecordActivity()
		runtime.scheduler.Reset()
	})
	return runtime, nil
}

func (manager *Manager) onWarning(runtime *Runtime) {
	remaining := runtime.scheduler.ExpiresAt().Sub(manager.clock.Now())
	if remaining < 0 {
		remaining = 0
	}

	manager.notifier.Publish(runtime.id, Event{
		Type:             EventTypeWarning,
		SessionID:        runtime.id,
		RemainingSeconds: int(remaining / time.Second),
		At:               manager.clock.Now(),
	})
	manager.observer.SessionWarned()
	manager.logger.Info("session_warning_sent",
		slog.String("session_id", runtime.id),
		slog.Duration("remaining", remaining),
	)
}

func (manager *Manager) onTimeout(runtime *Runtime) {
	manager.mu.Lock()
	current, ok := manager.runtimes[runtime.id]
	manager.mu.Unlock()
	if !ok || current != runtime {
		return
	}

	manager.notifier.Publish(runtime.id, Event{
		Type:      EventTypeExpired,
		SessionID: runtime.id,
		Reason:    string(EndReasonTimeout),
		At:        manager.clock.Now(),
	})
	manager.logger.Info("session_expired", slog.String("session_id", runtime.id))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := manager.End(ctx, runtime.id, EndReasonTimeout); err != nil {
		manager.logger.Error("session_expire_cleanup_failed",
			slog.String("session_id", runtime.id),
			slog.Any("error", err),
		)
	}
}
