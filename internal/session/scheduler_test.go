// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collabconnect/internal/session"
	"github.com/taibuivan/collabconnect/internal/session/sessiontest"
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

const (
	timeout     = 20 * time.Minute
	warningLead = time.Minute
)

type firings struct {
	warnings []time.Duration
	timeouts []time.Duration
}

func newScheduler(t *testing.T) (*session.Scheduler, *sessiontest.ManualClock, *firings) {
	t.Helper()
	clock := sessiontest.NewManualClock(epoch)
	fired := &firings{}

	scheduler, err := session.NewScheduler(clock, session.SchedulerConfig{
		Timeout:     timeout,
		WarningLead: warningLead,
		OnWarning:   func() { fired.warnings = append(fired.warnings, clock.Now().Sub(epoch)) },
		OnTimeout:   func() { fired.timeouts = append(fired.timeouts, clock.Now().Sub(epoch)) },
	})
	require.NoError(t, err)
	return scheduler, clock, fired
}

/*
TestScheduler_WarningBeforeTimeout verifies the firing instants with no activity.
*/
func TestScheduler_WarningBeforeTimeout(t *testing.T) {
	scheduler, clock, fired := newScheduler(t)
	assert.Equal(t, session.StateIdle, scheduler.State())

	scheduler.Reset()
	assert.Equal(t, session.StateArmed, scheduler.State())
	assert.Equal(t, epoch.Add(1140000*time.Millisecond), scheduler.WarningAt())
	assert.Equal(t, epoch.Add(1200000*time.Millisecond), scheduler.ExpiresAt())

	clock.Advance(1140000*time.Millisecond - time.Millisecond)
	assert.Empty(t, fired.warnings)

	clock.Advance(time.Millisecond)
	assert.Equal(t, []time.Duration{1140000 * time.Millisecond}, fired.warnings)
	assert.Equal(t, session.StateWarned, scheduler.State())
	assert.Empty(t, fired.timeouts)

	clock.Advance(time.Minute)
	assert.Equal(t, []time.Duration{1200000 * time.Millisecond}, fired.timeouts)
	assert.Equal(t, session.StateExpired, scheduler.State())

	// Nothing fires twice.
	clock.Advance(time.Hour)
	assert.Len(t, fired.warnings, 1)
	assert.Len(t, fired.timeouts, 1)
}

/*
TestScheduler_ResetIdempotent verifies a double reset arms exactly one pair of timers.
*/
func TestScheduler_ResetIdempotent(t *testing.T) {
	scheduler, clock, fired := newScheduler(t)

	scheduler.Reset()
	scheduler.Reset()
	assert.Equal(t, 2, clock.Pending())

	clock.Advance(timeout)
	assert.Len(t, fired.warnings, 1)
	assert.Len(t, fired.timeouts, 1)
}

/*
TestScheduler_ActivityReschedules verifies a reset at ten minutes moves both deadlines.
*/
func TestScheduler_ActivityReschedules(t *testing.T) {
	scheduler, clock, fired := newScheduler(t)
	scheduler.Reset()

	clock.Advance(600000 * time.Millisecond)
	scheduler.Reset()

	clock.Advance(600000 * time.Millisecond) // t = 1200000
	assert.Empty(t, fired.warnings)
	assert.Empty(t, fired.timeouts)

	clock.Advance(20 * time.Minute)
	assert.Equal(t, []time.Duration{(600000 + 1140000) * time.Millisecond}, fired.warnings)
	assert.Equal(t, []time.Duration{(600000 + 1200000) * time.Millisecond}, fired.timeouts)
}

/*
TestScheduler_ResetFromWarned verifies the extend path returns to armed.
*/
func TestScheduler_ResetFromWarned(t *testing.T) {
	scheduler, clock, fired := newScheduler(t)
	scheduler.Reset()

	clock.Advance(timeout - warningLead)
	require.Equal(t, session.StateWarned, scheduler.State())

	scheduler.Reset()
	assert.Equal(t, session.StateArmed, scheduler.State())

	clock.Advance(warningLead)
	assert.Empty(t, fired.timeouts)
	assert.Len(t, fired.warnings, 1)
}

/*
TestScheduler_ResetAfterExpired verifies the scheduler re-arms cleanly.
*/
func TestScheduler_ResetAfterExpired(t *testing.T) {
	scheduler, clock, fired := newScheduler(t)
	scheduler.Reset()
	clock.Advance(timeout)
	require.Equal(t, session.StateExpired, scheduler.State())

	scheduler.Reset()
	assert.Equal(t, session.StateArmed, scheduler.State())

	clock.Advance(timeout)
	assert.Len(t, fired.warnings, 2)
	assert.Len(t, fired.timeouts, 2)
}

/*
TestScheduler_Cancel verifies cancel is idempotent and silences pending timers.
*/
func TestScheduler_Cancel(t *testing.T) {
	scheduler, clock, fired := newScheduler(t)

	scheduler.Cancel()
	assert.Equal(t, session.StateIdle, scheduler.State())

	scheduler.Reset()
	scheduler.Cancel()
	scheduler.Cancel()
	assert.Equal(t, session.StateIdle, scheduler.State())
	assert.True(t, scheduler.ExpiresAt().IsZero())
	assert.Zero(t, clock.Pending())

	clock.Advance(time.Hour)
	assert.Empty(t, fired.warnings)
	assert.Empty(t, fired.timeouts)
}

/*
TestScheduler_CallbackMayCancel verifies callbacks can re-enter the scheduler.
*/
func TestScheduler_CallbackMayCancel(t *testing.T) {
	clock := sessiontest.NewManualClock(epoch)
	var scheduler *session.Scheduler
	timeouts := 0

	scheduler, err := session.NewScheduler(clock, session.SchedulerConfig{
		Timeout:     timeout,
		WarningLead: warningLead,
		OnTimeout: func() {
			timeouts++
			scheduler.Cancel()
		},
	})
	require.NoError(t, err)

	scheduler.Reset()
	clock.Advance(timeout)
	assert.Equal(t, 1, timeouts)
	assert.Equal(t, session.StateIdle, scheduler.State())
}

/*
TestNewScheduler_Validation rejects inconsistent durations.
*/
func TestNewScheduler_Validation(t *testing.T) {
	clock := sessiontest.NewManualClock(epoch)

	tests := []struct {
		name        string
		timeout     time.Duration
		warningLead time.Duration
		wantErr     bool
	}{
		{"default_policy", 20 * time.Minute, time.Minute, false},
		{"no_warning_lead", time.Minute, 0, false},
		{"zero_timeout", 0, 0, true},
		{"negative_lead", time.Minute, -time.Second, true},
		{"lead_equals_timeout", time.Minute, time.Minute, true},
		{"lead_exceeds_timeout", time.Minute, 2 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := session.NewScheduler(clock, session.SchedulerConfig{Timeout: tt.timeout, WarningLead: tt.warningLead})
			if tt.wantErr {
				assert.ErrorIs(t, err, session.ErrInvalidTimeout)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
