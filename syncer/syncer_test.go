package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/models"
)

// recorder is a PersistFunc that captures every snapshot it receives.
type recorder struct {
	mu     sync.Mutex
	states []models.AnalyticsState
	err    error
}

func (r *recorder) persist(_ context.Context, state models.AnalyticsState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	return r.err
}

func (r *recorder) calls() []models.AnalyticsState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AnalyticsState, len(r.states))
	copy(out, r.states)
	return out
}

func (r *recorder) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func stateAt(t time.Time) models.AnalyticsState {
	return models.AnalyticsState{LastUpdatedAt: t}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDebounceSupersedesPendingRequests(t *testing.T) {
	rec := &recorder{}
	s := New(rec.persist, 50*time.Millisecond)
	defer s.Stop()

	t1 := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	t3 := t1.Add(2 * time.Minute)

	// Three requests inside one debounce window collapse into one push
	// carrying the last snapshot.
	s.Request(stateAt(t1))
	s.Request(stateAt(t2))
	s.Request(stateAt(t3))

	waitFor(t, func() bool { return len(rec.calls()) > 0 })
	time.Sleep(100 * time.Millisecond)

	calls := rec.calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].LastUpdatedAt.Equal(t3))

	st := s.Status()
	assert.False(t, st.Pending)
	assert.Empty(t, st.LastError)
	require.NotNil(t, st.LastSyncedAt)
}

func TestFailureIsReportedNotFatal(t *testing.T) {
	rec := &recorder{err: errors.New("connection refused")}
	s := New(rec.persist, 10*time.Millisecond)
	defer s.Stop()

	s.Request(stateAt(time.Now()))
	waitFor(t, func() bool { return len(rec.calls()) > 0 })

	waitFor(t, func() bool { return s.Status().LastError != "" })
	st := s.Status()
	assert.Contains(t, st.LastError, "connection refused")
	assert.Nil(t, st.LastSyncedAt)
}

func TestTriggerNowRetriesFailedPush(t *testing.T) {
	rec := &recorder{err: errors.New("temporarily unavailable")}
	s := New(rec.persist, 10*time.Millisecond)
	defer s.Stop()

	snap := stateAt(time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	s.Request(snap)
	waitFor(t, func() bool { return s.Status().LastError != "" })

	// Store recovers; an explicit retry pushes the failed snapshot
	// without waiting out a debounce window.
	rec.setErr(nil)
	s.TriggerNow()
	waitFor(t, func() bool { return s.Status().LastSyncedAt != nil })

	calls := rec.calls()
	require.Len(t, calls, 2)
	assert.True(t, calls[1].LastUpdatedAt.Equal(snap.LastUpdatedAt))
	assert.Empty(t, s.Status().LastError)
}

func TestStatusPendingDuringDebounce(t *testing.T) {
	rec := &recorder{}
	s := New(rec.persist, time.Hour)
	defer s.Stop()

	s.Request(stateAt(time.Now()))
	assert.True(t, s.Status().Pending)
	assert.Empty(t, rec.calls())
}

func TestStopAbandonsPending(t *testing.T) {
	rec := &recorder{}
	s := New(rec.persist, 30*time.Millisecond)

	s.Request(stateAt(time.Now()))
	s.Stop()

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.calls())
}
