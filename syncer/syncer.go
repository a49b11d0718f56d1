// Package syncer pushes the analytics state to the remote store without
// ever blocking or corrupting the in-memory computation. Requests are
// debounced and single-flight: a new request supersedes a pending one
// rather than queueing duplicates, and a failure is reported and
// retried, never rolled back into the engine.
package syncer

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"app/models"
)

// PersistFunc writes one state snapshot to the remote store.
type PersistFunc func(ctx context.Context, state models.AnalyticsState) error

// Status reports the syncer's health to the operator.
type Status struct {
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
	Pending      bool       `json:"pending"`
}

// Syncer owns the debounce window and the retry schedule.
type Syncer struct {
	persist  PersistFunc
	debounce time.Duration

	mu        sync.Mutex
	pending   *models.AnalyticsState
	failed    *models.AnalyticsState
	timer     *time.Timer
	inFlight  bool
	lastSync  *time.Time
	lastError error

	cron *cron.Cron
}

// New creates a syncer. debounce is how long after the last change the
// push actually happens.
func New(persist PersistFunc, debounce time.Duration) *Syncer {
	return &Syncer{persist: persist, debounce: debounce}
}

// Start schedules the periodic retry of failed pushes.
func (s *Syncer) Start() {
	s.cron = cron.New()
	// Failed pushes retry every minute until one lands.
	s.cron.AddFunc("@every 1m", func() {
		s.mu.Lock()
		retry := s.lastError != nil && s.pending == nil && !s.inFlight
		var state *models.AnalyticsState
		if retry {
			state = s.failed
		}
		s.mu.Unlock()
		if retry && state != nil {
			s.Request(*state)
		}
	})
	s.cron.Start()
}

// Stop halts the retry schedule. Pending pushes are abandoned.
func (s *Syncer) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.mu.Unlock()
}

// Request asks for state to be persisted. A request arriving while an
// earlier one is still waiting out the debounce window replaces it.
func (s *Syncer) Request(state models.AnalyticsState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = &state
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.flush)
}

// flush performs the actual push. Only one push runs at a time; a
// request arriving mid-push is picked up by a follow-up flush.
func (s *Syncer) flush() {
	s.mu.Lock()
	if s.inFlight || s.pending == nil {
		s.mu.Unlock()
		return
	}
	state := *s.pending
	s.pending = nil
	s.inFlight = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := s.persist(ctx, state)
	cancel()

	s.mu.Lock()
	s.inFlight = false
	if err != nil {
		log.Printf("syncer: remote persistence failed: %v", err)
		s.lastError = err
		s.failed = &state
	} else {
		now := time.Now()
		s.lastSync = &now
		s.lastError = nil
		s.failed = nil
	}
	again := s.pending != nil
	s.mu.Unlock()

	if again {
		s.flush()
	}
}

// TriggerNow bypasses the debounce window for an explicit operator
// retry.
func (s *Syncer) TriggerNow() {
	s.mu.Lock()
	if s.pending == nil && s.failed != nil {
		s.pending = s.failed
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.flush()
}

// Status returns the current sync health.
func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		LastSyncedAt: s.lastSync,
		Pending:      s.pending != nil || s.inFlight,
	}
	if s.lastError != nil {
		st.LastError = s.lastError.Error()
	}
	return st
}
