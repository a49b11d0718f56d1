// Package engine owns the in-memory analytics state and runs a full
// synchronous recomputation whenever the data changes. There is exactly
// one writer (the recomputation under the lock) and all reads hand out
// immutable snapshots, so consumers never observe a half-finished cycle.
package engine

import (
	"sync"
	"time"

	"app/analytics"
	"app/models"
)

// Hooks are the edge callbacks fired after a state change. They must
// not block: persistence failures are the syncer's problem and never
// roll back the in-memory state.
type Hooks struct {
	OnState       func(models.AnalyticsState)
	OnInteraction func(key models.NotificationKey, status models.NotificationStatus, at time.Time)
	OnSettings    func(models.AppSettings)
}

// Engine holds the current inputs and the latest recomputation result.
type Engine struct {
	mu          sync.RWMutex
	reports     map[models.ReportPeriod]analytics.Report
	catalog     map[string]models.ProductCatalogEntry
	restored    *models.AnalyticsState
	settings    models.AppSettings
	interaction models.InteractionState
	cfg         analytics.RuleConfig
	result      analytics.Result
	hooks       Hooks
	now         func() time.Time
}

// New creates an engine with the given settings and persisted
// interaction state and computes the initial (empty) result.
func New(settings models.AppSettings, interaction models.InteractionState, cfg analytics.RuleConfig) *Engine {
	e := &Engine{
		reports:     make(map[models.ReportPeriod]analytics.Report),
		catalog:     make(map[string]models.ProductCatalogEntry),
		settings:    settings,
		interaction: interaction.Clone(),
		cfg:         cfg,
		now:         time.Now,
	}
	e.mu.Lock()
	e.recomputeLocked()
	e.mu.Unlock()
	return e
}

// SetHooks wires the persistence edges. Call before serving traffic.
func (e *Engine) SetHooks(h Hooks) {
	e.mu.Lock()
	e.hooks = h
	e.mu.Unlock()
}

// recomputeLocked runs a full cycle. Caller holds the write lock.
func (e *Engine) recomputeLocked() {
	e.result = analytics.Recompute(analytics.RecomputeInput{
		Reports:     e.reports,
		Catalog:     e.catalog,
		Baseline:    e.restored,
		Settings:    e.settings,
		Interaction: e.interaction,
		Cfg:         e.cfg,
		Now:         e.now(),
	})
}

func (e *Engine) notifyState() {
	e.mu.RLock()
	hook := e.hooks.OnState
	state := e.result.State
	e.mu.RUnlock()
	if hook != nil {
		hook(state)
	}
}

// ApplyReport installs a report into its period slot, replacing any
// prior report for that period, and recomputes.
func (e *Engine) ApplyReport(report analytics.Report) {
	e.mu.Lock()
	e.reports[report.Period] = report
	e.recomputeLocked()
	e.mu.Unlock()
	e.notifyState()
}

// ApplyCatalog replaces the product catalog and recomputes.
func (e *Engine) ApplyCatalog(entries []models.ProductCatalogEntry) {
	catalog := make(map[string]models.ProductCatalogEntry, len(entries))
	for _, entry := range entries {
		catalog[entry.Code] = entry
	}
	e.mu.Lock()
	e.catalog = catalog
	e.recomputeLocked()
	e.mu.Unlock()
	e.notifyState()
}

// RestoreState seeds the engine from a previously persisted state blob
// so insights survive a restart without re-parsing the original
// uploads. Raw rows are gone at that point; the restored slots stay in
// place as a baseline and a later upload replaces only its own period
// slot.
func (e *Engine) RestoreState(state models.AnalyticsState) {
	e.mu.Lock()
	e.restored = &state
	e.result = analytics.Derive(state, e.settings, e.interaction, e.cfg)
	e.mu.Unlock()
}

// UpdateSettings validates, applies and recomputes. Invalid settings
// are rejected and the prior values stay in effect.
func (e *Engine) UpdateSettings(settings models.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.settings = settings
	e.recomputeLocked()
	hook := e.hooks.OnSettings
	e.mu.Unlock()
	if hook != nil {
		hook(settings)
	}
	e.notifyState()
	return nil
}

// MarkRead records a read interaction for a notification identity and
// re-annotates the current batch. Unknown keys are still recorded: the
// identity is content-derived and may reappear on the next cycle.
func (e *Engine) MarkRead(key models.NotificationKey) {
	e.markInteraction(key, models.StatusRead)
}

// Dismiss records a dismissal for a notification identity.
func (e *Engine) Dismiss(key models.NotificationKey) {
	e.markInteraction(key, models.StatusDismissed)
}

func (e *Engine) markInteraction(key models.NotificationKey, status models.NotificationStatus) {
	at := e.now()
	delta := models.NewInteractionState()
	switch status {
	case models.StatusDismissed:
		delta.Dismissed[key] = at
	default:
		delta.Read[key] = at
	}

	e.mu.Lock()
	// Set-union merge: an existing mark is never overwritten, so rapid
	// repeated clicks keep the earliest timestamp.
	e.interaction.Union(delta)
	e.recomputeLocked()
	hook := e.hooks.OnInteraction
	e.mu.Unlock()
	if hook != nil {
		hook(key, status, at)
	}
}

// Snapshot returns the latest recomputation result. The result is
// never mutated after publication, so sharing it is safe.
func (e *Engine) Snapshot() analytics.Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.result
}

// Settings returns the currently applied settings.
func (e *Engine) Settings() models.AppSettings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// Interaction returns a copy of the persisted interaction state.
func (e *Engine) Interaction() models.InteractionState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.interaction.Clone()
}
