// Package store persists the pieces of state that must survive a
// restart: operator settings, the read/dismissed notification sets and
// the serialized analytics state blob.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"app/models"
)

// Store wraps the shared connection pool.
type Store struct {
	db *pgxpool.Pool
}

// New creates a store over an existing pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the tables the store needs if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS notification_state (
			category TEXT NOT NULL,
			subject TEXT NOT NULL,
			rule TEXT NOT NULL,
			status TEXT NOT NULL,
			marked_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (category, subject, rule, status)
		);
		CREATE TABLE IF NOT EXISTS analytics_state (
			id INT PRIMARY KEY DEFAULT 1,
			payload JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS operators (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'operator',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// --- Settings ---

// LoadSettings reads the persisted settings, falling back to the
// defaults for any key never saved.
func (s *Store) LoadSettings(ctx context.Context) (models.AppSettings, error) {
	settings := models.DefaultSettings()

	rows, err := s.db.Query(ctx, "SELECT key, value FROM app_settings")
	if err != nil {
		return settings, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, fmt.Errorf("scan setting: %w", err)
		}
		switch key {
		case "targetStockDays":
			fmt.Sscanf(value, "%d", &settings.TargetStockDays)
		case "lowStockThreshold":
			fmt.Sscanf(value, "%d", &settings.LowStockThreshold)
		case "minImpressionsForOpportunity":
			fmt.Sscanf(value, "%d", &settings.MinImpressionsForOpportunity)
		case "currency":
			settings.Currency = models.Currency(value)
		}
	}
	if err := settings.Validate(); err != nil {
		// Persisted values predating validation fall back to defaults.
		return models.DefaultSettings(), nil
	}
	return settings, rows.Err()
}

// SaveSettings validates and upserts every recognized settings key.
func (s *Store) SaveSettings(ctx context.Context, settings models.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	pairs := map[string]string{
		"targetStockDays":              fmt.Sprintf("%d", settings.TargetStockDays),
		"lowStockThreshold":            fmt.Sprintf("%d", settings.LowStockThreshold),
		"minImpressionsForOpportunity": fmt.Sprintf("%d", settings.MinImpressionsForOpportunity),
		"currency":                     string(settings.Currency),
	}
	for key, value := range pairs {
		_, err := s.db.Exec(ctx, `
			INSERT INTO app_settings (key, value, updated_at) VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		`, key, value)
		if err != nil {
			return fmt.Errorf("save setting %s: %w", key, err)
		}
	}
	return nil
}

// --- Interaction state ---

// LoadInteractions reads the persisted read/dismissed identity sets.
func (s *Store) LoadInteractions(ctx context.Context) (models.InteractionState, error) {
	state := models.NewInteractionState()

	rows, err := s.db.Query(ctx, "SELECT category, subject, rule, status, marked_at FROM notification_state")
	if err != nil {
		return state, fmt.Errorf("load interactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key models.NotificationKey
		var status string
		var at time.Time
		if err := rows.Scan(&key.Category, &key.Subject, &key.Rule, &status, &at); err != nil {
			return state, fmt.Errorf("scan interaction: %w", err)
		}
		switch models.NotificationStatus(status) {
		case models.StatusDismissed:
			state.Dismissed[key] = at
		case models.StatusRead:
			state.Read[key] = at
		}
	}
	return state, rows.Err()
}

// MarkInteraction records one read/dismiss event. The insert is a
// set-union: an existing mark for the same identity is kept as-is.
func (s *Store) MarkInteraction(ctx context.Context, key models.NotificationKey, status models.NotificationStatus, at time.Time) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO notification_state (category, subject, rule, status, marked_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (category, subject, rule, status) DO NOTHING
	`, key.Category, key.Subject, key.Rule, string(status), at)
	if err != nil {
		return fmt.Errorf("mark interaction: %w", err)
	}
	return nil
}

// --- Analytics state blob ---

// SaveState serializes the analytics state as an opaque JSON blob. The
// blob is sufficient to rebuild identical state without re-parsing the
// original uploads.
func (s *Store) SaveState(ctx context.Context, state models.AnalyticsState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO analytics_state (id, payload, updated_at) VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`, payload)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// LoadState restores the persisted analytics state. A missing blob is
// not an error; it returns nil.
func (s *Store) LoadState(ctx context.Context) (*models.AnalyticsState, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, "SELECT payload FROM analytics_state WHERE id = 1").Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	var state models.AnalyticsState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return &state, nil
}
