package models

import "fmt"

// Currency is the display currency for revenue figures.
type Currency string

const (
	CurrencyTRY Currency = "TRY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// AppSettings are the operator-tunable thresholds. Loaded once at
// startup, mutated only through an explicit update, persisted on every
// change.
type AppSettings struct {
	TargetStockDays              int      `json:"target_stock_days"`
	LowStockThreshold            int      `json:"low_stock_threshold"`
	MinImpressionsForOpportunity int      `json:"min_impressions_for_opportunity"`
	Currency                     Currency `json:"currency"`
}

// DefaultSettings returns the settings applied before the operator has
// saved any.
func DefaultSettings() AppSettings {
	return AppSettings{
		TargetStockDays:              30,
		LowStockThreshold:            10,
		MinImpressionsForOpportunity: 100,
		Currency:                     CurrencyTRY,
	}
}

// Validate rejects settings values before they are persisted. On
// rejection the prior settings stay in effect.
func (s AppSettings) Validate() error {
	if s.TargetStockDays <= 0 {
		return fmt.Errorf("target_stock_days must be positive, got %d", s.TargetStockDays)
	}
	if s.LowStockThreshold < 0 {
		return fmt.Errorf("low_stock_threshold must not be negative, got %d", s.LowStockThreshold)
	}
	if s.MinImpressionsForOpportunity < 0 {
		return fmt.Errorf("min_impressions_for_opportunity must not be negative, got %d", s.MinImpressionsForOpportunity)
	}
	switch s.Currency {
	case CurrencyTRY, CurrencyUSD, CurrencyEUR:
	default:
		return fmt.Errorf("unsupported currency %q", s.Currency)
	}
	return nil
}
