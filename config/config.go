package config

import (
	"os"
	"strconv"
)

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	JWTSecret    string
	GeminiAPIKey string

	// Trend classification thresholds, in percent. A period-over-period
	// change above RisingThresholdPct is "rising", below
	// -CoolingThresholdPct is "cooling", anything in between is "stable".
	RisingThresholdPct  float64
	CoolingThresholdPct float64

	// ConversionRateFloor is the conversion rate (quantity/impressions)
	// below which a well-exposed product counts as underperforming.
	ConversionRateFloor float64

	// MaterialRevenueShare is the fraction of total period revenue a
	// product must carry before a cooling trend is worth an alert.
	MaterialRevenueShare float64
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// Load populates AppConfig from environment variables, applying a
// default for every threshold that is not set.
func Load() {
	AppConfig = Config{
		JWTSecret:            os.Getenv("JWT_SECRET"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		RisingThresholdPct:   envFloat("TREND_RISING_THRESHOLD_PCT", 20),
		CoolingThresholdPct:  envFloat("TREND_COOLING_THRESHOLD_PCT", 20),
		ConversionRateFloor:  envFloat("CONVERSION_RATE_FLOOR", 0.01),
		MaterialRevenueShare: envFloat("MATERIAL_REVENUE_SHARE", 0.01),
	}
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
