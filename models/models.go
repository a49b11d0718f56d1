package models

import "time"

// --- Report Periods ---

// ReportPeriod is the granularity one uploaded sales report covers.
type ReportPeriod string

const (
	PeriodDaily   ReportPeriod = "daily"
	PeriodWeekly  ReportPeriod = "weekly"
	PeriodMonthly ReportPeriod = "monthly"
	PeriodYearly  ReportPeriod = "yearly"
)

// PeriodForDays maps a report's day-count window onto a period slot.
func PeriodForDays(days int) ReportPeriod {
	switch {
	case days <= 1:
		return PeriodDaily
	case days <= 7:
		return PeriodWeekly
	case days <= 30:
		return PeriodMonthly
	default:
		return PeriodYearly
	}
}

// --- Core Models ---

// SaleEventRow is one observed day's metrics for one product.
// Immutable once ingested; the unit of aggregation.
type SaleEventRow struct {
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	Category    string    `json:"category,omitempty"`
	Date        time.Time `json:"date"`
	Quantity    int       `json:"quantity"`
	Revenue     float64   `json:"revenue"`
	Impressions int       `json:"impressions"`
	AddToCart   int       `json:"add_to_cart"`
	Stock       *int      `json:"stock,omitempty"`
}

// ProductCatalogEntry holds the static attributes of one product.
type ProductCatalogEntry struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Category     string  `json:"category,omitempty"`
	URL          string  `json:"url,omitempty"`
	UnitCost     float64 `json:"unit_cost"`
	CurrentStock int     `json:"current_stock"`
}

// Segment is an ABC revenue-contribution tier.
type Segment string

const (
	SegmentA Segment = "A"
	SegmentB Segment = "B"
	SegmentC Segment = "C"
)

// ProductStats is the aggregation of all sale rows for one product
// within one period. CurrentStock is nil when the catalog has no match;
// Segment is nil until segmentation has run.
type ProductStats struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Category     string   `json:"category,omitempty"`
	URL          string   `json:"url,omitempty"`
	Quantity     int      `json:"quantity"`
	Revenue      float64  `json:"revenue"`
	Impressions  int      `json:"impressions"`
	AddToCart    int      `json:"add_to_cart"`
	Conversion   float64  `json:"conversion"`
	AvgUnitPrice float64  `json:"avg_unit_price"`
	CurrentStock *int     `json:"current_stock,omitempty"`
	Segment      *Segment `json:"segment,omitempty"`
}

// TrendStatus classifies a period-over-period change.
type TrendStatus string

const (
	TrendRising  TrendStatus = "rising"
	TrendCooling TrendStatus = "cooling"
	TrendStable  TrendStatus = "stable"
)

// ProductTrend compares one product's stats across two periods.
// YoYChangePct is nil when no prior-year data exists for the same
// calendar month; consumers must render that as "not applicable".
type ProductTrend struct {
	ProductCode  string      `json:"product_code"`
	Status       TrendStatus `json:"status"`
	ChangePct    float64     `json:"change_pct"`
	YoYChangePct *float64    `json:"yoy_change_pct,omitempty"`
}

// StockRecommendation is the suggested reorder for one product,
// carrying the inputs that produced it.
type StockRecommendation struct {
	ProductCode      string       `json:"product_code"`
	Period           ReportPeriod `json:"period"`
	DailyVelocity    float64      `json:"daily_velocity"`
	TargetStockDays  int          `json:"target_stock_days"`
	CurrentStock     int          `json:"current_stock"`
	CoverageDays     *float64     `json:"coverage_days,omitempty"`
	RecommendedOrder int          `json:"recommended_order"`
}

// --- Analytics State ---

// LoadedReport records which report currently occupies a period slot.
type LoadedReport struct {
	Period        ReportPeriod `json:"period"`
	Days          int          `json:"days"`
	RowCount      int          `json:"row_count"`
	CoverageStart time.Time    `json:"coverage_start"`
	CoverageEnd   time.Time    `json:"coverage_end"`
	UploadedAt    time.Time    `json:"uploaded_at"`
}

// AnalyticsState is the canonical recomputation output. It is
// serialized as-is to the remote store and must round-trip to an
// identical state without re-parsing the original uploads, which is why
// the per-calendar-month revenue index (feeding year-over-year
// comparisons) is part of it rather than recomputed from raw rows.
type AnalyticsState struct {
	ProductsByPeriod map[ReportPeriod]map[string]ProductStats `json:"products_by_period"`
	LoadedReports    map[ReportPeriod]LoadedReport            `json:"loaded_reports"`
	// MonthlyRevenue maps "YYYY-MM" to per-product revenue observed in
	// that calendar month, sourced from the yearly report's rows.
	MonthlyRevenue map[string]map[string]float64 `json:"monthly_revenue,omitempty"`
	LastUpdatedAt  time.Time                     `json:"last_updated_at"`
}
