package analytics

import (
	"log"
	"time"

	"app/models"
)

// Report is one uploaded sales report occupying a period slot.
// Uploading a new report for the same period replaces the prior one.
type Report struct {
	Period     models.ReportPeriod
	Days       int
	Rows       []models.SaleEventRow
	UploadedAt time.Time
}

// RecomputeInput is everything a recomputation depends on. Recompute is
// a pure function of it: identical input yields an identical result,
// including notification identities and ordering.
type RecomputeInput struct {
	Reports     map[models.ReportPeriod]Report
	Catalog     map[string]models.ProductCatalogEntry
	Baseline    *models.AnalyticsState
	Settings    models.AppSettings
	Interaction models.InteractionState
	Cfg         RuleConfig
	Now         time.Time
}

// Result is the complete output of one recomputation cycle.
// Notifications and recommendations are regenerated wholesale each
// cycle; they are never the source of truth themselves.
type Result struct {
	State                models.AnalyticsState          `json:"state"`
	Trends               map[string]models.ProductTrend `json:"trends"`
	StockRecommendations []models.StockRecommendation   `json:"stock_recommendations"`
	Notifications        []models.Notification          `json:"notifications"`
	Recommendations      []models.Recommendation        `json:"recommendations"`
	SkippedRules         []string                       `json:"skipped_rules"`
}

// BuildState aggregates and segments every loaded report into the
// canonical analytics state. baseline is a previously persisted state
// (after a restart restore, when the original rows are gone): its
// period slots carry over untouched, and an uploaded report replaces
// only its own slot.
func BuildState(reports map[models.ReportPeriod]Report, catalog map[string]models.ProductCatalogEntry, baseline *models.AnalyticsState, now time.Time) models.AnalyticsState {
	state := models.AnalyticsState{
		ProductsByPeriod: make(map[models.ReportPeriod]map[string]models.ProductStats, len(reports)),
		LoadedReports:    make(map[models.ReportPeriod]models.LoadedReport, len(reports)),
		LastUpdatedAt:    now,
	}

	if baseline != nil {
		for period, stats := range baseline.ProductsByPeriod {
			if _, uploaded := reports[period]; uploaded {
				continue
			}
			state.ProductsByPeriod[period] = stats
			if loaded, ok := baseline.LoadedReports[period]; ok {
				state.LoadedReports[period] = loaded
			}
		}
		// Kept until a fresh yearly report rebuilds it below.
		state.MonthlyRevenue = baseline.MonthlyRevenue
	}

	for period, report := range reports {
		stats := Aggregate(report.Rows, catalog)
		stats = SegmentByRevenue(stats, FirstSeenOrder(report.Rows))
		state.ProductsByPeriod[period] = stats

		loaded := models.LoadedReport{
			Period:     period,
			Days:       report.Days,
			RowCount:   len(report.Rows),
			UploadedAt: report.UploadedAt,
		}
		for _, row := range report.Rows {
			if loaded.CoverageStart.IsZero() || row.Date.Before(loaded.CoverageStart) {
				loaded.CoverageStart = row.Date
			}
			if row.Date.After(loaded.CoverageEnd) {
				loaded.CoverageEnd = row.Date
			}
		}
		state.LoadedReports[period] = loaded

		if period == models.PeriodYearly {
			state.MonthlyRevenue = monthlyRevenueIndex(report.Rows)
		}
	}

	return state
}

func monthlyRevenueIndex(rows []models.SaleEventRow) map[string]map[string]float64 {
	index := make(map[string]map[string]float64)
	for _, row := range rows {
		key := MonthKey(row.Date)
		if index[key] == nil {
			index[key] = make(map[string]float64)
		}
		index[key][row.ProductCode] += row.Revenue
	}
	return index
}

// windowPeriods picks the short and long comparison windows from the
// loaded slots: last 7 days (or daily) against the prior month (or
// year). A missing slot leaves the window nil, a comparison gap.
func windowPeriods(loaded map[models.ReportPeriod]models.LoadedReport) (short, long models.ReportPeriod) {
	for _, p := range []models.ReportPeriod{models.PeriodWeekly, models.PeriodDaily} {
		if _, ok := loaded[p]; ok {
			short = p
			break
		}
	}
	for _, p := range []models.ReportPeriod{models.PeriodMonthly, models.PeriodYearly} {
		if _, ok := loaded[p]; ok {
			long = p
			break
		}
	}
	return short, long
}

// primaryPeriod is the period notifications, stock recommendations and
// the summary views are computed over: the longest regular window
// available.
func primaryPeriod(loaded map[models.ReportPeriod]models.LoadedReport) (models.ReportPeriod, bool) {
	for _, p := range []models.ReportPeriod{models.PeriodMonthly, models.PeriodWeekly, models.PeriodDaily, models.PeriodYearly} {
		if _, ok := loaded[p]; ok {
			return p, true
		}
	}
	return "", false
}

// Derive computes trends, stock recommendations, notifications and
// recommendations from an analytics state. It is the second, pure half
// of a recomputation and also runs against a state restored from the
// remote store, where the original rows are no longer available.
func Derive(state models.AnalyticsState, settings models.AppSettings, interaction models.InteractionState, cfg RuleConfig) Result {
	result := Result{
		State:                state,
		Trends:               map[string]models.ProductTrend{},
		StockRecommendations: []models.StockRecommendation{},
		Notifications:        []models.Notification{},
		Recommendations:      []models.Recommendation{},
		SkippedRules:         []string{},
	}

	in := RuleInput{
		Loaded:   state.LoadedReports,
		Settings: settings,
		Cfg:      cfg,
	}

	shortP, longP := windowPeriods(state.LoadedReports)
	if shortP != "" {
		in.Short = state.ProductsByPeriod[shortP]
		in.ShortDays = state.LoadedReports[shortP].Days
	}
	if longP != "" {
		in.Long = state.ProductsByPeriod[longP]
		in.LongDays = state.LoadedReports[longP].Days
	}

	if in.Short != nil && in.Long != nil {
		var yoy map[string]float64
		if monthly, ok := state.LoadedReports[models.PeriodMonthly]; ok && !monthly.CoverageEnd.IsZero() {
			yoy = YoYRevenue(state.MonthlyRevenue, monthly.CoverageEnd)
		}
		result.Trends = Trends(in.Short, in.Long, yoy, cfg.Trend)
	}
	in.Trends = result.Trends

	primary, ok := primaryPeriod(state.LoadedReports)
	if !ok {
		// Nothing uploaded yet: only data-freshness notifications apply.
		in.Stats = map[string]models.ProductStats{}
		result.Notifications, result.SkippedRules = BuildNotifications(in, interaction)
		return result
	}

	in.Period = primary
	in.Days = state.LoadedReports[primary].Days
	in.Stats = state.ProductsByPeriod[primary]
	for _, ps := range in.Stats {
		in.TotalRevenue += ps.Revenue
	}

	stockRecs, err := StockRecommendations(in.Stats, primary, in.Days, settings)
	if err != nil {
		result.SkippedRules = append(result.SkippedRules, "stock-recommendations")
	} else {
		in.StockRecs = stockRecs
		for _, code := range sortedCodes(in.Stats) {
			result.StockRecommendations = append(result.StockRecommendations, stockRecs[code])
		}
	}

	notifications, skipped := BuildNotifications(in, interaction)
	result.Notifications = notifications
	result.SkippedRules = append(result.SkippedRules, skipped...)
	result.Recommendations = BuildRecommendations(in)

	return result
}

// Recompute runs a full cycle: aggregate, segment, compare, derive.
// It never panics outward; a failure inside a cycle is logged and the
// partial result carries a marker in SkippedRules.
func Recompute(in RecomputeInput) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recompute: recovered from panic: %v", r)
			result.SkippedRules = append(result.SkippedRules, "recompute/panic")
			if result.Notifications == nil {
				result.Notifications = []models.Notification{}
			}
		}
	}()

	state := BuildState(in.Reports, in.Catalog, in.Baseline, in.Now)
	return Derive(state, in.Settings, in.Interaction, in.Cfg)
}
