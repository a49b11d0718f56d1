package analytics

import (
	"errors"
	"fmt"
	"sort"

	"app/models"
)

// RuleConfig bundles the tunable thresholds the notification and
// recommendation rules evaluate against.
type RuleConfig struct {
	Trend                TrendConfig
	ConversionRateFloor  float64
	MaterialRevenueShare float64
}

// RuleInput is the immutable snapshot a rule batch evaluates over.
// Stats is the primary window (the longest loaded period), Short/Long
// are the two trend windows. A nil field is a data gap: rules that need
// it are skipped for the batch, never abort it.
type RuleInput struct {
	Period       models.ReportPeriod
	Days         int
	Stats        map[string]models.ProductStats
	Short        map[string]models.ProductStats
	ShortDays    int
	Long         map[string]models.ProductStats
	LongDays     int
	Trends       map[string]models.ProductTrend
	StockRecs    map[string]models.StockRecommendation
	Loaded       map[models.ReportPeriod]models.LoadedReport
	Settings     models.AppSettings
	Cfg          RuleConfig
	TotalRevenue float64
}

var errMissingInput = errors.New("rule input unavailable")

// severityRank orders severities for priority scoring and tie-breaks.
func severityRank(s models.Severity) int {
	switch s {
	case models.SeverityCritical:
		return 3
	case models.SeverityHigh:
		return 2
	default:
		return 1
	}
}

// priorityScore is the deterministic ordering value: severity dominates,
// impact normalized against total period revenue breaks within a tier.
func priorityScore(severity models.Severity, impact *float64, totalRevenue float64) float64 {
	score := float64(severityRank(severity)) * 100
	if impact != nil && totalRevenue > 0 {
		norm := *impact / totalRevenue
		if norm > 1 {
			norm = 1
		}
		if norm > 0 {
			score += norm * 100
		}
	}
	return score
}

type productRule struct {
	name string
	eval func(in RuleInput, code string) (*models.Notification, error)
}

// The per-product rule catalog. Each rule is a pure predicate over one
// product's snapshot and emits zero or one notification.
var productRules = []productRule{
	{name: "stock-critical", eval: evalStockCritical},
	{name: "stock-warning", eval: evalStockWarning},
	{name: "cooling-trend", eval: evalCoolingTrend},
	{name: "rising-trend", eval: evalRisingTrend},
	{name: "conversion-drop", eval: evalConversionDrop},
	{name: "dormant-product", eval: evalDormantProduct},
}

// BuildNotifications runs the rule catalog over the snapshot, scores
// and orders the results, and annotates them with the persisted
// read/dismiss state. It always returns a slice; rules that could not
// evaluate are reported by identifier in the second return value.
func BuildNotifications(in RuleInput, interaction models.InteractionState) ([]models.Notification, []string) {
	notifications := make([]models.Notification, 0)
	skipped := make([]string, 0)

	codes := sortedCodes(in.Stats)
	for _, rule := range productRules {
		for _, code := range codes {
			n, err := rule.eval(in, code)
			if err != nil {
				// Missing inputs never abort the batch; the identifier
				// is kept for diagnostics.
				skipped = append(skipped, fmt.Sprintf("%s/%s", rule.name, code))
				continue
			}
			if n != nil {
				notifications = append(notifications, *n)
			}
		}
	}

	notifications = append(notifications, dataFreshness(in)...)

	for i := range notifications {
		notifications[i].Priority = priorityScore(notifications[i].Severity, notifications[i].ImpactRevenue, in.TotalRevenue)
		notifications[i].Status = models.StatusGenerated
	}

	// Highest priority first; ties by severity, then stable discovery
	// order, so identical input always yields identical ordering.
	sort.SliceStable(notifications, func(i, j int) bool {
		if notifications[i].Priority != notifications[j].Priority {
			return notifications[i].Priority > notifications[j].Priority
		}
		return severityRank(notifications[i].Severity) > severityRank(notifications[j].Severity)
	})

	annotate(notifications, interaction)
	return notifications, skipped
}

// annotate re-applies persisted read/dismissed state to a freshly
// generated batch by matching content identities.
func annotate(notifications []models.Notification, interaction models.InteractionState) {
	for i := range notifications {
		key := notifications[i].Key
		if at, ok := interaction.Dismissed[key]; ok {
			ts := at
			notifications[i].Status = models.StatusDismissed
			notifications[i].ReadAt = &ts
			continue
		}
		if at, ok := interaction.Read[key]; ok {
			ts := at
			notifications[i].Status = models.StatusRead
			notifications[i].ReadAt = &ts
		}
	}
}

func sortedCodes(stats map[string]models.ProductStats) []string {
	codes := make([]string, 0, len(stats))
	for code := range stats {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// --- Rules ---

func evalStockCritical(in RuleInput, code string) (*models.Notification, error) {
	ps := in.Stats[code]
	if ps.CurrentStock == nil {
		return nil, errMissingInput
	}
	rec, ok := in.StockRecs[code]
	if !ok {
		return nil, errMissingInput
	}
	if *ps.CurrentStock >= in.Settings.LowStockThreshold || rec.DailyVelocity <= 0 {
		return nil, nil
	}

	impact := rec.DailyVelocity * ps.AvgUnitPrice * 7
	return &models.Notification{
		Key:           models.NotificationKey{Category: models.CategoryStock, Subject: code, Rule: "stock-critical"},
		Severity:      models.SeverityCritical,
		Title:         fmt.Sprintf("%s is almost out of stock", ps.Name),
		Description:   fmt.Sprintf("Only %d left while selling %.1f/day. A stock-out costs roughly %.0f %s per week.", *ps.CurrentStock, rec.DailyVelocity, impact, in.Settings.Currency),
		ImpactRevenue: &impact,
		Navigation: &models.NavigationTarget{
			Tab:                 "stock",
			AnalysisType:        "low-stock",
			Filters:             map[string]string{"stock": "critical"},
			RelatedProductCodes: []string{code},
			Segment:             ps.Segment,
		},
	}, nil
}

func evalStockWarning(in RuleInput, code string) (*models.Notification, error) {
	ps := in.Stats[code]
	if ps.CurrentStock == nil {
		return nil, errMissingInput
	}
	rec, ok := in.StockRecs[code]
	if !ok {
		return nil, errMissingInput
	}
	stock := *ps.CurrentStock
	// The critical rule already covers stock below the threshold.
	if stock < in.Settings.LowStockThreshold || stock >= 2*in.Settings.LowStockThreshold || rec.DailyVelocity <= 0 {
		return nil, nil
	}

	impact := rec.DailyVelocity * ps.AvgUnitPrice * 3
	return &models.Notification{
		Key:           models.NotificationKey{Category: models.CategoryStock, Subject: code, Rule: "stock-warning"},
		Severity:      models.SeverityHigh,
		Title:         fmt.Sprintf("%s stock is running low", ps.Name),
		Description:   fmt.Sprintf("%d left, under twice your low-stock threshold of %d. Consider reordering soon.", stock, in.Settings.LowStockThreshold),
		ImpactRevenue: &impact,
		Navigation: &models.NavigationTarget{
			Tab:                 "stock",
			AnalysisType:        "low-stock",
			Filters:             map[string]string{"stock": "warning"},
			RelatedProductCodes: []string{code},
			Segment:             ps.Segment,
		},
	}, nil
}

func evalCoolingTrend(in RuleInput, code string) (*models.Notification, error) {
	if in.Trends == nil {
		return nil, errMissingInput
	}
	trend, ok := in.Trends[code]
	if !ok {
		return nil, errMissingInput
	}
	if trend.Status != models.TrendCooling {
		return nil, nil
	}
	ps := in.Stats[code]
	prev, ok := in.Long[code]
	if !ok {
		return nil, errMissingInput
	}
	// Only a material share of revenue is worth interrupting for.
	if in.TotalRevenue <= 0 || prev.Revenue < in.Cfg.MaterialRevenueShare*in.TotalRevenue {
		return nil, nil
	}

	impact := prev.Revenue * -trend.ChangePct / 100
	return &models.Notification{
		Key:           models.NotificationKey{Category: models.CategoryTrend, Subject: code, Rule: "cooling-trend"},
		Severity:      models.SeverityHigh,
		Title:         fmt.Sprintf("%s is cooling down", ps.Name),
		Description:   fmt.Sprintf("Revenue dropped %.0f%% against the longer window. Review pricing and visibility.", -trend.ChangePct),
		ImpactRevenue: &impact,
		Navigation: &models.NavigationTarget{
			Tab:                 "trends",
			AnalysisType:        "cooling",
			Filters:             map[string]string{"trend": "cooling"},
			RelatedProductCodes: []string{code},
			Segment:             ps.Segment,
		},
	}, nil
}

func evalRisingTrend(in RuleInput, code string) (*models.Notification, error) {
	if in.Trends == nil {
		return nil, errMissingInput
	}
	trend, ok := in.Trends[code]
	if !ok {
		return nil, errMissingInput
	}
	if trend.Status != models.TrendRising {
		return nil, nil
	}
	ps := in.Stats[code]

	var impact *float64
	if prev, ok := in.Long[code]; ok {
		potential := prev.Revenue * trend.ChangePct / 100
		impact = &potential
	}
	return &models.Notification{
		Key:           models.NotificationKey{Category: models.CategoryTrend, Subject: code, Rule: "rising-trend"},
		Severity:      models.SeverityInfo,
		Title:         fmt.Sprintf("%s is taking off", ps.Name),
		Description:   fmt.Sprintf("Revenue is up %.0f%% against the longer window. Make sure stock and campaigns keep up.", trend.ChangePct),
		ImpactRevenue: impact,
		Navigation: &models.NavigationTarget{
			Tab:                 "trends",
			AnalysisType:        "rising",
			Filters:             map[string]string{"trend": "rising"},
			RelatedProductCodes: []string{code},
			Segment:             ps.Segment,
		},
	}, nil
}

func evalConversionDrop(in RuleInput, code string) (*models.Notification, error) {
	ps := in.Stats[code]
	if in.Settings.MinImpressionsForOpportunity <= 0 {
		return nil, errMissingInput
	}
	if ps.Impressions < in.Settings.MinImpressionsForOpportunity || ps.Conversion >= in.Cfg.ConversionRateFloor {
		return nil, nil
	}

	var impact *float64
	if ps.AvgUnitPrice > 0 {
		missed := (in.Cfg.ConversionRateFloor*float64(ps.Impressions) - float64(ps.Quantity)) * ps.AvgUnitPrice
		if missed > 0 {
			impact = &missed
		}
	}
	return &models.Notification{
		Key:           models.NotificationKey{Category: models.CategoryConversion, Subject: code, Rule: "conversion-drop"},
		Severity:      models.SeverityHigh,
		Title:         fmt.Sprintf("%s gets views but few buyers", ps.Name),
		Description:   fmt.Sprintf("%d impressions converted at %.2f%%. Listing quality or price may be the blocker.", ps.Impressions, ps.Conversion*100),
		ImpactRevenue: impact,
		Navigation: &models.NavigationTarget{
			Tab:                 "conversion",
			AnalysisType:        "underperforming",
			RelatedProductCodes: []string{code},
			Segment:             ps.Segment,
		},
	}, nil
}

func evalDormantProduct(in RuleInput, code string) (*models.Notification, error) {
	if in.Short == nil || in.Long == nil {
		return nil, errMissingInput
	}
	prev, ok := in.Long[code]
	if !ok || prev.Quantity <= 0 {
		return nil, nil
	}
	if cur, found := in.Short[code]; found && cur.Quantity > 0 {
		return nil, nil
	}

	severity := models.SeverityInfo
	if in.TotalRevenue > 0 && prev.Revenue >= in.Cfg.MaterialRevenueShare*in.TotalRevenue {
		severity = models.SeverityHigh
	}
	var impact *float64
	if in.LongDays > 0 && in.ShortDays > 0 {
		expected := prev.Revenue / float64(in.LongDays) * float64(in.ShortDays)
		impact = &expected
	}
	ps := in.Stats[code]
	return &models.Notification{
		Key:           models.NotificationKey{Category: models.CategorySales, Subject: code, Rule: "dormant-product"},
		Severity:      severity,
		Title:         fmt.Sprintf("%s stopped selling", ps.Name),
		Description:   "No sales in the recent window despite earlier activity. Check stock, price and listing status.",
		ImpactRevenue: impact,
		Navigation: &models.NavigationTarget{
			Tab:                 "sales",
			AnalysisType:        "dormant",
			RelatedProductCodes: []string{code},
			Segment:             ps.Segment,
		},
	}, nil
}

// requiredPeriods are the slots the trend windows depend on.
var requiredPeriods = []models.ReportPeriod{models.PeriodWeekly, models.PeriodMonthly}

func dataFreshness(in RuleInput) []models.Notification {
	out := make([]models.Notification, 0)
	for _, period := range requiredPeriods {
		if _, ok := in.Loaded[period]; ok {
			continue
		}
		out = append(out, models.Notification{
			Key:         models.NotificationKey{Category: models.CategoryData, Subject: string(period), Rule: "data-freshness"},
			Severity:    models.SeverityInfo,
			Title:       fmt.Sprintf("No %s report uploaded", period),
			Description: fmt.Sprintf("Upload a %s sales report to unlock trend and comparison insights.", period),
			Navigation:  &models.NavigationTarget{Tab: "upload"},
		})
	}
	return out
}
