package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/models"
)

func baseRuleInput(stats map[string]models.ProductStats) RuleInput {
	var total float64
	for _, ps := range stats {
		total += ps.Revenue
	}
	recs, _ := StockRecommendations(stats, models.PeriodMonthly, 30, models.AppSettings{TargetStockDays: 30, LowStockThreshold: 10, MinImpressionsForOpportunity: 100})
	return RuleInput{
		Period:    models.PeriodMonthly,
		Days:      30,
		Stats:     stats,
		StockRecs: recs,
		Loaded: map[models.ReportPeriod]models.LoadedReport{
			models.PeriodWeekly:  {Period: models.PeriodWeekly, Days: 7},
			models.PeriodMonthly: {Period: models.PeriodMonthly, Days: 30},
		},
		Settings: models.AppSettings{TargetStockDays: 30, LowStockThreshold: 10, MinImpressionsForOpportunity: 100},
		Cfg: RuleConfig{
			Trend:                defaultTrendConfig,
			ConversionRateFloor:  0.01,
			MaterialRevenueShare: 0.01,
		},
		TotalRevenue: total,
	}
}

func TestStockCriticalFiresExactlyOnce(t *testing.T) {
	stats := map[string]models.ProductStats{
		"P1": {Code: "P1", Name: "Mug", Quantity: 12, Revenue: 120, AvgUnitPrice: 10, CurrentStock: intPtr(5)},
	}
	in := baseRuleInput(stats)

	notifications, _ := BuildNotifications(in, models.NewInteractionState())

	var stockNotifications []models.Notification
	for _, n := range notifications {
		if n.Key.Category == models.CategoryStock {
			stockNotifications = append(stockNotifications, n)
		}
	}
	require.Len(t, stockNotifications, 1)
	assert.Equal(t, "stock-critical", stockNotifications[0].Key.Rule)
	assert.Equal(t, models.SeverityCritical, stockNotifications[0].Severity)
	assert.Equal(t, "P1", stockNotifications[0].Key.Subject)
	require.NotNil(t, stockNotifications[0].Navigation)
	assert.Equal(t, "stock", stockNotifications[0].Navigation.Tab)
}

func TestStockWarningBelowTwiceThreshold(t *testing.T) {
	stats := map[string]models.ProductStats{
		"P1": {Code: "P1", Name: "Mug", Quantity: 12, Revenue: 120, AvgUnitPrice: 10, CurrentStock: intPtr(15)},
	}
	notifications, _ := BuildNotifications(baseRuleInput(stats), models.NewInteractionState())

	require.Len(t, notifications, 1)
	assert.Equal(t, "stock-warning", notifications[0].Key.Rule)
	assert.Equal(t, models.SeverityHigh, notifications[0].Severity)
}

func TestNoStockRulesWithoutVelocity(t *testing.T) {
	stats := map[string]models.ProductStats{
		"P1": {Code: "P1", Name: "Shelf warmer", Quantity: 0, CurrentStock: intPtr(2)},
	}
	notifications, _ := BuildNotifications(baseRuleInput(stats), models.NewInteractionState())

	for _, n := range notifications {
		assert.NotEqual(t, models.CategoryStock, n.Key.Category)
	}
}

func TestConversionDropRule(t *testing.T) {
	stats := map[string]models.ProductStats{
		"P1": {Code: "P1", Name: "Mug", Quantity: 1, Revenue: 10, AvgUnitPrice: 10, Impressions: 1000, Conversion: 0.001, CurrentStock: intPtr(100)},
	}
	notifications, _ := BuildNotifications(baseRuleInput(stats), models.NewInteractionState())

	found := false
	for _, n := range notifications {
		if n.Key.Rule == "conversion-drop" {
			found = true
			assert.Equal(t, models.SeverityHigh, n.Severity)
			assert.Equal(t, models.CategoryConversion, n.Key.Category)
		}
	}
	assert.True(t, found, "expected a conversion-drop notification")
}

func TestCoolingAndRisingTrendRules(t *testing.T) {
	stats := map[string]models.ProductStats{
		"COOL": {Code: "COOL", Name: "Cooling", Quantity: 10, Revenue: 60, AvgUnitPrice: 6, CurrentStock: intPtr(100)},
		"RISE": {Code: "RISE", Name: "Rising", Quantity: 10, Revenue: 40, AvgUnitPrice: 4, CurrentStock: intPtr(100)},
	}
	in := baseRuleInput(stats)
	in.Long = stats
	in.LongDays = 30
	in.Trends = map[string]models.ProductTrend{
		"COOL": {ProductCode: "COOL", Status: models.TrendCooling, ChangePct: -40},
		"RISE": {ProductCode: "RISE", Status: models.TrendRising, ChangePct: 35},
	}

	notifications, _ := BuildNotifications(in, models.NewInteractionState())

	byRule := map[string]models.Notification{}
	for _, n := range notifications {
		byRule[n.Key.Rule] = n
	}

	cooling, ok := byRule["cooling-trend"]
	require.True(t, ok)
	assert.Equal(t, models.SeverityHigh, cooling.Severity)
	assert.Equal(t, "trends", cooling.Navigation.Tab)
	require.NotNil(t, cooling.ImpactRevenue)
	assert.InDelta(t, 24, *cooling.ImpactRevenue, 1e-9)

	rising, ok := byRule["rising-trend"]
	require.True(t, ok)
	assert.Equal(t, models.SeverityInfo, rising.Severity)
}

func TestDormantProductRule(t *testing.T) {
	long := map[string]models.ProductStats{
		"P1": {Code: "P1", Name: "Mug", Quantity: 50, Revenue: 500},
	}
	in := baseRuleInput(long)
	in.Long = long
	in.LongDays = 30
	in.Short = map[string]models.ProductStats{}
	in.ShortDays = 7

	notifications, _ := BuildNotifications(in, models.NewInteractionState())

	var dormant *models.Notification
	for i := range notifications {
		if notifications[i].Key.Rule == "dormant-product" {
			dormant = &notifications[i]
		}
	}
	require.NotNil(t, dormant)
	// The product carries all period revenue, so the drop is material.
	assert.Equal(t, models.SeverityHigh, dormant.Severity)
	require.NotNil(t, dormant.ImpactRevenue)
	assert.InDelta(t, 500.0/30*7, *dormant.ImpactRevenue, 1e-9)
}

func TestDataFreshnessNotifications(t *testing.T) {
	in := baseRuleInput(map[string]models.ProductStats{})
	in.Loaded = map[models.ReportPeriod]models.LoadedReport{}

	notifications, _ := BuildNotifications(in, models.NewInteractionState())

	require.Len(t, notifications, 2)
	subjects := []string{notifications[0].Key.Subject, notifications[1].Key.Subject}
	assert.ElementsMatch(t, []string{"weekly", "monthly"}, subjects)
	for _, n := range notifications {
		assert.Equal(t, models.CategoryData, n.Key.Category)
		assert.Equal(t, models.SeverityInfo, n.Severity)
	}
}

func TestNotificationOrderingByPriority(t *testing.T) {
	stats := map[string]models.ProductStats{
		"CRIT": {Code: "CRIT", Name: "Critical", Quantity: 12, Revenue: 120, AvgUnitPrice: 10, CurrentStock: intPtr(2)},
		"WARN": {Code: "WARN", Name: "Warning", Quantity: 12, Revenue: 120, AvgUnitPrice: 10, CurrentStock: intPtr(15)},
	}
	in := baseRuleInput(stats)
	in.Loaded = map[models.ReportPeriod]models.LoadedReport{}

	notifications, _ := BuildNotifications(in, models.NewInteractionState())

	require.GreaterOrEqual(t, len(notifications), 3)
	assert.Equal(t, "stock-critical", notifications[0].Key.Rule)
	for i := 1; i < len(notifications); i++ {
		assert.LessOrEqual(t, notifications[i].Priority, notifications[i-1].Priority)
	}
}

func TestNotificationIdentityStableAcrossRuns(t *testing.T) {
	stats := map[string]models.ProductStats{
		"P1": {Code: "P1", Name: "Mug", Quantity: 12, Revenue: 120, AvgUnitPrice: 10, CurrentStock: intPtr(5)},
		"P2": {Code: "P2", Name: "Plate", Quantity: 1, Revenue: 10, AvgUnitPrice: 10, Impressions: 1000, Conversion: 0.001, CurrentStock: intPtr(50)},
	}
	in := baseRuleInput(stats)

	first, _ := BuildNotifications(in, models.NewInteractionState())
	second, _ := BuildNotifications(in, models.NewInteractionState())

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Key, second[i].Key)
	}
}

func TestReadStateSurvivesRecomputation(t *testing.T) {
	stats := map[string]models.ProductStats{
		"P1": {Code: "P1", Name: "Mug", Quantity: 12, Revenue: 120, AvgUnitPrice: 10, CurrentStock: intPtr(5)},
	}
	in := baseRuleInput(stats)

	first, _ := BuildNotifications(in, models.NewInteractionState())
	require.NotEmpty(t, first)
	assert.Equal(t, models.StatusGenerated, first[0].Status)

	interaction := models.NewInteractionState()
	readAt := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	interaction.Read[first[0].Key] = readAt

	second, _ := BuildNotifications(in, interaction)
	require.NotEmpty(t, second)
	assert.Equal(t, first[0].Key, second[0].Key)
	assert.Equal(t, models.StatusRead, second[0].Status)
	require.NotNil(t, second[0].ReadAt)
	assert.True(t, second[0].ReadAt.Equal(readAt))
}

func TestDismissedStateAnnotation(t *testing.T) {
	stats := map[string]models.ProductStats{
		"P1": {Code: "P1", Name: "Mug", Quantity: 12, Revenue: 120, AvgUnitPrice: 10, CurrentStock: intPtr(5)},
	}
	in := baseRuleInput(stats)

	first, _ := BuildNotifications(in, models.NewInteractionState())
	require.NotEmpty(t, first)

	interaction := models.NewInteractionState()
	interaction.Dismissed[first[0].Key] = time.Now()

	second, _ := BuildNotifications(in, interaction)
	assert.Equal(t, models.StatusDismissed, second[0].Status)
}

func TestMissingInputsSkipRuleNotBatch(t *testing.T) {
	// No catalog match: stock rules cannot evaluate for this product,
	// but the batch still completes and reports the skips.
	stats := map[string]models.ProductStats{
		"P1": {Code: "P1", Name: "Mug", Quantity: 12, Revenue: 120, AvgUnitPrice: 10},
	}
	in := baseRuleInput(stats)

	notifications, skipped := BuildNotifications(in, models.NewInteractionState())

	assert.NotNil(t, notifications)
	assert.Contains(t, skipped, "stock-critical/P1")
	assert.Contains(t, skipped, "stock-warning/P1")
}
