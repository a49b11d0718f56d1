package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/models"
)

var defaultTrendConfig = TrendConfig{RisingPct: 20, CoolingPct: 20}

func TestPctChange(t *testing.T) {
	cases := []struct {
		name       string
		prev, cur  float64
		wantChange float64
	}{
		{"both zero", 0, 0, 0},
		{"from zero", 0, 100, 100},
		{"drop", 100, 80, -20},
		{"growth", 50, 100, 100},
		{"to zero", 100, 0, -100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.wantChange, PctChange(tc.prev, tc.cur), 1e-9)
		})
	}
}

func TestClassifyTrend(t *testing.T) {
	assert.Equal(t, models.TrendRising, ClassifyTrend(21, defaultTrendConfig))
	assert.Equal(t, models.TrendStable, ClassifyTrend(20, defaultTrendConfig))
	assert.Equal(t, models.TrendStable, ClassifyTrend(0, defaultTrendConfig))
	assert.Equal(t, models.TrendStable, ClassifyTrend(-19.9, defaultTrendConfig))
	assert.Equal(t, models.TrendCooling, ClassifyTrend(-20, defaultTrendConfig))
	assert.Equal(t, models.TrendCooling, ClassifyTrend(-55, defaultTrendConfig))
}

func TestClassifyTrendCustomThresholds(t *testing.T) {
	cfg := TrendConfig{RisingPct: 5, CoolingPct: 50}
	assert.Equal(t, models.TrendRising, ClassifyTrend(6, cfg))
	assert.Equal(t, models.TrendStable, ClassifyTrend(-30, cfg))
	assert.Equal(t, models.TrendCooling, ClassifyTrend(-50, cfg))
}

func TestTrendsComparesSharedProductsOnly(t *testing.T) {
	short := map[string]models.ProductStats{
		"P1": {Code: "P1", Revenue: 80},
		"P2": {Code: "P2", Revenue: 10},
	}
	long := map[string]models.ProductStats{
		"P1": {Code: "P1", Revenue: 100},
		"P3": {Code: "P3", Revenue: 50},
	}

	trends := Trends(short, long, nil, defaultTrendConfig)

	require.Contains(t, trends, "P1")
	assert.InDelta(t, -20, trends["P1"].ChangePct, 1e-9)
	assert.Equal(t, models.TrendCooling, trends["P1"].Status)
	assert.Nil(t, trends["P1"].YoYChangePct)

	// P2 has no prior snapshot and P3 no current one: a comparison gap
	// yields no trend at all, never a fabricated zero.
	assert.NotContains(t, trends, "P2")
	assert.NotContains(t, trends, "P3")
}

func TestTrendsYoY(t *testing.T) {
	short := map[string]models.ProductStats{"P1": {Code: "P1", Revenue: 150}, "P2": {Code: "P2", Revenue: 10}}
	long := map[string]models.ProductStats{"P1": {Code: "P1", Revenue: 140}, "P2": {Code: "P2", Revenue: 12}}
	yoy := map[string]float64{"P1": 100}

	trends := Trends(short, long, yoy, defaultTrendConfig)

	require.NotNil(t, trends["P1"].YoYChangePct)
	assert.InDelta(t, 50, *trends["P1"].YoYChangePct, 1e-9)
	// Prior-year month is covered but the product was inactive then.
	assert.Nil(t, trends["P2"].YoYChangePct)
}

func TestYoYRevenue(t *testing.T) {
	index := map[string]map[string]float64{
		"2025-08": {"P1": 100},
	}
	ref := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	month := YoYRevenue(index, ref)
	require.NotNil(t, month)
	assert.InDelta(t, 100, month["P1"], 1e-9)

	// No data for the matching calendar month: a gap, not zeros.
	assert.Nil(t, YoYRevenue(index, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, YoYRevenue(nil, ref))
}
