package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/models"
)

func intPtr(v int) *int { return &v }

func TestComputeStockRecommendationScenario(t *testing.T) {
	// 30-day period, 9 sold, 2 on hand, 30-day coverage target.
	ps := models.ProductStats{Code: "P1", Quantity: 9, CurrentStock: intPtr(2)}
	settings := models.AppSettings{TargetStockDays: 30}

	rec, err := ComputeStockRecommendation(ps, models.PeriodMonthly, 30, settings)
	require.NoError(t, err)

	assert.InDelta(t, 0.3, rec.DailyVelocity, 1e-9)
	assert.Equal(t, 7, rec.RecommendedOrder)
	assert.Equal(t, 2, rec.CurrentStock)
	require.NotNil(t, rec.CoverageDays)
	assert.InDelta(t, 2.0/0.3, *rec.CoverageDays, 1e-9)
}

func TestComputeStockRecommendationZeroSales(t *testing.T) {
	settings := models.AppSettings{TargetStockDays: 30}

	// No demand signal means no reorder, whatever the stock says.
	for _, stock := range []*int{nil, intPtr(0), intPtr(-3), intPtr(500)} {
		ps := models.ProductStats{Code: "P1", Quantity: 0, CurrentStock: stock}
		rec, err := ComputeStockRecommendation(ps, models.PeriodMonthly, 30, settings)
		require.NoError(t, err)
		assert.Equal(t, 0, rec.RecommendedOrder)
	}
}

func TestComputeStockRecommendationNilStockAssumesNone(t *testing.T) {
	ps := models.ProductStats{Code: "P1", Quantity: 30}
	settings := models.AppSettings{TargetStockDays: 10}

	rec, err := ComputeStockRecommendation(ps, models.PeriodMonthly, 30, settings)
	require.NoError(t, err)

	// velocity 1/day, target 10, no stock visibility: order the full target.
	assert.Equal(t, 10, rec.RecommendedOrder)
	assert.Equal(t, 0, rec.CurrentStock)
}

func TestComputeStockRecommendationOverstocked(t *testing.T) {
	ps := models.ProductStats{Code: "P1", Quantity: 30, CurrentStock: intPtr(100)}
	settings := models.AppSettings{TargetStockDays: 10}

	rec, err := ComputeStockRecommendation(ps, models.PeriodMonthly, 30, settings)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.RecommendedOrder)
}

func TestComputeStockRecommendationRejectsBadDays(t *testing.T) {
	ps := models.ProductStats{Code: "P1", Quantity: 5}
	settings := models.AppSettings{TargetStockDays: 30}

	_, err := ComputeStockRecommendation(ps, models.PeriodDaily, 0, settings)
	assert.ErrorIs(t, err, ErrInvalidPeriodDays)

	_, err = ComputeStockRecommendation(ps, models.PeriodDaily, -7, settings)
	assert.ErrorIs(t, err, ErrInvalidPeriodDays)

	_, err = StockRecommendations(nil, models.PeriodDaily, 0, settings)
	assert.ErrorIs(t, err, ErrInvalidPeriodDays)
}
