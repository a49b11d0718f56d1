package analytics

import (
	"errors"
	"math"

	"app/models"
)

// ErrInvalidPeriodDays rejects stock computations over a non-positive
// day window before any division happens.
var ErrInvalidPeriodDays = errors.New("period days must be positive")

// ComputeStockRecommendation turns one product's period consumption
// into a reorder suggestion. A nil current stock is treated as zero on
// hand: no stock visibility biases toward reordering rather than
// assuming inventory that may not exist. Products with no sales in the
// period always recommend zero, whatever their stock level, so dead
// inventory never triggers a restock.
func ComputeStockRecommendation(ps models.ProductStats, period models.ReportPeriod, days int, settings models.AppSettings) (models.StockRecommendation, error) {
	if days <= 0 {
		return models.StockRecommendation{}, ErrInvalidPeriodDays
	}

	currentStock := 0
	if ps.CurrentStock != nil {
		currentStock = *ps.CurrentStock
	}

	rec := models.StockRecommendation{
		ProductCode:     ps.Code,
		Period:          period,
		TargetStockDays: settings.TargetStockDays,
		CurrentStock:    currentStock,
	}

	if ps.Quantity <= 0 {
		return rec, nil
	}

	rec.DailyVelocity = float64(ps.Quantity) / float64(days)
	if rec.DailyVelocity > 0 {
		coverage := float64(currentStock) / rec.DailyVelocity
		rec.CoverageDays = &coverage
	}

	targetStock := rec.DailyVelocity * float64(settings.TargetStockDays)
	rec.RecommendedOrder = int(math.Max(0, math.Ceil(targetStock-float64(currentStock))))

	return rec, nil
}

// StockRecommendations computes recommendations for every product of a
// period, keyed by product code.
func StockRecommendations(stats map[string]models.ProductStats, period models.ReportPeriod, days int, settings models.AppSettings) (map[string]models.StockRecommendation, error) {
	if days <= 0 {
		return nil, ErrInvalidPeriodDays
	}
	recs := make(map[string]models.StockRecommendation, len(stats))
	for code, ps := range stats {
		rec, err := ComputeStockRecommendation(ps, period, days, settings)
		if err != nil {
			return nil, err
		}
		recs[code] = rec
	}
	return recs, nil
}
