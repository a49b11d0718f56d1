package analytics

import (
	"time"

	"app/models"
)

// TrendConfig carries the classification thresholds, in percent.
// Defaults come from config; they are never hard-coded in the rules.
type TrendConfig struct {
	RisingPct  float64
	CoolingPct float64
}

// PctChange returns the percentage change from prev to cur. A zero
// previous value yields 100 when the current value is positive and 0
// otherwise, so no caller ever sees a division by zero.
func PctChange(prev, cur float64) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return (cur - prev) / prev * 100
}

// ClassifyTrend maps a percentage change onto a trend status. A drop
// of exactly the cooling threshold still counts as cooling.
func ClassifyTrend(changePct float64, cfg TrendConfig) models.TrendStatus {
	switch {
	case changePct > cfg.RisingPct:
		return models.TrendRising
	case changePct <= -cfg.CoolingPct:
		return models.TrendCooling
	default:
		return models.TrendStable
	}
}

// MonthKey formats a calendar month for the monthly revenue index.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Trends compares the short window against the long window for every
// product present in both, producing a verdict per product. yoy maps a
// product code to its revenue in the same calendar month one year back;
// a nil map or missing code leaves YoYChangePct nil (data gap, not
// zero). Products present in only one window yield no trend: a missing
// snapshot is a comparison gap, handled by the dormancy rules instead.
func Trends(short, long map[string]models.ProductStats, yoy map[string]float64, cfg TrendConfig) map[string]models.ProductTrend {
	trends := make(map[string]models.ProductTrend)
	for code, cur := range short {
		prev, ok := long[code]
		if !ok {
			continue
		}
		change := PctChange(prev.Revenue, cur.Revenue)
		trend := models.ProductTrend{
			ProductCode: code,
			Status:      ClassifyTrend(change, cfg),
			ChangePct:   change,
		}
		if yoy != nil {
			if prevYear, found := yoy[code]; found {
				yoyChange := PctChange(prevYear, cur.Revenue)
				trend.YoYChangePct = &yoyChange
			}
		}
		trends[code] = trend
	}
	return trends
}

// YoYRevenue extracts per-product revenue for the calendar month one
// year before refMonth from the monthly revenue index. It returns nil
// when the index has no data for that month at all, so callers can tell
// "month not covered" apart from "product inactive that month".
func YoYRevenue(monthlyRevenue map[string]map[string]float64, refMonth time.Time) map[string]float64 {
	if monthlyRevenue == nil {
		return nil
	}
	key := MonthKey(refMonth.AddDate(-1, 0, 0))
	month, ok := monthlyRevenue[key]
	if !ok || len(month) == 0 {
		return nil
	}
	return month
}
