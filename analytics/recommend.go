package analytics

import (
	"fmt"
	"sort"

	"app/models"
)

func urgencyRank(u models.Urgency) int {
	switch u {
	case models.UrgencyHigh:
		return 3
	case models.UrgencyMedium:
		return 2
	default:
		return 1
	}
}

// BuildRecommendations evaluates the tactical rule set per product,
// independent of the notification stream. Each rule emits zero or one
// typed recommendation; rules with missing inputs are skipped.
func BuildRecommendations(in RuleInput) []models.Recommendation {
	recs := make([]models.Recommendation, 0)
	for _, code := range sortedCodes(in.Stats) {
		ps := in.Stats[code]

		if rec, ok := in.StockRecs[code]; ok && rec.RecommendedOrder > 0 {
			urgency := models.UrgencyMedium
			if rec.CoverageDays != nil && *rec.CoverageDays < float64(in.Settings.TargetStockDays)/3 {
				urgency = models.UrgencyHigh
			}
			recs = append(recs, models.Recommendation{
				ProductCode:     code,
				ProductName:     ps.Name,
				Type:            models.RecStockReorder,
				Urgency:         urgency,
				Title:           fmt.Sprintf("Reorder %d units of %s", rec.RecommendedOrder, ps.Name),
				Detail:          fmt.Sprintf("Selling %.1f/day with %d on hand; %d units cover your %d-day target.", rec.DailyVelocity, rec.CurrentStock, rec.RecommendedOrder, in.Settings.TargetStockDays),
				EstimatedImpact: rec.DailyVelocity * ps.AvgUnitPrice * float64(in.Settings.TargetStockDays),
			})
		}

		if trend, ok := in.Trends[code]; ok && trend.Status == models.TrendCooling && ps.Conversion < in.Cfg.ConversionRateFloor && ps.Impressions > 0 {
			recs = append(recs, models.Recommendation{
				ProductCode:     code,
				ProductName:     ps.Name,
				Type:            models.RecPriceAdjust,
				Urgency:         models.UrgencyMedium,
				Title:           fmt.Sprintf("Review the price of %s", ps.Name),
				Detail:          fmt.Sprintf("Demand is cooling (%.0f%%) and conversion sits at %.2f%%. A price test may recover volume.", trend.ChangePct, ps.Conversion*100),
				EstimatedImpact: ps.Revenue * -trend.ChangePct / 100,
			})
		}

		if in.Settings.MinImpressionsForOpportunity > 0 &&
			ps.Impressions >= in.Settings.MinImpressionsForOpportunity &&
			ps.AddToCart > 0 && ps.Quantity == 0 {
			recs = append(recs, models.Recommendation{
				ProductCode:     code,
				ProductName:     ps.Name,
				Type:            models.RecImagery,
				Urgency:         models.UrgencyLow,
				Title:           fmt.Sprintf("Refresh the listing of %s", ps.Name),
				Detail:          fmt.Sprintf("%d impressions and %d add-to-carts but no sales. Better imagery or copy could close the gap.", ps.Impressions, ps.AddToCart),
				EstimatedImpact: float64(ps.AddToCart) * ps.AvgUnitPrice,
			})
		}

		if trend, ok := in.Trends[code]; ok && trend.Status == models.TrendRising && ps.Segment != nil && *ps.Segment == models.SegmentA {
			recs = append(recs, models.Recommendation{
				ProductCode:     code,
				ProductName:     ps.Name,
				Type:            models.RecCampaign,
				Urgency:         models.UrgencyHigh,
				Title:           fmt.Sprintf("Push a campaign for %s", ps.Name),
				Detail:          fmt.Sprintf("A top seller rising %.0f%%. Extra ad spend compounds while the momentum lasts.", trend.ChangePct),
				EstimatedImpact: ps.Revenue * trend.ChangePct / 100,
			})
		}

		if ps.Quantity == 0 && ps.CurrentStock != nil && *ps.CurrentStock > 0 && ps.Impressions >= in.Settings.MinImpressionsForOpportunity && in.Settings.MinImpressionsForOpportunity > 0 && ps.AddToCart == 0 {
			recs = append(recs, models.Recommendation{
				ProductCode:     code,
				ProductName:     ps.Name,
				Type:            models.RecArchive,
				Urgency:         models.UrgencyLow,
				Title:           fmt.Sprintf("Consider archiving %s", ps.Name),
				Detail:          fmt.Sprintf("%d units tie up capital with no demand signal this period.", *ps.CurrentStock),
				EstimatedImpact: 0,
			})
		}

		if ps.Segment != nil && *ps.Segment == models.SegmentC && ps.Quantity > 0 && ps.CurrentStock != nil && *ps.CurrentStock > 0 {
			recs = append(recs, models.Recommendation{
				ProductCode:     code,
				ProductName:     ps.Name,
				Type:            models.RecGiftBundle,
				Urgency:         models.UrgencyLow,
				Title:           fmt.Sprintf("Bundle %s with a best seller", ps.Name),
				Detail:          "A slow mover with stock on hand. Bundling it as a gift item clears inventory without a markdown.",
				EstimatedImpact: float64(*ps.CurrentStock) * ps.AvgUnitPrice,
			})
		}
	}
	return recs
}

// TopRecommendations selects the n highest-value recommendations across
// all products, by urgency tier then estimated impact. Pure selection,
// no side effects; the input slice is left untouched.
func TopRecommendations(recs []models.Recommendation, n int) []models.Recommendation {
	if n <= 0 {
		return []models.Recommendation{}
	}
	out := make([]models.Recommendation, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		if urgencyRank(out[i].Urgency) != urgencyRank(out[j].Urgency) {
			return urgencyRank(out[i].Urgency) > urgencyRank(out[j].Urgency)
		}
		return out[i].EstimatedImpact > out[j].EstimatedImpact
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
