package analytics

import (
	"sort"

	"app/models"
)

// Cumulative revenue-share boundaries for the ABC tiers.
const (
	segmentABoundary = 0.80
	segmentBBoundary = 0.95
)

// SegmentByRevenue assigns each product an A/B/C tier by cumulative
// revenue share: walking products from highest to lowest revenue, the
// ones contributing to the first 80% of total revenue are A, the next
// 15% are B, the rest (and every zero-revenue product) are C.
//
// order is the stable pre-sort order; equal-revenue products keep it,
// so repeated runs on identical input assign identical segments. The
// input map is not mutated; a new map is returned.
func SegmentByRevenue(stats map[string]models.ProductStats, order []string) map[string]models.ProductStats {
	ranked := make([]models.ProductStats, 0, len(stats))
	seen := make(map[string]bool, len(stats))
	for _, code := range order {
		if ps, ok := stats[code]; ok && !seen[code] {
			ranked = append(ranked, ps)
			seen[code] = true
		}
	}
	// Codes missing from order (restored snapshots) follow in sorted
	// code order so the ranking stays deterministic.
	rest := make([]string, 0)
	for code := range stats {
		if !seen[code] {
			rest = append(rest, code)
		}
	}
	sort.Strings(rest)
	for _, code := range rest {
		ranked = append(ranked, stats[code])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue > ranked[j].Revenue
	})

	var total float64
	for _, ps := range ranked {
		total += ps.Revenue
	}

	out := make(map[string]models.ProductStats, len(stats))
	var cumulative float64
	for _, ps := range ranked {
		seg := models.SegmentC
		if total > 0 && ps.Revenue > 0 {
			switch share := cumulative / total; {
			case share < segmentABoundary:
				seg = models.SegmentA
			case share < segmentBBoundary:
				seg = models.SegmentB
			}
		}
		cumulative += ps.Revenue
		ps.Segment = &seg
		out[ps.Code] = ps
	}
	return out
}
