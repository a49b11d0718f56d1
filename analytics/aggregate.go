package analytics

import "app/models"

// Aggregate folds a period's sale rows into per-product statistics.
// Rows are grouped by product code; quantity, revenue, impressions and
// add-to-cart are summed, and the derived rates are computed once per
// group after summation so low-volume days carry no extra weight.
//
// A row with no catalog match still produces an entry (identity fields
// come from the row, CurrentStock stays nil). A catalog product with no
// rows produces no entry at all: absence means "no activity this
// period", not zero.
func Aggregate(rows []models.SaleEventRow, catalog map[string]models.ProductCatalogEntry) map[string]models.ProductStats {
	stats := make(map[string]models.ProductStats, len(rows))

	for _, row := range rows {
		ps, ok := stats[row.ProductCode]
		if !ok {
			ps = models.ProductStats{
				Code: row.ProductCode,
				Name: row.ProductName,
			}
			if entry, found := catalog[row.ProductCode]; found {
				ps.Name = entry.Name
				ps.Category = entry.Category
				ps.URL = entry.URL
				stock := entry.CurrentStock
				ps.CurrentStock = &stock
			}
			if ps.Category == "" {
				ps.Category = row.Category
			}
		}

		ps.Quantity += row.Quantity
		ps.Revenue += row.Revenue
		ps.Impressions += row.Impressions
		ps.AddToCart += row.AddToCart

		stats[row.ProductCode] = ps
	}

	// Derive rates after all rows are folded. Zero denominators yield
	// zero, never NaN.
	for code, ps := range stats {
		if ps.Impressions > 0 {
			ps.Conversion = float64(ps.Quantity) / float64(ps.Impressions)
		}
		if ps.Quantity > 0 {
			ps.AvgUnitPrice = ps.Revenue / float64(ps.Quantity)
		}
		stats[code] = ps
	}

	return stats
}

// FirstSeenOrder returns the distinct product codes of rows in order of
// first appearance. Segmentation uses it as the stable pre-sort order,
// so equal-revenue products keep a reproducible ranking across runs.
func FirstSeenOrder(rows []models.SaleEventRow) []string {
	seen := make(map[string]bool, len(rows))
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		if !seen[row.ProductCode] {
			seen[row.ProductCode] = true
			order = append(order, row.ProductCode)
		}
	}
	return order
}
