package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/models"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateConservesTotals(t *testing.T) {
	rows := []models.SaleEventRow{
		{ProductCode: "P1", ProductName: "Mug", Date: day(1), Quantity: 3, Revenue: 30, Impressions: 100, AddToCart: 10},
		{ProductCode: "P1", ProductName: "Mug", Date: day(2), Quantity: 5, Revenue: 50, Impressions: 300, AddToCart: 20},
		{ProductCode: "P2", ProductName: "Plate", Date: day(1), Quantity: 2, Revenue: 40, Impressions: 50, AddToCart: 5},
	}

	stats := Aggregate(rows, nil)

	var totalQty int
	var totalRevenue float64
	for _, ps := range stats {
		totalQty += ps.Quantity
		totalRevenue += ps.Revenue
	}
	assert.Equal(t, 10, totalQty)
	assert.InDelta(t, 120, totalRevenue, 1e-9)
}

func TestAggregateDerivesRatesAfterSummation(t *testing.T) {
	// Per-row averaging would give (3/100 + 5/300) / 2; the correct
	// group-level rate is 8/400.
	rows := []models.SaleEventRow{
		{ProductCode: "P1", Quantity: 3, Revenue: 30, Impressions: 100},
		{ProductCode: "P1", Quantity: 5, Revenue: 50, Impressions: 300},
	}

	stats := Aggregate(rows, nil)
	require.Contains(t, stats, "P1")
	assert.InDelta(t, 0.02, stats["P1"].Conversion, 1e-9)
	assert.InDelta(t, 10, stats["P1"].AvgUnitPrice, 1e-9)
}

func TestAggregateZeroDenominators(t *testing.T) {
	rows := []models.SaleEventRow{
		{ProductCode: "P1", Quantity: 0, Revenue: 0, Impressions: 0},
	}

	stats := Aggregate(rows, nil)
	assert.Zero(t, stats["P1"].Conversion)
	assert.Zero(t, stats["P1"].AvgUnitPrice)
}

func TestAggregateCatalogMatching(t *testing.T) {
	catalog := map[string]models.ProductCatalogEntry{
		"P1": {Code: "P1", Name: "Ceramic Mug", Category: "kitchen", URL: "https://example.com/p1", CurrentStock: 12},
		"P9": {Code: "P9", Name: "Never Sold", CurrentStock: 40},
	}
	rows := []models.SaleEventRow{
		{ProductCode: "P1", ProductName: "mug (row name)", Quantity: 1, Revenue: 10},
		{ProductCode: "P2", ProductName: "Plate", Category: "kitchen", Quantity: 1, Revenue: 5},
	}

	stats := Aggregate(rows, catalog)

	require.Contains(t, stats, "P1")
	assert.Equal(t, "Ceramic Mug", stats["P1"].Name)
	assert.Equal(t, "kitchen", stats["P1"].Category)
	require.NotNil(t, stats["P1"].CurrentStock)
	assert.Equal(t, 12, *stats["P1"].CurrentStock)

	// No catalog match: identity from the row, stock unknown.
	require.Contains(t, stats, "P2")
	assert.Equal(t, "Plate", stats["P2"].Name)
	assert.Nil(t, stats["P2"].CurrentStock)

	// In the catalog but absent from the rows: excluded from the
	// period, not reported as zero.
	assert.NotContains(t, stats, "P9")
}

func TestFirstSeenOrder(t *testing.T) {
	rows := []models.SaleEventRow{
		{ProductCode: "B"}, {ProductCode: "A"}, {ProductCode: "B"}, {ProductCode: "C"},
	}
	assert.Equal(t, []string{"B", "A", "C"}, FirstSeenOrder(rows))
}
