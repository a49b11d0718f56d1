package handlers

import (
	"github.com/gofiber/fiber/v2"

	"app/models"
)

// HandleGetAnalyticsState returns the canonical recomputation output.
// GET /api/v1/analytics/state
func HandleGetAnalyticsState(c *fiber.Ctx) error {
	snapshot := eng.Snapshot()
	return c.JSON(fiber.Map{"status": "success", "data": snapshot.State})
}

// HandleGetProductStats returns per-product statistics for one period.
// GET /api/v1/analytics/products?period=monthly
func HandleGetProductStats(c *fiber.Ctx) error {
	period := models.ReportPeriod(c.Query("period", string(models.PeriodMonthly)))
	snapshot := eng.Snapshot()

	stats, ok := snapshot.State.ProductsByPeriod[period]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "No report loaded for this period"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": stats})
}

// HandleGetTrends returns the per-product trend verdicts.
// GET /api/v1/analytics/trends
func HandleGetTrends(c *fiber.Ctx) error {
	snapshot := eng.Snapshot()
	return c.JSON(fiber.Map{"status": "success", "data": snapshot.Trends})
}

// HandleGetStockRecommendations returns reorder suggestions for the
// primary period.
// GET /api/v1/analytics/stock
func HandleGetStockRecommendations(c *fiber.Ctx) error {
	snapshot := eng.Snapshot()
	return c.JSON(fiber.Map{"status": "success", "data": snapshot.StockRecommendations})
}
