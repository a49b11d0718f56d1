package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"app/models"
)

// HandleAnalyzeProduct returns the qualitative analysis for one
// product, generated by Gemini when configured and by the rule-based
// analyzer otherwise.
// POST /api/v1/ai/analyze
func HandleAnalyzeProduct(c *fiber.Ctx) error {
	var req models.AIAssistantRequest
	if err := c.BodyParser(&req); err != nil || req.ProductCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "product_code is required"})
	}

	snapshot := eng.Snapshot()

	var stats *models.ProductStats
	for _, period := range []models.ReportPeriod{models.PeriodMonthly, models.PeriodWeekly, models.PeriodDaily, models.PeriodYearly} {
		if ps, ok := snapshot.State.ProductsByPeriod[period][req.ProductCode]; ok {
			stats = &ps
			break
		}
	}
	if stats == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "No statistics for this product in any loaded period"})
	}

	var trend *models.ProductTrend
	if t, ok := snapshot.Trends[req.ProductCode]; ok {
		trend = &t
	}
	var stock *models.StockRecommendation
	for i := range snapshot.StockRecommendations {
		if snapshot.StockRecommendations[i].ProductCode == req.ProductCode {
			stock = &snapshot.StockRecommendations[i]
			break
		}
	}

	analysis, err := analyzer.AnalyzeProduct(c.Context(), *stats, trend, stock)
	if err != nil {
		log.Printf("Error analyzing product %s: %v", req.ProductCode, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Analysis failed"})
	}

	return c.JSON(fiber.Map{"success": true, "analysis": analysis})
}
