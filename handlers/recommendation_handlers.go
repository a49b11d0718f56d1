package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"app/analytics"
)

// HandleGetRecommendations returns every tactical recommendation.
// GET /api/v1/recommendations
func HandleGetRecommendations(c *fiber.Ctx) error {
	snapshot := eng.Snapshot()
	return c.JSON(fiber.Map{"status": "success", "data": snapshot.Recommendations})
}

// HandleGetTopRecommendations returns the top-N recommendations across
// all products, ranked by urgency then estimated impact.
// GET /api/v1/recommendations/summary?limit=5
func HandleGetTopRecommendations(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "5"))
	if err != nil || limit <= 0 {
		limit = 5
	}
	snapshot := eng.Snapshot()
	top := analytics.TopRecommendations(snapshot.Recommendations, limit)
	return c.JSON(fiber.Map{"status": "success", "data": top})
}
