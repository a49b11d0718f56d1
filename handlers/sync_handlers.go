package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HandleGetSyncStatus reports remote persistence health so a failed
// push is visible to the operator instead of silently swallowed.
// GET /api/v1/sync/status
func HandleGetSyncStatus(c *fiber.Ctx) error {
	if syncSvc == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "message": "Sync is not configured"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": syncSvc.Status()})
}

// HandleTriggerSync retries a failed push immediately.
// POST /api/v1/sync/retry
func HandleTriggerSync(c *fiber.Ctx) error {
	if syncSvc == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "message": "Sync is not configured"})
	}
	syncSvc.TriggerNow()
	return c.JSON(fiber.Map{"status": "success", "data": syncSvc.Status()})
}
