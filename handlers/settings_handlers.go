package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HandleGetSettings returns the applied operator settings.
// GET /api/v1/settings
func HandleGetSettings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "success", "data": eng.Settings()})
}

// HandleUpdateSettings validates and applies new settings. Invalid
// values are rejected and the prior settings stay in effect.
// PUT /api/v1/settings
func HandleUpdateSettings(c *fiber.Ctx) error {
	settings := eng.Settings()
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if err := eng.UpdateSettings(settings); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "success", "data": eng.Settings()})
}
