package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"app/models"
	"app/utils"
)

// HandleGetNotifications returns the current notification batch sorted
// by priority, paginated. Dismissed notifications are excluded unless
// ?include_dismissed=true.
// GET /api/v1/notifications
func HandleGetNotifications(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "20"))
	includeDismissed := c.Query("include_dismissed") == "true"

	snapshot := eng.Snapshot()
	notifications := make([]models.Notification, 0, len(snapshot.Notifications))
	for _, n := range snapshot.Notifications {
		if !includeDismissed && n.Status == models.StatusDismissed {
			continue
		}
		notifications = append(notifications, n)
	}

	pagination := utils.CreatePagination(len(notifications), page, pageSize)
	start := (pagination.CurrentPage - 1) * pagination.PageSize
	if start > len(notifications) {
		start = len(notifications)
	}
	end := start + pagination.PageSize
	if end > len(notifications) {
		end = len(notifications)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "success",
		"data":    notifications[start:end],
		"meta":    pagination,
	})
}

// HandleGetUnreadNotificationsCount returns how many notifications are
// still in the generated state.
// GET /api/v1/notifications/unread-count
func HandleGetUnreadNotificationsCount(c *fiber.Ctx) error {
	snapshot := eng.Snapshot()
	count := 0
	for _, n := range snapshot.Notifications {
		if n.Status == models.StatusGenerated {
			count++
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"count": count}})
}

func parseNotificationKey(c *fiber.Ctx) (models.NotificationKey, error) {
	var key models.NotificationKey
	if err := c.BodyParser(&key); err != nil {
		return key, err
	}
	return key, nil
}

// HandleMarkNotificationRead marks one notification identity as read.
// The identity is content-derived, so the mark survives recomputation.
// POST /api/v1/notifications/read
func HandleMarkNotificationRead(c *fiber.Ctx) error {
	key, err := parseNotificationKey(c)
	if err != nil || key.Category == "" || key.Rule == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid notification key"})
	}
	eng.MarkRead(key)
	return c.JSON(fiber.Map{"success": true, "message": "Notification marked as read"})
}

// HandleDismissNotification dismisses one notification identity.
// POST /api/v1/notifications/dismiss
func HandleDismissNotification(c *fiber.Ctx) error {
	key, err := parseNotificationKey(c)
	if err != nil || key.Category == "" || key.Rule == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid notification key"})
	}
	eng.Dismiss(key)
	return c.JSON(fiber.Map{"success": true, "message": "Notification dismissed"})
}
