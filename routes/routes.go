package routes

import (
	"app/handlers"
	"app/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/login", handlers.HandleLogin)
	auth.Post("/init", handlers.HandleInitializeOperator)

	// --- Operator Routes ---
	operator := api.Group("/", middleware.JWTMiddleware, middleware.OperatorRequired)

	// Uploads
	operator.Post("/reports", handlers.HandleUploadSalesReport)
	operator.Post("/catalog", handlers.HandleUploadCatalog)

	// Analytics
	operator.Get("/analytics/state", handlers.HandleGetAnalyticsState)
	operator.Get("/analytics/products", handlers.HandleGetProductStats)
	operator.Get("/analytics/trends", handlers.HandleGetTrends)
	operator.Get("/analytics/stock", handlers.HandleGetStockRecommendations)

	// Notifications
	operator.Get("/notifications", handlers.HandleGetNotifications)
	operator.Get("/notifications/unread-count", handlers.HandleGetUnreadNotificationsCount)
	operator.Post("/notifications/read", handlers.HandleMarkNotificationRead)
	operator.Post("/notifications/dismiss", handlers.HandleDismissNotification)

	// Recommendations
	operator.Get("/recommendations", handlers.HandleGetRecommendations)
	operator.Get("/recommendations/summary", handlers.HandleGetTopRecommendations)

	// Settings
	operator.Get("/settings", handlers.HandleGetSettings)
	operator.Put("/settings", handlers.HandleUpdateSettings)

	// Remote sync
	operator.Get("/sync/status", handlers.HandleGetSyncStatus)
	operator.Post("/sync/retry", handlers.HandleTriggerSync)

	// AI analysis
	operator.Post("/ai/analyze", handlers.HandleAnalyzeProduct)
}
