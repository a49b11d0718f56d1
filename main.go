package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"app/ai"
	"app/analytics"
	"app/config"
	"app/database"
	"app/engine"
	"app/handlers"
	"app/models"
	"app/routes"
	"app/store"
	"app/syncer"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Load configuration
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	config.Load()
	if config.AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// Initialize database
	database.Connect(databaseURL)
	defer database.Close()

	st := store.New(database.GetDB())
	ctx := context.Background()
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("Schema setup failed: %v", err)
	}

	// Restore persisted state
	settings, err := st.LoadSettings(ctx)
	if err != nil {
		log.Printf("Could not load settings, using defaults: %v", err)
		settings = models.DefaultSettings()
	}
	interactions, err := st.LoadInteractions(ctx)
	if err != nil {
		log.Printf("Could not load notification state: %v", err)
		interactions = models.NewInteractionState()
	}

	eng := engine.New(settings, interactions, analytics.RuleConfig{
		Trend: analytics.TrendConfig{
			RisingPct:  config.AppConfig.RisingThresholdPct,
			CoolingPct: config.AppConfig.CoolingThresholdPct,
		},
		ConversionRateFloor:  config.AppConfig.ConversionRateFloor,
		MaterialRevenueShare: config.AppConfig.MaterialRevenueShare,
	})

	if state, err := st.LoadState(ctx); err != nil {
		log.Printf("Could not restore analytics state: %v", err)
	} else if state != nil {
		eng.RestoreState(*state)
		log.Printf("Restored analytics state from %s", state.LastUpdatedAt.Format(time.RFC3339))
	}

	// Remote persistence: debounced, single-flight, retried on failure.
	syncSvc := syncer.New(st.SaveState, 2*time.Second)
	syncSvc.Start()
	defer syncSvc.Stop()

	eng.SetHooks(engine.Hooks{
		OnState: func(state models.AnalyticsState) { syncSvc.Request(state) },
		OnInteraction: func(key models.NotificationKey, status models.NotificationStatus, at time.Time) {
			if err := st.MarkInteraction(context.Background(), key, status, at); err != nil {
				log.Printf("Could not persist notification state: %v", err)
			}
		},
		OnSettings: func(settings models.AppSettings) {
			if err := st.SaveSettings(context.Background(), settings); err != nil {
				log.Printf("Could not persist settings: %v", err)
			}
		},
	})

	handlers.Setup(eng, syncSvc, ai.NewAnalyzer(config.AppConfig.GeminiAPIKey))

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // spreadsheet uploads
	})

	// Add CORS middleware
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":3000"
	}
	log.Fatal(app.Listen(addr))
}
