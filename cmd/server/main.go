package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"checkmovil-api/internal/adapters/http/middleware"
	"checkmovil-api/internal/adapters/http/routes"
	"checkmovil-api/internal/adapters/persistence/models"
	"checkmovil-api/internal/adapters/persistence/repositories"
	"checkmovil-api/internal/adapters/storage"
	"checkmovil-api/internal/config"
	"checkmovil-api/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "checkmovil-api/docs" // Swagger docs
)

// @title CheckMovil API
// @version 1.0
// @description Role-based authentication and payment-image intake API
// @contact.name API Support
// @contact.email soporte@checkmovil.com

// @host api.checkmovil.com
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Upload storage
	files, err := storage.NewLocalStorage(cfg.Upload.Dir)
	if err != nil {
		log.Fatalf("❌ Failed to initialize upload storage: %v", err)
	}

	// Nightly payment-queue maintenance
	maintenance := services.NewMaintenanceService(repositories.NewPaymentRepository(db), files)
	maintenance.Start()
	defer maintenance.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CheckMovil API v1.0",
		BodyLimit:    int(cfg.Upload.MaxSizeBytes) + 1024*1024, // image + form overhead
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db, storage and cfg for dependency injection)
	routes.Setup(app, db, files, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
