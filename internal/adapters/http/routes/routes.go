package routes

import (
	"checkmovil-api/internal/adapters/http/handlers"
	"checkmovil-api/internal/adapters/http/middleware"
	"checkmovil-api/internal/adapters/persistence/repositories"
	"checkmovil-api/internal/adapters/storage"
	"checkmovil-api/internal/config"
	"checkmovil-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, files storage.FileStorage, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	paymentService := services.NewPaymentService(paymentRepo, files)
	userService := services.NewUserService(userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, cfg)
	userHandler := handlers.NewUserHandler(userService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	authn := middleware.AuthMiddleware(authService)

	// Auth routes (stricter rate limit on credential endpoints)
	auth := apiV1.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Get("/verify", authn, authHandler.Verify)

	// Payment routes (cashier-or-above throughout)
	payments := apiV1.Group("/payments", authn, middleware.CashierOrAbove())
	payments.Post("/upload", paymentHandler.Upload)
	payments.Get("/", paymentHandler.List)
	payments.Get("/:id", paymentHandler.Get)
	payments.Delete("/:id", paymentHandler.Delete)
	// Review requires a verified supervisor (or the superuser)
	payments.Patch("/:id/status",
		middleware.SupervisorOrAbove(),
		middleware.RequireVerified(),
		paymentHandler.UpdateStatus,
	)

	// User administration (superuser only)
	users := apiV1.Group("/users", authn, middleware.SuperuserOnly())
	users.Get("/", userHandler.List)
	users.Patch("/:id", userHandler.Update)
}
