package routes

import (
	"libmanager-backend/internal/adapters/http/handlers"
	"libmanager-backend/internal/adapters/http/middleware"
	"libmanager-backend/internal/adapters/persistence/repositories"
	"libmanager-backend/internal/config"
	"libmanager-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	borrowRepo := repositories.NewBorrowRepository(db)
	editRepo := repositories.NewEditRequestRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	bookService := services.NewBookService(bookRepo)
	borrowService := services.NewBorrowService(db, borrowRepo, bookRepo, userRepo)
	editService := services.NewEditRequestService(editRepo, userRepo)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	bookHandler := handlers.NewBookHandler(bookService)
	borrowHandler := handlers.NewBorrowHandler(borrowService)
	editHandler := handlers.NewEditRequestHandler(editService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public, stricter rate limit)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Book routes (catalog is readable without login; writes are staff only)
	bookRoutes := apiV1.Group("/books")
	setupBookRoutes(bookRoutes, bookHandler, cfg)

	// Borrow routes (authenticated users)
	borrowRoutes := apiV1.Group("/borrows")
	borrowRoutes.Use(middleware.AuthMiddleware(cfg))
	setupBorrowRoutes(borrowRoutes, borrowHandler)

	// User management routes (staff)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	setupUserRoutes(userRoutes, userHandler)

	// Profile routes (authenticated users)
	profileRoutes := apiV1.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Edit request routes (staff)
	editRoutes := apiV1.Group("/edit-requests")
	editRoutes.Use(middleware.AuthMiddleware(cfg))
	editRoutes.Use(middleware.StaffOnly())
	setupEditRequestRoutes(editRoutes, editHandler)

	// Dashboard routes (admin)
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.AdminOnly())
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupBookRoutes configures catalog routes
func setupBookRoutes(router fiber.Router, handler *handlers.BookHandler, cfg *config.Config) {
	// Public reads
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)

	// Staff writes (the service re-checks the capability matrix)
	router.Post("/", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), handler.Create)
	router.Put("/:id", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), handler.Update)
	router.Delete("/:id", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), handler.Delete)
}

// setupBorrowRoutes configures lending routes
func setupBorrowRoutes(router fiber.Router, handler *handlers.BorrowHandler) {
	router.Post("/", handler.Request)
	router.Get("/my", handler.My)

	// Staff operations
	router.Get("/", middleware.StaffOnly(), handler.List)
	router.Put("/:id/approve", middleware.StaffOnly(), handler.Approve)
	router.Put("/:id/close", middleware.StaffOnly(), handler.Close)
}

// setupUserRoutes configures user management routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", middleware.StaffOnly(), handler.List)
	router.Get("/:id", middleware.StaffOnly(), handler.Get)
	router.Post("/", middleware.StaffOnly(), handler.Create)
	router.Put("/:id", middleware.StaffOnly(), handler.Update)
	router.Delete("/:id", middleware.AdminOnly(), handler.Delete)
}

// setupProfileRoutes configures self-service profile routes
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Put("/", handler.UpdateProfile)
	router.Put("/preferences", handler.UpdatePreferences)
	router.Put("/password", handler.ChangePassword)
}

// setupEditRequestRoutes configures the edit proposal queue routes
func setupEditRequestRoutes(router fiber.Router, handler *handlers.EditRequestHandler) {
	router.Post("/", handler.Propose)
	router.Get("/", middleware.AdminOnly(), handler.List)
	router.Put("/:id/resolve", middleware.AdminOnly(), handler.Resolve)
}

// setupDashboardRoutes configures reporting routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	router.Get("/stats", handler.Stats)
	router.Get("/monthly", handler.Monthly)
	router.Get("/categories", handler.Categories)
}
