package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/issuespotter/backend/internal/config"
	"github.com/issuespotter/backend/internal/handlers"
	"github.com/issuespotter/backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	reportHandler *handlers.ReportHandler,
	photoHandler *handlers.PhotoHandler,
	adminHandler *handlers.AdminHandler,
	cleanupHandler *handlers.CleanupHandler,
) {
	// Stored photos are public once uploaded.
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Reports — reading is public, writing requires a signed-in user
	api.Get("/reports", reportHandler.List)
	api.Get("/reports/mine", middleware.JWTProtected(cfg), reportHandler.Mine)
	api.Get("/reports/:id", reportHandler.Get)
	api.Post("/reports", middleware.JWTProtected(cfg), reportHandler.Create)
	api.Delete("/reports/:id", middleware.JWTProtected(cfg), reportHandler.Delete)

	// Upvote ledger
	api.Post("/reports/:id/upvote", middleware.JWTProtected(cfg), reportHandler.Upvote)
	api.Get("/upvotes", middleware.JWTProtected(cfg), reportHandler.UpvotedIDs)

	// Photo uploads
	api.Post("/photos", middleware.JWTProtected(cfg), photoHandler.Upload)

	// Admin dashboard surface
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Patch("/reports/:id/status", adminHandler.UpdateStatus)
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/cleanup/stats", cleanupHandler.Stats)
	admin.Post("/cleanup/run", cleanupHandler.Run)
	admin.Post("/cleanup/start", cleanupHandler.Start)
	admin.Post("/cleanup/stop", cleanupHandler.Stop)
}
