package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/spectech/internal/config"
	"github.com/example/spectech/internal/handlers"
	"github.com/example/spectech/internal/middleware"
	"github.com/example/spectech/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	smsService := services.NewFileSMSService(cfg.OTPOutboxFile)
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	authHandler := handlers.NewAuthHandler(db, cfg, smsService)
	catalogHandler := handlers.NewCatalogHandler(db)
	listingHandler := handlers.NewListingHandler(db, cfg, telegramService)
	profileHandler := handlers.NewProfileHandler(db)
	settingsHandler := handlers.NewSettingsHandler(db, cfg)
	marketingHandler := handlers.NewMarketingHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/request", authHandler.RequestCode)
	auth.Post("/verify", authHandler.Verify)

	// Public catalog and page context
	api.Get("/settings", settingsHandler.GetSettings)
	api.Get("/banners", marketingHandler.GetBanners)
	api.Get("/brands", catalogHandler.ListBrands)
	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/listings", listingHandler.ListListings)
	api.Get("/listings/:id", listingHandler.GetListing)

	// Admin login stays outside the admin group so it is reachable without a token.
	api.Post("/admin/login", adminHandler.Login)

	// Authenticated seller routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))
	protected.Post("/listings", listingHandler.CreateListing)
	protected.Put("/listings/:id", listingHandler.UpdateListing)
	protected.Delete("/listings/:id", listingHandler.DeleteListing)
	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	// Admin panel routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.RequireAdmin())
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/listings", adminHandler.ListListings)
	admin.Delete("/listings/:id", listingHandler.DeleteListing)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id/block", adminHandler.BlockUser)
	admin.Put("/users/:id/unblock", adminHandler.UnblockUser)
	admin.Post("/brands", catalogHandler.CreateBrand)
	admin.Put("/brands/:id", catalogHandler.RenameBrand)
	admin.Post("/categories", catalogHandler.CreateCategory)
	admin.Put("/categories/:id", catalogHandler.RenameCategory)
	admin.Put("/settings", settingsHandler.UpdateSettings)
	admin.Put("/banners/:position", marketingHandler.UpdateBanner)
}
