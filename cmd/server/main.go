package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/spectech/internal/cache"
	"github.com/example/spectech/internal/config"
	"github.com/example/spectech/internal/database"
	"github.com/example/spectech/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	if err := cache.Init(cfg.RedisURL); err != nil {
		log.Printf("Redis cache unavailable, continuing without it: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "SpecTech Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	// Uploaded images are served straight from disk.
	app.Static("/static/uploads", cfg.UploadDir)
	app.Static("/static/banners", cfg.BannerDir)
	app.Static("/static/logo", cfg.LogoDir)

	routes.Register(app, db, cfg)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
