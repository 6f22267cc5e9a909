package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/stationworks/station-analyzer-be/internal/config"
	"github.com/stationworks/station-analyzer-be/internal/core/analyzer"
	"github.com/stationworks/station-analyzer-be/internal/core/session"
	"github.com/stationworks/station-analyzer-be/internal/core/upload"
	"github.com/stationworks/station-analyzer-be/internal/handlers"
	"github.com/stationworks/station-analyzer-be/internal/shared/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.LogLevel)

	log.Info().Str("env", cfg.Env).Msg("Starting station-analyzer")

	provider := upload.NewLocalProvider(cfg.UploadDir, cfg.MaxUploadSize)
	sessions := session.NewStore(30 * time.Minute)
	svc := analyzer.NewService()

	wizard := handlers.NewWizardHandler(provider, sessions, svc)

	app := fiber.New(fiber.Config{
		// Headroom over the upload ceiling for multipart framing.
		BodyLimit: int(cfg.MaxUploadSize) + 1024*1024,
	})

	app.Get("/health", wizard.GetHealth)
	app.Get("/stations", wizard.GetStations)
	app.Post("/discover", wizard.DiscoverStations)
	app.Post("/upload", wizard.Upload)
	app.Post("/analyze", wizard.Analyze)
	app.Post("/cancel", wizard.Cancel)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("API listening")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
