package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"label-matcher/internal/config"
	"label-matcher/internal/database"
	"label-matcher/internal/handlers"
	"label-matcher/internal/match"
	"label-matcher/internal/ocr"
	"label-matcher/internal/pdfpage"
	"label-matcher/internal/server"
	"label-matcher/internal/storage"
	"label-matcher/internal/tracking"
	"label-matcher/internal/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Database initialized at %s", cfg.DBPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))

	matchConfig := match.Config{
		Thresholds: match.Thresholds{
			FedEx: cfg.ThresholdFedEx,
			UPS:   cfg.ThresholdUPS,
			USPS:  cfg.ThresholdUSPS,
		},
		Workers: cfg.MatchWorkers,
	}

	renderer := pdfpage.NewRenderer(cfg.PdftoppmPath, cfg.RenderDPI)
	engine := ocr.NewTesseractEngine(cfg.TesseractLanguage)
	processor := workers.NewLabelProcessor(renderer, engine, match.New(matchConfig), cfg.MatchWorkers, logger)

	var archiver handlers.Archiver
	if cfg.DriveEnabled {
		driveClient, err := storage.NewDriveClient(context.Background(), &storage.DriveConfig{
			CredentialsFile: cfg.DriveCredentialsFile,
			FolderID:        cfg.DriveFolderID,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Drive storage: %v", err)
		}
		logger.Info("Drive archiving enabled", "folder", cfg.DriveFolderID)
		archiver = driveClient
	}

	var tracker handlers.StatusFetcher
	if cfg.TrackingEnabled {
		trackingClient := tracking.NewClient(tracking.Config{
			APIURL: cfg.TrackingAPIURL,
			APIKey: cfg.TrackingAPIKey,
		})
		tracker = trackingClient

		updater := workers.NewStatusUpdater(db.Orders, trackingClient,
			time.Duration(cfg.TrackingIntervalMinutes)*time.Minute, logger)
		updater.Start()
		defer updater.Stop()
		logger.Info("Status tracking enabled", "interval_minutes", cfg.TrackingIntervalMinutes)
	}

	handler := server.NewRouter(db, server.Options{
		Processor:        processor,
		Archiver:         archiver,
		MaxUploadBytes:   cfg.MaxUploadBytes,
		MatchConfig:      matchConfig,
		DisableCache:     cfg.DisableCache,
		Tracker:          tracker,
		DisableRateLimit: cfg.DisableRateLimit,
	})

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: handler,

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownTimeout := 30 * time.Second
	if err := server.HandleSignals(srv, shutdownTimeout); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
