package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/existflow/sheetboard/internal/config"
	"github.com/existflow/sheetboard/internal/dashboard"
	"github.com/existflow/sheetboard/internal/logger"
	"github.com/existflow/sheetboard/internal/settings"
	"github.com/existflow/sheetboard/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://localhost:5432/sheetboard?sslmode=disable"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	if err := logger.Init(logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		FilePath:   cfg.LogFile,
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxAge:     7,
		MaxBackups: 5,
		Console:    true,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, dbURL, server.Options{
		Token:  os.Getenv("SHEETBOARD_TOKEN"),
		Secret: os.Getenv(settings.SecretEnv),
		Dashboard: dashboard.Options{
			CourseRange:   cfg.CourseRange,
			TodoRange:     cfg.TodoRange,
			DiscardStale:  cfg.DiscardStale,
			FetchTimeout:  cfg.FetchTimeout,
			VerboseLabels: cfg.VerboseLabels,
		},
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	log.Printf("SheetBoard server starting on :%s", port)
	if err := srv.Run(ctx, ":"+port); err != nil {
		log.Printf("Server failed: %v", err)
	}
}
