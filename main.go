package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/statcan-api/config"
	"github.com/giygas/statcan-api/data"
	"github.com/giygas/statcan-api/logging"
	"github.com/giygas/statcan-api/scheduler"
	"github.com/giygas/statcan-api/server"
	"github.com/giygas/statcan-api/statcanparser"
	"github.com/giygas/statcan-api/statcanparser/entities"
	"github.com/joho/godotenv"
)

func main() {
	// Read the env variables; a missing .env file is fine in production
	// where the environment is set by the process manager
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize slog for structured logging to console and file
	logging.InitLogger("logs")

	languages := make([]entities.Language, 0, len(cfg.Languages))
	for _, lang := range cfg.Languages {
		language, err := entities.ParseLanguage(lang)
		if err != nil {
			logging.Error("Invalid language in configuration", "error", err)
			os.Exit(1)
		}
		languages = append(languages, language)
	}

	dataContainer := data.NewDataContainer()
	parser := statcanparser.NewStatcanParser(cfg.CacheDir)

	logging.Info("Loading configured tables",
		"tables", cfg.Tables,
		"languages", cfg.Languages,
		"cache_dir", parser.CacheDir())

	sched := scheduler.NewScheduler(dataContainer, parser, cfg.Tables, languages)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, dataContainer)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown finished with error", "error", err)
	}
}
