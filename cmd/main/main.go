package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"menu-upload-service/internal/config"
	menuHnd "menu-upload-service/internal/menuimport/handler"
	"menu-upload-service/internal/menuimport/service"
	"menu-upload-service/internal/semantic"
	"menu-upload-service/internal/store/postgres"
	"menu-upload-service/internal/store/sqlite"
	serverhttp "menu-upload-service/server/http"
)

// store is what main needs from either backend.
type store interface {
	service.Repository
	Ping(ctx context.Context) error
	io.Closer
}

func main() {
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	cfg := config.Load()
	logger := config.SetupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	db, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open store")
	}
	defer db.Close()

	detector := service.NewDetector(newMatcher(cfg, logger), logger)
	uploader := service.NewUploader(db, logger)
	importer := service.NewImporter(detector, uploader, logger)
	menu := menuHnd.New(detector, importer, uploader, db, cfg.MaxUploadMB)

	r := serverhttp.NewRouter(cfg, logger, menu, db)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	logger.Info().Str("addr", cfg.Addr()).Str("driver", cfg.DBDriver).Bool("semantic", cfg.SemanticEnabled()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}

func openStore(cfg config.Config, logger zerolog.Logger) (store, error) {
	switch cfg.DBDriver {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return postgres.Connect(ctx, cfg.DatabaseURL, logger)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, err
		}
		return sqlite.Open(cfg.SQLitePath, logger)
	}
	return nil, fmt.Errorf("unknown driver %q", cfg.DBDriver)
}

// newMatcher returns nil when no model is configured; detection then
// stays synonym-only.
func newMatcher(cfg config.Config, logger zerolog.Logger) service.SemanticMatcher {
	if !cfg.SemanticEnabled() {
		logger.Info().Msg("semantic column matching disabled (no GEMINI_API_KEY)")
		return nil
	}
	m, err := semantic.NewGeminiMatcher(semantic.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		RPS:     cfg.SemanticRPS,
		Timeout: cfg.SemanticTimeout,
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("semantic matcher disabled")
		return semantic.Noop{}
	}
	return m
}
