package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/artifact-catalog/internal/api"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog/config"
)

// slogAdapter exposes slog through the library's Logger interface
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Infof(format string, args ...interface{}) {
	a.logger.Info(fmt.Sprintf(format, args...))
}

func (a slogAdapter) Errorf(format string, args ...interface{}) {
	a.logger.Error(fmt.Sprintf(format, args...))
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var cfg config.ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	repo, err := cfg.BuildRepository(ctx)
	if err != nil {
		slog.Error("Failed to build repository", "err", err)
		os.Exit(1)
	}

	store, err := cfg.BuildBlobStore()
	if err != nil {
		slog.Error("Failed to build blob store", "err", err)
		os.Exit(1)
	}

	appLogger := slogAdapter{logger: logger}

	opts := []artifactcatalog.Option{
		artifactcatalog.WithRepository(repo),
		artifactcatalog.WithBlobStore(store),
		artifactcatalog.WithPublicBaseURL(cfg.PublicBaseURL),
		artifactcatalog.WithLogger(appLogger),
	}
	if cfg.EnableEventLogging {
		opts = append(opts, artifactcatalog.WithEventSink(artifactcatalog.NewLoggingEventSink(appLogger)))
	}

	svc, err := artifactcatalog.New(opts...)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	auth := api.NewAuthenticator(cfg.JWTSecret, repo)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.NewRouter(svc, auth),
	}

	go func() {
		slog.Info("Artifact catalog server starting",
			"port", cfg.Port,
			"env", cfg.Environment,
			"database", cfg.DatabaseType,
			"storage", cfg.StorageType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}
