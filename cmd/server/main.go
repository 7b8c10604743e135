package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/homesense/internal/api"
	"github.com/Harshitk-cp/homesense/internal/app"
	"github.com/Harshitk-cp/homesense/internal/buildconfig"
	"github.com/Harshitk-cp/homesense/internal/config"
	"go.uber.org/zap"
)

const shutdownGrace = 10 * time.Second

func main() {
	boot, _ := zap.NewProduction()
	if err := config.Load(); err != nil {
		boot.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := config.NewLogger()
	if err != nil {
		logger = boot
		logger.Warn("invalid LOG_LEVEL, using info", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := app.Build(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize", zap.Error(err))
	}
	defer components.Close()

	router := api.NewApp(components.Sessions, components.Metrics, logger, api.Options{
		APIKey:         config.APIKey(),
		RateLimitRPS:   config.RateLimitRPS(),
		RateLimitBurst: config.RateLimitBurst(),
	}).Router

	srv := &http.Server{
		Addr:              config.ServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// a fallback turn may take up to LLM_TIMEOUT
		WriteTimeout: config.LLMTimeout() + 10*time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		info := buildconfig.Current()
		logger.Info("homesense listening",
			zap.String("addr", srv.Addr),
			zap.String("version", info.Version),
			zap.String("commit", info.Commit),
			zap.String("llm_provider", config.LLMProvider()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
