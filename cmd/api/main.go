package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"poolledger/internal/app"
	"poolledger/internal/http/handlers"
	httpapi "poolledger/internal/http/httpapi"
	"poolledger/internal/infra"
	"poolledger/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := app.NewService(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open ledger store")
	}
	defer cleanup()

	bootCtx, cancelBoot := context.WithTimeout(ctx, 30*time.Second)
	err = svc.Bootstrap(bootCtx)
	cancelBoot()
	if err != nil {
		cleanup()
		logger.Fatal().Err(err).Msg("failed to bootstrap database")
	}
	logger.Info().Msg("database ready")

	var frontend *storage.Frontend
	if cfg.FrontendDir != "" {
		frontend, err = storage.NewFrontend(cfg.FrontendDir)
		if err != nil {
			cleanup()
			logger.Fatal().Err(err).Str("dir", cfg.FrontendDir).Msg("invalid frontend directory")
		}
		logger.Info().Str("dir", frontend.BasePath()).Msg("serving frontend")
	}

	router := httpapi.NewRouter(handlers.NewApp(svc, logger, frontend), cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server failed")
			return
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
