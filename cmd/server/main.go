package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/iho/authgate/internal/adapter/http"
	"github.com/iho/authgate/internal/adapter/http/handler"
	"github.com/iho/authgate/internal/adapter/repository/memory"
	"github.com/iho/authgate/internal/infrastructure/auth"
	"github.com/iho/authgate/internal/infrastructure/config"
	"github.com/iho/authgate/internal/infrastructure/logger"
	"github.com/iho/authgate/internal/infrastructure/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	m := metrics.New()

	users, err := memory.NewUserRepository()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed users")
	}
	refreshStore := memory.NewRefreshTokenStore(cfg.RefreshTokenTTL)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	authHandler := handler.NewAuthHandler(users, refreshStore, jwtManager, log, m)
	healthHandler := handler.NewHealthHandler()

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:   authHandler,
		HealthHandler: healthHandler,
		JWTManager:    jwtManager,
		Logger:        log,
		Metrics:       m,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting auth server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
