package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/agendero/agenda-api/internal/api/router"
	appconfig "github.com/agendero/agenda-api/internal/config"
	"github.com/agendero/agenda-api/internal/http/handlers"
	"github.com/agendero/agenda-api/internal/reservations"
	"github.com/agendero/agenda-api/pkg/logging"
)

func main() {
	// Load configuration
	_ = godotenv.Load()
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info("starting agenda API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Backing store
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
		cancelPing()
		os.Exit(1)
	}
	cancelPing()

	// Reservation store
	snapshot := reservations.NewRedisSnapshot(redisClient, cfg.SnapshotKey, logger)
	metrics := reservations.NewMetrics(nil)
	store := reservations.NewStore(snapshot, logger, metrics)
	restored := store.Load(context.Background())
	logger.Info("reservation set restored", "count", restored)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		Reservations:       handlers.NewReservationsHandler(store, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		logger.Warn("failed to close redis client", "error", err)
	}

	logger.Info("server stopped")
}
