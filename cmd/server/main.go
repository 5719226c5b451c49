package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/vikasavnish/tradedesk/internal/api"
	"github.com/vikasavnish/tradedesk/internal/brokerage"
	"github.com/vikasavnish/tradedesk/internal/cache"
	"github.com/vikasavnish/tradedesk/internal/config"
	"github.com/vikasavnish/tradedesk/internal/db"
	"github.com/vikasavnish/tradedesk/internal/logger"
	"github.com/vikasavnish/tradedesk/internal/metrics"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize configuration
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)
	if envErr != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	// Initialize database connection
	database, err := db.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to connect to database")
	}

	m := metrics.New()
	market := brokerage.NewClient(cfg.Brokerage, newCache(cfg.Redis, log), m, log)
	if cfg.Brokerage.APIKey == "" || cfg.Brokerage.SecretKey == "" {
		log.Warn().Msg("ALPACA_API_KEY or ALPACA_SECRET_KEY not set; brokerage endpoints will fail")
	}
	if cfg.Auth.APISecret == "" {
		log.Warn().Msg("API_SECRET not set; every write will be refused")
	}

	// Initialize router
	router := api.SetupRouter(database, market, m, cfg, log)

	// Set up CORS
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           corsMiddleware.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// newCache picks Redis when it is configured and reachable, otherwise a
// process-local cache.
func newCache(cfg config.RedisConfig, log zerolog.Logger) cache.Cache {
	if cfg.URL == "" {
		return cache.NewMemoryCache()
	}

	// Initialize Redis client
	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis, using in-memory cache")
		return cache.NewMemoryCache()
	}
	return cache.NewRedisCache(redisClient, "tradedesk:", log)
}
