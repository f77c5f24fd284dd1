package main

import (
	"context"
	"net/http"
	"time"

	"github.com/evyataryagoni/storefinder/internal/config"
	"github.com/evyataryagoni/storefinder/internal/directory"
	"github.com/evyataryagoni/storefinder/internal/geocode"
	"github.com/evyataryagoni/storefinder/internal/handler"
	"github.com/evyataryagoni/storefinder/internal/limiter"
	"github.com/evyataryagoni/storefinder/internal/logger"
	"github.com/evyataryagoni/storefinder/internal/metrics"
	"github.com/evyataryagoni/storefinder/internal/router"
	"github.com/evyataryagoni/storefinder/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

// @title           Store Finder API
// @version         1.0
// @description     A store directory with postcode geocoding and nearest-store search
// @termsOfService  http://swagger.io/terms/

// @contact.name   Evyatar Yagoni
// @contact.email  evyatar@example.com

// @license.name  MIT
// @license.url   http://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /
func main() {
	// Load configuration
	appConfig := config.Load()

	// Initialize components
	appLogger := setupLogger(appConfig)
	dataStore := setupDataStore(appConfig, appLogger)

	rateLimiter := setupRateLimiter(appConfig, appLogger)
	defer rateLimiter.Close()

	metricsCollector := setupMetrics(appLogger)

	// Build application layers
	storeDirectory := setupDirectory(appConfig, dataStore, metricsCollector, appLogger)
	defer storeDirectory.Close()

	storeHandler := handler.NewStoreHandler(storeDirectory)
	appRouter := router.SetupRouter(storeHandler, rateLimiter, metricsCollector, prometheus.DefaultGatherer, appLogger)

	// Start server
	startServer(appConfig, appRouter, appLogger)
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:  appConfig.LogLevel,
		Pretty: appConfig.LogPretty,
	})

	appLogger.Info().Msg("Starting Store Finder Server...")
	appLogger.Info().
		Str("port", appConfig.Port).
		Str("rate_limiter_type", appConfig.RateLimitType).
		Int("rate_limit", appConfig.RateLimit).
		Int("rate_limit_window", appConfig.RateLimitWindow).
		Str("datastore_type", appConfig.DatastoreType).
		Str("store_table", appConfig.StoreTable).
		Str("geocoder_url", appConfig.GeocoderURL).
		Msg("Configuration loaded")

	return appLogger
}

// setupDataStore opens the SQL datastore (MySQL or SQLite)
// and provisions the store table when AUTO_MIGRATE is set
func setupDataStore(appConfig *config.Config, log *logger.Logger) store.Store {
	dataStore, err := store.NewStore(store.StoreConfig{
		Type:       appConfig.DatastoreType,
		MySQLDSN:   appConfig.MySQLDSN,
		SQLitePath: appConfig.SQLitePath,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Str("type", appConfig.DatastoreType).Msg("Failed to initialize datastore")
	}

	if appConfig.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := dataStore.CreateStoreTable(ctx, appConfig.StoreTable); err != nil {
			log.Fatal().Err(err).Str("table", appConfig.StoreTable).Msg("Failed to create store table")
		}
	}

	log.Info().Str("dialect", dataStore.Dialect()).Msg("Datastore initialized")
	return dataStore
}

// setupDirectory wires the datastore and geocoder into the store directory
func setupDirectory(appConfig *config.Config, dataStore store.Store, m *metrics.Metrics, log *logger.Logger) *directory.Directory {
	geocoder := geocode.NewPostcodesIO(appConfig.GeocoderURL, appConfig.GeocoderTimeout, log)

	storeDirectory := directory.New(dataStore, geocoder, m, log)
	if !storeDirectory.SetTableName(appConfig.StoreTable) {
		log.Fatal().Str("table", appConfig.StoreTable).Msg("Invalid store table name")
	}
	storeDirectory.SetSearchDefaults(appConfig.SearchMaxDistance, appConfig.SearchLimit)

	return storeDirectory
}

// setupRateLimiter initializes the rate limiter
// Supports in-memory and Redis-based rate limiting
func setupRateLimiter(appConfig *config.Config, log *logger.Logger) limiter.Limiter {
	window := time.Duration(appConfig.RateLimitWindow) * time.Second

	rateLimiter, err := limiter.NewLimiter(limiter.LimiterConfig{
		Type:          appConfig.RateLimitType,
		Limit:         appConfig.RateLimit,
		Window:        window,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate limiter")
	}

	log.Info().
		Str("type", appConfig.RateLimitType).
		Int("limit", appConfig.RateLimit).
		Dur("window", window).
		Msg("Rate limiter initialized")

	return rateLimiter
}

// setupMetrics initializes the Prometheus metrics collector
func setupMetrics(log *logger.Logger) *metrics.Metrics {
	metricsCollector := metrics.New()
	log.Info().Msg("Metrics initialized")
	return metricsCollector
}

// startServer starts the HTTP server and blocks
func startServer(appConfig *config.Config, appRouter http.Handler, log *logger.Logger) {
	serverAddr := ":" + appConfig.Port

	log.Info().
		Str("port", appConfig.Port).
		Str("api_endpoint", "http://localhost:"+appConfig.Port+"/v1/closest?postcode=<postcode>").
		Str("health_check", "http://localhost:"+appConfig.Port+"/health").
		Str("metrics", "http://localhost:"+appConfig.Port+"/metrics").
		Str("swagger", "http://localhost:"+appConfig.Port+"/swagger/index.html").
		Msg("Server is running")

	log.Fatal().Err(http.ListenAndServe(serverAddr, appRouter)).Msg("Server failed")
}
