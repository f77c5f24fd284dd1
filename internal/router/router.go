package router

import (
	"net/http"

	_ "github.com/evyataryagoni/storefinder/docs" // Swagger docs
	"github.com/evyataryagoni/storefinder/internal/handler"
	"github.com/evyataryagoni/storefinder/internal/limiter"
	"github.com/evyataryagoni/storefinder/internal/logger"
	"github.com/evyataryagoni/storefinder/internal/metrics"
	custommiddleware "github.com/evyataryagoni/storefinder/internal/middleware"
	v1 "github.com/evyataryagoni/storefinder/internal/router/v1"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// SetupRouter creates and configures the Chi router with all middleware and routes
//
// Parameters:
//   - storeHandler: the store directory handler
//   - rateLimiter: the rate limiter (memory or Redis)
//   - m: metrics collector
//   - gatherer: registry served on /metrics (prometheus.DefaultGatherer in production)
//   - log: structured logger
func SetupRouter(storeHandler *handler.StoreHandler, rateLimiter limiter.Limiter, m *metrics.Metrics, gatherer prometheus.Gatherer, log *logger.Logger) chi.Router {
	r := chi.NewRouter()

	// Order matters! RequestID should be first, then logging, then rate limiting
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.LoggingMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.RateLimitMiddleware(rateLimiter))
	r.Use(custommiddleware.MetricsMiddleware(m))

	// Mount v1 API routes under /v1 prefix
	r.Mount("/v1", v1.SetupRoutes(storeHandler))

	// Root-level routes (not versioned)
	r.Get("/health", healthCheckHandler)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Swagger UI: http://localhost:3000/swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}

// healthCheckHandler returns 200 OK while the process is serving
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
