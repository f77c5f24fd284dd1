package middleware

import (
	"net/http"
	"time"

	"github.com/evyataryagoni/storefinder/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// LoggingMiddleware logs HTTP requests with structured data
// Health checks and metric scrapes are logged at debug to keep the log readable
func LoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// Request ID is set by chi's RequestID middleware
			reqLog := log.WithRequestID(middleware.GetReqID(r.Context()))

			reqLog.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Msg("Request started")

			next.ServeHTTP(ww, r)

			status := statusOf(ww)

			// Determine log level based on status code
			logEvent := reqLog.Info()
			switch {
			case status >= 500:
				logEvent = reqLog.Error()
			case status >= 400:
				logEvent = reqLog.Warn()
			case isQuietPath(r.URL.Path):
				logEvent = reqLog.Debug()
			}

			logEvent.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("query", r.URL.RawQuery).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration_ms", time.Since(start)).
				Msg("Request completed")
		})
	}
}

func isQuietPath(path string) bool {
	return path == "/health" || path == "/metrics"
}
