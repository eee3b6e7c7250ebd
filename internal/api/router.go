package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Siddiha/Amp/internal/api/handlers"
)

// SetupRouter configures HTTP routes
func SetupRouter(handler *handlers.Handler, logger *zap.Logger) *mux.Router {
	registerMetrics()

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return LoggingMiddleware(logger, next)
	})

	// Health check
	router.HandleFunc("/health", handler.HealthHandler).Methods("GET")

	// Conversation turns
	router.HandleFunc("/chat", handler.ChatHandler).Methods("POST")
	router.HandleFunc("/ws", handler.WebSocketHandler).Methods("GET")

	// Diagnostics
	router.HandleFunc("/cache/stats", handler.CacheStatsHandler).Methods("GET")
	router.HandleFunc("/history", handler.HistoryHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amp_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "amp_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registerOnce sync.Once
)

func registerMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequestsTotal)
		prometheus.MustRegister(httpRequestDuration)
	})
}
