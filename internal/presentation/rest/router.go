// Package rest exposes the simulation service over HTTP with gin.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterConfig assembles the HTTP surface. Nil optional fields disable the
// matching feature.
type RouterConfig struct {
	Logger      *slog.Logger
	Simulations *SimulationHandler
	Products    *ProductHandler
	Telemetry   *TelemetryHandler
	Health      *HealthHandler

	// Authn guards the product routes.
	Authn gin.HandlerFunc
	// MetricsHandler is served on GET /metrics.
	MetricsHandler http.Handler
	// HTTPMetrics observes every request.
	HTTPMetrics HTTPMetrics
	// Recorder stores API telemetry for /api/v1 routes.
	Recorder TelemetryRecorder
	// Limiter throttles /api/v1 routes per client IP.
	Limiter *RateLimiter
	// TrustedProxies may set X-Forwarded-For. Empty trusts none.
	TrustedProxies []string
}

// NewRouter builds the gin engine with middleware and every configured route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Warn("ignoring invalid trusted proxies", "proxies", cfg.TrustedProxies, "error", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "handler panic", "path", c.Request.URL.Path, "panic", recovered)
		writeProblem(c, http.StatusInternalServerError, "Internal error", "an unexpected error occurred")
	}))
	router.Use(RequestLogger(logger))
	if cfg.HTTPMetrics != nil {
		router.Use(Metrics(cfg.HTTPMetrics))
	}

	router.NoRoute(func(c *gin.Context) {
		writeProblem(c, http.StatusNotFound, "Not found", "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(router)
	}
	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := router.Group("/api/v1")
	if cfg.Recorder != nil {
		api.Use(Telemetry(cfg.Recorder))
	}
	if cfg.Limiter != nil {
		api.Use(RateLimit(cfg.Limiter))
	}
	if cfg.Simulations != nil {
		cfg.Simulations.RegisterRoutes(api)
	}
	if cfg.Products != nil {
		cfg.Products.RegisterRoutes(api, cfg.Authn)
	}
	if cfg.Telemetry != nil {
		cfg.Telemetry.RegisterRoutes(api)
	}

	return router
}
