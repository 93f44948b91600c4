package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
)

// HTTPMetrics receives one observation per served request.
type HTTPMetrics interface {
	HTTPRequest(ctx context.Context, method, route string, status int, elapsed time.Duration)
}

// TelemetryRecorder stores one API call. Implementations swallow their own errors.
type TelemetryRecorder interface {
	Execute(ctx context.Context, entry model.RequestTelemetry)
}

// RequestLogger logs every request once it completes.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		)
	}
}

// Metrics reports each request against its route template, or "unmatched"
// when no route was found.
func Metrics(m HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// Telemetry records each call as "METHOD /route" with its duration and
// outcome. Only matched routes are recorded.
func Telemetry(recorder TelemetryRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			return
		}
		status := c.Writer.Status()
		recorder.Execute(c.Request.Context(), model.RequestTelemetry{
			Endpoint:   c.Request.Method + " " + route,
			DurationMs: time.Since(start).Milliseconds(),
			StatusCode: status,
			Success:    status < http.StatusBadRequest,
			ClientIP:   c.ClientIP(),
			OccurredAt: start,
		})
	}
}
