package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/usecase"
)

// TelemetryHandler serves the daily API telemetry report.
type TelemetryHandler struct {
	daily  *usecase.GetDailyTelemetryUseCase
	logger *slog.Logger
}

func NewTelemetryHandler(daily *usecase.GetDailyTelemetryUseCase, logger *slog.Logger) *TelemetryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TelemetryHandler{daily: daily, logger: logger}
}

func (h *TelemetryHandler) RegisterRoutes(api gin.IRouter) {
	api.GET("/telemetry", h.Daily)
}

// Daily handles GET /api/v1/telemetry?reference_date=.
func (h *TelemetryHandler) Daily(c *gin.Context) {
	q := newQueryParams(c)
	req := dto.DailyTelemetryRequest{ReferenceDate: q.RequiredDate("reference_date")}
	if !q.Valid() {
		return
	}

	resp, err := h.daily.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
