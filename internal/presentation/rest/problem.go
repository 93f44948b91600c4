package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/usecase"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/service"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
)

// Problem is the error body returned by every endpoint.
type Problem struct {
	Title  string                  `json:"title"`
	Detail string                  `json:"detail"`
	Status int                     `json:"status"`
	Errors []valueobject.Violation `json:"errors,omitempty"`
}

func writeProblem(c *gin.Context, status int, title, detail string, violations ...valueobject.Violation) {
	c.AbortWithStatusJSON(status, Problem{
		Title:  title,
		Detail: detail,
		Status: status,
		Errors: violations,
	})
}

func writeViolations(c *gin.Context, title string, violations []valueobject.Violation) {
	writeProblem(c, http.StatusBadRequest, title, "one or more fields are invalid", violations...)
}

// writeError maps a use-case error onto a problem response. Storage details
// never reach the client.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	var verr *valueobject.ValidationError
	switch {
	case errors.As(err, &verr):
		writeViolations(c, "Invalid request", verr.Violations)
	case errors.Is(err, service.ErrNoEligibleProduct):
		writeProblem(c, http.StatusBadRequest, "No eligible product", err.Error())
	case errors.Is(err, usecase.ErrUnavailable):
		logger.WarnContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		writeProblem(c, http.StatusServiceUnavailable, "Service unavailable", "try again later")
	default:
		logger.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		writeProblem(c, http.StatusInternalServerError, "Internal error", "an unexpected error occurred")
	}
}
