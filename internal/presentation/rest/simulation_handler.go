package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/usecase"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
)

const defaultPageSize = 10

// SimulationHandler serves the simulation endpoints.
type SimulationHandler struct {
	create *usecase.CreateSimulationUseCase
	get    *usecase.GetSimulationUseCase
	list   *usecase.ListSimulationsUseCase
	volume *usecase.GetDailyVolumeUseCase
	logger *slog.Logger
}

// NewSimulationHandler creates a handler with all use-case dependencies.
func NewSimulationHandler(
	create *usecase.CreateSimulationUseCase,
	get *usecase.GetSimulationUseCase,
	list *usecase.ListSimulationsUseCase,
	volume *usecase.GetDailyVolumeUseCase,
	logger *slog.Logger,
) *SimulationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulationHandler{
		create: create,
		get:    get,
		list:   list,
		volume: volume,
		logger: logger,
	}
}

// RegisterRoutes binds the handler under /simulations.
func (h *SimulationHandler) RegisterRoutes(api gin.IRouter) {
	sims := api.Group("/simulations")
	{
		sims.POST("", h.Create)
		sims.GET("", h.List)
		sims.GET("/by-product", h.DailyVolume)
		sims.GET("/:id", h.Get)
	}
}

// Create handles POST /api/v1/simulations.
func (h *SimulationHandler) Create(c *gin.Context) {
	var req dto.CreateSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeProblem(c, http.StatusBadRequest, "Malformed request", err.Error())
		return
	}

	resp, err := h.create.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "simulation created",
		"simulation_id", resp.ID,
		"product_code", resp.ProductCode,
		"total_installments", resp.TotalInstallments.String(),
	)
	c.Header("Location", fmt.Sprintf("%s/%d", c.FullPath(), resp.ID))
	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /api/v1/simulations/:id.
func (h *SimulationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeViolations(c, "Invalid path parameter", []valueobject.Violation{
			{Field: "id", Message: "must be a positive integer"},
		})
		return
	}

	resp, found, err := h.get.Execute(c.Request.Context(), dto.GetSimulationRequest{ID: id})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if !found {
		writeProblem(c, http.StatusNotFound, "Simulation not found",
			fmt.Sprintf("no simulation with id %d", id))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/v1/simulations?page=&page_size=.
func (h *SimulationHandler) List(c *gin.Context) {
	q := newQueryParams(c)
	req := dto.ListSimulationsRequest{
		Page:     q.Int("page", 1),
		PageSize: q.Int("page_size", defaultPageSize),
	}
	if !q.Valid() {
		return
	}

	resp, err := h.list.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DailyVolume handles GET /api/v1/simulations/by-product?reference_date=.
func (h *SimulationHandler) DailyVolume(c *gin.Context) {
	q := newQueryParams(c)
	req := dto.DailyVolumeRequest{ReferenceDate: q.RequiredDate("reference_date")}
	if !q.Valid() {
		return
	}

	resp, err := h.volume.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
