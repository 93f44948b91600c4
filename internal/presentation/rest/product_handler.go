package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/usecase"
)

// ProductHandler serves the catalog endpoints. Both routes require a bearer token.
type ProductHandler struct {
	list     *usecase.ListProductsUseCase
	eligible *usecase.ListEligibleProductsUseCase
	logger   *slog.Logger
}

// NewProductHandler creates a handler with its use-case dependencies.
func NewProductHandler(
	list *usecase.ListProductsUseCase,
	eligible *usecase.ListEligibleProductsUseCase,
	logger *slog.Logger,
) *ProductHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{list: list, eligible: eligible, logger: logger}
}

// RegisterRoutes binds the handler under /products behind authn. A nil authn
// leaves the routes open.
func (h *ProductHandler) RegisterRoutes(api gin.IRouter, authn gin.HandlerFunc) {
	var middleware []gin.HandlerFunc
	if authn != nil {
		middleware = append(middleware, authn)
	}
	products := api.Group("/products", middleware...)
	{
		products.GET("", h.List)
		products.GET("/eligible", h.Eligible)
	}
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.list.Execute(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Eligible handles GET /api/v1/products/eligible?value=&term=.
func (h *ProductHandler) Eligible(c *gin.Context) {
	q := newQueryParams(c)
	req := dto.EligibleProductsRequest{
		Value: q.RequiredDecimal("value"),
		Term:  q.RequiredInt("term"),
	}
	if !q.Valid() {
		return
	}

	products, err := h.eligible.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}
