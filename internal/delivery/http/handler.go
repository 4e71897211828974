package http

import (
	"errors"
	"net/http"

	"github.com/carboncart/backend/internal/domain"
	"github.com/carboncart/backend/internal/usecase"
	"github.com/carboncart/backend/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler holds dependencies for HTTP handlers. Any dependency may be nil,
// in which case its endpoints answer 501.
type Handler struct {
	optimization   *usecase.OptimizationService
	reconciliation *usecase.ReconciliationService
	products       domain.ProductRepository
	logger         *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	optimization *usecase.OptimizationService,
	reconciliation *usecase.ReconciliationService,
	products domain.ProductRepository,
) *Handler {
	return &Handler{
		optimization:   optimization,
		reconciliation: reconciliation,
		products:       products,
		logger:         util.Named("http"),
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type reconcileRequest struct {
	Items   []domain.CartItem     `json:"items" binding:"required"`
	Results []domain.RecalcResult `json:"results"`
}

type recalculateRequest struct {
	Pincode string            `json:"pincode"`
	Items   []domain.CartItem `json:"items"`
}

type optimizeRequest struct {
	ProductIDs []domain.ProductID `json:"productIds"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "carboncart-backend",
		"version": "1.0.0",
	})
}

// ReconcileCart merges recalculation results into a scraped cart
func (h *Handler) ReconcileCart(c *gin.Context) {
	if h.reconciliation == nil {
		notConfigured(c, "reconciliation")
		return
	}

	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	outcome := h.reconciliation.ReconcileCart(c.Request.Context(), req.Items, req.Results)
	c.JSON(http.StatusOK, outcome)
}

// Recalculate enriches cart items with distance and transport footprint
func (h *Handler) Recalculate(c *gin.Context) {
	if h.reconciliation == nil {
		notConfigured(c, "recalculation")
		return
	}

	var req recalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Items == nil {
		req.Items = []domain.CartItem{}
	}

	resp, err := h.reconciliation.Recalculate(c.Request.Context(), req.Pincode, req.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshCart recalculates a cart and applies the results to it
func (h *Handler) RefreshCart(c *gin.Context) {
	if h.reconciliation == nil {
		notConfigured(c, "recalculation")
		return
	}

	var req recalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Items == nil {
		req.Items = []domain.CartItem{}
	}

	outcome, err := h.reconciliation.RefreshCart(c.Request.Context(), req.Pincode, req.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// OptimizeCart compares a set of catalogue products across platforms
func (h *Handler) OptimizeCart(c *gin.Context) {
	if h.optimization == nil {
		notConfigured(c, "optimization")
		return
	}

	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	report, err := h.optimization.OptimizeCart(c.Request.Context(), req.ProductIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListProducts returns the whole catalogue
func (h *Handler) ListProducts(c *gin.Context) {
	if h.products == nil {
		notConfigured(c, "product catalogue")
		return
	}

	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetProduct returns one catalogue product
func (h *Handler) GetProduct(c *gin.Context) {
	if h.products == nil {
		notConfigured(c, "product catalogue")
		return
	}

	product, err := h.products.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// SaveProduct creates or replaces a catalogue product
func (h *Handler) SaveProduct(c *gin.Context) {
	if h.products == nil {
		notConfigured(c, "product catalogue")
		return
	}

	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		badRequest(c, err)
		return
	}
	if product.PlatformData == nil {
		product.PlatformData = []domain.PlatformData{}
	}

	if err := h.products.Save(c.Request.Context(), &product); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// respondError maps service errors to status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, message = http.StatusBadRequest, "invalid request"
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrRateLimited):
		status, message = http.StatusTooManyRequests, "upstream rate limit exceeded"
	case errors.Is(err, domain.ErrRecalcUnavailable):
		status, message = http.StatusBadGateway, "recalculation backend unavailable"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
	}

	c.JSON(status, ErrorResponse{Error: message, Details: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
}

func notConfigured(c *gin.Context, what string) {
	c.JSON(http.StatusNotImplemented, ErrorResponse{Error: what + " is not configured"})
}
