package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/udayvalera/recipe-basket/internal/domain"
	"github.com/udayvalera/recipe-basket/internal/requestid"
	"github.com/udayvalera/recipe-basket/internal/usecase"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service domain.RecipeService
	basket  *usecase.BasketController
	logger  logrus.FieldLogger
}

// NewHandler creates a new HTTP handler
func NewHandler(service domain.RecipeService, basket *usecase.BasketController, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		service: service,
		basket:  basket,
		logger:  logger,
	}
}

type addIngredientRequest struct {
	Name string `json:"name" binding:"required"`
}

type generateRequest struct {
	SelectedIDs []string `json:"selectedIds"`
	// Catalog is optional; when omitted it is fetched from the backend
	Catalog []domain.Ingredient `json:"catalog"`
}

type basketStatusResponse struct {
	InProgress bool   `json:"inProgress"`
	LastError  string `json:"lastError,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recipe-basket",
		"version": Version,
	})
}

// ListIngredients returns the ingredient catalog
func (h *Handler) ListIngredients(c *gin.Context) {
	ingredients, err := h.service.ListIngredients(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// AddIngredient adds an ingredient to the catalog
func (h *Handler) AddIngredient(c *gin.Context) {
	var req addIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be {\"name\": string}"})
		return
	}

	ingredient, err := h.service.AddIngredient(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

// GenerateRecipe generates a recipe from the selected ingredient IDs
func (h *Handler) GenerateRecipe(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// skip the catalog round trip when the controller would reject the call anyway
	if h.basket.InProgress() {
		h.respondError(c, domain.ErrBusy)
		return
	}

	ctx := c.Request.Context()
	catalog := req.Catalog
	// an empty selection is rejected by the controller without touching the backend
	if catalog == nil && len(req.SelectedIDs) > 0 {
		var err error
		catalog, err = h.service.ListIngredients(ctx)
		if err != nil {
			h.respondError(c, err)
			return
		}
	}

	result, err := h.basket.GenerateBasket(ctx, req.SelectedIDs, catalog)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BasketStatus reports whether a generation is pending and the last failure
func (h *Handler) BasketStatus(c *gin.Context) {
	resp := basketStatusResponse{InProgress: h.basket.InProgress()}
	if err := h.basket.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// RecipeHistory returns previously generated recipes
func (h *Handler) RecipeHistory(c *gin.Context) {
	recipes, err := h.service.FetchHistory(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).
			WithField("request_id", requestid.FromContext(c.Request.Context())).
			Error("request to recipe backend failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusForError maps domain errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrTransport),
		errors.Is(err, domain.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
