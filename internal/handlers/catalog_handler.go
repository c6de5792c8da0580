package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/stwalsh4118/seattle-energy/internal/errors"
	"github.com/stwalsh4118/seattle-energy/internal/services"
	"github.com/stwalsh4118/seattle-energy/internal/validation"
)

// CatalogHandler handles the benchmarking data endpoints.
type CatalogHandler struct {
	service services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler instance.
func NewCatalogHandler(service services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// YearRequest represents the path parameters of the by-year endpoint.
type YearRequest struct {
	Year string `uri:"year" binding:"required,number"`
}

// Head handles GET /data.
// It returns the first rows of the catalog as a JSON array.
func (h *CatalogHandler) Head(c *gin.Context) {
	rows, err := h.service.Head(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// ByYear handles GET /data/year/:year.
// It returns every row of that data year, or a message when there is none.
func (h *CatalogHandler) ByYear(c *gin.Context) {
	var req YearRequest
	if err := c.ShouldBindUri(&req); err != nil {
		apierrors.BindingError(c, "year must be an integer", err)
		return
	}

	year, err := strconv.Atoi(req.Year)
	if err != nil {
		apierrors.BadRequest(c, "year must be an integer", map[string]interface{}{
			"year": req.Year,
		})
		return
	}

	rows, err := h.service.ByYear(c.Request.Context(), year)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if len(rows) == 0 {
		c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf(MessageNoData, year)})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// Submit handles POST /data/submit.
// The body is checked against the submission schema and echoed back. It is
// not stored.
func (h *CatalogHandler) Submit(c *gin.Context) {
	raw, err := decodeObject(c)
	if err != nil {
		bodyError(c, err)
		return
	}

	result, err := h.service.Submit(c.Request.Context(), raw)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubmitResponse{
		Status:  services.StatusSuccess,
		Message: MessageSubmitted,
		Data:    result.Values,
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *CatalogHandler) handleServiceError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, verr)
	case errors.Is(err, services.ErrDatasetEmpty):
		apierrors.DatasetUnavailable(c)
	default:
		apierrors.InternalServerError(c, "An unexpected error occurred", err)
	}
}
