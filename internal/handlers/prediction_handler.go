package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/stwalsh4118/seattle-energy/internal/errors"
	"github.com/stwalsh4118/seattle-energy/internal/scoring"
	"github.com/stwalsh4118/seattle-energy/internal/services"
	"github.com/stwalsh4118/seattle-energy/internal/validation"
)

// PredictionHandler handles the prediction endpoints.
type PredictionHandler struct {
	service services.PredictionService
}

// NewPredictionHandler creates a new PredictionHandler instance.
func NewPredictionHandler(service services.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		service: service,
	}
}

// Predict handles POST /predict and POST /predict_single.
// Invalid input yields 422 with every violation; a failing pipeline yields
// 500 with kind prediction_error.
func (h *PredictionHandler) Predict(c *gin.Context) {
	raw, err := decodeObject(c)
	if err != nil {
		bodyError(c, err)
		return
	}

	result, err := h.service.Predict(c.Request.Context(), raw)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			apierrors.ValidationFailed(c, verr)
		case errors.Is(err, scoring.ErrPrediction):
			apierrors.PredictionFailed(c, err)
		default:
			apierrors.InternalServerError(c, "An unexpected error occurred", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
