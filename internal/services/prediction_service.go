package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stwalsh4118/seattle-energy/internal/features"
	"github.com/stwalsh4118/seattle-energy/internal/logger"
	"github.com/stwalsh4118/seattle-energy/internal/models"
	"github.com/stwalsh4118/seattle-energy/internal/scoring"
	"github.com/stwalsh4118/seattle-energy/internal/validation"
)

// Prediction result status and message
const (
	StatusSuccess    = "success"
	MessagePredicted = "prediction completed successfully"
)

// PredictionService turns a raw building payload into a prediction.
type PredictionService interface {
	// Predict validates raw, aligns it to the training columns and scores it.
	// Returns a *validation.Error when raw is rejected; no model is called.
	// Returns an error wrapping scoring.ErrPrediction when scoring fails.
	Predict(ctx context.Context, raw map[string]interface{}) (*models.PredictionResult, error)

	// Ready reports whether the energy pipeline is loaded.
	Ready() bool

	// Targets lists the configured pipelines, energy first.
	Targets() []scoring.Target

	// DualTarget reports whether emissions are predicted alongside energy.
	DualTarget() bool
}

// predictionService is the concrete implementation of PredictionService.
type predictionService struct {
	validator *validation.Validator
	aligner   *features.Aligner
	invoker   *scoring.Invoker
	log       *logger.Logger
}

// NewPredictionService creates a new instance of PredictionService.
func NewPredictionService(v *validation.Validator, aligner *features.Aligner, invoker *scoring.Invoker, log *logger.Logger) PredictionService {
	return &predictionService{
		validator: v,
		aligner:   aligner,
		invoker:   invoker,
		log:       log,
	}
}

func (s *predictionService) Ready() bool {
	targets := s.invoker.Targets()
	return scoring.IsAvailable(targets[0].Predictor)
}

func (s *predictionService) Targets() []scoring.Target {
	return s.invoker.Targets()
}

func (s *predictionService) DualTarget() bool {
	return s.invoker.DualTarget()
}

// Predict runs validate, align and invoke in that order. A rejected record
// never reaches a model.
func (s *predictionService) Predict(ctx context.Context, raw map[string]interface{}) (*models.PredictionResult, error) {
	result, err := s.validator.Validate(validation.PredictionSchema, raw)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			s.log.Info("Prediction input rejected", map[string]interface{}{
				"violations": len(verr.Fields),
				"coherence":  verr.HasKind(validation.KindCoherence),
			})
			return nil, err
		}
		s.log.Error("Prediction input check failed", err, nil)
		return nil, fmt.Errorf("failed to validate prediction input: %w", err)
	}

	vec := s.aligner.Align(result.Values)

	start := time.Now()
	out, err := s.invoker.Invoke(ctx, vec)
	if err != nil {
		s.log.Error("Prediction failed", err, map[string]interface{}{
			"kind":          "prediction_error",
			"property_type": result.Record.PrimaryPropertyType,
		})
		return nil, err
	}

	s.log.Info("Prediction completed", map[string]interface{}{
		"property_type": result.Record.PrimaryPropertyType,
		"energy_kbtu":   out.Energy,
		"dual_target":   out.Emissions != nil,
		"duration_ms":   time.Since(start).Milliseconds(),
	})

	return &models.PredictionResult{
		Status:  StatusSuccess,
		Message: MessagePredicted,
		Prediction: models.Prediction{
			EnergyKBtu:   out.Energy,
			EmissionsGHG: out.Emissions,
		},
	}, nil
}
