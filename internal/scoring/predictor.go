package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/seattle-energy/internal/features"
)

// Scoring errors
var (
	ErrPrediction       = errors.New("prediction failed")
	ErrModelUnavailable = errors.New("model unavailable")
	ErrArtifactNotFound = errors.New("model artifact not found")
)

// Predictor scores one aligned feature row. Implementations must be safe
// for concurrent use; they are loaded once and shared by all requests.
type Predictor interface {
	Predict(ctx context.Context, vec features.Vector) (float64, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, vec features.Vector) (float64, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, vec features.Vector) (float64, error) {
	return f(ctx, vec)
}

// ColumnDeclarer is implemented by predictors that know the column order
// they were trained on.
type ColumnDeclarer interface {
	Columns() []string
}

// Unavailable stands in for a pipeline that could not be loaded at startup.
// Every call fails with ErrModelUnavailable.
type Unavailable struct {
	Reason error
}

// Predict always fails.
func (u Unavailable) Predict(context.Context, features.Vector) (float64, error) {
	if u.Reason == nil {
		return 0, ErrModelUnavailable
	}
	return 0, fmt.Errorf("%w: %v", ErrModelUnavailable, u.Reason)
}

// IsAvailable reports whether p is a loaded predictor.
func IsAvailable(p Predictor) bool {
	if p == nil {
		return false
	}
	_, unavailable := p.(Unavailable)
	return !unavailable
}
