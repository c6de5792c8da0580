package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stwalsh4118/seattle-energy/internal/features"
	"golang.org/x/sync/errgroup"
)

// Target is one trained pipeline and how to read its output.
// LogTarget pipelines were fitted on log1p(y) and get expm1 applied.
type Target struct {
	Name      string
	Predictor Predictor
	LogTarget bool
}

// Output holds the rounded predictions of one request.
type Output struct {
	Energy    float64
	Emissions *float64
}

// Invoker calls the energy pipeline and, when configured, the emissions
// pipeline with the same row. Both succeed or the call fails.
type Invoker struct {
	energy    Target
	emissions *Target
}

// NewInvoker creates an Invoker. emissions may be nil for single-target use.
func NewInvoker(energy Target, emissions *Target) (*Invoker, error) {
	if energy.Predictor == nil {
		return nil, errors.New("energy target requires a predictor")
	}
	if emissions != nil && emissions.Predictor == nil {
		return nil, errors.New("emissions target requires a predictor")
	}
	return &Invoker{energy: energy, emissions: emissions}, nil
}

// DualTarget reports whether emissions are predicted too.
func (i *Invoker) DualTarget() bool {
	return i.emissions != nil
}

// Targets returns the configured targets, energy first.
func (i *Invoker) Targets() []Target {
	targets := []Target{i.energy}
	if i.emissions != nil {
		targets = append(targets, *i.emissions)
	}
	return targets
}

// Invoke scores vec. Any predictor error or panic is returned wrapped in
// ErrPrediction; no partial output is ever returned.
func (i *Invoker) Invoke(ctx context.Context, vec features.Vector) (*Output, error) {
	if i.emissions == nil {
		energy, err := score(ctx, i.energy, vec)
		if err != nil {
			return nil, err
		}
		return &Output{Energy: Round2(energy)}, nil
	}

	var energy, emissions float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := score(gctx, i.energy, vec)
		energy = v
		return err
	})
	g.Go(func() error {
		v, err := score(gctx, *i.emissions, vec)
		emissions = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rounded := Round2(emissions)
	return &Output{Energy: Round2(energy), Emissions: &rounded}, nil
}

func score(ctx context.Context, t Target, vec features.Vector) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = 0
			err = fmt.Errorf("%w: %s pipeline panicked: %v", ErrPrediction, t.Name, r)
		}
	}()

	raw, err := t.Predictor.Predict(ctx, vec)
	if err != nil {
		return 0, fmt.Errorf("%w: %s pipeline: %w", ErrPrediction, t.Name, err)
	}
	if t.LogTarget {
		raw = math.Expm1(raw)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("%w: %s pipeline returned a non-finite value", ErrPrediction, t.Name)
	}
	return raw, nil
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
