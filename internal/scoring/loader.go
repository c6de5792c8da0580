package scoring

import (
	"fmt"
	"time"

	"github.com/stwalsh4118/seattle-energy/internal/config"
	"github.com/stwalsh4118/seattle-energy/internal/features"
)

// LoadOptions are shared by every target loaded at startup.
type LoadOptions struct {
	Columns  []string
	Timeout  time.Duration
	Encoding features.Encoding
}

// LoadTarget builds the Target described by cfg. A remote URL wins over an
// artifact path. When the pipeline cannot be used the returned Target holds
// an Unavailable predictor and err says why, so callers can log it and keep
// serving.
func LoadTarget(name string, cfg config.TargetConfig, opts LoadOptions) (Target, error) {
	target := Target{Name: name, LogTarget: cfg.LogTarget}

	if cfg.URL != "" {
		target.Predictor = NewRemotePredictor(cfg.URL, opts.Timeout, opts.Encoding)
		return target, nil
	}

	model, err := LoadLinearModel(cfg.Path)
	if err != nil {
		target.Predictor = Unavailable{Reason: err}
		return target, fmt.Errorf("failed to load %s pipeline: %w", name, err)
	}

	if err := checkColumns(opts.Columns, model); err != nil {
		target.Predictor = Unavailable{Reason: err}
		return target, fmt.Errorf("%s pipeline was trained on a different column order: %w", name, err)
	}

	target.Predictor = model
	return target, nil
}

// checkColumns refuses predictors that declare a column order other than
// columns. Predictors that declare nothing are accepted.
func checkColumns(columns []string, p Predictor) error {
	d, ok := p.(ColumnDeclarer)
	if !ok {
		return nil
	}
	return features.CheckOrder(columns, d.Columns())
}
