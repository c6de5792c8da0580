package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/stwalsh4118/seattle-energy/internal/features"
)

// Artifact is the serialized form of a linear pipeline exported from the
// training notebook: a fitted intercept, numeric coefficients with their
// imputation values and one-hot weights per categorical level.
type Artifact struct {
	Name        string                     `json:"name"`
	Version     string                     `json:"version"`
	Target      string                     `json:"target"`
	Features    []string                   `json:"features"`
	Intercept   float64                    `json:"intercept"`
	Numeric     map[string]NumericTerm     `json:"numeric"`
	Categorical map[string]CategoricalTerm `json:"categorical"`
}

// NumericTerm weights one numeric column. Absent cells take Impute.
// Log1p applies log(1+x) to the input before weighting.
type NumericTerm struct {
	Coef   float64 `json:"coef"`
	Impute float64 `json:"impute"`
	Log1p  bool    `json:"log1p,omitempty"`
}

// CategoricalTerm weights the levels of one text column. Levels are keyed
// in lower case; unseen levels get Unknown.
type CategoricalTerm struct {
	Levels  map[string]float64 `json:"levels"`
	Unknown float64            `json:"unknown"`
}

type numericEntry struct {
	column string
	term   NumericTerm
}

type categoricalEntry struct {
	column string
	term   CategoricalTerm
}

// LinearModel is a Predictor backed by an Artifact.
type LinearModel struct {
	name        string
	version     string
	columns     []string
	intercept   float64
	numeric     []numericEntry
	categorical []categoricalEntry
}

// LoadLinearModel reads an artifact from path. A missing file is reported
// as ErrArtifactNotFound.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}

	return NewLinearModel(artifact)
}

// NewLinearModel checks an artifact and builds the model from it.
// Every weighted column must be one of the artifact's features.
func NewLinearModel(a Artifact) (*LinearModel, error) {
	if len(a.Features) == 0 {
		return nil, errors.New("model artifact declares no features")
	}

	known := make(map[string]bool, len(a.Features))
	for _, f := range a.Features {
		known[f] = true
	}

	m := &LinearModel{
		name:      a.Name,
		version:   a.Version,
		columns:   append([]string(nil), a.Features...),
		intercept: a.Intercept,
	}

	for column, term := range a.Numeric {
		if !known[column] {
			return nil, fmt.Errorf("numeric term %q is not a declared feature", column)
		}
		m.numeric = append(m.numeric, numericEntry{column: column, term: term})
	}
	for column, term := range a.Categorical {
		if !known[column] {
			return nil, fmt.Errorf("categorical term %q is not a declared feature", column)
		}
		levels := make(map[string]float64, len(term.Levels))
		for level, weight := range term.Levels {
			levels[strings.ToLower(level)] = weight
		}
		term.Levels = levels
		m.categorical = append(m.categorical, categoricalEntry{column: column, term: term})
	}

	// Fixed summation order keeps repeated predictions bit-identical.
	sort.Slice(m.numeric, func(i, j int) bool { return m.numeric[i].column < m.numeric[j].column })
	sort.Slice(m.categorical, func(i, j int) bool { return m.categorical[i].column < m.categorical[j].column })

	return m, nil
}

// Name returns the artifact name.
func (m *LinearModel) Name() string { return m.name }

// Version returns the artifact version.
func (m *LinearModel) Version() string { return m.version }

// Columns returns the training-time column order.
func (m *LinearModel) Columns() []string {
	return append([]string(nil), m.columns...)
}

// Predict scores vec, which must have exactly the model's column order.
func (m *LinearModel) Predict(ctx context.Context, vec features.Vector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := features.CheckOrder(m.columns, vec.Columns()); err != nil {
		return 0, fmt.Errorf("input shape mismatch: %w", err)
	}

	sum := m.intercept
	for _, e := range m.numeric {
		x, ok := vec.Float(e.column)
		if !ok {
			value, _ := vec.Get(e.column)
			if !features.IsAbsent(value) {
				return 0, fmt.Errorf("column %s: expected a number, got %T", e.column, value)
			}
			x = e.term.Impute
		}
		if e.term.Log1p {
			x = math.Log1p(math.Max(x, 0))
		}
		sum += e.term.Coef * x
	}

	for _, e := range m.categorical {
		value, _ := vec.Get(e.column)
		level := ""
		switch v := value.(type) {
		case string:
			level = strings.ToLower(v)
		default:
			if !features.IsAbsent(value) {
				return 0, fmt.Errorf("column %s: expected text, got %T", e.column, value)
			}
		}
		weight, ok := e.term.Levels[level]
		if !ok {
			weight = e.term.Unknown
		}
		sum += weight
	}

	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, errors.New("model produced a non-finite score")
	}
	return sum, nil
}
