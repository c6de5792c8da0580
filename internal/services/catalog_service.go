package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/seattle-energy/internal/logger"
	"github.com/stwalsh4118/seattle-energy/internal/models"
	"github.com/stwalsh4118/seattle-energy/internal/repository"
	"github.com/stwalsh4118/seattle-energy/internal/validation"
)

// DefaultHeadRows is the number of rows GET /data returns when unconfigured.
const DefaultHeadRows = 5

// Catalog errors
var (
	ErrDatasetEmpty = errors.New("dataset empty")
	ErrInvalidYear  = errors.New("invalid data year")
)

// CatalogStats summarizes the loaded dataset for health and info endpoints.
type CatalogStats struct {
	Source  string `json:"source"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// CatalogService defines the read side of the benchmarking catalog plus the
// accept-and-echo submission check.
type CatalogService interface {
	// Head returns the first configured number of rows.
	// Returns ErrDatasetEmpty when no dataset is loaded.
	Head(ctx context.Context) ([]models.Row, error)

	// ByYear returns the rows whose DataYear equals year.
	// Returns an empty slice when nothing matches (not an error).
	// Returns ErrDatasetEmpty when no dataset is loaded.
	ByYear(ctx context.Context, year int) ([]models.Row, error)

	// Submit validates raw against the submission schema and returns the
	// validated values. Nothing is stored.
	// Returns a *validation.Error when the record is rejected.
	Submit(ctx context.Context, raw map[string]interface{}) (*validation.Result, error)

	// Loaded reports whether a non-empty dataset is available.
	Loaded() bool

	// Stats describes the loaded dataset.
	Stats() CatalogStats
}

// catalogService is the concrete implementation of CatalogService.
type catalogService struct {
	dataset   *models.Dataset
	source    string
	headRows  int
	validator *validation.Validator
	log       *logger.Logger
}

// NewCatalogService creates a CatalogService over an already loaded dataset.
// dataset may be nil when loading failed; queries then report ErrDatasetEmpty.
func NewCatalogService(dataset *models.Dataset, source string, headRows int, v *validation.Validator, log *logger.Logger) CatalogService {
	if headRows <= 0 {
		headRows = DefaultHeadRows
	}
	return &catalogService{
		dataset:   dataset,
		source:    source,
		headRows:  headRows,
		validator: v,
		log:       log,
	}
}

// LoadCatalog reads the dataset through repo once. A failed load is logged
// with its kind and yields a nil dataset, so the data endpoints report an
// empty dataset while the rest of the API keeps serving.
func LoadCatalog(ctx context.Context, repo repository.CatalogRepository, log *logger.Logger) *models.Dataset {
	log.Info("Loading catalog", map[string]interface{}{
		"source": repo.Source(),
	})

	dataset, err := repo.Load(ctx)
	if err != nil {
		kind := "load_error"
		if errors.Is(err, repository.ErrCatalogNotFound) {
			kind = "not_found"
		}
		log.Error("Catalog unavailable, data endpoints will report an empty dataset", err, map[string]interface{}{
			"source": repo.Source(),
			"kind":   kind,
		})
		return nil
	}

	log.Info("Catalog loaded", map[string]interface{}{
		"source":  repo.Source(),
		"rows":    dataset.Len(),
		"columns": len(dataset.Columns()),
	})
	return dataset
}

func (s *catalogService) Loaded() bool {
	return s.dataset.Len() > 0
}

func (s *catalogService) Stats() CatalogStats {
	stats := CatalogStats{Source: s.source, Rows: s.dataset.Len()}
	if s.dataset != nil {
		stats.Columns = len(s.dataset.Columns())
	}
	return stats
}

// Head returns the leading rows of the dataset.
func (s *catalogService) Head(ctx context.Context) ([]models.Row, error) {
	if !s.Loaded() {
		s.log.Warn("Catalog queried while empty", map[string]interface{}{
			"query": "head",
		})
		return nil, ErrDatasetEmpty
	}

	rows := s.dataset.Head(s.headRows)
	s.log.Debug("Catalog head served", map[string]interface{}{
		"count": len(rows),
	})
	return rows, nil
}

// ByYear filters the dataset on DataYear.
func (s *catalogService) ByYear(ctx context.Context, year int) ([]models.Row, error) {
	if !s.Loaded() {
		s.log.Warn("Catalog queried while empty", map[string]interface{}{
			"query": "by_year",
			"year":  year,
		})
		return nil, ErrDatasetEmpty
	}

	rows := s.dataset.FilterInt("DataYear", int64(year))

	s.log.Info("Catalog filtered by year", map[string]interface{}{
		"year":  year,
		"count": len(rows),
	})
	return rows, nil
}

// Submit runs the submission schema over raw.
func (s *catalogService) Submit(ctx context.Context, raw map[string]interface{}) (*validation.Result, error) {
	result, err := s.validator.Validate(validation.SubmissionSchema, raw)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			s.log.Info("Submission rejected", map[string]interface{}{
				"violations": len(verr.Fields),
			})
			return nil, err
		}
		s.log.Error("Submission check failed", err, nil)
		return nil, fmt.Errorf("failed to validate submission: %w", err)
	}

	s.log.Info("Submission accepted", map[string]interface{}{
		"ose_building_id": result.Values["OSEBuildingID"],
		"data_year":       result.Record.DataYear,
	})
	return result, nil
}
