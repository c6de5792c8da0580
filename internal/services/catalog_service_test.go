package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/seattle-energy/internal/logger"
	"github.com/stwalsh4118/seattle-energy/internal/models"
	"github.com/stwalsh4118/seattle-energy/internal/repository"
	"github.com/stwalsh4118/seattle-energy/internal/validation"
)

// MockCatalogRepository is a mock implementation of CatalogRepository for testing
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Load(ctx context.Context) (*models.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dataset), args.Error(1)
}

func (m *MockCatalogRepository) Source() string {
	return "mock"
}

// sampleDataset has five rows and exactly one for 2016.
func sampleDataset() *models.Dataset {
	return models.NewDataset(
		[]string{"OSEBuildingID", "DataYear", "PrimaryPropertyType", "PropertyGFATotal"},
		[][]interface{}{
			{int64(1), int64(2016), "Hotel", int64(88434)},
			{int64(2), int64(2017), "Hotel", int64(103566)},
			{int64(3), int64(2017), "Office", float64(956110.5)},
			{int64(5), int64(2018), "Hotel", int64(61320)},
			{int64(8), int64(2019), "Warehouse", nil},
		},
	)
}

func newTestValidator(t *testing.T) *validation.Validator {
	t.Helper()
	v, err := validation.New()
	require.NoError(t, err)
	return v
}

func TestCatalogService_Head(t *testing.T) {
	service := NewCatalogService(sampleDataset(), "mock", 3, newTestValidator(t), logger.New("test"))

	rows, err := service.Head(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	id, _ := rows[0].Get("OSEBuildingID")
	assert.Equal(t, int64(1), id)
}

func TestCatalogService_HeadDefaultsToFiveRows(t *testing.T) {
	service := NewCatalogService(sampleDataset(), "mock", 0, newTestValidator(t), logger.New("test"))

	rows, err := service.Head(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, DefaultHeadRows)
}

func TestCatalogService_ByYear(t *testing.T) {
	service := NewCatalogService(sampleDataset(), "mock", 5, newTestValidator(t), logger.New("test"))
	ctx := context.Background()

	rows, err := service.ByYear(ctx, 2016)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]interface{}{
		"OSEBuildingID":       int64(1),
		"DataYear":            int64(2016),
		"PrimaryPropertyType": "Hotel",
		"PropertyGFATotal":    int64(88434),
	}, rows[0].Map())

	rows, err = service.ByYear(ctx, 2017)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = service.ByYear(ctx, 9999)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestCatalogService_EmptyDataset(t *testing.T) {
	tests := []struct {
		name    string
		dataset *models.Dataset
	}{
		{name: "not loaded", dataset: nil},
		{name: "no rows", dataset: models.NewDataset([]string{"DataYear"}, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewCatalogService(tt.dataset, "mock", 5, newTestValidator(t), logger.New("test"))
			ctx := context.Background()

			assert.False(t, service.Loaded())

			_, err := service.Head(ctx)
			assert.ErrorIs(t, err, ErrDatasetEmpty)

			_, err = service.ByYear(ctx, 2016)
			assert.ErrorIs(t, err, ErrDatasetEmpty)
		})
	}
}

func TestCatalogService_Stats(t *testing.T) {
	service := NewCatalogService(sampleDataset(), "csv:sample.csv", 5, newTestValidator(t), logger.New("test"))
	assert.Equal(t, CatalogStats{Source: "csv:sample.csv", Rows: 5, Columns: 4}, service.Stats())

	empty := NewCatalogService(nil, "csv:missing.csv", 5, newTestValidator(t), logger.New("test"))
	assert.Equal(t, CatalogStats{Source: "csv:missing.csv"}, empty.Stats())
}

func TestCatalogService_Submit(t *testing.T) {
	service := NewCatalogService(sampleDataset(), "mock", 5, newTestValidator(t), logger.New("test"))

	result, err := service.Submit(context.Background(), map[string]interface{}{
		"OSEBuildingID":       float64(12345),
		"DataYear":            float64(2023),
		"BuildingType":        "Nonresidential",
		"PrimaryPropertyType": "Office",
		"PropertyName":        "Test Building",
		"Address":             "456 Test St",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12345), result.Values["OSEBuildingID"])
	assert.Equal(t, 2023, result.Record.DataYear)

	// Submissions are never stored.
	assert.Equal(t, 5, service.Stats().Rows)
}

func TestCatalogService_SubmitRejected(t *testing.T) {
	service := NewCatalogService(sampleDataset(), "mock", 5, newTestValidator(t), logger.New("test"))

	_, err := service.Submit(context.Background(), map[string]interface{}{
		"DataYear":            float64(2030),
		"BuildingType":        "Nonresidential",
		"PrimaryPropertyType": "Office",
	})
	require.Error(t, err)

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasKind(validation.KindFieldRequired))
	assert.True(t, verr.HasKind(validation.KindValidation))
}

func TestLoadCatalog_Success(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	ctx := context.Background()
	mockRepo.On("Load", ctx).Return(sampleDataset(), nil)

	ds := LoadCatalog(ctx, mockRepo, logger.New("test"))

	require.NotNil(t, ds)
	assert.Equal(t, 5, ds.Len())
	mockRepo.AssertExpectations(t)
}

func TestLoadCatalog_FailuresKeepServing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{name: "missing source", err: repository.ErrCatalogNotFound, kind: "not_found"},
		{name: "connection reset", err: errors.New("connection reset"), kind: "load_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCatalogRepository)
			ctx := context.Background()
			mockRepo.On("Load", ctx).Return(nil, tt.err)

			var buf bytes.Buffer
			ds := LoadCatalog(ctx, mockRepo, logger.NewWithOptions("production", "info", &buf))

			assert.Nil(t, ds)
			assert.Contains(t, buf.String(), `"kind":"`+tt.kind+`"`)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLoadCatalog_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv")
	require.NoError(t, os.WriteFile(path, []byte("DataYear,City\n2016,\"Sea\"ttle\n"), 0o600))

	ds := LoadCatalog(context.Background(), repository.NewCSVCatalogRepository(path), logger.New("test"))
	assert.Nil(t, ds)

	svc := NewCatalogService(ds, "csv:"+path, 5, nil, logger.New("test"))
	assert.False(t, svc.Loaded())

	_, err := svc.Head(context.Background())
	assert.ErrorIs(t, err, ErrDatasetEmpty)
}
