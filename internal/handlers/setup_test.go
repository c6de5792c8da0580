package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/seattle-energy/internal/features"
	"github.com/stwalsh4118/seattle-energy/internal/logger"
	"github.com/stwalsh4118/seattle-energy/internal/middleware"
	"github.com/stwalsh4118/seattle-energy/internal/models"
	"github.com/stwalsh4118/seattle-energy/internal/scoring"
	"github.com/stwalsh4118/seattle-energy/internal/services"
	"github.com/stwalsh4118/seattle-energy/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer holds what a handler test needs to tweak before building the router.
type testServer struct {
	dataset   *models.Dataset
	energy    scoring.Predictor
	logTarget bool
	emissions scoring.Predictor
	db        Pinger
}

// sampleDataset has five rows and exactly one for 2016.
func sampleDataset() *models.Dataset {
	return models.NewDataset(
		[]string{"OSEBuildingID", "DataYear", "BuildingType", "PrimaryPropertyType", "PropertyName", "ZipCode", "PropertyGFATotal", "ENERGYSTARScore"},
		[][]interface{}{
			{int64(1), int64(2016), "NonResidential", "Hotel", "Mayflower park hotel", int64(98101), int64(88434), int64(60)},
			{int64(2), int64(2017), "NonResidential", "Hotel", "Paramount Hotel", int64(98101), int64(103566), int64(61)},
			{int64(3), int64(2018), "NonResidential", "Hotel", "The Westin Seattle", int64(98101), int64(956110), nil},
			{int64(5), int64(2019), "NonResidential", "Hotel", "HOTEL MAX", int64(98101), int64(61320), int64(56)},
			{int64(8), int64(2020), "NonResidential", "Hotel", "WARWICK SEATTLE HOTEL", int64(98121), float64(175580.5), int64(75)},
		},
	)
}

func newTestServer() *testServer {
	return &testServer{
		dataset: sampleDataset(),
		energy: scoring.PredictorFunc(func(_ context.Context, vec features.Vector) (float64, error) {
			gfa, _ := vec.Float("PropertyGFATotal")
			return gfa * 75.123456, nil
		}),
	}
}

func (s *testServer) router(t *testing.T) *gin.Engine {
	t.Helper()
	log := logger.New("test")

	v, err := validation.New()
	require.NoError(t, err)
	aligner, err := features.NewAligner(features.ColumnsV1)
	require.NoError(t, err)

	var emissions *scoring.Target
	if s.emissions != nil {
		emissions = &scoring.Target{Name: "emissions", Predictor: s.emissions}
	}
	invoker, err := scoring.NewInvoker(scoring.Target{Name: "energy", Predictor: s.energy, LogTarget: s.logTarget}, emissions)
	require.NoError(t, err)

	catalog := services.NewCatalogService(s.dataset, "memory", 5, v, log)
	prediction := services.NewPredictionService(v, aligner, invoker, log)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	RegisterRoutes(router,
		NewHealthHandler(catalog, prediction, s.db, "test"),
		NewCatalogHandler(catalog),
		NewPredictionHandler(prediction),
	)
	return router
}

func doRequest(router http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, router http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return doRequest(router, http.MethodPost, path, bytes.NewReader(body))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}
