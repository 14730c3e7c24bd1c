package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/reddyfit/bodyscan/internal/config"
	"github.com/reddyfit/bodyscan/internal/models"
	"github.com/reddyfit/bodyscan/internal/server"
	"github.com/reddyfit/bodyscan/internal/storage"
	"github.com/reddyfit/bodyscan/internal/whoop"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := config.Default()
	cfg.Storage.LocalPath = filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStore(cfg.Storage.LocalPath, log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	whoopClient := whoop.NewClient("", log) // mock mode

	return server.New(cfg, store, nil, nil, whoopClient, log)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func scanRequest(waist, bodyFat float64) server.CreateScanRequest {
	return server.CreateScanRequest{
		Gender: "male",
		ImageURLs: map[string]string{
			"front": "https://photos.example.com/front.jpg",
			"back":  "https://photos.example.com/back.jpg",
			"side":  "https://photos.example.com/side.jpg",
		},
		Measurements: map[string]interface{}{
			"chest":             110.0,
			"waist":             waist,
			"hips":              96.0,
			"bicep":             40.0,
			"thigh":             60.0,
			"calf":              38.0,
			"body_fat":          bodyFat,
			"weight":            85.0,
			"posture":           8.0,
			"muscle_definition": "high",
		},
		IncludeWhoop: true,
	}
}

func TestCreateAndFetchScan(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, "POST", "/api/v1/users/user-1/scans", scanRequest(72, 12))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created server.CreateScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Scan.ScanID)
	require.NotEmpty(t, created.Scan.BodySignatureID)
	require.Len(t, created.Scan.CompositionHash, 6)
	require.Equal(t, models.BodyTypeVTaper, created.Scan.AestheticScore.BodyType)
	require.NotNil(t, created.Scan.Recommendations)
	require.NotNil(t, created.Scan.WhoopData)
	require.NotEmpty(t, created.Summary)

	rec = doJSON(t, h, "GET", "/api/v1/users/user-1/scans/"+created.Scan.ScanID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched models.ScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	require.Equal(t, created.Scan.CompositionHash, fetched.CompositionHash)
	require.Equal(t, created.Scan.BodySignatureID, fetched.BodySignatureID)
}

func TestCreateScanValidation(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	// No measurements and no photos
	rec := doJSON(t, h, "POST", "/api/v1/users/user-1/scans", server.CreateScanRequest{Gender: "male"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Photos only, but no vision analyzer configured
	rec = doJSON(t, h, "POST", "/api/v1/users/user-1/scans", server.CreateScanRequest{
		Gender:    "male",
		ImageURLs: map[string]string{"front": "https://photos.example.com/front.jpg"},
	})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Malformed body
	req := httptest.NewRequest("POST", "/api/v1/users/user-1/scans", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHistoryLatestAndCompare(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, "POST", "/api/v1/users/user-2/scans", scanRequest(76, 15))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = doJSON(t, h, "POST", "/api/v1/users/user-2/scans", scanRequest(72, 13))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, "GET", "/api/v1/users/user-2/scans?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Scans []*models.ScanResult `json:"scans"`
		Count int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Equal(t, 2, history.Count)

	rec = doJSON(t, h, "GET", "/api/v1/users/user-2/scans/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var latest models.ScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &latest))
	require.InDelta(t, 13.0, latest.Measurements.BodyFatPercent, 0.001)

	rec = doJSON(t, h, "GET", "/api/v1/users/user-2/scans/compare", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Half-specified range is rejected instead of silently ignored
	rec = doJSON(t, h, "GET", "/api/v1/users/user-2/scans/compare?from=some-id", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Compare needs two scans
	rec = doJSON(t, h, "POST", "/api/v1/users/user-3/scans", scanRequest(80, 18))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, h, "GET", "/api/v1/users/user-3/scans/compare", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotFoundResponses(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, "GET", "/api/v1/users/nobody/scans/latest", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, "GET", "/api/v1/users/nobody/scans/missing-id", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, "GET", "/api/v1/users/nobody/profile", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	age := 30
	height := 180.0
	profile := models.UserProfile{
		Email:         "user@example.com",
		Age:           &age,
		Gender:        "male",
		HeightCm:      &height,
		ActivityLevel: "moderate",
		FitnessGoal:   "muscle_gain",
	}

	rec := doJSON(t, h, "PUT", "/api/v1/users/user-9/profile", profile)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, "GET", "/api/v1/users/user-9/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "user-9", got.UID)
	require.Equal(t, "user@example.com", got.Email)
	require.Equal(t, "muscle_gain", got.FitnessGoal)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), "GET", "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, "ok", status["status"])
	require.Equal(t, "2.0", status["api_version"])
}
