package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalysis "github.com/jgraziolaVU/Yeonni1MB/internal/application/analysis"
	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
	"github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/storage"
	apphttp "github.com/jgraziolaVU/Yeonni1MB/internal/interfaces/http"
	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

func doubletCSV() []byte {
	var sb bytes.Buffer
	const n = 201
	for i := 0; i < n; i++ {
		v := -4.0 + 8.0*float64(i)/float64(n-1)
		a := 1.0
		for _, c := range []float64{-1.2, 1.2} {
			d := v - c
			a -= 0.08 / math.Pi * 0.15 / (d*d + 0.15*0.15)
		}
		fmt.Fprintf(&sb, "%.4f,%.6f\n", v, a)
	}
	return sb.Bytes()
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store, err := storage.NewDiskStore(t.TempDir(), 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := appanalysis.NewService(config.FitConfig{
		DefaultModel:  "lorentzian",
		MaxSites:      4,
		MaxIterations: 300,
	}, nil, nil, nil)

	handler := apphttp.NewHandler(svc, store, nil, nil, 1<<20, "disk")
	return apphttp.NewRouter(apphttp.RouterConfig{
		Handler: handler,
		Mode:    "test",
	})
}

// multipartUpload builds an analyze request with the given form fields.
func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, body *bytes.Buffer) (code string) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body.Bytes(), &envelope))
	return envelope.Error.Code
}

func TestAnalyzeEndpoint_RoundTrip(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "sample.csv", doubletCSV(), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result analysis.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.ID)
	require.Len(t, result.Fit.Sites, 1)
	assert.InDelta(t, 2.4, result.Fit.Sites[0].QuadrupoleSplitting, 0.1)
	assert.Len(t, result.Charts.Components, 2)

	// The report is persisted and fetchable by ID.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+result.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched analysis.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, result.ID, fetched.ID)

	// Delete it, then a fetch is a 404.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/reports/"+result.ID, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+result.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "COMMON_003", decodeError(t, rec.Body))
}

func TestAnalyzeEndpoint_Options(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "sample.csv", doubletCSV(), map[string]string{
		"model_type":    "pseudo_voigt",
		"n_sites":       "1",
		"custom_params": `{"peak1_sigma": {"value": 0.2, "max": 0.8}}`,
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result analysis.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "pseudo_voigt", result.Fit.Model)
	assert.Len(t, result.Fit.Sites, 1)
}

func TestAnalyzeEndpoint_BadRequests(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	tests := []struct {
		name     string
		request  *http.Request
		status   int
		wantCode string
	}{
		{
			name:     "missing file field",
			request:  multipartUpload(t, "", nil, nil),
			status:   http.StatusBadRequest,
			wantCode: "COMMON_002",
		},
		{
			name:     "unsupported extension",
			request:  multipartUpload(t, "sample.pdf", doubletCSV(), nil),
			status:   http.StatusBadRequest,
			wantCode: "SPEC_001",
		},
		{
			name:     "unknown model",
			request:  multipartUpload(t, "sample.csv", doubletCSV(), map[string]string{"model_type": "gaussian"}),
			status:   http.StatusBadRequest,
			wantCode: "COMMON_002",
		},
		{
			name:     "n_sites out of range",
			request:  multipartUpload(t, "sample.csv", doubletCSV(), map[string]string{"n_sites": "9"}),
			status:   http.StatusBadRequest,
			wantCode: "COMMON_002",
		},
		{
			name:     "custom_params not JSON",
			request:  multipartUpload(t, "sample.csv", doubletCSV(), map[string]string{"custom_params": "{"}),
			status:   http.StatusBadRequest,
			wantCode: "COMMON_002",
		},
		{
			name:     "unknown override parameter",
			request:  multipartUpload(t, "sample.csv", doubletCSV(), map[string]string{"custom_params": `{"peak9_center":{"value":0}}`}),
			status:   http.StatusBadRequest,
			wantCode: "COMMON_002",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tt.request)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, decodeError(t, rec.Body))
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
