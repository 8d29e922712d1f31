package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalysis "github.com/jgraziolaVU/Yeonni1MB/internal/application/analysis"
	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
	appprom "github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/prometheus"
	apphttp "github.com/jgraziolaVU/Yeonni1MB/internal/interfaces/http"
)

func TestRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()

	collector := appprom.NewCollector("mossfit")
	metrics := appprom.NewAppMetrics(collector)

	svc := appanalysis.NewService(config.FitConfig{
		DefaultModel:  "lorentzian",
		MaxSites:      4,
		MaxIterations: 300,
	}, nil, nil, metrics)

	handler := apphttp.NewHandler(svc, nil, nil, metrics, 1<<20, "disk")
	router := apphttp.NewRouter(apphttp.RouterConfig{
		Handler:   handler,
		Mode:      "test",
		Collector: collector,
		Metrics:   metrics,
	})

	// Drive one request through the middleware so the HTTP counters have a
	// sample to report.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mossfit_http_requests_total")
}
