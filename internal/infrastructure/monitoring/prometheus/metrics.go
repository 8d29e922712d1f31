package prometheus

import "github.com/prometheus/client_golang/prometheus"

// Default histogram buckets.
var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultFitDurationBuckets  = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultLLMDurationBuckets  = []float64{.5, 1, 2, 5, 10, 30, 60}
)

// AppMetrics holds every metric the analysis service emits.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Analysis pipeline
	AnalysesTotal    *prometheus.CounterVec // labels: model, outcome
	FitDuration      *prometheus.HistogramVec
	FitIterations    *prometheus.HistogramVec
	SitesPerAnalysis *prometheus.HistogramVec

	// Interpretation chain
	LLMRequestsTotal  *prometheus.CounterVec // labels: outcome
	LLMDuration       *prometheus.HistogramVec
	InterpreterSource *prometheus.CounterVec // labels: source

	// Report storage
	ReportsSavedTotal *prometheus.CounterVec // labels: backend, outcome
}

// NewAppMetrics registers every application metric on the collector.
func NewAppMetrics(c MetricsCollector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal: c.RegisterCounter(
			"http_requests_total", "Total HTTP requests", "method", "path", "status"),
		HTTPRequestDuration: c.RegisterHistogram(
			"http_request_duration_seconds", "HTTP request duration",
			DefaultHTTPDurationBuckets, "method", "path"),

		AnalysesTotal: c.RegisterCounter(
			"analyses_total", "Completed spectrum analyses", "model", "outcome"),
		FitDuration: c.RegisterHistogram(
			"fit_duration_seconds", "Nonlinear least-squares fit duration",
			DefaultFitDurationBuckets, "model"),
		FitIterations: c.RegisterHistogram(
			"fit_iterations", "Optimizer iterations until convergence",
			[]float64{5, 10, 25, 50, 100, 200, 300}, "model"),
		SitesPerAnalysis: c.RegisterHistogram(
			"sites_per_analysis", "Number of sites resolved per analysis",
			[]float64{1, 2, 3, 4}, "model"),

		LLMRequestsTotal: c.RegisterCounter(
			"llm_requests_total", "External completion requests", "outcome"),
		LLMDuration: c.RegisterHistogram(
			"llm_request_duration_seconds", "External completion latency",
			DefaultLLMDurationBuckets),
		InterpreterSource: c.RegisterCounter(
			"interpretations_total", "Interpretations by producing path", "source"),

		ReportsSavedTotal: c.RegisterCounter(
			"reports_saved_total", "Persisted analysis reports", "backend", "outcome"),
	}
}
