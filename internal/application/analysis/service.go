// Package analysis wires the spectrum pipeline together: ingest, site
// estimation, model construction, fitting, parameter extraction,
// interpretation, and chart assembly. The HTTP handlers and the CLI both
// drive this service and contain no pipeline logic of their own.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
	"github.com/jgraziolaVU/Yeonni1MB/internal/domain/fitting"
	"github.com/jgraziolaVU/Yeonni1MB/internal/domain/spectrum"
	"github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/logging"
	appprom "github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/jgraziolaVU/Yeonni1MB/pkg/errors"
	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

// Interpreter produces the textual interpretation of a converged fit. It
// never returns an error; a degraded path is reported inside the
// Interpretation itself.
type Interpreter interface {
	Interpret(ctx context.Context, fit analysis.FitResult) analysis.Interpretation
}

// Options tunes one analysis request. The zero value means "use the
// configured defaults and automatic site estimation".
type Options struct {
	// Model overrides the configured default line-shape family when
	// non-empty.
	Model string

	// NSites fixes the site count; 0 estimates it from peak detection.
	NSites int

	// Overrides adjusts initial values and bounds of individual fit
	// parameters by name, e.g. "peak1_center".
	Overrides map[string]fitting.Override
}

// Service runs the analysis pipeline.
type Service struct {
	cfg     config.FitConfig
	interp  Interpreter
	logger  logging.Logger
	metrics *appprom.AppMetrics
}

// NewService builds the pipeline service. metrics may be nil in tests.
func NewService(cfg config.FitConfig, interp Interpreter, logger logging.Logger, metrics *appprom.AppMetrics) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{
		cfg:     cfg,
		interp:  interp,
		logger:  logger.Named("analysis"),
		metrics: metrics,
	}
}

// Analyze runs the full pipeline on one uploaded file. filename is used only
// for format detection; raw is the file content.
//
// Every error carries an application error code: parse failures map to the
// data codes, bad options to CodeInvalidParam, and a fit that cannot
// converge to CodeFitConvergence. A successful analysis always includes an
// interpretation, from the AI path when available and from the rule table
// otherwise.
func (s *Service) Analyze(ctx context.Context, filename string, raw []byte, opts Options) (*analysis.Result, error) {
	modelName := opts.Model
	if modelName == "" {
		modelName = s.cfg.DefaultModel
	}
	shape, err := fitting.ParseModel(modelName)
	if err != nil {
		return nil, err
	}

	sp, err := spectrum.Load(filename, raw)
	if err != nil {
		s.observeOutcome(shape, "parse_error")
		return nil, err
	}

	nSites := opts.NSites
	if nSites == 0 {
		nSites = sp.EstimateSiteCount(s.cfg.MaxSites)
	}

	s.logger.Info("starting fit",
		logging.String("model", shape.String()),
		logging.Int("n_sites", nSites),
		logging.Int("n_points", sp.Len()),
	)

	model, err := fitting.NewCompositeModel(sp, shape, nSites, opts.Overrides)
	if err != nil {
		s.observeOutcome(shape, "invalid_param")
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeTimeout, "analysis cancelled")
	}

	start := time.Now()
	out, err := fitting.FitSpectrum(model, sp, fitting.FitOptions{
		MaxIterations: s.cfg.MaxIterations,
	})
	elapsed := time.Since(start)
	if err != nil {
		s.observeOutcome(shape, "fit_error")
		s.logger.Warn("fit failed",
			logging.String("model", shape.String()),
			logging.Int("n_sites", nSites),
			logging.Err(err),
		)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.FitDuration.WithLabelValues(shape.String()).Observe(elapsed.Seconds())
		s.metrics.FitIterations.WithLabelValues(shape.String()).Observe(float64(out.NIterations))
		s.metrics.SitesPerAnalysis.WithLabelValues(shape.String()).Observe(float64(nSites))
	}

	fit := fitting.BuildFitResult(model, out, sp)

	var interp analysis.Interpretation
	if s.interp != nil {
		interp = s.interp.Interpret(ctx, fit)
	}

	result := &analysis.Result{
		ID:             uuid.NewString(),
		Fit:            fit,
		Interpretation: interp,
		Charts:         buildCharts(model, out, sp),
	}

	s.observeOutcome(shape, "success")
	s.logger.Info("analysis complete",
		logging.String("id", result.ID),
		logging.String("model", shape.String()),
		logging.Int("n_sites", len(fit.Sites)),
		logging.Float64("reduced_chi_squared", fit.Statistics.ReducedChiSquared),
		logging.Duration("fit_duration", elapsed),
	)
	return result, nil
}

func (s *Service) observeOutcome(shape fitting.Model, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.AnalysesTotal.WithLabelValues(shape.String(), outcome).Inc()
}
