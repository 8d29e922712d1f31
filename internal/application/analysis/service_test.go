package analysis_test

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalysis "github.com/jgraziolaVU/Yeonni1MB/internal/application/analysis"
	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
	apperrors "github.com/jgraziolaVU/Yeonni1MB/pkg/errors"
	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

// stubInterpreter records the fit it was handed and returns canned text.
type stubInterpreter struct {
	called bool
	fit    analysis.FitResult
}

func (s *stubInterpreter) Interpret(_ context.Context, fit analysis.FitResult) analysis.Interpretation {
	s.called = true
	s.fit = fit
	return analysis.Interpretation{Text: "stub interpretation", Source: analysis.SourceRules}
}

func testFitConfig() config.FitConfig {
	return config.FitConfig{
		DefaultModel:  "lorentzian",
		MaxSites:      4,
		MaxIterations: 300,
	}
}

// doubletCSV renders a synthetic transmission spectrum with one Lorentzian
// doublet per (centerA, centerB) pair as CSV text.
func doubletCSV(centers []float64) []byte {
	var sb strings.Builder
	const n = 201
	for i := 0; i < n; i++ {
		v := -4.0 + 8.0*float64(i)/float64(n-1)
		a := 1.0
		for _, c := range centers {
			d := v - c
			a -= 0.08 / math.Pi * 0.15 / (d*d + 0.15*0.15)
		}
		fmt.Fprintf(&sb, "%.4f,%.6f\n", v, a)
	}
	return []byte(sb.String())
}

func TestAnalyze_SingleDoublet(t *testing.T) {
	t.Parallel()

	interp := &stubInterpreter{}
	svc := appanalysis.NewService(testFitConfig(), interp, nil, nil)

	result, err := svc.Analyze(context.Background(), "sample.csv", doubletCSV([]float64{-1.2, 1.2}), appanalysis.Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "lorentzian", result.Fit.Model)
	require.Len(t, result.Fit.Sites, 1)

	site := result.Fit.Sites[0]
	assert.InDelta(t, 0.0, site.IsomerShift, 0.05)
	assert.InDelta(t, 2.4, site.QuadrupoleSplitting, 0.1)
	assert.InDelta(t, 100.0, site.RelativeArea, 1e-6)

	assert.True(t, interp.called)
	assert.Equal(t, "stub interpretation", result.Interpretation.Text)
	assert.Equal(t, analysis.SourceRules, result.Interpretation.Source)

	// Charts share the experimental grid.
	assert.Len(t, result.Charts.Experimental.X, 201)
	assert.Len(t, result.Charts.TotalFit.Y, 201)
	assert.Len(t, result.Charts.Residuals.Y, 201)
	require.Len(t, result.Charts.Components, 2)
	assert.Equal(t, "peak1", result.Charts.Components[0].Name)

	// Residuals of a noiseless fit stay small.
	for _, r := range result.Charts.Residuals.Y {
		assert.Less(t, math.Abs(r), 0.01)
	}
}

func TestAnalyze_ExplicitSiteCount(t *testing.T) {
	t.Parallel()

	svc := appanalysis.NewService(testFitConfig(), &stubInterpreter{}, nil, nil)

	result, err := svc.Analyze(context.Background(), "sample.csv",
		doubletCSV([]float64{-2.5, -1.0, 1.0, 2.5}),
		appanalysis.Options{NSites: 2})
	require.NoError(t, err)

	assert.Len(t, result.Fit.Sites, 2)
	assert.Len(t, result.Charts.Components, 4)
}

func TestAnalyze_ModelOverride(t *testing.T) {
	t.Parallel()

	svc := appanalysis.NewService(testFitConfig(), &stubInterpreter{}, nil, nil)

	result, err := svc.Analyze(context.Background(), "sample.csv",
		doubletCSV([]float64{-1.2, 1.2}),
		appanalysis.Options{Model: "pseudo_voigt"})
	require.NoError(t, err)
	assert.Equal(t, "pseudo_voigt", result.Fit.Model)
}

func TestAnalyze_UnknownModel(t *testing.T) {
	t.Parallel()

	svc := appanalysis.NewService(testFitConfig(), &stubInterpreter{}, nil, nil)

	_, err := svc.Analyze(context.Background(), "sample.csv",
		doubletCSV([]float64{-1.2, 1.2}),
		appanalysis.Options{Model: "gaussian"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam))
}

func TestAnalyze_BadFile(t *testing.T) {
	t.Parallel()

	svc := appanalysis.NewService(testFitConfig(), &stubInterpreter{}, nil, nil)

	_, err := svc.Analyze(context.Background(), "sample.csv", []byte("not,numbers\nat,all\n"), appanalysis.Options{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDataType, apperrors.GetCode(err))

	_, err = svc.Analyze(context.Background(), "sample.pdf", doubletCSV([]float64{0}), appanalysis.Options{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDataFormat, apperrors.GetCode(err))
}

func TestAnalyze_CancelledContext(t *testing.T) {
	t.Parallel()

	svc := appanalysis.NewService(testFitConfig(), &stubInterpreter{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, "sample.csv", doubletCSV([]float64{-1.2, 1.2}), appanalysis.Options{})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeTimeout))
}

func TestAnalyze_NilInterpreter(t *testing.T) {
	t.Parallel()

	svc := appanalysis.NewService(testFitConfig(), nil, nil, nil)

	result, err := svc.Analyze(context.Background(), "sample.csv", doubletCSV([]float64{-1.2, 1.2}), appanalysis.Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Interpretation.Text)
}
