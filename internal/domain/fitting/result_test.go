package fitting_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgraziolaVU/Yeonni1MB/internal/domain/fitting"
)

func TestFitReport(t *testing.T) {
	t.Parallel()

	s := flatSpectrum(t, 100)
	m, err := fitting.NewCompositeModel(s, fitting.Lorentzian, 1, nil)
	require.NoError(t, err)

	out := &fitting.FitOutput{
		Params:            []float64{0.1, -1.0, 0.15, 0.1, 1.0, 0.15},
		Stderr:            []float64{0.01, 0.02, 0.03, math.NaN(), 0.05, 0.06},
		ChiSquared:        1.234,
		ReducedChiSquared: 0.0131,
		NData:             100,
		NVarys:            6,
		NIterations:       17,
	}

	report := fitting.FitReport(m, out)

	assert.Contains(t, report, "[[Fit Statistics]]")
	assert.Contains(t, report, "[[Variables]]")
	assert.Contains(t, report, "Levenberg-Marquardt")
	assert.Contains(t, report, "data points      = 100")
	assert.Contains(t, report, "iterations       = 17")
	assert.Contains(t, report, "peak1_amplitude:")
	assert.Contains(t, report, "peak2_sigma:")
	assert.Contains(t, report, "+/-")

	// Parameters without a finite uncertainty omit the +/- clause.
	assert.NotContains(t, report, "NaN")
}
