package spectrum_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgraziolaVU/Yeonni1MB/internal/domain/spectrum"
)

// lorentzianDip evaluates a dip of the given depth and half-width at x.
func lorentzianDip(x, center, depth, sigma float64) float64 {
	return depth * sigma * sigma / ((x-center)*(x-center) + sigma*sigma)
}

// syntheticSpectrum builds a transmission signal with baseline 1.0 and one
// dip per center.
func syntheticSpectrum(t *testing.T, n int, centers []float64, depth float64) *spectrum.Spectrum {
	t.Helper()
	velocity := make([]float64, n)
	absorption := make([]float64, n)
	for i := 0; i < n; i++ {
		v := -4.0 + 8.0*float64(i)/float64(n-1)
		a := 1.0
		for _, c := range centers {
			a -= lorentzianDip(v, c, depth, 0.15)
		}
		velocity[i] = v
		absorption[i] = a
	}
	s, err := spectrum.New(velocity, absorption)
	require.NoError(t, err)
	return s
}

func TestEstimateSiteCount_FlatSignal(t *testing.T) {
	t.Parallel()
	velocity := make([]float64, 100)
	absorption := make([]float64, 100)
	for i := range velocity {
		velocity[i] = float64(i)
		absorption[i] = 1.0
	}
	s, err := spectrum.New(velocity, absorption)
	require.NoError(t, err)
	assert.Equal(t, 1, s.EstimateSiteCount(4))
}

func TestEstimateSiteCount_SingleDoublet(t *testing.T) {
	t.Parallel()
	s := syntheticSpectrum(t, 200, []float64{-1.2, 1.2}, 0.3)
	assert.Equal(t, 1, s.EstimateSiteCount(4))
}

func TestEstimateSiteCount_TwoDoublets(t *testing.T) {
	t.Parallel()
	s := syntheticSpectrum(t, 200, []float64{-2.5, -1.2, 1.2, 2.5}, 0.3)
	assert.Equal(t, 2, s.EstimateSiteCount(4))
}

func TestEstimateSiteCount_ClampedToMax(t *testing.T) {
	t.Parallel()
	s := syntheticSpectrum(t, 400,
		[]float64{-3.5, -2.8, -2.0, -1.2, -0.4, 0.4, 1.2, 2.0, 2.8, 3.5}, 0.3)
	got := s.EstimateSiteCount(4)
	assert.GreaterOrEqual(t, got, 1)
	assert.LessOrEqual(t, got, 4)
}

func TestEstimateSiteCount_AlwaysInRange(t *testing.T) {
	t.Parallel()
	cases := [][]float64{
		nil,
		{0},
		{-2.0, 2.0},
		{-3.0, -1.0, 1.0, 3.0},
	}
	for _, centers := range cases {
		s := syntheticSpectrum(t, 150, centers, 0.25)
		got := s.EstimateSiteCount(4)
		assert.GreaterOrEqual(t, got, 1)
		assert.LessOrEqual(t, got, 4)
	}
}

func TestDetectPeaks_RespectsMinDistance(t *testing.T) {
	t.Parallel()
	// Two dips closer together than the minimum separation: only the
	// deeper one survives.
	n := 200
	velocity := make([]float64, n)
	absorption := make([]float64, n)
	for i := 0; i < n; i++ {
		v := -4.0 + 8.0*float64(i)/float64(n-1)
		velocity[i] = v
		absorption[i] = 1.0 -
			lorentzianDip(v, -0.1, 0.4, 0.1) -
			lorentzianDip(v, 0.1, 0.2, 0.1)
	}
	s, err := spectrum.New(velocity, absorption)
	require.NoError(t, err)

	peaks := s.DetectPeaks(0.5, 20)
	require.Len(t, peaks, 1)
	assert.InDelta(t, -0.1, velocity[peaks[0]], 0.1)
}

func TestPeakVelocities_LooserThresholdFindsMore(t *testing.T) {
	t.Parallel()
	s := syntheticSpectrum(t, 300, []float64{-2.5, -1.2, 1.2, 2.5}, 0.2)
	strict := s.PeakVelocities(0.5, s.Len()/20)
	loose := s.PeakVelocities(0.3, 1)
	assert.GreaterOrEqual(t, len(loose), len(strict))
	for _, v := range strict {
		assert.False(t, math.IsNaN(v))
	}
}

func TestSpectrum_New_Validation(t *testing.T) {
	t.Parallel()

	_, err := spectrum.New([]float64{1, 2}, []float64{1})
	assert.Error(t, err)

	_, err = spectrum.New(make([]float64, 5), make([]float64, 5))
	assert.Error(t, err)

	v := make([]float64, 12)
	a := make([]float64, 12)
	a[3] = math.NaN()
	_, err = spectrum.New(v, a)
	assert.Error(t, err)
}
