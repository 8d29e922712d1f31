// Package spectrum holds the Spectrum entity and the ingestion, normalization
// and site-count estimation stages of the analysis pipeline.
package spectrum

import (
	"math"

	apperrors "github.com/jgraziolaVU/Yeonni1MB/pkg/errors"
)

// MinDataPoints is the minimum number of usable rows a spectrum must have.
const MinDataPoints = 10

// Spectrum is an ordered sequence of (velocity, absorption) pairs, immutable
// once constructed. Velocity is in mm/s; absorption is relative transmission
// in (0, ~1] after normalization.
type Spectrum struct {
	velocity   []float64
	absorption []float64
}

// New validates the two arrays and constructs a Spectrum. The slices are
// copied so later caller mutations cannot reach the entity.
func New(velocity, absorption []float64) (*Spectrum, error) {
	if len(velocity) != len(absorption) {
		return nil, apperrors.Newf(apperrors.CodeDataFormat,
			"velocity and absorption lengths differ (%d vs %d)", len(velocity), len(absorption))
	}
	if len(velocity) < MinDataPoints {
		return nil, apperrors.Newf(apperrors.CodeDataFormat,
			"insufficient data points (minimum %d required)", MinDataPoints)
	}
	for i := range velocity {
		if math.IsNaN(velocity[i]) || math.IsInf(velocity[i], 0) ||
			math.IsNaN(absorption[i]) || math.IsInf(absorption[i], 0) {
			return nil, apperrors.Newf(apperrors.CodeDataType,
				"non-finite value at row %d", i)
		}
	}

	s := &Spectrum{
		velocity:   make([]float64, len(velocity)),
		absorption: make([]float64, len(absorption)),
	}
	copy(s.velocity, velocity)
	copy(s.absorption, absorption)
	return s, nil
}

// Len returns the number of data points.
func (s *Spectrum) Len() int { return len(s.velocity) }

// Velocity returns a copy of the velocity array.
func (s *Spectrum) Velocity() []float64 {
	out := make([]float64, len(s.velocity))
	copy(out, s.velocity)
	return out
}

// Absorption returns a copy of the absorption array.
func (s *Spectrum) Absorption() []float64 {
	out := make([]float64, len(s.absorption))
	copy(out, s.absorption)
	return out
}

// VelocityRange returns the minimum and maximum velocity.
func (s *Spectrum) VelocityRange() (min, max float64) {
	min, max = s.velocity[0], s.velocity[0]
	for _, v := range s.velocity[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// AbsorptionRange returns the peak-to-peak span of the absorption signal.
func (s *Spectrum) AbsorptionRange() float64 {
	lo, hi := s.absorption[0], s.absorption[0]
	for _, a := range s.absorption[1:] {
		if a < lo {
			lo = a
		}
		if a > hi {
			hi = a
		}
	}
	return hi - lo
}
