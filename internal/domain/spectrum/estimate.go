package spectrum

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MaxSites caps the automatic site-count estimate; spectra with more
// resolved sites than this are rare enough that manual site selection is the
// right tool.
const MaxSites = 4

// EstimateSiteCount guesses how many chemically distinct absorption sites
// the spectrum contains. Absorption dips become peaks of a depth signal,
// local maxima are detected with a height threshold of 0.5 standard
// deviations and a minimum separation of a twentieth of the sample count,
// and because each site manifests as a doublet the estimate is half the
// detected peak count. The result is clamped to [1, maxSites]; a flat
// signal degenerates to 1. maxSites values outside (0, MaxSites] are
// treated as MaxSites.
func (s *Spectrum) EstimateSiteCount(maxSites int) int {
	if maxSites <= 0 || maxSites > MaxSites {
		maxSites = MaxSites
	}

	peaks := s.DetectPeaks(0.5, s.Len()/20)
	estimated := len(peaks) / 2
	if estimated < 1 {
		estimated = 1
	}
	if estimated > maxSites {
		estimated = maxSites
	}
	return estimated
}

// DetectPeaks finds absorption dips. The signal is inverted into depth below
// the baseline and strict local maxima of that depth are kept when their
// depth is at least heightFactor standard deviations and they are at least
// minDistance samples away from any deeper accepted peak. Returned indices
// are in ascending order.
func (s *Spectrum) DetectPeaks(heightFactor float64, minDistance int) []int {
	depth := s.depthSignal()
	threshold := heightFactor * stat.PopStdDev(depth, nil)
	return findPeaks(depth, threshold, minDistance)
}

// PeakVelocities maps DetectPeaks output to velocity positions, in the same
// order as the detected indices.
func (s *Spectrum) PeakVelocities(heightFactor float64, minDistance int) []float64 {
	idx := s.DetectPeaks(heightFactor, minDistance)
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = s.velocity[j]
	}
	return out
}

// depthSignal returns the absorption dips as positive depths below the
// signal maximum.
func (s *Spectrum) depthSignal() []float64 {
	max := s.absorption[0]
	for _, a := range s.absorption[1:] {
		if a > max {
			max = a
		}
	}
	depth := make([]float64, len(s.absorption))
	for i, a := range s.absorption {
		depth[i] = max - a
	}
	return depth
}

// findPeaks locates strict local maxima of y with height ≥ minHeight, then
// enforces minDistance by keeping peaks in descending height order and
// discarding any candidate closer than minDistance to an already kept peak.
func findPeaks(y []float64, minHeight float64, minDistance int) []int {
	if minDistance < 1 {
		minDistance = 1
	}

	var candidates []int
	for i := 1; i < len(y)-1; i++ {
		if y[i] > y[i-1] && y[i] > y[i+1] && y[i] >= minHeight && y[i] > 0 {
			candidates = append(candidates, i)
		}
	}

	// Descending height, so the most prominent peak in a cluster survives.
	sort.Slice(candidates, func(a, b int) bool {
		return y[candidates[a]] > y[candidates[b]]
	})

	var kept []int
	for _, c := range candidates {
		tooClose := false
		for _, k := range kept {
			if abs(c-k) < minDistance {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, c)
		}
	}

	sort.Ints(kept)
	return kept
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
