package fitting

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/jgraziolaVU/Yeonni1MB/internal/domain/spectrum"
	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

// ExtractSites maps the converged component parameters to per-site Mössbauer
// records. Components are grouped consecutively in pairs: components 2k and
// 2k+1 form site k (0-based), the doublet convention of the model builder.
//
// Per pair: isomer shift is the mean of the two centers, quadrupole
// splitting their absolute separation, line width the summed width
// parameters (the family-aware FWHM of the doublet lines), and relative
// area the pair's share of the total trapezoid-integrated component area in
// percent. A degenerate fit with total area ≤ 0 reports 0 for every site
// instead of dividing by it.
func ExtractSites(m *CompositeModel, out *FitOutput, s *spectrum.Spectrum) []analysis.Site {
	velocity := s.Velocity()
	curves := m.EvalComponents(out.Params, velocity)

	areas := make([]float64, len(curves))
	total := 0.0
	for i, curve := range curves {
		areas[i] = integrate.Trapezoidal(velocity, curve)
		total += areas[i]
	}

	sites := make([]analysis.Site, 0, m.NSites)
	for k := 0; k < m.NSites; k++ {
		p1 := componentParams(m.Shape, out.Params, 2*k)
		p2 := componentParams(m.Shape, out.Params, 2*k+1)
		c1, c2 := p1[1], p2[1]

		isomerShift := (c1 + c2) / 2
		quadrupoleSplitting := math.Abs(c2 - c1)
		lineWidth := (m.Shape.FWHM(p1) + m.Shape.FWHM(p2)) / 2

		relativeArea := 0.0
		if total > 0 {
			relativeArea = (areas[2*k] + areas[2*k+1]) / total * 100
		}

		sites = append(sites, analysis.Site{
			IsomerShift:         isomerShift,
			QuadrupoleSplitting: quadrupoleSplitting,
			LineWidth:           lineWidth,
			RelativeArea:        relativeArea,
			SiteType:            Classify(isomerShift, quadrupoleSplitting),
		})
	}
	return sites
}

// BuildFitResult assembles the public FitResult from a converged fit.
func BuildFitResult(m *CompositeModel, out *FitOutput, s *spectrum.Spectrum) analysis.FitResult {
	return analysis.FitResult{
		Sites: ExtractSites(m, out, s),
		Statistics: analysis.FitStatistics{
			ChiSquared:        out.ChiSquared,
			ReducedChiSquared: out.ReducedChiSquared,
			NDataPoints:       out.NData,
			NVariables:        out.NVarys,
		},
		Model:  m.Shape.String(),
		Report: FitReport(m, out),
	}
}
