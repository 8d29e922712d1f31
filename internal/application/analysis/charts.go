package analysis

import (
	"fmt"

	"github.com/jgraziolaVU/Yeonni1MB/internal/domain/fitting"
	"github.com/jgraziolaVU/Yeonni1MB/internal/domain/spectrum"
	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

// buildCharts assembles the plottable series of a converged fit: the
// experimental points, the total fit curve, one positive profile per peak
// component, and the point-wise residuals. All series share the experimental
// velocity grid.
func buildCharts(m *fitting.CompositeModel, out *fitting.FitOutput, s *spectrum.Spectrum) analysis.ChartData {
	velocity := s.Velocity()
	absorption := s.Absorption()

	total := make([]float64, len(velocity))
	residuals := make([]float64, len(velocity))
	for i, x := range velocity {
		total[i] = m.Eval(out.Params, x)
		residuals[i] = absorption[i] - total[i]
	}

	curves := m.EvalComponents(out.Params, velocity)
	components := make([]analysis.ChartSeries, len(curves))
	for i, curve := range curves {
		components[i] = analysis.ChartSeries{
			Name: fmt.Sprintf("peak%d", i+1),
			X:    velocity,
			Y:    curve,
		}
	}

	return analysis.ChartData{
		Experimental: analysis.ChartSeries{Name: "experimental", X: velocity, Y: absorption},
		TotalFit:     analysis.ChartSeries{Name: "total_fit", X: velocity, Y: total},
		Components:   components,
		Residuals:    analysis.ChartSeries{Name: "residuals", X: velocity, Y: residuals},
	}
}
