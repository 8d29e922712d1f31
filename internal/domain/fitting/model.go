package fitting

import (
	"math"

	"github.com/jgraziolaVU/Yeonni1MB/internal/domain/spectrum"
	apperrors "github.com/jgraziolaVU/Yeonni1MB/pkg/errors"
)

// Parameter is one named fit parameter with optimization bounds. Bounds are
// enforced by the optimizer; ±Inf means unbounded on that side.
type Parameter struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

// Override replaces a subset of a parameter's initial value and bounds by
// name before optimization. Nil fields keep the builder's guess.
type Override struct {
	Value *float64
	Min   *float64
	Max   *float64
}

// Initial-guess policy constants.
const (
	initialWidth = 0.15
	minWidth     = 0.05
	maxWidth     = 1.0

	// looseHeightFactor re-runs peak detection with a lower threshold to
	// collect candidate center positions for seeding.
	looseHeightFactor = 0.3
)

// CompositeModel is a sum of 2×siteCount peak components of one line-shape
// family, evaluated against a fixed unit baseline: the model's prediction at
// velocity x is 1 − Σ components(x), matching a normalized transmission
// signal whose dips are the absorption lines. The model owns its parameter
// vector during a fit and is discarded after extraction.
type CompositeModel struct {
	Shape  Model
	NSites int
	Params []Parameter
}

// Baseline is the fixed transmission level the peaks subtract from.
// Normalization guarantees the unabsorbed region sits at ~1.
const Baseline = 1.0

// NewCompositeModel builds the model for a spectrum: 2 components per site,
// centers seeded from loose-threshold peak detection (evenly distributed
// across the velocity range when fewer peaks than components are found),
// amplitude split evenly from the absorption depth, and widths seeded at
// 0.15 within [0.05, 1.0] for every width-like parameter. Caller overrides
// are applied last by parameter name (e.g. "peak3_center").
func NewCompositeModel(s *spectrum.Spectrum, shape Model, nSites int, overrides map[string]Override) (*CompositeModel, error) {
	if nSites < 1 || nSites > spectrum.MaxSites {
		return nil, apperrors.Newf(apperrors.CodeInvalidParam,
			"site count %d is out of range [1, %d]", nSites, spectrum.MaxSites)
	}

	nComponents := 2 * nSites
	vMin, vMax := s.VelocityRange()
	centers := s.PeakVelocities(looseHeightFactor, 1)

	// Amplitude is an integrated area; seed it from the absorption depth so
	// each component starts with a peak height of roughly the shared depth.
	amplitude := s.AbsorptionRange() / float64(nComponents)

	m := &CompositeModel{Shape: shape, NSites: nSites}
	for i := 0; i < nComponents; i++ {
		prefix := componentPrefix(i + 1)

		var center float64
		if i < len(centers) {
			center = centers[i]
		} else {
			// No detected peak for this component: distribute evenly so the
			// optimizer does not start from degenerate identical seeds.
			center = vMin + (float64(i)+0.5)*(vMax-vMin)/float64(nComponents)
		}

		m.Params = append(m.Params,
			Parameter{Name: prefix + "amplitude", Value: amplitude, Min: 0, Max: math.Inf(1)},
			Parameter{Name: prefix + "center", Value: center, Min: vMin, Max: vMax},
			Parameter{Name: prefix + "sigma", Value: initialWidth, Min: minWidth, Max: maxWidth},
		)
		if shape == Voigt {
			m.Params = append(m.Params,
				Parameter{Name: prefix + "gamma", Value: initialWidth, Min: minWidth, Max: maxWidth})
		}
	}

	if err := m.applyOverrides(overrides); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *CompositeModel) applyOverrides(overrides map[string]Override) error {
	for name, ov := range overrides {
		idx := m.paramIndex(name)
		if idx < 0 {
			return apperrors.Newf(apperrors.CodeInvalidParam,
				"unknown parameter %q in overrides", name)
		}
		p := &m.Params[idx]
		if ov.Min != nil {
			p.Min = *ov.Min
		}
		if ov.Max != nil {
			p.Max = *ov.Max
		}
		if ov.Value != nil {
			p.Value = *ov.Value
		}
	}
	return nil
}

func (m *CompositeModel) paramIndex(name string) int {
	for i := range m.Params {
		if m.Params[i].Name == name {
			return i
		}
	}
	return -1
}

// NComponents returns the number of peak components (2 per site).
func (m *CompositeModel) NComponents() int { return 2 * m.NSites }

// componentParams slices the flat parameter vector for component i
// (0-based).
func componentParams(shape Model, params []float64, i int) []float64 {
	n := shape.NParams()
	return params[i*n : (i+1)*n]
}

// Values returns the current parameter values as a flat vector in component
// order.
func (m *CompositeModel) Values() []float64 {
	out := make([]float64, len(m.Params))
	for i := range m.Params {
		out[i] = m.Params[i].Value
	}
	return out
}

// Eval computes the model prediction at x for the given flat parameter
// vector: the fixed baseline minus every peak component.
func (m *CompositeModel) Eval(params []float64, x float64) float64 {
	y := Baseline
	for i := 0; i < m.NComponents(); i++ {
		y -= m.Shape.evalPeak(componentParams(m.Shape, params, i), x)
	}
	return y
}

// EvalComponent computes the positive profile of a single component at x.
func (m *CompositeModel) EvalComponent(params []float64, i int, x float64) float64 {
	return m.Shape.evalPeak(componentParams(m.Shape, params, i), x)
}

// EvalComponents evaluates every component across the velocity grid,
// returning one positive curve per component. These curves feed the area
// computation and the chart layer.
func (m *CompositeModel) EvalComponents(params, velocity []float64) [][]float64 {
	out := make([][]float64, m.NComponents())
	for i := range out {
		curve := make([]float64, len(velocity))
		for j, x := range velocity {
			curve[j] = m.EvalComponent(params, i, x)
		}
		out[i] = curve
	}
	return out
}

// Clamp forces every entry of params into its parameter bounds, in place.
func (m *CompositeModel) Clamp(params []float64) {
	for i := range params {
		if params[i] < m.Params[i].Min {
			params[i] = m.Params[i].Min
		}
		if params[i] > m.Params[i].Max {
			params[i] = m.Params[i].Max
		}
	}
}
