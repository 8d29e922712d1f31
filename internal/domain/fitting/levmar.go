package fitting

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jgraziolaVU/Yeonni1MB/internal/domain/spectrum"
	apperrors "github.com/jgraziolaVU/Yeonni1MB/pkg/errors"
)

// weightEpsilon regularises the Poisson-style weights 1/sqrt(y + ε) so
// near-zero transmission cannot blow a weight up.
const weightEpsilon = 0.001

// Optimizer tolerances. The fit stops successfully when an accepted step
// reduces the cost by less than ftol relative, or the gradient drops under
// gtol; it fails when the damping factor overflows lambdaMax or the
// iteration budget runs out.
const (
	ftol      = 1e-10
	gtol      = 1e-10
	lambdaMin = 1e-12
	lambdaMax = 1e12

	defaultMaxIterations = 300
)

// FitOptions tunes the optimizer.
type FitOptions struct {
	// MaxIterations bounds the Levenberg–Marquardt loop; 0 means the
	// default of 300.
	MaxIterations int
}

// FitOutput carries the converged state of one optimization.
type FitOutput struct {
	// Params are the converged values in the model's parameter order.
	Params []float64

	// Stderr are covariance-derived 1σ uncertainties per parameter,
	// NaN where the covariance could not be computed.
	Stderr []float64

	ChiSquared        float64
	ReducedChiSquared float64
	NData             int
	NVarys            int
	NIterations       int
}

// FitSpectrum runs a weighted Levenberg–Marquardt least-squares fit of the
// composite model against the spectrum. Weights are 1/sqrt(absorption + ε),
// giving high-transmission (low-signal) points less influence, a Poisson
// counting-statistics approximation. Bounds are enforced by projecting every
// trial step into the parameter box.
//
// Non-convergence or a singular normal matrix yields CodeFitConvergence
// carrying the attempted configuration. FitSpectrum never retries with
// different initial guesses; that policy belongs to the caller.
func FitSpectrum(m *CompositeModel, s *spectrum.Spectrum, opts FitOptions) (*FitOutput, error) {
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	velocity := s.Velocity()
	absorption := s.Absorption()
	nData := len(velocity)
	nVarys := len(m.Params)

	if nData <= nVarys {
		return nil, convergenceError(m, "fewer data points than free parameters")
	}

	weights := make([]float64, nData)
	for i, a := range absorption {
		weights[i] = 1 / math.Sqrt(math.Abs(a)+weightEpsilon)
	}

	residual := func(p []float64, out []float64) {
		for i := range velocity {
			out[i] = weights[i] * (absorption[i] - m.Eval(p, velocity[i]))
		}
	}

	cost := func(r []float64) float64 {
		var c float64
		for _, v := range r {
			c += v * v
		}
		return c
	}

	p := m.Values()
	m.Clamp(p)

	r := make([]float64, nData)
	residual(p, r)
	curCost := cost(r)

	lambda := 1e-3
	converged := false
	iterations := 0

	rTrial := make([]float64, nData)

	for iterations = 1; iterations <= maxIter; iterations++ {
		jac := numericalJacobian(m, residual, p, r)

		// Normal equations: (JᵀJ + λ·diag(JᵀJ)) δ = Jᵀr.
		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		var grad mat.VecDense
		grad.MulVec(jac.T(), mat.NewVecDense(nData, r))

		if mat.Norm(&grad, math.Inf(1)) < gtol {
			converged = true
			break
		}

		accepted := false
		for lambda <= lambdaMax {
			damped := mat.DenseCopyOf(&jtj)
			for j := 0; j < nVarys; j++ {
				d := jtj.At(j, j)
				if d == 0 {
					d = 1e-12
				}
				damped.Set(j, j, d*(1+lambda))
			}

			var delta mat.VecDense
			if err := delta.SolveVec(damped, &grad); err != nil {
				lambda *= 10
				continue
			}

			trial := make([]float64, nVarys)
			for j := 0; j < nVarys; j++ {
				trial[j] = p[j] + delta.AtVec(j)
			}
			m.Clamp(trial)

			residual(trial, rTrial)
			trialCost := cost(rTrial)
			if trialCost < curCost {
				improvement := curCost - trialCost
				p = trial
				copy(r, rTrial)
				prevCost := curCost
				curCost = trialCost
				lambda = math.Max(lambda/10, lambdaMin)
				accepted = true
				if improvement <= ftol*prevCost {
					converged = true
				}
				break
			}
			lambda *= 10
		}

		if !accepted {
			// Damping overflow without a single acceptable step: either we
			// are at a (possibly bounded) minimum, or the system is singular.
			if curCost < math.Inf(1) && iterations > 1 {
				converged = true
				break
			}
			return nil, convergenceError(m, "singular or ill-conditioned normal equations")
		}
		if converged {
			break
		}
	}

	if !converged {
		return nil, convergenceError(m, "iteration budget exhausted without convergence")
	}

	out := &FitOutput{
		Params:      p,
		Stderr:      make([]float64, nVarys),
		ChiSquared:  curCost,
		NData:       nData,
		NVarys:      nVarys,
		NIterations: iterations,
	}
	dof := nData - nVarys
	out.ReducedChiSquared = curCost / float64(dof)
	computeStderr(m, residual, p, r, out)

	return out, nil
}

// numericalJacobian builds the forward-difference Jacobian of the residual
// vector with respect to the parameters. The step direction flips when a
// parameter sits against its upper bound.
func numericalJacobian(m *CompositeModel, residual func([]float64, []float64), p, r0 []float64) *mat.Dense {
	const relStep = 1e-7

	nData := len(r0)
	nVarys := len(p)
	jac := mat.NewDense(nData, nVarys, nil)

	perturbed := make([]float64, nVarys)
	rp := make([]float64, nData)

	for j := 0; j < nVarys; j++ {
		h := relStep * math.Max(math.Abs(p[j]), 1e-3)
		if p[j]+h > m.Params[j].Max {
			h = -h
		}

		copy(perturbed, p)
		perturbed[j] += h
		residual(perturbed, rp)

		for i := 0; i < nData; i++ {
			// The solver expects J·δ ≈ r, i.e. the Jacobian of the model,
			// which is the negated residual derivative.
			jac.Set(i, j, -(rp[i]-r0[i])/h)
		}
	}
	return jac
}

// computeStderr fills covariance-derived uncertainties, scaling the inverse
// normal matrix by the reduced chi-squared as lmfit does. Failures leave the
// entries NaN; uncertainties are informational only.
func computeStderr(m *CompositeModel, residual func([]float64, []float64), p, r []float64, out *FitOutput) {
	for j := range out.Stderr {
		out.Stderr[j] = math.NaN()
	}

	jac := numericalJacobian(m, residual, p, r)
	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)

	var inv mat.Dense
	if err := inv.Inverse(&jtj); err != nil {
		return
	}
	for j := range out.Stderr {
		v := inv.At(j, j) * out.ReducedChiSquared
		if v >= 0 {
			out.Stderr[j] = math.Sqrt(v)
		}
	}
}

func convergenceError(m *CompositeModel, reason string) error {
	return apperrors.New(apperrors.CodeFitConvergence, "fit did not converge").
		WithDetail(fmt.Sprintf("%s (model=%s, sites=%d, params=%d)",
			reason, m.Shape, m.NSites, len(m.Params)))
}
