package fitting

import (
	"fmt"
	"math"
	"strings"
)

// FitReport renders a human-readable summary of a converged fit: the model
// configuration, the fit statistics, and every parameter with its
// uncertainty. The layout follows the conventional least-squares report
// format spectroscopists expect alongside the numeric results.
func FitReport(m *CompositeModel, out *FitOutput) string {
	var sb strings.Builder

	sb.WriteString("[[Fit Statistics]]\n")
	fmt.Fprintf(&sb, "    # fitting method   = leastsq (Levenberg-Marquardt)\n")
	fmt.Fprintf(&sb, "    # model            = %s x %d components (%d sites)\n",
		m.Shape, m.NComponents(), m.NSites)
	fmt.Fprintf(&sb, "    # data points      = %d\n", out.NData)
	fmt.Fprintf(&sb, "    # variables        = %d\n", out.NVarys)
	fmt.Fprintf(&sb, "    # iterations       = %d\n", out.NIterations)
	fmt.Fprintf(&sb, "    chi-square         = %.6g\n", out.ChiSquared)
	fmt.Fprintf(&sb, "    reduced chi-square = %.6g\n", out.ReducedChiSquared)

	sb.WriteString("[[Variables]]\n")
	for i, p := range m.Params {
		if i < len(out.Stderr) && !math.IsNaN(out.Stderr[i]) {
			fmt.Fprintf(&sb, "    %-18s %12.6g +/- %.4g (init = %g)\n",
				p.Name+":", out.Params[i], out.Stderr[i], p.Value)
		} else {
			fmt.Fprintf(&sb, "    %-18s %12.6g (init = %g)\n",
				p.Name+":", out.Params[i], p.Value)
		}
	}

	return sb.String()
}
