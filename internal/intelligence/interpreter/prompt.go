package interpreter

import (
	"fmt"
	"strings"

	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

const systemPrompt = "You are an expert in Mössbauer spectroscopy. " +
	"Given fitted spectral parameters, provide a concise scientific interpretation " +
	"of the iron sites in the sample. Be specific about oxidation states, spin " +
	"states, and likely coordination environments. Do not restate the raw numbers."

// buildPrompt renders the fitted parameters as the user message of the
// completion request.
func buildPrompt(fit analysis.FitResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "A ⁵⁷Fe Mössbauer spectrum was fitted with %d site(s) using a %s line-shape model.\n",
		len(fit.Sites), fit.Model)
	fmt.Fprintf(&sb, "Reduced chi-squared: %.3f\n\n", fit.Statistics.ReducedChiSquared)

	for i, site := range fit.Sites {
		fmt.Fprintf(&sb, "Site %d:\n", i+1)
		fmt.Fprintf(&sb, "  isomer shift: %.3f mm/s\n", site.IsomerShift)
		fmt.Fprintf(&sb, "  quadrupole splitting: %.3f mm/s\n", site.QuadrupoleSplitting)
		fmt.Fprintf(&sb, "  line width (FWHM): %.3f mm/s\n", site.LineWidth)
		fmt.Fprintf(&sb, "  relative area: %.1f%%\n", site.RelativeArea)
		fmt.Fprintf(&sb, "  preliminary assignment: %s\n", site.SiteType)
	}

	sb.WriteString("\nInterpret these results in 2-4 sentences for a materials chemist.")
	return sb.String()
}
