package interpreter

import (
	"fmt"
	"strings"

	"github.com/jgraziolaVU/Yeonni1MB/internal/domain/fitting"
	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

// Reduced chi-squared thresholds for the quality wording of the rule-based
// summary.
const (
	excellentFitThreshold = 1.5
	goodFitThreshold      = 3.0
)

// fitQuality words the goodness of fit for the deterministic summary.
func fitQuality(reducedChiSquared float64) string {
	switch {
	case reducedChiSquared < excellentFitThreshold:
		return "excellent"
	case reducedChiSquared < goodFitThreshold:
		return "good"
	default:
		return "moderate"
	}
}

// RuleBasedText renders a deterministic interpretation from the canonical
// classification table. It is the fallback path of the interpretation chain
// and works without any external service.
func RuleBasedText(fit analysis.FitResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "The spectrum was fitted with %d site(s) using a %s model (reduced χ² = %.2f, %s fit quality).\n",
		len(fit.Sites), fit.Model, fit.Statistics.ReducedChiSquared, fitQuality(fit.Statistics.ReducedChiSquared))

	for i, site := range fit.Sites {
		fmt.Fprintf(&sb, "Site %d (%.1f%% of total area): isomer shift %.2f mm/s, quadrupole splitting %.2f mm/s, line width %.2f mm/s. ",
			i+1, site.RelativeArea, site.IsomerShift, site.QuadrupoleSplitting, site.LineWidth)

		if rule, ok := fitting.MatchRule(site.IsomerShift, site.QuadrupoleSplitting); ok {
			fmt.Fprintf(&sb, "These parameters indicate %s, consistent with %s.\n", rule.Label, rule.Description)
		} else {
			sb.WriteString("These parameters fall outside the tabulated ranges for common iron environments; manual assignment is recommended.\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
