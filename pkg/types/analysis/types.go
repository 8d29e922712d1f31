// Package analysis defines the public data types produced by the spectrum
// analysis pipeline. These are the wire types returned by the HTTP API and
// the CLI; domain packages construct them, nothing mutates them afterwards.
package analysis

// Site holds the extracted Mössbauer parameters of one absorbing site.
// A site corresponds to one doublet, i.e. two adjacent fitted peak
// components. Values are in mm/s except RelativeArea (percent).
type Site struct {
	// IsomerShift is the average position of the doublet's two peak
	// centers; it reflects electron density at the nucleus.
	IsomerShift float64 `json:"isomer_shift"`

	// QuadrupoleSplitting is the separation of the doublet's two peak
	// centers; it reflects local electric-field asymmetry.
	QuadrupoleSplitting float64 `json:"quadrupole_splitting"`

	// LineWidth is the full width at half maximum of the site's resonance
	// lines, derived from the fitted width parameters.
	LineWidth float64 `json:"line_width"`

	// RelativeArea is the site's share of the total integrated absorption,
	// in percent. Sites of a converged fit with positive total area sum to
	// ~100; a degenerate fit reports 0 for every site.
	RelativeArea float64 `json:"relative_area"`

	// SiteType is the chemical classification label assigned by the
	// rule table, e.g. "Fe³⁺ (high-spin, octahedral)".
	SiteType string `json:"site_type"`

	// HyperfineField is reported only for magnetically split sites;
	// doublet fits leave it nil.
	HyperfineField *float64 `json:"hyperfine_field,omitempty"`
}

// FitStatistics aggregates the goodness-of-fit numbers of one optimization.
type FitStatistics struct {
	ChiSquared        float64 `json:"chi_squared"`
	ReducedChiSquared float64 `json:"reduced_chi_squared"`
	NDataPoints       int     `json:"n_data_points"`
	NVariables        int     `json:"n_variables"`
}

// FitResult is the complete outcome of one spectrum fit. It is produced
// once per analysis request and never mutated after creation.
type FitResult struct {
	Sites      []Site        `json:"sites"`
	Statistics FitStatistics `json:"statistics"`

	// Model names the line-shape family used ("lorentzian", "voigt",
	// "pseudo_voigt").
	Model string `json:"model"`

	// Report is the human-readable fit report text: parameter values,
	// uncertainties and the fit statistics.
	Report string `json:"fit_report"`
}

// InterpretationSource tells which path of the interpretation chain
// produced the text.
type InterpretationSource string

const (
	// SourceAI marks text returned verbatim by the external completion
	// service.
	SourceAI InterpretationSource = "ai"

	// SourceRules marks deterministic rule-based text.
	SourceRules InterpretationSource = "rules"
)

// Interpretation is the typed outcome of the interpretation chain. The chain
// never fails: when the AI path is unavailable or errors, Source is
// SourceRules and FallbackReason records why.
type Interpretation struct {
	Text           string               `json:"text"`
	Source         InterpretationSource `json:"source"`
	FallbackReason string               `json:"fallback_reason,omitempty"`
}

// ChartSeries is one velocity-indexed curve for downstream chart
// construction. The core emits data only; styling belongs to the frontend.
type ChartSeries struct {
	Name string    `json:"name"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

// ChartData bundles every series a client needs to render the fit:
// the experimental points, the total fit, one curve per peak component,
// and the residuals.
type ChartData struct {
	Experimental ChartSeries   `json:"experimental"`
	TotalFit     ChartSeries   `json:"total_fit"`
	Components   []ChartSeries `json:"components"`
	Residuals    ChartSeries   `json:"residuals"`
}

// Result is the full response of one analysis request.
type Result struct {
	ID             string         `json:"id"`
	Fit            FitResult      `json:"fit_results"`
	Interpretation Interpretation `json:"interpretation"`
	Charts         ChartData      `json:"charts"`
}
