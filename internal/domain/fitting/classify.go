package fitting

import "math"

// Rule is one classification rule: an inclusive box over
// (isomer shift, quadrupole splitting) and the label it assigns.
// The ordered rule list is the single canonical table; the extractor and
// the rule-based interpreter both query it, so a site can never be labelled
// differently depending on the caller.
type Rule struct {
	// MinIS, MaxIS bound the isomer shift (mm/s), inclusive.
	MinIS, MaxIS float64
	// MinQS, MaxQS bound the quadrupole splitting (mm/s), inclusive.
	MinQS, MaxQS float64
	// Label is the chemical assignment.
	Label string
	// Description is the longer geometry commentary used by the rule-based
	// interpretation text.
	Description string
}

// Matches reports whether the site parameters fall inside the rule's box.
func (r Rule) Matches(isomerShift, quadrupoleSplitting float64) bool {
	return isomerShift >= r.MinIS && isomerShift <= r.MaxIS &&
		quadrupoleSplitting >= r.MinQS && quadrupoleSplitting <= r.MaxQS
}

// UnknownSiteLabel is assigned when no rule matches.
const UnknownSiteLabel = "Unknown"

// classificationRules is the canonical ordered table for ⁵⁷Fe doublets.
// Bounds are inclusive at both ends; overlaps are resolved by order, first
// match wins. Read-only after initialization.
var classificationRules = []Rule{
	{
		MinIS: -0.2, MaxIS: 0.5, MinQS: 0, MaxQS: 0.5,
		Label:       "Fe³⁺ (low-spin)",
		Description: "ferric iron in a low-spin configuration, typically strong-field octahedral coordination",
	},
	{
		MinIS: -0.2, MaxIS: 0.5, MinQS: 0.5, MaxQS: math.Inf(1),
		Label:       "Fe³⁺ (high-spin)",
		Description: "high-spin ferric iron, commonly octahedral or distorted tetrahedral oxygen coordination",
	},
	{
		MinIS: 0.6, MaxIS: 1.5, MinQS: 0, MaxQS: 1.0,
		Label:       "Fe²⁺ (low-spin)",
		Description: "ferrous iron in a low-spin configuration with near-cubic site symmetry",
	},
	{
		MinIS: 0.6, MaxIS: 1.5, MinQS: 1.0, MaxQS: math.Inf(1),
		Label:       "Fe²⁺ (high-spin)",
		Description: "high-spin ferrous iron in distorted octahedral coordination",
	},
	{
		MinIS: 0.5, MaxIS: 0.6, MinQS: 0, MaxQS: math.Inf(1),
		Label:       "Fe²⁺/Fe³⁺ (intermediate)",
		Description: "intermediate isomer shift suggesting mixed valence or electron delocalisation between ferrous and ferric states",
	},
}

// Classify labels a site from its isomer shift and quadrupole splitting.
// The first matching rule wins; sites outside every rule are "Unknown".
func Classify(isomerShift, quadrupoleSplitting float64) string {
	r, ok := MatchRule(isomerShift, quadrupoleSplitting)
	if !ok {
		return UnknownSiteLabel
	}
	return r.Label
}

// MatchRule returns the first matching rule for auditability; the second
// return is false when none matches.
func MatchRule(isomerShift, quadrupoleSplitting float64) (Rule, bool) {
	for _, r := range classificationRules {
		if r.Matches(isomerShift, quadrupoleSplitting) {
			return r, true
		}
	}
	return Rule{}, false
}

// Rules returns a copy of the canonical table so callers can render or audit
// the thresholds without being able to mutate process-wide state.
func Rules() []Rule {
	out := make([]Rule, len(classificationRules))
	copy(out, classificationRules)
	return out
}
