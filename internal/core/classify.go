package core

import (
	"cmp"
	"math"
	"slices"
)

// NewTierRules builds a rule set evaluated highest threshold first.
// Rules with equal thresholds keep the order given.
func NewTierRules(def string, rules ...TierRule) TierRules {
	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b TierRule) int {
		return cmp.Compare(b.Threshold, a.Threshold)
	})
	return TierRules{Rules: sorted, Default: def}
}

// Classify returns the label of the first rule whose threshold value meets
// or exceeds, or the default label. NaN always gets the default.
func Classify(value float64, rules TierRules) string {
	if math.IsNaN(value) {
		return rules.Default
	}
	for _, r := range rules.Rules {
		if value >= r.Threshold {
			return r.Label
		}
	}
	return rules.Default
}

// Labels returns every label the rule set can produce, highest tier first.
func (t TierRules) Labels() []string {
	out := make([]string, 0, len(t.Rules)+1)
	for _, r := range t.Rules {
		out = append(out, r.Label)
	}
	return append(out, t.Default)
}

// Gauge sizes a value bar as a percentage of the cell width.
type Gauge struct {
	Scale float64 `json:"scale" yaml:"scale"` // Percent per unit of value
	Min   float64 `json:"min" yaml:"min"`     // Smallest bar, percent
	Max   float64 `json:"max" yaml:"max"`     // Largest bar, percent
}

// Width returns min(max(v*Scale, Min), Max). Non-numeric values size as zero
// and therefore get the minimum bar.
func (g Gauge) Width(v float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	return math.Min(math.Max(v*g.Scale, g.Min), g.Max)
}
