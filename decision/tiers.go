package decision

import (
	"math"

	"github.com/poiesic/matchmaker/core"
)

// Score thresholds separating the tiers.
const (
	SoulmateThreshold = 0.87
	ExplorerThreshold = 0.55
)

// Bound is one end of a score interval.
type Bound struct {
	Value     float64
	Inclusive bool
}

// TierRule maps a score interval to a tier and the action taken for it.
type TierRule struct {
	Lower  Bound
	Upper  Bound
	Tier   core.Tier
	Action core.ActionKind
}

// Contains reports whether score falls inside the rule's interval.
func (r TierRule) Contains(score float64) bool {
	if math.IsNaN(score) {
		return false
	}
	if score < r.Lower.Value || (score == r.Lower.Value && !r.Lower.Inclusive) {
		return false
	}
	if score > r.Upper.Value || (score == r.Upper.Value && !r.Upper.Inclusive) {
		return false
	}
	return true
}

// DefaultTiers is the tier table, highest first. Intervals are disjoint and
// together cover every score.
var DefaultTiers = []TierRule{
	{
		Lower:  Bound{SoulmateThreshold, false},
		Upper:  Bound{math.Inf(1), true},
		Tier:   core.TierSoulmate,
		Action: core.ActionAutoJoinWithIntro,
	},
	{
		Lower:  Bound{ExplorerThreshold, true},
		Upper:  Bound{SoulmateThreshold, true},
		Tier:   core.TierExplorer,
		Action: core.ActionPresentOptions,
	},
	{
		Lower:  Bound{math.Inf(-1), true},
		Upper:  Bound{ExplorerThreshold, false},
		Tier:   core.TierFallback,
		Action: core.ActionSuggestPopular,
	},
}

// Classify returns the first rule in tiers containing topScore.
// NaN and scores outside every rule fall back to the last rule.
func Classify(tiers []TierRule, topScore float64) TierRule {
	for _, r := range tiers {
		if r.Contains(topScore) {
			return r
		}
	}
	return tiers[len(tiers)-1]
}
