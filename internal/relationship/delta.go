// Package relationship implements the shared directed graph of pairwise
// social state and the per-group reputation ledger.
package relationship

import "math"

// Delta is one interaction's worth of change to an edge. Fields are signed;
// application clamps each edge field to [0,1].
type Delta struct {
	Trust       float64 `json:"trust" msgpack:"trust"`
	Respect     float64 `json:"respect" msgpack:"respect"`
	Affection   float64 `json:"affection" msgpack:"affection"`
	Familiarity float64 `json:"familiarity" msgpack:"familiarity"`
	Tension     float64 `json:"tension" msgpack:"tension"`
	// Kind names the interaction for the edge history ("helped_in_combat").
	Kind string `json:"kind" msgpack:"kind"`
}

// TotalImpact is the mean absolute change over trust, respect, affection, and
// tension. Familiarity is deliberately excluded: it measures accumulated
// contact, not how much an interaction mattered, even though Apply moves it.
func (d Delta) TotalImpact() float64 {
	return (math.Abs(d.Trust) + math.Abs(d.Respect) + math.Abs(d.Affection) + math.Abs(d.Tension)) / 4
}

// Preset interaction deltas used by behavior and dialogue outcomes.
var (
	DeltaHelpedInCombat = Delta{
		Kind: "helped_in_combat", Trust: 0.2, Respect: 0.15, Affection: 0.1, Familiarity: 0.1, Tension: -0.1,
	}
	DeltaBetrayedTrust = Delta{
		Kind: "betrayed_trust", Trust: -0.5, Respect: -0.6, Affection: -0.6, Familiarity: 0.05, Tension: 0.4,
	}
	DeltaSharedMeal = Delta{
		Kind: "shared_meal", Trust: 0.05, Respect: 0.02, Affection: 0.1, Familiarity: 0.1, Tension: -0.05,
	}
	DeltaGiftGiven = Delta{
		Kind: "gift_given", Trust: 0.1, Respect: 0.05, Affection: 0.15, Familiarity: 0.05, Tension: -0.05,
	}
	DeltaInsulted = Delta{
		Kind: "insulted", Trust: -0.1, Respect: -0.15, Affection: -0.1, Familiarity: 0.02, Tension: 0.2,
	}
	DeltaTradedFairly = Delta{
		Kind: "traded_fairly", Trust: 0.1, Respect: 0.1, Affection: 0.02, Familiarity: 0.08, Tension: -0.02,
	}
	DeltaThreatened = Delta{
		Kind: "threatened", Trust: -0.3, Respect: -0.1, Affection: -0.2, Familiarity: 0.02, Tension: 0.35,
	}
	DeltaPleasantChat = Delta{
		Kind: "pleasant_chat", Trust: 0.04, Respect: 0.02, Affection: 0.05, Familiarity: 0.06, Tension: -0.02,
	}
)
