// Package behavior implements the hierarchical behavior-tree executor that
// turns personality, emotion, memory, and relationship state into a single
// active BehaviorState per NPC.
package behavior

import (
	"github.com/veilsong/npccore/internal/personality"
	"github.com/veilsong/npccore/internal/types"
)

// StateKind discriminates the closed set of behavior states.
type StateKind string

const (
	StateIdle        StateKind = "idle"
	StateInteracting StateKind = "interacting"
	StateFollowing   StateKind = "following"
	StatePerforming  StateKind = "performing"
	StateEmotional   StateKind = "emotional"
	StateConversing  StateKind = "conversing"
	StateExploring   StateKind = "exploring"
)

// State is the single active high-level activity for an NPC. Exactly one is
// active at a time; only the tree executor produces transitions. Fields
// beyond Kind are variant-specific and zero elsewhere.
type State struct {
	Kind StateKind `json:"kind" msgpack:"kind"`
	// Target is the other party for Interacting, Following, and Conversing.
	Target types.Entity `json:"target,omitempty" msgpack:"target,omitempty"`
	// Activity names what a Performing NPC is doing ("tending the forge").
	Activity string `json:"activity,omitempty" msgpack:"activity,omitempty"`
	// Emotion is the dominant emotion while in the Emotional state.
	Emotion personality.Emotion `json:"emotion,omitempty" msgpack:"emotion,omitempty"`
	// Destination names where an Exploring NPC is headed.
	Destination string `json:"destination,omitempty" msgpack:"destination,omitempty"`
	Progress    float64 `json:"progress,omitempty" msgpack:"progress,omitempty"`
	Duration    float64 `json:"duration,omitempty" msgpack:"duration,omitempty"`
}

// Idle is the default state every NPC falls back to.
func Idle() State {
	return State{Kind: StateIdle}
}

// stateIndex maps each kind to its slot in the ML predictor's output vector.
// The prediction table in predictor.go relies on this ordering.
var stateIndex = [...]StateKind{
	StateIdle,
	StateInteracting,
	StateFollowing,
	StatePerforming,
	StateEmotional,
	StateConversing,
	StateExploring,
}

// StateVectorLen is the length contract shared with the ML predictor service.
const StateVectorLen = len(stateIndex)

func (k StateKind) vectorIndex() int {
	for i, cur := range stateIndex {
		if cur == k {
			return i
		}
	}
	return 0
}
