package personality

import (
	"math"
	"time"

	"github.com/veilsong/npccore/internal/types"
)

// Response reports what a trigger actually did to the emotion vector.
type Response struct {
	Trigger string
	// Applied holds the deltas after trait and context scaling, exactly as
	// they were added to the vector.
	Applied map[Emotion]float64
	Mood    Mood
	// Intensity is the mean absolute intensity over all tracked emotions
	// after the deltas landed.
	Intensity float64
}

// StateMachine routes trigger tags through the hard-coded delta table into a
// personality's emotional state. It is the only mutation path for emotions.
type StateMachine struct {
	nowFunc func() time.Time
}

// NewStateMachine returns a StateMachine.
func NewStateMachine() *StateMachine {
	return &StateMachine{nowFunc: time.Now}
}

// ProcessTrigger applies the deltas for a trigger, scaled by personality
// traits and world context, and returns the response bundle. Unknown triggers
// leave the state untouched; out-of-range results are clamped, never rejected.
func (sm *StateMachine) ProcessTrigger(m *Matrix, trigger string, world *types.WorldContext) Response {
	state := m.Emotion
	resp := Response{
		Trigger: trigger,
		Applied: make(map[Emotion]float64),
	}

	deltas, ok := triggerTable[trigger]
	if !ok {
		resp.Mood = state.Mood
		resp.Intensity = state.AggregateIntensity()
		return resp
	}

	scale := sm.contextScale(m, trigger, world)
	shock := 0.0
	for e, d := range deltas {
		applied := d * scale
		if negativeValence[e] && applied > 0 {
			// Neurotic characters feel negative spikes harder.
			applied *= 0.8 + 0.4*m.Value(TraitNeuroticism)
		}
		state.Add(e, applied)
		resp.Applied[e] = applied
		shock += math.Abs(applied)
	}

	state.Stability = clamp01(state.Stability - shock/float64(len(AllEmotions())))
	state.logMemory(trigger, resp.Applied, sm.now())

	resp.Mood = state.Mood
	resp.Intensity = state.AggregateIntensity()
	return resp
}

// contextScale folds world context and the relevant traits into a single
// multiplier for a trigger's deltas.
func (sm *StateMachine) contextScale(m *Matrix, trigger string, world *types.WorldContext) float64 {
	scale := 1.0
	switch trigger {
	case TriggerSongResonance:
		// Resonance events land in proportion to world harmony and the
		// character's own resonance sensitivity.
		scale *= 0.5 + m.Value(TraitResonance)
		if world != nil {
			scale *= 0.5 + world.Harmony
		}
	case TriggerThreatDetected, TriggerCombatDefeat:
		// Courage blunts fear-driven triggers.
		scale *= 1.3 - 0.6*m.Value(TraitCourage)
	case TriggerFestival, TriggerFriendSpotted:
		scale *= 0.7 + 0.6*m.Value(TraitExtraversion)
	case TriggerDiscovery:
		scale *= 0.7 + 0.6*m.Value(TraitOpenness)
	}
	return scale
}

func (sm *StateMachine) now() time.Time {
	if sm.nowFunc != nil {
		return sm.nowFunc()
	}
	return time.Now()
}
