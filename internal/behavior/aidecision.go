package behavior

import (
	"github.com/veilsong/npccore/internal/personality"
)

// DecisionOption is one candidate outcome of an AIDecision node, scored by
// the traits and emotions that make it attractive.
type DecisionOption struct {
	State   State
	Base    float64
	Traits  map[personality.Trait]float64
	Emotion map[personality.Emotion]float64
}

// AIDecision samples among candidate states, weighting each option by the
// NPC's current trait values and emotion intensities. Deterministic under a
// seeded ctx.Rand, so the same personality and mood make the same choice.
type AIDecision struct {
	Options []DecisionOption
}

// NewAIDecision builds the node from its candidate options.
func NewAIDecision(options []DecisionOption) *AIDecision {
	return &AIDecision{Options: options}
}

func (a *AIDecision) Execute(ctx *Context) Status {
	if len(a.Options) == 0 {
		return Failure
	}
	weights := make([]float64, len(a.Options))
	total := 0.0
	for i, opt := range a.Options {
		w := opt.Base
		if ctx.Personality != nil {
			for trait, scale := range opt.Traits {
				w += scale * ctx.Personality.Value(trait)
			}
		}
		if ctx.Emotions != nil {
			for emo, scale := range opt.Emotion {
				w += scale * ctx.Emotions.Intensity(emo)
			}
		}
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return Failure
	}

	pick := len(a.Options) - 1
	if ctx.Rand != nil {
		r := ctx.Rand.Float64() * total
		for i, w := range weights {
			if r < w {
				pick = i
				break
			}
			r -= w
		}
	} else {
		// Without a source, take the heaviest option.
		best := -1.0
		for i, w := range weights {
			if w > best {
				best, pick = w, i
			}
		}
	}

	chosen := a.Options[pick]
	ctx.State = chosen.State
	if chosen.State.Activity != "" {
		ctx.Blackboard.SetString(KeyActivity, chosen.State.Activity)
	}
	return Success
}

func (a *AIDecision) Reset() {}
