package memory

import (
	"math"

	"github.com/veilsong/npccore/internal/personality"
)

// recencyBoost is the fixed multiplier every fresh event receives.
const recencyBoost = 1.1

// computeImportance scores an event in [0,1] from its payload base value, an
// emotion-context multiplier, the recency boost, and a uniqueness multiplier
// derived from similar recent events.
func computeImportance(e *Event, similarRecent int) float64 {
	score := baseImportance(e)

	if e.Emotion != nil {
		score *= personality.EmotionSalience(*e.Emotion)
	}

	score *= recencyBoost

	if similarRecent == 0 {
		score *= 1.2
	} else {
		score *= 1.0 / float64(similarRecent+1)
	}

	return clampScore(score)
}

func baseImportance(e *Event) float64 {
	switch e.Payload.Kind {
	case PayloadSocial:
		if e.Payload.Social == nil {
			return 0
		}
		return 0.5 + math.Abs(e.Payload.Social.RelationshipImpact)*0.5
	case PayloadEmotional:
		if e.Payload.Emotional == nil {
			return 0
		}
		return math.Abs(e.Payload.Emotional.Intensity)
	case PayloadKnowledge:
		if e.Payload.Knowledge == nil {
			return 0
		}
		return e.Payload.Knowledge.Relevance
	case PayloadSpatial:
		if e.Payload.Spatial == nil {
			return 0
		}
		return e.Payload.Spatial.Significance
	case PayloadProcedural:
		if e.Payload.Procedural == nil {
			return 0
		}
		if e.Payload.Procedural.SuccessRate > 0.8 {
			return 0.7
		}
		return 0.3
	default:
		return 0
	}
}

func clampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
