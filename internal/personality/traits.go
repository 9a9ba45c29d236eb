// Package personality implements the trait matrix and the emotional state
// machine that every other cognition component reads.
package personality

// Trait is one axis of the personality matrix.
type Trait string

// The closed trait set: the Big Five plus the five Veilsong-specific axes.
const (
	TraitOpenness          Trait = "openness"
	TraitConscientiousness Trait = "conscientiousness"
	TraitExtraversion      Trait = "extraversion"
	TraitAgreeableness     Trait = "agreeableness"
	TraitNeuroticism       Trait = "neuroticism"

	TraitCourage     Trait = "courage"
	TraitLoyalty     Trait = "loyalty"
	TraitGreed       Trait = "greed"
	TraitPlayfulness Trait = "playfulness"
	TraitResonance   Trait = "resonance"
)

// AllTraits lists every trait axis in declaration order.
func AllTraits() []Trait {
	return []Trait{
		TraitOpenness, TraitConscientiousness, TraitExtraversion,
		TraitAgreeableness, TraitNeuroticism,
		TraitCourage, TraitLoyalty, TraitGreed, TraitPlayfulness, TraitResonance,
	}
}

const maxLearnedOffset = 0.5

// Matrix is an NPC's personality: an innate baseline per trait plus a learned
// offset bounded to ±0.5. The effective value is always clamped to [0,1].
// A Matrix owns the NPC's EmotionalState; nothing else mutates it.
type Matrix struct {
	Innate  map[Trait]float64 `json:"innate" msgpack:"innate"`
	Learned map[Trait]float64 `json:"learned" msgpack:"learned"`
	Emotion *EmotionalState   `json:"emotion" msgpack:"emotion"`
}

// NewMatrix builds a Matrix from innate baselines. Missing traits default to 0.5.
func NewMatrix(innate map[Trait]float64) *Matrix {
	m := &Matrix{
		Innate:  make(map[Trait]float64, len(AllTraits())),
		Learned: make(map[Trait]float64, len(AllTraits())),
		Emotion: NewEmotionalState(),
	}
	for _, t := range AllTraits() {
		v, ok := innate[t]
		if !ok {
			v = 0.5
		}
		m.Innate[t] = clamp01(v)
	}
	return m
}

// Value returns the effective trait value, innate plus learned, in [0,1].
func (m *Matrix) Value(t Trait) float64 {
	return clamp01(m.Innate[t] + m.Learned[t])
}

// Learn shifts the learned offset for a trait, keeping it within ±0.5.
func (m *Matrix) Learn(t Trait, delta float64) {
	v := m.Learned[t] + delta
	if v > maxLearnedOffset {
		v = maxLearnedOffset
	}
	if v < -maxLearnedOffset {
		v = -maxLearnedOffset
	}
	m.Learned[t] = v
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func clampSigned(v float64) float64 {
	switch {
	case v < -1:
		return -1
	case v > 1:
		return 1
	default:
		return v
	}
}
