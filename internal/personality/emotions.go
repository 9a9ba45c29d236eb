package personality

import (
	"math"
	"time"
)

// Emotion is one of the sixteen tracked emotion tags.
type Emotion string

const (
	EmotionJoy          Emotion = "joy"
	EmotionSadness      Emotion = "sadness"
	EmotionAnger        Emotion = "anger"
	EmotionFear         Emotion = "fear"
	EmotionTrust        Emotion = "trust"
	EmotionDisgust      Emotion = "disgust"
	EmotionSurprise     Emotion = "surprise"
	EmotionAnticipation Emotion = "anticipation"
	EmotionCuriosity    Emotion = "curiosity"
	EmotionPride        Emotion = "pride"
	EmotionShame        Emotion = "shame"
	EmotionGuilt        Emotion = "guilt"
	EmotionEnvy         Emotion = "envy"
	EmotionGratitude    Emotion = "gratitude"
	EmotionLoneliness   Emotion = "loneliness"
	EmotionContentment  Emotion = "contentment"
)

// AllEmotions lists the tracked emotion tags in declaration order.
func AllEmotions() []Emotion {
	return []Emotion{
		EmotionJoy, EmotionSadness, EmotionAnger, EmotionFear,
		EmotionTrust, EmotionDisgust, EmotionSurprise, EmotionAnticipation,
		EmotionCuriosity, EmotionPride, EmotionShame, EmotionGuilt,
		EmotionEnvy, EmotionGratitude, EmotionLoneliness, EmotionContentment,
	}
}

// negativeValence marks the emotions whose positive intensity pulls mood down.
var negativeValence = map[Emotion]bool{
	EmotionSadness:    true,
	EmotionAnger:      true,
	EmotionFear:       true,
	EmotionDisgust:    true,
	EmotionShame:      true,
	EmotionGuilt:      true,
	EmotionEnvy:       true,
	EmotionLoneliness: true,
}

// Mood is the derived three-way summary of the emotion vector.
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNeutral  Mood = "neutral"
	MoodNegative Mood = "negative"
)

// moodHysteresis is the dead band around zero: the valence balance must leave
// it before the mood flips away from neutral.
const moodHysteresis = 0.3

// EmotionalMemory is one snapshot in the bounded emotion log.
type EmotionalMemory struct {
	Trigger   string             `json:"trigger" msgpack:"trigger"`
	Deltas    map[Emotion]float64 `json:"deltas" msgpack:"deltas"`
	Mood      Mood               `json:"mood" msgpack:"mood"`
	Timestamp time.Time          `json:"timestamp" msgpack:"timestamp"`
}

const emotionalMemoryCap = 100

// EmotionalState is the live emotion vector. Intensities always lie in [-1,1];
// Mood is recomputed from the vector on every mutation and never stored
// independently of it.
type EmotionalState struct {
	Intensities map[Emotion]float64 `json:"intensities" msgpack:"intensities"`
	Mood        Mood                `json:"mood" msgpack:"mood"`
	History     []EmotionalMemory   `json:"history" msgpack:"history"`
	// Stability rises toward 1 while the vector is calm and drops when
	// triggers land. Behavior nodes read it to damp erratic switching.
	Stability float64 `json:"stability" msgpack:"stability"`
}

// NewEmotionalState returns a neutral state with every intensity at zero.
func NewEmotionalState() *EmotionalState {
	s := &EmotionalState{
		Intensities: make(map[Emotion]float64, len(AllEmotions())),
		Stability:   1.0,
	}
	for _, e := range AllEmotions() {
		s.Intensities[e] = 0
	}
	s.Mood = s.deriveMood()
	return s
}

// Add applies an additive delta to one emotion, clamps to [-1,1], and
// recomputes the mood.
func (s *EmotionalState) Add(e Emotion, delta float64) {
	s.Intensities[e] = clampSigned(s.Intensities[e] + delta)
	s.Mood = s.deriveMood()
}

// Intensity returns the current value for an emotion tag.
func (s *EmotionalState) Intensity(e Emotion) float64 {
	return s.Intensities[e]
}

// Dominant returns the emotion with the largest absolute intensity. Ties
// resolve to the earliest tag in declaration order.
func (s *EmotionalState) Dominant() (Emotion, float64) {
	best := AllEmotions()[0]
	bestAbs := math.Abs(s.Intensities[best])
	for _, e := range AllEmotions()[1:] {
		if abs := math.Abs(s.Intensities[e]); abs > bestAbs {
			best, bestAbs = e, abs
		}
	}
	return best, s.Intensities[best]
}

// AggregateIntensity is the mean absolute intensity over all tracked emotions.
func (s *EmotionalState) AggregateIntensity() float64 {
	total := 0.0
	for _, e := range AllEmotions() {
		total += math.Abs(s.Intensities[e])
	}
	return total / float64(len(AllEmotions()))
}

// Decay relaxes every intensity toward zero by (1 - 0.1*dt) and snaps values
// below 0.01 to exactly 0. Stability recovers slowly. Decay with dt=0 leaves
// the state unchanged.
func (s *EmotionalState) Decay(dt float64) {
	if dt <= 0 {
		return
	}
	factor := 1 - 0.1*dt
	if factor < 0 {
		factor = 0
	}
	for _, e := range AllEmotions() {
		v := s.Intensities[e] * factor
		if math.Abs(v) < 0.01 {
			v = 0
		}
		s.Intensities[e] = v
	}
	s.Stability = clamp01(s.Stability + 0.05*dt)
	s.Mood = s.deriveMood()
}

// deriveMood sums positive-valence against negative-valence intensity. The
// balance must exceed the hysteresis band before the mood leaves neutral.
func (s *EmotionalState) deriveMood() Mood {
	balance := 0.0
	for _, e := range AllEmotions() {
		v := s.Intensities[e]
		if negativeValence[e] {
			balance -= v
		} else {
			balance += v
		}
	}
	switch {
	case balance > moodHysteresis:
		return MoodPositive
	case balance < -moodHysteresis:
		return MoodNegative
	default:
		return MoodNeutral
	}
}

func (s *EmotionalState) logMemory(trigger string, deltas map[Emotion]float64, now time.Time) {
	copied := make(map[Emotion]float64, len(deltas))
	for e, d := range deltas {
		copied[e] = d
	}
	s.History = append(s.History, EmotionalMemory{
		Trigger:   trigger,
		Deltas:    copied,
		Mood:      s.Mood,
		Timestamp: now,
	})
	if len(s.History) > emotionalMemoryCap {
		s.History = s.History[len(s.History)-emotionalMemoryCap:]
	}
}
