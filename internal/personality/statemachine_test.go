package personality

import (
	"math"
	"testing"
	"time"

	"github.com/veilsong/npccore/internal/types"
)

func newTestMachine() *StateMachine {
	sm := NewStateMachine()
	sm.nowFunc = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return sm
}

func TestProcessTriggerAppliesDeltas(t *testing.T) {
	m := NewMatrix(map[Trait]float64{TraitNeuroticism: 0.5, TraitCourage: 0.5})
	sm := newTestMachine()

	resp := sm.ProcessTrigger(m, TriggerGiftReceived, nil)

	if len(resp.Applied) != 3 {
		t.Fatalf("expected 3 deltas applied, got %d", len(resp.Applied))
	}
	if got := m.Emotion.Intensity(EmotionGratitude); got <= 0 {
		t.Fatalf("expected gratitude to rise, got %v", got)
	}
	if resp.Intensity <= 0 {
		t.Fatalf("expected positive aggregate intensity, got %v", resp.Intensity)
	}
}

func TestProcessTriggerUnknownIsNoop(t *testing.T) {
	m := NewMatrix(nil)
	sm := newTestMachine()

	resp := sm.ProcessTrigger(m, "tax_audit", nil)

	if len(resp.Applied) != 0 {
		t.Fatalf("expected no deltas for unknown trigger, got %v", resp.Applied)
	}
	if resp.Mood != MoodNeutral || resp.Intensity != 0 {
		t.Fatalf("expected untouched neutral state, got mood=%s intensity=%v", resp.Mood, resp.Intensity)
	}
}

func TestProcessTriggerClampsIntensities(t *testing.T) {
	m := NewMatrix(nil)
	sm := newTestMachine()

	for i := 0; i < 10; i++ {
		sm.ProcessTrigger(m, TriggerBetrayal, nil)
	}

	for _, e := range AllEmotions() {
		v := m.Emotion.Intensity(e)
		if v < -1 || v > 1 {
			t.Fatalf("intensity for %s out of range: %v", e, v)
		}
	}
}

func TestMoodHysteresisBand(t *testing.T) {
	s := NewEmotionalState()

	s.Add(EmotionJoy, 0.2)
	if s.Mood != MoodNeutral {
		t.Fatalf("balance 0.2 should stay neutral, got %s", s.Mood)
	}

	s.Add(EmotionJoy, 0.3)
	if s.Mood != MoodPositive {
		t.Fatalf("balance 0.5 should be positive, got %s", s.Mood)
	}

	s.Add(EmotionSadness, 1.0)
	if s.Mood != MoodNegative {
		t.Fatalf("expected negative mood, got %s", s.Mood)
	}
}

func TestDecayRelaxesTowardZeroAndSnaps(t *testing.T) {
	s := NewEmotionalState()
	s.Add(EmotionAnger, 0.8)
	s.Add(EmotionFear, 0.005)

	s.Decay(1.0)

	if got := s.Intensity(EmotionAnger); math.Abs(got-0.8*0.9) > 1e-9 {
		t.Fatalf("expected anger 0.72, got %v", got)
	}
	if got := s.Intensity(EmotionFear); got != 0 {
		t.Fatalf("expected fear to snap to zero, got %v", got)
	}
}

func TestDecayZeroDtIsIdempotent(t *testing.T) {
	s := NewEmotionalState()
	s.Add(EmotionJoy, 0.6)
	before := s.Intensity(EmotionJoy)

	s.Decay(0)

	if got := s.Intensity(EmotionJoy); got != before {
		t.Fatalf("decay with dt=0 changed state: %v -> %v", before, got)
	}
}

func TestEmotionalMemoryLogBounded(t *testing.T) {
	m := NewMatrix(nil)
	sm := newTestMachine()

	for i := 0; i < emotionalMemoryCap+20; i++ {
		sm.ProcessTrigger(m, TriggerCompliment, nil)
	}

	if got := len(m.Emotion.History); got != emotionalMemoryCap {
		t.Fatalf("expected history capped at %d, got %d", emotionalMemoryCap, got)
	}
}

func TestResonanceScalesWithHarmony(t *testing.T) {
	low := NewMatrix(map[Trait]float64{TraitResonance: 0.9})
	high := NewMatrix(map[Trait]float64{TraitResonance: 0.9})
	sm := newTestMachine()

	sm.ProcessTrigger(low, TriggerSongResonance, &types.WorldContext{Harmony: 0.0})
	sm.ProcessTrigger(high, TriggerSongResonance, &types.WorldContext{Harmony: 1.0})

	if low.Emotion.Intensity(EmotionJoy) >= high.Emotion.Intensity(EmotionJoy) {
		t.Fatalf("high harmony should amplify resonance joy: low=%v high=%v",
			low.Emotion.Intensity(EmotionJoy), high.Emotion.Intensity(EmotionJoy))
	}
}

func TestLearnClampsOffset(t *testing.T) {
	m := NewMatrix(map[Trait]float64{TraitGreed: 0.6})

	for i := 0; i < 20; i++ {
		m.Learn(TraitGreed, 0.2)
	}
	if got := m.Value(TraitGreed); got != 1.0 {
		t.Fatalf("expected clamped trait value 1.0, got %v", got)
	}
	if m.Learned[TraitGreed] != maxLearnedOffset {
		t.Fatalf("expected learned offset capped at %v, got %v", maxLearnedOffset, m.Learned[TraitGreed])
	}
}
