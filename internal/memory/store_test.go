package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilsong/npccore/internal/types"
)

var testBase = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	s := NewStore()
	s.nowFunc = func() time.Time { return testBase }
	return s
}

func socialEvent(target types.Entity, impact float64, at time.Time) Event {
	return Event{
		Description: fmt.Sprintf("spoke with entity %d", target),
		Payload: Payload{
			Kind:   PayloadSocial,
			Social: &SocialPayload{Target: target, Interaction: "conversation", RelationshipImpact: impact},
		},
		Participants: []types.Entity{target},
		Timestamp:    at,
	}
}

func TestStoreEventHighImpactSocialReachesAllTiers(t *testing.T) {
	s := newTestStore()

	m := s.StoreEvent(socialEvent(7, 0.8, testBase))

	// base 0.5+0.8*0.5=0.9, recency 1.1, first-of-kind 1.2 -> clamps to 1.0.
	assert.Equal(t, 1.0, m.Importance)
	assert.Equal(t, 1, s.ShortTerm().Len())
	assert.Equal(t, 1, s.LongTerm().Len())
	require.Len(t, s.Episodic().Episodes(), 1)
	assert.Len(t, s.Episodic().Episodes()[0].Memories, 1)
}

func TestStoreEventUniquenessPenalizesRepeats(t *testing.T) {
	s := newTestStore()

	first := s.StoreEvent(socialEvent(7, 0.2, testBase))
	second := s.StoreEvent(socialEvent(7, 0.2, testBase.Add(time.Minute)))

	assert.Greater(t, first.Importance, second.Importance)
	// One similar event halves the uniqueness multiplier.
	assert.InDelta(t, (0.5+0.1)*1.1*0.5, second.Importance, 1e-9)
}

func TestStoreEventProceduralBase(t *testing.T) {
	s := newTestStore()

	skilled := s.StoreEvent(Event{
		Description: "forged a resonant blade",
		Payload:     Payload{Kind: PayloadProcedural, Procedural: &ProceduralPayload{Skill: "smithing", SuccessRate: 0.9}},
	})
	clumsy := s.StoreEvent(Event{
		Description: "dropped the tongs again",
		Payload:     Payload{Kind: PayloadProcedural, Procedural: &ProceduralPayload{Skill: "smithing", SuccessRate: 0.4}},
	})

	assert.InDelta(t, 0.7*1.1*1.2, skilled.Importance, 1e-9)
	// Second smithing event: uniqueness 1/(1+1).
	assert.InDelta(t, 0.3*1.1*0.5, clumsy.Importance, 1e-9)
}

func TestShortTermEvictsOldestAtCapacity(t *testing.T) {
	s := newTestStore()

	for i := 0; i < DefaultShortTermCapacity+1; i++ {
		s.StoreEvent(Event{
			Description: fmt.Sprintf("step %d", i),
			Payload:     Payload{Kind: PayloadSpatial, Spatial: &SpatialPayload{Location: fmt.Sprintf("waypoint-%d", i), Significance: 0.2}},
			Timestamp:   testBase.Add(time.Duration(i) * time.Minute),
		})
	}

	items := s.ShortTerm().Items()
	require.Len(t, items, DefaultShortTermCapacity)
	assert.Equal(t, "step 1", items[0].Event.Description)
	assert.Equal(t, "step 50", items[len(items)-1].Event.Description)
	for i := 1; i < len(items); i++ {
		assert.True(t, items[i].CreatedAt.After(items[i-1].CreatedAt), "insertion order broken at %d", i)
	}
}

func TestRecallBoostsAndSorts(t *testing.T) {
	s := newTestStore()
	s.StoreEvent(socialEvent(7, 0.8, testBase))
	s.StoreEvent(Event{
		Description: "studied the veil archive",
		Payload:     Payload{Kind: PayloadKnowledge, Knowledge: &KnowledgePayload{Topic: "veil lore", Relevance: 0.9}},
		Timestamp:   testBase.Add(time.Minute),
	})

	results := s.Recall(Query{Target: 7})

	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].RecallCount)
	assert.Equal(t, 1.0, results[0].Importance) // already at cap, stays clamped

	again := s.Recall(Query{Target: 7})
	require.Len(t, again, 1)
	assert.Equal(t, 2, again[0].RecallCount)
}

func TestRecallCountMonotonic(t *testing.T) {
	s := newTestStore()
	s.StoreEvent(socialEvent(3, 0.5, testBase))

	prev := 0
	for i := 0; i < 5; i++ {
		results := s.Recall(Query{Target: 3})
		require.Len(t, results, 1)
		assert.GreaterOrEqual(t, results[0].RecallCount, prev)
		prev = results[0].RecallCount
		assert.GreaterOrEqual(t, results[0].Importance, 0.0)
		assert.LessOrEqual(t, results[0].Importance, 1.0)
	}
}

func TestRecallEmptyResultIsValid(t *testing.T) {
	s := newTestStore()

	results := s.Recall(Query{Keywords: []string{"dragon"}})

	assert.Empty(t, results)
}

func TestDecayZeroDtUnchanged(t *testing.T) {
	s := newTestStore()
	m := s.StoreEvent(socialEvent(7, 0.4, testBase))
	before := m.Importance

	s.Decay(0)

	assert.Equal(t, before, m.Importance)
	assert.Equal(t, 1, s.ShortTerm().Len())
}

func TestDecayPrunesShortTermBelowFloor(t *testing.T) {
	s := NewStore(WithDecayRate(0.1))
	s.nowFunc = func() time.Time { return testBase }
	s.StoreEvent(Event{
		Description: "passed the well",
		Payload:     Payload{Kind: PayloadSpatial, Spatial: &SpatialPayload{Location: "well", Significance: 0.1}},
	})

	// importance 0.1*1.1*1.2 ≈ 0.132; a few seconds of heavy decay drops it
	// below the 0.1 short-term floor.
	s.Decay(5)

	assert.Equal(t, 0, s.ShortTerm().Len())
}

func TestDecayPromotesRecalledMemories(t *testing.T) {
	// Social events start at 0.5 base and land in long-term immediately, so
	// exercise promotion with a weaker spatial memory instead.
	s2 := newTestStore()
	m := s2.StoreEvent(Event{
		Description:  "walked the harbor with the quartermaster",
		Payload:      Payload{Kind: PayloadSpatial, Spatial: &SpatialPayload{Location: "harbor", Significance: 0.4}},
		Participants: []types.Entity{9},
		Timestamp:    testBase,
	})
	require.Equal(t, 0, s2.LongTerm().Len())

	for i := 0; i < 3; i++ {
		s2.Recall(Query{Target: 9})
	}
	require.Greater(t, m.Importance, 0.6)
	require.Greater(t, m.RecallCount, 2)

	s2.Decay(0.001)

	assert.Equal(t, 1, s2.LongTerm().Len())
	assert.Equal(t, 1, s2.ShortTerm().Len(), "promotion must not remove from short-term")
}
