package memory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilsong/npccore/internal/types"
)

func ltMemory(desc string, kind PayloadKind, target types.Entity, tags []string, at time.Time) *Memory {
	e := Event{Description: desc, Tags: tags, Timestamp: at, Participants: []types.Entity{target}}
	switch kind {
	case PayloadSocial:
		e.Payload = Payload{Kind: kind, Social: &SocialPayload{Target: target, Interaction: desc}}
	case PayloadKnowledge:
		e.Payload = Payload{Kind: kind, Knowledge: &KnowledgePayload{Topic: desc, Relevance: 0.8}}
	default:
		e.Payload = Payload{Kind: kind, Spatial: &SpatialPayload{Location: desc, Significance: 0.5}}
	}
	return &Memory{ID: uuid.New(), Event: e, Importance: 0.8, CreatedAt: at, DecayRate: 0.01}
}

func TestLongTermConjunctiveLookup(t *testing.T) {
	lt := NewLongTerm()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	lt.Add(ltMemory("argued about tariffs", PayloadSocial, 5, []string{"market"}, base))
	lt.Add(ltMemory("argued about weather", PayloadSocial, 6, []string{"market"}, base))
	lt.Add(ltMemory("mapped the cliffs", PayloadSpatial, 5, []string{"cliffs"}, base))

	// Each predicate intersects the candidate set.
	got := lt.search(&Query{Target: 5, Kind: PayloadSocial})
	require.Len(t, got, 1)
	assert.Equal(t, "argued about tariffs", got[0].Event.Description)

	// Unconstrained query returns the union of everything indexed.
	assert.Len(t, lt.search(&Query{}), 3)
}

func TestLongTermTimeBucketLookup(t *testing.T) {
	lt := NewLongTerm()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	lt.Add(ltMemory("morning patrol", PayloadSpatial, 2, nil, base))
	lt.Add(ltMemory("evening patrol", PayloadSpatial, 2, nil, base.Add(10*time.Hour)))

	got := lt.search(&Query{After: base.Add(5 * time.Hour)})
	require.Len(t, got, 1)
	assert.Equal(t, "evening patrol", got[0].Event.Description)
}

func TestLongTermRemoveRebuildsIndices(t *testing.T) {
	lt := NewLongTerm()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	keep := ltMemory("kept memory", PayloadSocial, 5, []string{"keep"}, base)
	drop := ltMemory("dropped memory", PayloadSocial, 5, []string{"drop"}, base)
	lt.Add(keep)
	lt.Add(drop)

	lt.Remove(drop.ID)

	assert.Equal(t, 1, lt.Len())
	assert.Empty(t, lt.search(&Query{Keywords: []string{"drop"}}))
	got := lt.search(&Query{Target: 5})
	require.Len(t, got, 1)
	assert.Equal(t, keep.ID, got[0].ID)
}

func TestLongTermDecayPrunesAndRebuilds(t *testing.T) {
	lt := NewLongTerm()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	strong := ltMemory("strong memory", PayloadSocial, 5, nil, base)
	weak := ltMemory("weak memory", PayloadSocial, 6, nil, base)
	weak.Importance = 0.051
	weak.DecayRate = 1.0
	lt.Add(strong)
	lt.Add(weak)

	// Long-term decays at a tenth of the rate: 0.051*(1-1*1*0.1) ≈ 0.0459 < 0.05.
	lt.decay(1)

	assert.Equal(t, 1, lt.Len())
	_, ok := lt.Get(weak.ID)
	assert.False(t, ok)
	assert.Empty(t, lt.byEntity[types.Entity(6)])
}
