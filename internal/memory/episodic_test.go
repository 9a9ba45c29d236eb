package memory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func epMemory(theme string, at time.Time) *Memory {
	return &Memory{
		ID: uuid.New(),
		Event: Event{
			Description: "something happened",
			Tags:        []string{theme},
			Payload:     Payload{Kind: PayloadSocial, Social: &SocialPayload{Target: 1, Interaction: theme}},
			Timestamp:   at,
		},
		Importance: 0.5,
		CreatedAt:  at,
	}
}

func TestEpisodicGroupsByGapAndTheme(t *testing.T) {
	ep := NewEpisodic()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	ep.Add(epMemory("market", base))
	ep.Add(epMemory("market", base.Add(30*time.Minute)))
	ep.Add(epMemory("market", base.Add(50*time.Minute)))

	require.Len(t, ep.Episodes(), 1)
	assert.Len(t, ep.Episodes()[0].Memories, 3)
	assert.Equal(t, base, ep.Episodes()[0].Start)
	assert.Equal(t, base.Add(50*time.Minute), ep.Episodes()[0].End)
}

func TestEpisodicClosesOnHourGap(t *testing.T) {
	ep := NewEpisodic()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	ep.Add(epMemory("market", base))
	ep.Add(epMemory("market", base.Add(90*time.Minute)))

	assert.Len(t, ep.Episodes(), 2)
}

func TestEpisodicClosesOnThemeChange(t *testing.T) {
	ep := NewEpisodic()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	ep.Add(epMemory("market", base))
	ep.Add(epMemory("tavern", base.Add(5*time.Minute)))

	require.Len(t, ep.Episodes(), 2)
	assert.Equal(t, "market", ep.Episodes()[0].Theme)
	assert.Equal(t, "tavern", ep.Episodes()[1].Theme)
}

func TestSemanticMinesOnlyQualifiedKinds(t *testing.T) {
	sem := NewSemantic()

	sem.Mine(&Memory{
		ID:         uuid.New(),
		Importance: 0.9,
		Event:      Event{Payload: Payload{Kind: PayloadKnowledge, Knowledge: &KnowledgePayload{Topic: "veil lore", Relevance: 0.8}}},
	})
	sem.Mine(&Memory{
		ID:         uuid.New(),
		Importance: 0.9,
		Event:      Event{Payload: Payload{Kind: PayloadSocial, Social: &SocialPayload{Target: 1}}},
	})
	sem.Mine(&Memory{
		ID:         uuid.New(),
		Importance: 0.5, // below threshold
		Event:      Event{Payload: Payload{Kind: PayloadKnowledge, Knowledge: &KnowledgePayload{Topic: "weather", Relevance: 0.8}}},
	})

	node, ok := sem.Node("veil lore")
	require.True(t, ok)
	assert.Greater(t, node.Confidence, 0.0)
	assert.Len(t, node.Supporting, 1)

	_, ok = sem.Node("weather")
	assert.False(t, ok)
	assert.Len(t, sem.Topics(), 1)
}

func TestSemanticConfidenceCompounds(t *testing.T) {
	sem := NewSemantic()
	for i := 0; i < 5; i++ {
		sem.Mine(&Memory{
			ID:         uuid.New(),
			Importance: 0.8,
			Event:      Event{Payload: Payload{Kind: PayloadProcedural, Procedural: &ProceduralPayload{Skill: "archery", SuccessRate: 0.9}}},
		})
	}

	node, ok := sem.Node("archery")
	require.True(t, ok)
	assert.Greater(t, node.Confidence, 0.5)
	assert.Less(t, node.Confidence, 1.0)
	assert.Len(t, node.Supporting, 5)
}

func TestWorkingMemoryWindowAndAttention(t *testing.T) {
	w := NewWorking()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		m := epMemory("walk", base.Add(time.Duration(i)*time.Minute))
		m.Event.Participants = nil
		w.Add(m)
	}
	assert.Len(t, w.Window(), workingWindowSize)

	w.Focus(1)
	w.Focus(2)
	w.Focus(3)
	w.Focus(4)
	assert.Len(t, w.Attention(), attentionCap)
	assert.True(t, w.Attending(4))
	assert.False(t, w.Attending(1))

	// Refocusing an attended entity moves it to the front without growing.
	w.Focus(3)
	assert.EqualValues(t, 3, w.Attention()[0])
	assert.Len(t, w.Attention(), attentionCap)
}
