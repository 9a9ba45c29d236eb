package dialogue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilsong/npccore/internal/memory"
	"github.com/veilsong/npccore/internal/models"
	"github.com/veilsong/npccore/internal/personality"
	"github.com/veilsong/npccore/internal/relationship"
	"github.com/veilsong/npccore/internal/types"
)

type fakeGenerator struct {
	reply models.Reply
	err   error
	delay time.Duration
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, _ models.GenerateRequest) (models.Reply, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return models.Reply{}, ctx.Err()
		}
	}
	return f.reply, f.err
}

func testParticipant() *Participant {
	m := personality.NewMatrix(nil)
	g := relationship.NewGraph()
	return &Participant{
		Entity:      types.Entity(1),
		Name:        "Maren",
		Archetype:   types.ArchetypeMerchant,
		Personality: m,
		Emotions:    personality.NewStateMachine(),
		Memory:      memory.NewStore(),
		Graph:       g,
	}
}

func TestClassifyIntent(t *testing.T) {
	cases := map[string]Intent{
		"Hello there!":                       IntentGreeting,
		"oh hi":                              IntentGreeting,
		"Is this the way to the docks?":      IntentSmallTalk,
		"Heard any rumors lately?":           IntentAskRumor,
		"I want to buy a sword":              IntentTrade,
		"Where is the old mill?":             IntentQuestion,
		"Could you help me carry this":       IntentRequest,
		"Give me the key or else":            IntentThreaten,
		"You absolute fool":                  IntentInsult,
		"Thank you for everything":           IntentCompliment,
		"The weather turned cold this year.": IntentSmallTalk,
	}
	for line, want := range cases {
		assert.Equal(t, want, ClassifyIntent(line), "line %q", line)
	}
}

func TestThreatBeatsGreeting(t *testing.T) {
	got := ClassifyIntent("Hello friend, hand it over or else you'll regret it")
	assert.Equal(t, IntentThreaten, got)
}

func TestClassifySentimentSaturates(t *testing.T) {
	assert.Positive(t, float64(ClassifySentiment("thank you, you are a wonderful friend")))
	assert.Negative(t, float64(ClassifySentiment("I hate you, you useless coward")))
	assert.GreaterOrEqual(t, float64(ClassifySentiment("love love good great kind help")), -1.0)
	assert.LessOrEqual(t, float64(ClassifySentiment("love love good great kind help")), 1.0)
}

func TestRespondUsesModelWhenHealthy(t *testing.T) {
	gen := &fakeGenerator{reply: models.Reply{Text: "Well met."}}
	mgr := NewManager(WithGenerator(gen))

	res, err := mgr.Respond(context.Background(), testParticipant(), 2, "Heard any rumors lately?")
	require.NoError(t, err)
	assert.True(t, res.FromModel)
	assert.Equal(t, "Well met.", res.Reply.Text)
	assert.Equal(t, 1, gen.calls)
}

func TestGreetingFromStrangerStaysOnTemplates(t *testing.T) {
	gen := &fakeGenerator{reply: models.Reply{Text: "model line"}}
	mgr := NewManager(WithGenerator(gen))

	res, err := mgr.Respond(context.Background(), testParticipant(), 2, "Hello there")
	require.NoError(t, err)
	assert.False(t, res.FromModel, "a stranger's greeting is not worth a model call")
	assert.Zero(t, gen.calls)
}

func TestGreetingFromFamiliarUsesModel(t *testing.T) {
	gen := &fakeGenerator{reply: models.Reply{Text: "Ah, you again!"}}
	mgr := NewManager(WithGenerator(gen))

	npc := testParticipant()
	// Several shared meals make the player familiar.
	for i := 0; i < 3; i++ {
		npc.Graph.Update(npc.Entity, 2, relationship.DeltaSharedMeal)
	}

	res, err := mgr.Respond(context.Background(), npc, 2, "Hello there")
	require.NoError(t, err)
	assert.True(t, res.FromModel)
}

func TestRespondFallsBackOnModelError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider down")}
	mgr := NewManager(WithGenerator(gen))

	res, err := mgr.Respond(context.Background(), testParticipant(), 2, "Heard any rumors lately?")
	require.NoError(t, err)
	assert.False(t, res.FromModel)
	assert.NotEmpty(t, res.Reply.Text)
}

func TestRespondFallsBackOnDeadline(t *testing.T) {
	gen := &fakeGenerator{reply: models.Reply{Text: "late"}, delay: 100 * time.Millisecond}
	mgr := NewManager(WithGenerator(gen), WithDeadline(5*time.Millisecond))

	res, err := mgr.Respond(context.Background(), testParticipant(), 2, "Heard any rumors lately?")
	require.NoError(t, err)
	assert.False(t, res.FromModel)
	assert.NotEqual(t, "late", res.Reply.Text)
}

func TestRespondWithoutGeneratorUsesTemplates(t *testing.T) {
	mgr := NewManager()
	res, err := mgr.Respond(context.Background(), testParticipant(), 2, "goodbye then")
	require.NoError(t, err)
	assert.False(t, res.FromModel)
	assert.NotEmpty(t, res.Reply.Text)
}

func TestRespondWritesExchangeBack(t *testing.T) {
	npc := testParticipant()
	mgr := NewManager()

	_, err := mgr.Respond(context.Background(), npc, 2, "You pathetic coward, I hate you")
	require.NoError(t, err)

	// Memory holds the social record.
	got := npc.Memory.Recall(memory.Query{Target: 2})
	require.NotEmpty(t, got)
	assert.Equal(t, memory.PayloadSocial, got[0].Event.Payload.Kind)

	// The edge took the insult delta.
	rel, ok := npc.Graph.Get(npc.Entity, 2)
	require.True(t, ok)
	assert.Less(t, rel.Respect, 0.5)
	assert.Greater(t, rel.Tension, 0.0)

	// The insult trigger moved anger.
	assert.Greater(t, npc.Personality.Emotion.Intensity(personality.EmotionAnger), 0.0)
}

func TestRespondThreatRaisesFear(t *testing.T) {
	npc := testParticipant()
	mgr := NewManager()

	_, err := mgr.Respond(context.Background(), npc, 9, "open the vault or else")
	require.NoError(t, err)

	assert.Greater(t, npc.Personality.Emotion.Intensity(personality.EmotionFear), 0.0)
	rel, ok := npc.Graph.Get(npc.Entity, 9)
	require.True(t, ok)
	assert.Less(t, rel.Trust, 0.5)
}

func TestProfileCarriesMemoryAndRelationship(t *testing.T) {
	npc := testParticipant()
	npc.Graph.Update(npc.Entity, 2, relationship.DeltaGiftGiven)
	npc.Memory.StoreEvent(memory.Event{
		Description: "Traded spices with the traveler",
		Payload: memory.Payload{
			Kind:   memory.PayloadSocial,
			Social: &memory.SocialPayload{Target: 2, Interaction: "trade", RelationshipImpact: 0.3},
		},
		Participants: []types.Entity{2},
		Timestamp:    time.Now(),
	})

	mgr := NewManager()
	profile := mgr.buildProfile(npc, 2)
	assert.NotEmpty(t, profile.Relationship)
	assert.NotEmpty(t, profile.MemoryHighlights)
	assert.Equal(t, "Maren", profile.Name)
}
