package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/veilsong/npccore/internal/memory"
	"github.com/veilsong/npccore/internal/models"
	"github.com/veilsong/npccore/internal/personality"
	"github.com/veilsong/npccore/internal/relationship"
	"github.com/veilsong/npccore/internal/types"
)

// replyDeadline bounds the model path; past it the template fallback answers.
const replyDeadline = 800 * time.Millisecond

// recallLimit caps how many memories flavor a single reply.
const recallLimit = 3

// Participant is the NPC side of a conversation: identity plus the cognition
// components the exchange reads and writes.
type Participant struct {
	Entity      types.Entity
	Name        string
	Archetype   types.Archetype
	Personality *personality.Matrix
	Emotions    *personality.StateMachine
	Memory      *memory.Store
	Graph       *relationship.Graph
}

// Result is one completed exchange.
type Result struct {
	Reply models.Reply
	// FromModel reports whether the AI path produced the line.
	FromModel bool
	Intent    Intent
	Sentiment Sentiment
}

// Manager runs conversations. The model generator is optional; templates
// always stand behind it.
type Manager struct {
	generator models.TextGenerator
	fallback  models.TextGenerator
	deadline  time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// Option tunes a Manager.
type Option func(*Manager)

// WithGenerator sets the AI generation path.
func WithGenerator(g models.TextGenerator) Option {
	return func(m *Manager) { m.generator = g }
}

// WithDeadline overrides the model-path deadline.
func WithDeadline(d time.Duration) Option {
	return func(m *Manager) { m.deadline = d }
}

// WithClock fixes the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager builds a Manager. Without options only the template path runs.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		fallback: models.NewTemplateGenerator(),
		deadline: replyDeadline,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Respond answers a player line: classify, build context from memory and the
// relationship edge, generate (model first, template on any failure), then
// feed the exchange back into memory, relationship, and emotion.
func (m *Manager) Respond(ctx context.Context, npc *Participant, player types.Entity, line string) (*Result, error) {
	if npc == nil {
		return nil, fmt.Errorf("nil participant")
	}
	intent := ClassifyIntent(line)
	sentiment := ClassifySentiment(line)

	req := models.GenerateRequest{
		Speaker:    m.buildProfile(npc, player),
		PlayerLine: line,
		Intent:     string(intent),
	}

	reply, fromModel := m.generate(ctx, npc, player, intent, req)
	m.writeBack(npc, player, line, intent, sentiment)

	return &Result{
		Reply:     reply,
		FromModel: fromModel,
		Intent:    intent,
		Sentiment: sentiment,
	}, nil
}

// modelWorthy decides whether the exchange deserves a model call. Stock
// pleasantries with strangers stay on templates; anything substantive, or any
// line from someone the NPC knows, goes to the model.
func (m *Manager) modelWorthy(npc *Participant, player types.Entity, intent Intent) bool {
	switch intent {
	case IntentGreeting, IntentFarewell, IntentSmallTalk:
		if npc.Graph == nil {
			return false
		}
		rel, ok := npc.Graph.Get(npc.Entity, player)
		return ok && rel.Familiarity > 0.2
	default:
		return true
	}
}

// generate tries the model under the deadline and falls back to templates on
// error, timeout, or absence of a model path. The fallback cannot fail.
func (m *Manager) generate(ctx context.Context, npc *Participant, player types.Entity, intent Intent, req models.GenerateRequest) (models.Reply, bool) {
	if m.generator != nil && m.modelWorthy(npc, player, intent) {
		genCtx, cancel := context.WithTimeout(ctx, m.deadline)
		defer cancel()
		reply, err := m.generator.Generate(genCtx, req)
		if err == nil {
			return reply, true
		}
		m.logger.Warn("model reply failed, using template",
			"npc", uint64(npc.Entity), "error", err.Error())
	}
	reply, _ := m.fallback.Generate(ctx, req)
	return reply, false
}

// buildProfile assembles what the generator may know about the NPC.
func (m *Manager) buildProfile(npc *Participant, player types.Entity) models.SpeakerProfile {
	p := models.SpeakerProfile{
		Name:      npc.Name,
		Archetype: string(npc.Archetype),
	}
	if npc.Personality != nil && npc.Personality.Emotion != nil {
		p.Mood = string(npc.Personality.Emotion.Mood)
	}
	if npc.Graph != nil {
		if rel, ok := npc.Graph.Get(npc.Entity, player); ok {
			p.Relationship = string(rel.Type)
		}
	}
	if npc.Memory != nil {
		for _, mem := range npc.Memory.Recall(memory.Query{Target: player}) {
			p.MemoryHighlights = append(p.MemoryHighlights, mem.Event.Description)
			if len(p.MemoryHighlights) == recallLimit {
				break
			}
		}
	}
	return p
}

// writeBack records the exchange: a social memory, a relationship delta, and
// an emotion trigger when the intent carries one.
func (m *Manager) writeBack(npc *Participant, player types.Entity, line string, intent Intent, sentiment Sentiment) {
	if npc.Memory != nil {
		npc.Memory.StoreEvent(memory.Event{
			Description: describeExchange(npc.Name, intent, line),
			Payload: memory.Payload{
				Kind: memory.PayloadSocial,
				Social: &memory.SocialPayload{
					Target:             player,
					Interaction:        string(intent),
					RelationshipImpact: float64(sentiment),
				},
			},
			Participants: []types.Entity{player},
			Tags:         []string{"conversation", string(intent)},
			Timestamp:    m.now(),
		})
	}
	if npc.Graph != nil {
		if d, ok := intentDelta(intent, sentiment); ok {
			npc.Graph.Update(npc.Entity, player, d)
		}
	}
	if npc.Emotions != nil && npc.Personality != nil {
		if trigger, ok := intentTrigger(intent); ok {
			npc.Emotions.ProcessTrigger(npc.Personality, trigger, nil)
		}
	}
}

func describeExchange(name string, intent Intent, line string) string {
	short := line
	if len(short) > 60 {
		short = short[:60]
	}
	return fmt.Sprintf("%s heard %q (%s)", name, strings.TrimSpace(short), intent)
}

// intentDelta maps conversational intents onto relationship presets.
func intentDelta(intent Intent, sentiment Sentiment) (relationship.Delta, bool) {
	switch intent {
	case IntentThreaten:
		return relationship.DeltaThreatened, true
	case IntentInsult:
		return relationship.DeltaInsulted, true
	case IntentCompliment:
		return relationship.DeltaPleasantChat, true
	case IntentTrade:
		return relationship.DeltaTradedFairly, true
	case IntentGreeting, IntentSmallTalk, IntentAskRumor, IntentQuestion, IntentRequest:
		if sentiment < -0.3 {
			return relationship.DeltaInsulted, true
		}
		if sentiment > 0 {
			return relationship.DeltaPleasantChat, true
		}
		return relationship.Delta{}, false
	default:
		return relationship.Delta{}, false
	}
}

// intentTrigger maps intents onto emotion triggers.
func intentTrigger(intent Intent) (string, bool) {
	switch intent {
	case IntentThreaten:
		return personality.TriggerThreatDetected, true
	case IntentInsult:
		return personality.TriggerInsult, true
	case IntentCompliment:
		return personality.TriggerCompliment, true
	case IntentGreeting:
		return personality.TriggerStrangerApproach, true
	default:
		return "", false
	}
}
