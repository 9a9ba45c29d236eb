package behavior

import (
	"log/slog"
	"math/rand"

	"github.com/veilsong/npccore/internal/memory"
	"github.com/veilsong/npccore/internal/personality"
	"github.com/veilsong/npccore/internal/relationship"
	"github.com/veilsong/npccore/internal/types"
)

// NPCBehavior owns one NPC's tree and current state. It is not safe for
// concurrent use; the simulation loop drives each instance from a single
// goroutine.
type NPCBehavior struct {
	self        types.Entity
	archetype   types.Archetype
	root        Node
	state       State
	blackboard  *Blackboard
	personality *personality.Matrix
	memory      *memory.Store
	graph       *relationship.Graph
	rng         *rand.Rand
	logger      *slog.Logger

	emotions     *personality.StateMachine
	senseRadius  float64
	lastHostile  bool
	activeEvents map[string]bool

	pendingActions []Action
}

// Config assembles an NPCBehavior.
type Config struct {
	Self        types.Entity
	Archetype   types.Archetype
	Personality *personality.Matrix
	Memory      *memory.Store
	Graph       *relationship.Graph
	Tree        TreeOptions
	// Seed fixes the sampling stream; zero seeds from the entity id.
	Seed   int64
	Logger *slog.Logger
}

// New builds an NPC's behavior executor with the archetype's default tree.
func New(cfg Config) *NPCBehavior {
	seed := cfg.Seed
	if seed == 0 {
		seed = int64(cfg.Self)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	radius := cfg.Tree.ThreatRadius
	if radius <= 0 {
		radius = defaultThreatRadius(cfg.Archetype)
	}
	return &NPCBehavior{
		self:        cfg.Self,
		archetype:   cfg.Archetype,
		root:        BuildTree(cfg.Archetype, cfg.Tree),
		state:       Idle(),
		blackboard:  NewBlackboard(),
		personality: cfg.Personality,
		memory:      cfg.Memory,
		graph:       cfg.Graph,
		rng:         rand.New(rand.NewSource(seed)),
		logger:      logger.With("entity", uint64(cfg.Self)),

		emotions:     personality.NewStateMachine(),
		senseRadius:  radius,
		activeEvents: make(map[string]bool),
	}
}

// State returns the committed behavior state.
func (b *NPCBehavior) State() State {
	return b.state
}

// Blackboard exposes the NPC's scratchpad for dialogue and world systems.
func (b *NPCBehavior) Blackboard() *Blackboard {
	return b.blackboard
}

// SetState forces a state from outside the tree, used when dialogue pulls an
// NPC into a Conversing state.
func (b *NPCBehavior) SetState(s State) {
	b.state = s
}

// Update runs one evaluation pass against the world snapshot and commits the
// resulting state. A panicking node is contained: the tree resets and the
// NPC drops to Idle instead of taking its shard down.
func (b *NPCBehavior) Update(world *types.WorldContext, dt float64) (state State, actions []Action) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("behavior pass panicked", "panic", r)
			b.root.Reset()
			b.state = Idle()
			state, actions = b.state, nil
		}
	}()

	b.blackboard.Clear()

	var emo *personality.EmotionalState
	if b.personality != nil {
		emo = b.personality.Emotion
	}
	b.routeWorldTriggers(world)
	ctx := &Context{
		Self:        b.self,
		Personality: b.personality,
		Memory:      b.memory,
		Graph:       b.graph,
		Emotions:    emo,
		World:       world,
		Blackboard:  b.blackboard,
		Dt:          dt,
		State:       b.state,
		Rand:        b.rng,
	}

	status := b.root.Execute(ctx)
	if status == Failure {
		ctx.State = Idle()
	}
	if ctx.State.Kind != b.state.Kind {
		b.logger.Debug("behavior transition",
			"from", string(b.state.Kind), "to", string(ctx.State.Kind))
		ctx.State.Duration = 0
	} else {
		ctx.State.Duration = b.state.Duration + dt
	}
	b.state = ctx.State
	return b.state, ctx.Actions()
}

// routeWorldTriggers fires emotion triggers for world changes the tree nodes
// themselves do not narrate: a hostile entering sensory range and global event
// tags that match the trigger table. Each fires on the rising edge so a
// condition that lingers across ticks does not compound its deltas.
func (b *NPCBehavior) routeWorldTriggers(world *types.WorldContext) {
	if world == nil || b.personality == nil {
		return
	}

	_, hostile := world.NearestHostile(b.senseRadius)
	if hostile && !b.lastHostile {
		b.emotions.ProcessTrigger(b.personality, personality.TriggerThreatDetected, world)
	}
	b.lastHostile = hostile

	active := make(map[string]bool, len(world.GlobalEvents))
	for _, tag := range world.GlobalEvents {
		if !personality.KnownTrigger(tag) {
			continue
		}
		active[tag] = true
		if !b.activeEvents[tag] {
			b.emotions.ProcessTrigger(b.personality, tag, world)
		}
	}
	b.activeEvents = active
}
