package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/veilsong/npccore/internal/behavior"
	"github.com/veilsong/npccore/internal/relationship"
	"github.com/veilsong/npccore/internal/types"
)

// DefaultTick is the cognition cadence. Behavior does not need frame rate;
// four passes a second reads as alive.
const DefaultTick = 250 * time.Millisecond

// memoryDecayEvery spaces out the relatively expensive decay sweeps.
const memoryDecayEvery = 40 // ticks, ~10s at the default cadence

// relationshipDecayRate is the per-game-hour relaxation applied on sweeps.
const relationshipDecayRate = 0.01

// WorldFeed supplies the per-entity world slice each tick.
type WorldFeed interface {
	WorldFor(e types.Entity) *types.WorldContext
}

// ActionSink receives the world actions NPCs emit.
type ActionSink interface {
	Dispatch(e types.Entity, actions []behavior.Action)
}

// relUpdate is one relationship write funneled to the graph writer.
type relUpdate struct {
	from, to types.Entity
	delta    relationship.Delta
}

// Scheduler owns the NPC set and the shared relationship graph. NPC passes
// run on a worker pool; graph writes and roster changes happen only on the
// scheduler goroutine, so the graph needs no lock.
type Scheduler struct {
	mu   sync.RWMutex
	npcs map[types.Entity]*NPC

	graph      *relationship.Graph
	feed       WorldFeed
	sink       ActionSink
	components types.ComponentStore
	tick       time.Duration
	workers    int
	logger     *slog.Logger

	relCh    chan relUpdate
	tickDone chan struct{}
	ticks    uint64
}

// SchedulerOption tunes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTick overrides the tick interval.
func WithTick(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.tick = d }
}

// WithWorkers sets the behavior worker count.
func WithWorkers(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) { s.logger = l }
}

// WithComponents attaches the world's component store. Spawns then consult it
// for authored Personality and Memory components and publish the bundle back.
func WithComponents(store types.ComponentStore) SchedulerOption {
	return func(s *Scheduler) { s.components = store }
}

// NewScheduler builds a Scheduler over a world feed and action sink.
func NewScheduler(feed WorldFeed, sink ActionSink, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		npcs:     make(map[types.Entity]*NPC),
		graph:    relationship.NewGraph(),
		feed:     feed,
		sink:     sink,
		tick:     DefaultTick,
		workers:  8,
		logger:   slog.Default(),
		relCh:    make(chan relUpdate, 1024),
		tickDone: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Graph exposes the shared relationship graph. Reads are safe between ticks;
// writes must go through QueueRelationship.
func (s *Scheduler) Graph() *relationship.Graph {
	return s.graph
}

// Spawn registers an NPC and returns it.
func (s *Scheduler) Spawn(cfg SpawnConfig) *NPC {
	npc := newNPC(cfg, s.graph, s.components)
	s.mu.Lock()
	s.npcs[cfg.Entity] = npc
	s.mu.Unlock()
	s.graph.AddNode(cfg.Entity, cfg.Name)
	s.logger.Info("npc spawned", "entity", uint64(cfg.Entity), "archetype", string(cfg.Archetype))
	return npc
}

// Despawn removes an NPC from the roster. Late results for it are dropped.
func (s *Scheduler) Despawn(e types.Entity) {
	s.mu.Lock()
	delete(s.npcs, e)
	s.mu.Unlock()
	if s.components != nil {
		s.components.RemoveEntity(e)
	}
	s.logger.Info("npc despawned", "entity", uint64(e))
}

// Get returns a live NPC.
func (s *Scheduler) Get(e types.Entity) (*NPC, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	npc, ok := s.npcs[e]
	return npc, ok
}

// Len returns the live NPC count.
func (s *Scheduler) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.npcs)
}

// QueueRelationship funnels a graph write to the scheduler goroutine. Safe
// from any goroutine; drops (with a log line) if the queue is saturated
// rather than blocking a worker.
func (s *Scheduler) QueueRelationship(from, to types.Entity, d relationship.Delta) {
	select {
	case s.relCh <- relUpdate{from: from, to: to, delta: d}:
	default:
		s.logger.Warn("relationship queue full, dropping update",
			"from", uint64(from), "to", uint64(to), "kind", d.Kind)
	}
}

// Run drives ticks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.Step(dt)
		}
	}
}

// Step runs one full tick: drain queued relationship writes, run every NPC's
// behavior pass in parallel, then apply periodic decay. Exported so tests
// and headless tools can drive time directly.
func (s *Scheduler) Step(dt float64) {
	s.drainRelationshipQueue()

	s.mu.RLock()
	roster := make([]*NPC, 0, len(s.npcs))
	for _, npc := range s.npcs {
		roster = append(roster, npc)
	}
	s.mu.RUnlock()

	jobs := make(chan *NPC)
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for npc := range jobs {
				s.stepNPC(npc, dt)
			}
		}()
	}
	for _, npc := range roster {
		jobs <- npc
	}
	close(jobs)
	wg.Wait()

	s.ticks++
	if s.ticks%memoryDecayEvery == 0 {
		sweep := dt * memoryDecayEvery
		for _, npc := range roster {
			npc.Memory.Decay(sweep)
			npc.Personality.Emotion.Decay(sweep)
		}
		s.graph.Decay(sweep, relationshipDecayRate)
	}
}

func (s *Scheduler) stepNPC(npc *NPC, dt float64) {
	world := s.feed.WorldFor(npc.Entity)
	_, actions := npc.Behavior.Update(world, dt)

	if s.sink != nil && len(actions) > 0 {
		// Dispatch only for NPCs still live; a despawn mid-tick makes the
		// result stale.
		if _, ok := s.Get(npc.Entity); ok {
			s.sink.Dispatch(npc.Entity, actions)
		}
	}
}

// drainRelationshipQueue applies queued writes on the scheduler goroutine.
func (s *Scheduler) drainRelationshipQueue() {
	for {
		select {
		case u := <-s.relCh:
			s.graph.Update(u.from, u.to, u.delta)
		default:
			return
		}
	}
}
