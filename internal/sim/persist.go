package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/veilsong/npccore/internal/models"
	"github.com/veilsong/npccore/internal/relationship"
	"github.com/veilsong/npccore/internal/repository"
)

// Persister writes NPC cognitive state through the repository layer. The
// embedder is optional; without it memories persist without vectors and
// similarity search simply won't surface them.
type Persister struct {
	store    *repository.Store
	embedder models.Embedder
	logger   *slog.Logger
}

// NewPersister builds a Persister; embedder may be nil.
func NewPersister(store *repository.Store, embedder models.Embedder, logger *slog.Logger) *Persister {
	if logger == nil {
		logger = slog.Default()
	}
	return &Persister{store: store, embedder: embedder, logger: logger}
}

// SaveNPC writes one NPC's personality, long-term memories, and outgoing
// relationship edges. Row failures are collected, not fatal per row, so one
// bad record doesn't lose the whole character.
func (p *Persister) SaveNPC(ctx context.Context, npc *NPC, graph *relationship.Graph) error {
	var errs []error

	if err := p.store.Personalities.Save(ctx, npc.Entity, npc.Archetype, npc.Personality); err != nil {
		errs = append(errs, err)
	}

	items := npc.Memory.LongTerm().Items()
	var vectors [][]float32
	if p.embedder != nil && len(items) > 0 {
		texts := make([]string, 0, len(items))
		for _, mem := range items {
			texts = append(texts, mem.Event.Description)
		}
		var err error
		vectors, err = p.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			p.logger.Warn("batch embedding failed, persisting without vectors",
				"entity", uint64(npc.Entity), "memories", len(items), "error", err.Error())
			vectors = nil
		}
	}
	for i, mem := range items {
		var embedding []float32
		if i < len(vectors) {
			embedding = vectors[i]
		}
		if err := p.store.Memories.Save(ctx, npc.Entity, mem, embedding); err != nil {
			errs = append(errs, err)
		}
	}

	if graph != nil {
		for _, edge := range graph.Edges() {
			if edge.From != npc.Entity {
				continue
			}
			if err := p.store.Relationships.SaveEdge(ctx, edge.From, edge.To, edge.Rel); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to persist npc %d: %w", uint64(npc.Entity), errors.Join(errs...))
	}
	return nil
}

// SaveAll persists every live NPC on the scheduler, typically at shutdown.
func (p *Persister) SaveAll(ctx context.Context, s *Scheduler) error {
	var errs []error
	s.mu.RLock()
	roster := make([]*NPC, 0, len(s.npcs))
	for _, npc := range s.npcs {
		roster = append(roster, npc)
	}
	s.mu.RUnlock()

	for _, npc := range roster {
		if err := p.SaveNPC(ctx, npc, s.graph); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RestoreNPC loads persisted state into a freshly spawned NPC: stored innate
// and learned traits replace the seeded matrix, long-term memories re-seed
// the tiers, and outgoing edges return to the shared graph.
func (p *Persister) RestoreNPC(ctx context.Context, npc *NPC, graph *relationship.Graph) error {
	m, _, found, err := p.store.Personalities.Load(ctx, npc.Entity)
	if err != nil {
		return err
	}
	if found {
		npc.Personality.Innate = m.Innate
		npc.Personality.Learned = m.Learned
		npc.Personality.Emotion = m.Emotion
	}

	memories, err := p.store.Memories.LoadForOwner(ctx, npc.Entity)
	if err != nil {
		return err
	}
	for _, mem := range memories {
		npc.Memory.LongTerm().Add(mem)
		npc.Memory.Episodic().Add(mem)
		npc.Memory.Semantic().Mine(mem)
	}

	edges, err := p.store.Relationships.LoadOutgoing(ctx, npc.Entity)
	if err != nil {
		return err
	}
	for _, edge := range edges {
		graph.SetEdge(edge.From, edge.To, edge.Rel)
	}

	p.logger.Info("npc restored", "entity", uint64(npc.Entity),
		"memories", len(memories), "edges", len(edges), "personality", found)
	return nil
}
