// Package sim drives the cognition core on a fixed tick: behavior passes run
// in parallel per NPC while all relationship writes funnel through a single
// writer.
package sim

import (
	"math/rand"

	"github.com/veilsong/npccore/internal/behavior"
	"github.com/veilsong/npccore/internal/memory"
	"github.com/veilsong/npccore/internal/personality"
	"github.com/veilsong/npccore/internal/relationship"
	"github.com/veilsong/npccore/internal/types"
)

// NPC bundles one character's cognition components. A single worker goroutine
// touches it per tick; only the relationship graph is shared.
type NPC struct {
	Entity      types.Entity
	Name        string
	Archetype   types.Archetype
	Personality *personality.Matrix
	Emotions    *personality.StateMachine
	Memory      *memory.Store
	Behavior    *behavior.NPCBehavior
}

// SpawnConfig describes a new NPC.
type SpawnConfig struct {
	Entity    types.Entity
	Name      string
	Archetype types.Archetype
	// Traits seed the innate matrix; missing traits default to 0.5.
	Traits map[personality.Trait]float64
	// Predictor is optional; when set the behavior tree grows a model branch.
	Predictor behavior.Predictor
	Seed      int64
}

// newNPC assembles a character's cognition bundle. When a component store is
// supplied, Personality and Memory components already authored on the entity
// take precedence over freshly built ones, and whatever the NPC ends up with
// is published back so other world systems see the same instances.
func newNPC(cfg SpawnConfig, g *relationship.Graph, comps types.ComponentStore) *NPC {
	m := personality.NewMatrix(cfg.Traits)
	if cfg.Traits == nil {
		m = archetypeMatrix(cfg.Archetype)
	}
	store := memory.NewStore()
	if comps != nil {
		if v, ok := comps.Component(cfg.Entity, types.ComponentPersonality); ok {
			if existing, ok := v.(*personality.Matrix); ok {
				m = existing
			}
		}
		if v, ok := comps.Component(cfg.Entity, types.ComponentMemory); ok {
			if existing, ok := v.(*memory.Store); ok {
				store = existing
			}
		}
		comps.SetComponent(cfg.Entity, types.ComponentPersonality, m)
		comps.SetComponent(cfg.Entity, types.ComponentMemory, store)
		comps.SetComponent(cfg.Entity, types.ComponentResonance,
			&types.Resonance{Attunement: m.Value(personality.TraitResonance)})
	}
	b := behavior.New(behavior.Config{
		Self:        cfg.Entity,
		Archetype:   cfg.Archetype,
		Personality: m,
		Memory:      store,
		Graph:       g,
		Tree:        behavior.TreeOptions{Predictor: cfg.Predictor},
		Seed:        cfg.Seed,
	})
	return &NPC{
		Entity:      cfg.Entity,
		Name:        cfg.Name,
		Archetype:   cfg.Archetype,
		Personality: m,
		Emotions:    personality.NewStateMachine(),
		Memory:      store,
		Behavior:    b,
	}
}

// archetypeMatrix seeds innate traits with archetype tendencies plus a little
// per-spawn jitter so no two villagers feel identical.
func archetypeMatrix(a types.Archetype) *personality.Matrix {
	base := map[personality.Trait]float64{}
	switch a {
	case types.ArchetypeGuardian:
		base[personality.TraitCourage] = 0.8
		base[personality.TraitLoyalty] = 0.75
		base[personality.TraitConscientiousness] = 0.7
	case types.ArchetypeMerchant:
		base[personality.TraitExtraversion] = 0.7
		base[personality.TraitGreed] = 0.65
	case types.ArchetypeScholar:
		base[personality.TraitOpenness] = 0.8
		base[personality.TraitConscientiousness] = 0.75
		base[personality.TraitExtraversion] = 0.35
	case types.ArchetypeEchoTouched:
		base[personality.TraitResonance] = 0.85
		base[personality.TraitOpenness] = 0.7
		base[personality.TraitNeuroticism] = 0.6
	}
	for _, t := range personality.AllTraits() {
		v, ok := base[t]
		if !ok {
			v = 0.5
		}
		base[t] = v + (rand.Float64()-0.5)*0.1
	}
	return personality.NewMatrix(base)
}
