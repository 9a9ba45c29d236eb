// Package snapshot serializes one NPC's full cognitive state so it survives
// despawns and server restarts.
package snapshot

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/veilsong/npccore/internal/behavior"
	"github.com/veilsong/npccore/internal/memory"
	"github.com/veilsong/npccore/internal/personality"
	"github.com/veilsong/npccore/internal/relationship"
	"github.com/veilsong/npccore/internal/types"
)

// Version is the current snapshot payload shape. Decode rejects anything it
// doesn't know how to read.
const Version = 1

// Snapshot is one NPC's persistable cognitive state.
type Snapshot struct {
	Entity    types.Entity    `msgpack:"entity"`
	Archetype types.Archetype `msgpack:"archetype"`

	Personality *personality.Matrix `msgpack:"personality"`
	State       behavior.State      `msgpack:"state"`

	ShortTerm []*memory.Memory `msgpack:"short_term"`
	LongTerm  []*memory.Memory `msgpack:"long_term"`

	// Edges are the NPC's outgoing relationship edges only; the shared graph
	// owns the rest.
	Edges []relationship.Edge `msgpack:"edges"`
}

// envelope wraps the payload with its version so old snapshots fail loudly
// instead of decoding garbage.
type envelope struct {
	Version int    `msgpack:"version"`
	Payload []byte `msgpack:"payload"`
}

// Capture assembles a snapshot from live components.
func Capture(e types.Entity, archetype types.Archetype, m *personality.Matrix, store *memory.Store, g *relationship.Graph, state behavior.State) *Snapshot {
	s := &Snapshot{
		Entity:      e,
		Archetype:   archetype,
		Personality: m,
		State:       state,
	}
	if store != nil {
		s.ShortTerm = store.ShortTerm().Items()
		s.LongTerm = store.LongTerm().Items()
	}
	if g != nil {
		for _, edge := range g.Edges() {
			if edge.From == e {
				s.Edges = append(s.Edges, edge)
			}
		}
	}
	return s
}

// Encode serializes the snapshot into a versioned envelope.
func Encode(s *Snapshot) ([]byte, error) {
	payload, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot payload: %w", err)
	}
	data, err := msgpack.Marshal(envelope{Version: Version, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot envelope: %w", err)
	}
	return data, nil
}

// Decode parses a versioned snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot envelope: %w", err)
	}
	if env.Version != Version {
		return nil, fmt.Errorf("unsupported snapshot version %d", env.Version)
	}
	var s Snapshot
	if err := msgpack.Unmarshal(env.Payload, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot payload: %w", err)
	}
	return &s, nil
}

// Restore rebuilds live components from the snapshot. The memory store is
// repopulated tier by tier; long-term entries re-seed the episodic and
// semantic views. Outgoing edges are installed into the shared graph.
func (s *Snapshot) Restore(store *memory.Store, g *relationship.Graph) {
	if store != nil {
		for _, m := range s.LongTerm {
			store.LongTerm().Add(m)
			store.Episodic().Add(m)
			store.Semantic().Mine(m)
		}
		for _, m := range s.ShortTerm {
			store.ShortTerm().Add(m)
		}
	}
	if g != nil {
		for _, edge := range s.Edges {
			g.SetEdge(edge.From, edge.To, edge.Rel)
		}
	}
}
