package relationship

import (
	"container/heap"
	"time"

	"github.com/veilsong/npccore/internal/types"
)

// Type classifies an edge from its five scalar fields. It is recomputed after
// every delta application and never set independently.
type Type string

const (
	TypeNeutral  Type = "neutral"
	TypeAlly     Type = "ally"
	TypeFriend   Type = "friend"
	TypeRomantic Type = "romantic"
	TypeRival    Type = "rival"
	TypeEnemy    Type = "enemy"
)

// HistoryEntry records one applied delta on an edge.
type HistoryEntry struct {
	Kind   string  `json:"kind" msgpack:"kind"`
	Impact float64 `json:"impact" msgpack:"impact"`
}

const historyCap = 20

// Relationship is the directed edge state between two entities.
type Relationship struct {
	Trust       float64 `json:"trust" msgpack:"trust"`
	Respect     float64 `json:"respect" msgpack:"respect"`
	Affection   float64 `json:"affection" msgpack:"affection"`
	Familiarity float64 `json:"familiarity" msgpack:"familiarity"`
	Tension     float64 `json:"tension" msgpack:"tension"`

	Type    Type           `json:"type" msgpack:"type"`
	History []HistoryEntry `json:"history" msgpack:"history"`

	LastInteraction  time.Time `json:"last_interaction" msgpack:"last_interaction"`
	InteractionCount int       `json:"interaction_count" msgpack:"interaction_count"`
}

// newNeutralRelationship is the baseline a first delta applies against.
func newNeutralRelationship() *Relationship {
	return &Relationship{
		Trust:     0.5,
		Respect:   0.5,
		Affection: 0.5,
		Type:      TypeNeutral,
	}
}

// apply folds a delta into the edge, clamps every field, appends history, and
// reclassifies the type.
func (r *Relationship) apply(d Delta, now time.Time) {
	r.Trust = clamp01(r.Trust + d.Trust)
	r.Respect = clamp01(r.Respect + d.Respect)
	r.Affection = clamp01(r.Affection + d.Affection)
	r.Familiarity = clamp01(r.Familiarity + d.Familiarity)
	r.Tension = clamp01(r.Tension + d.Tension)

	r.History = append(r.History, HistoryEntry{Kind: d.Kind, Impact: d.TotalImpact()})
	if len(r.History) > historyCap {
		r.History = r.History[len(r.History)-historyCap:]
	}

	r.LastInteraction = now
	r.InteractionCount++
	r.Type = classify(r)
}

// classify derives the relationship type from the five scalars.
func classify(r *Relationship) Type {
	positive := (r.Trust + r.Respect + r.Affection) / 3
	switch {
	case positive > 0.8 && r.Affection > 0.9:
		return TypeRomantic
	case positive > 0.7 && r.Tension < 0.2:
		return TypeFriend
	case r.Tension > 0.7 || positive < 0.3:
		return TypeEnemy
	case r.Respect > 0.7 && r.Tension > 0.4:
		return TypeRival
	case positive > 0.6:
		return TypeAlly
	default:
		return TypeNeutral
	}
}

// Node is one entity's presence in the graph.
type Node struct {
	Entity     types.Entity `json:"entity" msgpack:"entity"`
	Name       string       `json:"name" msgpack:"name"`
	Reputation float64      `json:"reputation" msgpack:"reputation"`
	Traits     []string     `json:"traits,omitempty" msgpack:"traits,omitempty"`
}

// Graph is the arena of nodes with index-based directed edges. It is shared
// across all NPCs and is not internally synchronized; the simulation funnels
// all writes through a single writer per tick.
type Graph struct {
	nodes   []Node
	index   map[types.Entity]int
	edges   []map[int]*Relationship
	nowFunc func() time.Time
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index:   make(map[types.Entity]int),
		nowFunc: time.Now,
	}
}

// AddNode registers an entity, returning its arena index. Re-adding returns
// the existing index and refreshes the name.
func (g *Graph) AddNode(e types.Entity, name string, traits ...string) int {
	if i, ok := g.index[e]; ok {
		if name != "" {
			g.nodes[i].Name = name
		}
		return i
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, Node{Entity: e, Name: name, Traits: traits})
	g.edges = append(g.edges, make(map[int]*Relationship))
	g.index[e] = i
	return i
}

// Node returns the arena node for an entity.
func (g *Graph) Node(e types.Entity) (*Node, bool) {
	i, ok := g.index[e]
	if !ok {
		return nil, false
	}
	return &g.nodes[i], true
}

// Len returns the number of registered entities.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Update applies a delta to the from→to edge, creating both nodes and the
// edge (at the neutral baseline) as needed.
func (g *Graph) Update(from, to types.Entity, d Delta) *Relationship {
	fi := g.AddNode(from, "")
	ti := g.AddNode(to, "")
	rel, ok := g.edges[fi][ti]
	if !ok {
		rel = newNeutralRelationship()
		g.edges[fi][ti] = rel
	}
	rel.apply(d, g.nowFunc())
	return rel
}

// Get returns the from→to edge, if present.
func (g *Graph) Get(from, to types.Entity) (*Relationship, bool) {
	fi, ok := g.index[from]
	if !ok {
		return nil, false
	}
	ti, ok := g.index[to]
	if !ok {
		return nil, false
	}
	rel, ok := g.edges[fi][ti]
	return rel, ok
}

// Edge is one directed edge with its endpoints, as exported for snapshots
// and persistence.
type Edge struct {
	From types.Entity  `json:"from" msgpack:"from"`
	To   types.Entity  `json:"to" msgpack:"to"`
	Rel  *Relationship `json:"rel" msgpack:"rel"`
}

// Edges lists every edge in the graph.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for fi, targets := range g.edges {
		for ti, rel := range targets {
			out = append(out, Edge{
				From: g.nodes[fi].Entity,
				To:   g.nodes[ti].Entity,
				Rel:  rel,
			})
		}
	}
	return out
}

// SetEdge installs an edge verbatim, creating endpoints as needed. Used when
// rebuilding a graph from a snapshot or the database.
func (g *Graph) SetEdge(from, to types.Entity, rel *Relationship) {
	fi := g.AddNode(from, "")
	ti := g.AddNode(to, "")
	g.edges[fi][ti] = rel
}

// Neighbors returns the entities the given entity has outgoing edges to.
func (g *Graph) Neighbors(e types.Entity) []types.Entity {
	i, ok := g.index[e]
	if !ok {
		return nil
	}
	out := make([]types.Entity, 0, len(g.edges[i]))
	for ti := range g.edges[i] {
		out = append(out, g.nodes[ti].Entity)
	}
	return out
}

// Decay relaxes every edge toward its resting state: trust, respect, and
// affection drift to 0.5, tension drains toward 0 at twice the rate, and
// familiarity erodes ten times slower than the rest. Edges that have gone
// cold (combined state under 1.0 with familiarity under 0.1) are pruned.
func (g *Graph) Decay(dt, rate float64) {
	if dt <= 0 {
		return
	}
	f := factor(rate * dt)
	slow := factor(rate * dt / 10)
	fast := factor(rate * dt * 2)

	for fi := range g.edges {
		for ti, rel := range g.edges[fi] {
			rel.Trust = relaxToward(rel.Trust, 0.5, f)
			rel.Respect = relaxToward(rel.Respect, 0.5, f)
			rel.Affection = relaxToward(rel.Affection, 0.5, f)
			rel.Familiarity = relaxToward(rel.Familiarity, 0.5, slow)
			rel.Tension = relaxToward(rel.Tension, 0, fast)
			rel.Type = classify(rel)

			if rel.Trust+rel.Respect+rel.Affection+rel.Tension < 1.0 && rel.Familiarity < 0.1 {
				delete(g.edges[fi], ti)
			}
		}
	}
}

// FindPath runs a shortest-path search from one entity to another, weighting
// each hop by 1/(trust+0.1) so trusted relationships are the preferred routes
// of influence. It returns the entities along the path including endpoints,
// or nil when unreachable.
func (g *Graph) FindPath(from, to types.Entity) []types.Entity {
	fi, ok := g.index[from]
	if !ok {
		return nil
	}
	ti, ok := g.index[to]
	if !ok {
		return nil
	}
	if fi == ti {
		return []types.Entity{from}
	}

	const unvisited = -1
	dist := make([]float64, len(g.nodes))
	prev := make([]int, len(g.nodes))
	done := make([]bool, len(g.nodes))
	for i := range dist {
		dist[i] = -1
		prev[i] = unvisited
	}
	dist[fi] = 0

	pq := &nodeQueue{{index: fi, cost: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(queued)
		if done[cur.index] {
			continue
		}
		done[cur.index] = true
		if cur.index == ti {
			break
		}
		for next, rel := range g.edges[cur.index] {
			cost := cur.cost + 1.0/(rel.Trust+0.1)
			if dist[next] < 0 || cost < dist[next] {
				dist[next] = cost
				prev[next] = cur.index
				heap.Push(pq, queued{index: next, cost: cost})
			}
		}
	}

	if !done[ti] {
		return nil
	}
	var path []types.Entity
	for i := ti; i != unvisited; i = prev[i] {
		path = append(path, g.nodes[i].Entity)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// Influence scores an entity's social weight: 0.3 per connection plus 0.7
// times its outgoing trust, normalized against the graph size so the result
// stays in [0,1].
func (g *Graph) Influence(e types.Entity) float64 {
	i, ok := g.index[e]
	if !ok {
		return 0
	}
	count := float64(len(g.edges[i]))
	trustSum := 0.0
	for _, rel := range g.edges[i] {
		trustSum += rel.Trust
	}
	raw := 0.3*count + 0.7*trustSum
	max := float64(len(g.nodes) - 1)
	if max < 1 {
		max = 1
	}
	return clamp01(raw / max)
}

func relaxToward(v, target, f float64) float64 {
	return target + (v-target)*(1-f)
}

// factor bounds rate*dt so a huge step can't overshoot the resting value.
func factor(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < 0 {
		return 0
	}
	return x
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

type queued struct {
	index int
	cost  float64
}

type nodeQueue []queued

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any)         { *q = append(*q, x.(queued)) }
func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
