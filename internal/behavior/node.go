package behavior

import (
	"math/rand"

	"github.com/veilsong/npccore/internal/memory"
	"github.com/veilsong/npccore/internal/personality"
	"github.com/veilsong/npccore/internal/relationship"
	"github.com/veilsong/npccore/internal/types"
)

// Status is a node's evaluation result.
type Status int

const (
	// Failure means the node could not complete; composites advance or bail.
	Failure Status = iota
	// Success means the node completed.
	Success
	// Running means the node needs more ticks.
	Running
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Running:
		return "running"
	default:
		return "failure"
	}
}

// Action is a request the behavior layer emits toward the world systems
// (animation, combat, movement). The cognition core never executes them.
type Action struct {
	Kind   string
	Target types.Entity
	Detail string
}

// Context is the shared scratch state one evaluation pass reads and writes.
// It belongs to a single NPC; the executor rebuilds the volatile parts every
// pass.
type Context struct {
	Self        types.Entity
	Personality *personality.Matrix
	Memory      *memory.Store
	Graph       *relationship.Graph
	Emotions    *personality.EmotionalState
	World       *types.WorldContext
	Blackboard  *Blackboard
	Dt          float64

	// State is the behavior state the pass is producing. Nodes overwrite it;
	// the executor commits it after the pass.
	State State

	// Rand drives weighted sampling so trees stay reproducible under a
	// seeded source.
	Rand *rand.Rand

	actions []Action
}

// Emit queues a world action produced during this pass.
func (c *Context) Emit(a Action) {
	c.actions = append(c.actions, a)
}

// Actions returns the world actions emitted during this pass.
func (c *Context) Actions() []Action {
	return c.actions
}

// Node is the tree-node capability: evaluate against the shared context, and
// reset any internal cursor.
type Node interface {
	Execute(ctx *Context) Status
	Reset()
}
