package types

import "sync"

// Transform is the spatial component mirrored from the world engine.
type Transform struct {
	Position [3]float64
	Facing   float64
}

// Resonance carries a character's attunement to the world's harmony field.
type Resonance struct {
	Attunement float64
}

// ComponentKind tags the component slots the cognition core touches.
type ComponentKind string

const (
	ComponentTransform   ComponentKind = "transform"
	ComponentPersonality ComponentKind = "personality"
	ComponentMemory      ComponentKind = "memory"
	ComponentResonance   ComponentKind = "resonance"
)

// ComponentStore is the consumed port onto the world's entity-component
// tables. The core keys on entities but never owns them: per-character state
// is read from and published through this interface so a host engine can back
// it with its own store. Components are held by reference, so a returned
// pointer doubles as the mutable view.
type ComponentStore interface {
	// Component returns the entity's component of the given kind, if present.
	Component(e Entity, kind ComponentKind) (any, bool)
	// SetComponent adds or replaces a component on an entity.
	SetComponent(e Entity, kind ComponentKind, v any)
	// RemoveEntity drops every component an entity holds.
	RemoveEntity(e Entity)
}

// ComponentTable is the in-memory ComponentStore the demo loop and tests run
// against. Safe for concurrent use.
type ComponentTable struct {
	mu   sync.RWMutex
	rows map[Entity]map[ComponentKind]any
}

// NewComponentTable returns an empty table.
func NewComponentTable() *ComponentTable {
	return &ComponentTable{rows: make(map[Entity]map[ComponentKind]any)}
}

func (t *ComponentTable) Component(e Entity, kind ComponentKind) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[e][kind]
	return v, ok
}

func (t *ComponentTable) SetComponent(e Entity, kind ComponentKind, v any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[e]
	if !ok {
		row = make(map[ComponentKind]any)
		t.rows[e] = row
	}
	row[kind] = v
}

func (t *ComponentTable) RemoveEntity(e Entity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, e)
}
