package behavior

import "github.com/veilsong/npccore/internal/types"

// ValueKind discriminates blackboard values.
type ValueKind string

const (
	ValueBool   ValueKind = "bool"
	ValueFloat  ValueKind = "float"
	ValueString ValueKind = "string"
	ValueEntity ValueKind = "entity"
	ValueVector ValueKind = "vector"
)

// Value is the closed variant set a blackboard slot can hold.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Float  float64
	Str    string
	Entity types.Entity
	Vector [3]float64
}

// Blackboard is the per-tree scratchpad nodes use to pass data within one
// evaluation pass. It is cleared between passes.
type Blackboard struct {
	slots map[string]Value
}

// NewBlackboard returns an empty blackboard.
func NewBlackboard() *Blackboard {
	return &Blackboard{slots: make(map[string]Value)}
}

// Clear empties every slot; the executor calls it before each pass.
func (b *Blackboard) Clear() {
	clear(b.slots)
}

// SetBool stores a bool under key.
func (b *Blackboard) SetBool(key string, v bool) {
	b.slots[key] = Value{Kind: ValueBool, Bool: v}
}

// SetFloat stores a float under key.
func (b *Blackboard) SetFloat(key string, v float64) {
	b.slots[key] = Value{Kind: ValueFloat, Float: v}
}

// SetString stores a string under key.
func (b *Blackboard) SetString(key, v string) {
	b.slots[key] = Value{Kind: ValueString, Str: v}
}

// SetEntity stores an entity handle under key.
func (b *Blackboard) SetEntity(key string, v types.Entity) {
	b.slots[key] = Value{Kind: ValueEntity, Entity: v}
}

// SetVector stores a 3-vector under key.
func (b *Blackboard) SetVector(key string, v [3]float64) {
	b.slots[key] = Value{Kind: ValueVector, Vector: v}
}

// Bool reads a bool slot; the second result is false on a missing key or a
// kind mismatch.
func (b *Blackboard) Bool(key string) (bool, bool) {
	v, ok := b.slots[key]
	if !ok || v.Kind != ValueBool {
		return false, false
	}
	return v.Bool, true
}

// Float reads a float slot.
func (b *Blackboard) Float(key string) (float64, bool) {
	v, ok := b.slots[key]
	if !ok || v.Kind != ValueFloat {
		return 0, false
	}
	return v.Float, true
}

// String reads a string slot.
func (b *Blackboard) String(key string) (string, bool) {
	v, ok := b.slots[key]
	if !ok || v.Kind != ValueString {
		return "", false
	}
	return v.Str, true
}

// Entity reads an entity slot.
func (b *Blackboard) Entity(key string) (types.Entity, bool) {
	v, ok := b.slots[key]
	if !ok || v.Kind != ValueEntity {
		return types.NoEntity, false
	}
	return v.Entity, true
}

// Vector reads a 3-vector slot.
func (b *Blackboard) Vector(key string) ([3]float64, bool) {
	v, ok := b.slots[key]
	if !ok || v.Kind != ValueVector {
		return [3]float64{}, false
	}
	return v.Vector, true
}
