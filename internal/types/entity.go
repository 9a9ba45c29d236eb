// Package types holds the identifiers and world-feed structures shared by
// every cognition package.
package types

// Entity is the opaque identifier shared with the world's component store.
// Graphs and indices key on it; they never own the entity itself.
type Entity uint64

// NoEntity marks the absence of a target.
const NoEntity Entity = 0

// Archetype selects a prebuilt behavior tree for an NPC.
type Archetype string

const (
	ArchetypeVillager    Archetype = "villager"
	ArchetypeGuardian    Archetype = "guardian"
	ArchetypeMerchant    Archetype = "merchant"
	ArchetypeScholar     Archetype = "scholar"
	ArchetypeEchoTouched Archetype = "echo_touched"
)

// Archetypes lists every known archetype tag.
func Archetypes() []Archetype {
	return []Archetype{
		ArchetypeVillager,
		ArchetypeGuardian,
		ArchetypeMerchant,
		ArchetypeScholar,
		ArchetypeEchoTouched,
	}
}
