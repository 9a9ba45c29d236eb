package types

// NearbyEntity is one entry of the proximity scan delivered by the world feed.
type NearbyEntity struct {
	Entity   Entity
	Distance float64
	Hostile  bool
}

// WorldContext is the read-only slice of world state handed to the cognition
// core each tick. It is assembled by the world server; nothing here mutates it.
type WorldContext struct {
	// TimeOfDay is in float hours, 0.0-24.0.
	TimeOfDay float64
	Weather   string
	Location  string
	Nearby    []NearbyEntity
	// GlobalEvents carries active world-event tags ("festival", "invasion").
	GlobalEvents []string
	// Harmony is the narrative alignment scalar in [0,1], consumed by
	// resonance-sensitive emotion triggers.
	Harmony float64
}

// NearestHostile returns the closest hostile entity within radius, if any.
func (w *WorldContext) NearestHostile(radius float64) (NearbyEntity, bool) {
	var best NearbyEntity
	found := false
	for _, n := range w.Nearby {
		if !n.Hostile || n.Distance > radius {
			continue
		}
		if !found || n.Distance < best.Distance {
			best = n
			found = true
		}
	}
	return best, found
}

// HasEvent reports whether a global event tag is currently active.
func (w *WorldContext) HasEvent(tag string) bool {
	for _, e := range w.GlobalEvents {
		if e == tag {
			return true
		}
	}
	return false
}
