package memory

// DefaultShortTermCapacity is how many memories the short-term buffer holds
// before it starts overwriting the oldest.
const DefaultShortTermCapacity = 50

// ShortTerm is a fixed-capacity, insertion-ordered buffer with
// overwrite-oldest eviction.
type ShortTerm struct {
	capacity int
	items    []*Memory
}

// NewShortTerm returns a buffer with the given capacity; non-positive values
// fall back to the default.
func NewShortTerm(capacity int) *ShortTerm {
	if capacity <= 0 {
		capacity = DefaultShortTermCapacity
	}
	return &ShortTerm{
		capacity: capacity,
		items:    make([]*Memory, 0, capacity),
	}
}

// Add appends a memory, evicting the oldest entry when full.
func (s *ShortTerm) Add(m *Memory) {
	if len(s.items) >= s.capacity {
		copy(s.items, s.items[1:])
		s.items[len(s.items)-1] = m
		return
	}
	s.items = append(s.items, m)
}

// Items returns the live entries, oldest first. The slice is shared; callers
// must not reorder it.
func (s *ShortTerm) Items() []*Memory {
	return s.items
}

// Len returns the number of held memories.
func (s *ShortTerm) Len() int {
	return len(s.items)
}

// search returns every memory matching the query, oldest first.
func (s *ShortTerm) search(q *Query) []*Memory {
	var out []*Memory
	for _, m := range s.items {
		if q.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// decay ages every entry by rate*dt and prunes entries whose importance fell
// below the short-term floor of 0.1.
func (s *ShortTerm) decay(dt float64) {
	if dt <= 0 {
		return
	}
	kept := s.items[:0]
	for _, m := range s.items {
		m.Importance *= 1 - m.DecayRate*dt
		if m.Importance < 0 {
			m.Importance = 0
		}
		if m.Importance >= 0.1 {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = kept
}

// countSimilar counts recent events with the same payload kind and subject,
// used by the uniqueness multiplier in importance scoring.
func (s *ShortTerm) countSimilar(e *Event) int {
	count := 0
	for _, m := range s.items {
		if m.Event.Payload.Kind == e.Payload.Kind && m.Event.subject() == e.subject() {
			count++
		}
	}
	return count
}
