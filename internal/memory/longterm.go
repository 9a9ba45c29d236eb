package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veilsong/npccore/internal/types"
)

// longTermFloor is the importance below which a long-term memory is pruned.
const longTermFloor = 0.05

// LongTerm is the unbounded store plus four derived indices: by entity, by
// payload kind, by keyword, and by hour bucket. The indices are rebuilt
// whenever an item is removed out of band.
type LongTerm struct {
	order []uuid.UUID
	byID  map[uuid.UUID]*Memory

	byEntity  map[types.Entity][]uuid.UUID
	byKind    map[PayloadKind][]uuid.UUID
	byKeyword map[string][]uuid.UUID
	byBucket  map[int64][]uuid.UUID
}

// NewLongTerm returns an empty long-term store.
func NewLongTerm() *LongTerm {
	lt := &LongTerm{}
	lt.reset()
	return lt
}

func (l *LongTerm) reset() {
	l.order = nil
	l.byID = make(map[uuid.UUID]*Memory)
	l.byEntity = make(map[types.Entity][]uuid.UUID)
	l.byKind = make(map[PayloadKind][]uuid.UUID)
	l.byKeyword = make(map[string][]uuid.UUID)
	l.byBucket = make(map[int64][]uuid.UUID)
}

// Add stores a memory and indexes it. Re-adding an id (promotion re-runs) is
// a no-op.
func (l *LongTerm) Add(m *Memory) {
	if _, ok := l.byID[m.ID]; ok {
		return
	}
	l.order = append(l.order, m.ID)
	l.byID[m.ID] = m
	l.index(m)
}

// Len returns the number of stored memories.
func (l *LongTerm) Len() int {
	return len(l.order)
}

// Get returns a stored memory by id.
func (l *LongTerm) Get(id uuid.UUID) (*Memory, bool) {
	m, ok := l.byID[id]
	return m, ok
}

// Items returns all memories in insertion order.
func (l *LongTerm) Items() []*Memory {
	out := make([]*Memory, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out
}

// Remove deletes a memory out of band and rebuilds every index.
func (l *LongTerm) Remove(id uuid.UUID) {
	if _, ok := l.byID[id]; !ok {
		return
	}
	delete(l.byID, id)
	kept := l.order[:0]
	for _, cur := range l.order {
		if cur != id {
			kept = append(kept, cur)
		}
	}
	l.order = kept
	l.rebuild()
}

func (l *LongTerm) index(m *Memory) {
	for _, e := range participantsOf(m) {
		l.byEntity[e] = append(l.byEntity[e], m.ID)
	}
	l.byKind[m.Event.Payload.Kind] = append(l.byKind[m.Event.Payload.Kind], m.ID)
	for _, kw := range keywordsOf(m) {
		l.byKeyword[kw] = append(l.byKeyword[kw], m.ID)
	}
	bucket := m.CreatedAt.Unix() / 3600
	l.byBucket[bucket] = append(l.byBucket[bucket], m.ID)
}

// rebuild reconstructs all four indices from the surviving items.
func (l *LongTerm) rebuild() {
	l.byEntity = make(map[types.Entity][]uuid.UUID)
	l.byKind = make(map[PayloadKind][]uuid.UUID)
	l.byKeyword = make(map[string][]uuid.UUID)
	l.byBucket = make(map[int64][]uuid.UUID)
	for _, id := range l.order {
		l.index(l.byID[id])
	}
}

// search resolves the query through the indices: each set predicate
// intersects the running candidate set, then the survivors are filtered by
// the residual predicates. An unconstrained query returns everything indexed.
func (l *LongTerm) search(q *Query) []*Memory {
	candidates := l.candidateIDs(q)
	var out []*Memory
	for _, id := range candidates {
		m, ok := l.byID[id]
		if !ok {
			continue
		}
		if q.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

func (l *LongTerm) candidateIDs(q *Query) []uuid.UUID {
	var sets [][]uuid.UUID
	if q.Target != types.NoEntity {
		sets = append(sets, l.byEntity[q.Target])
	}
	if q.Kind != "" {
		sets = append(sets, l.byKind[q.Kind])
	}
	if len(q.Keywords) > 0 {
		var union []uuid.UUID
		seen := make(map[uuid.UUID]bool)
		for _, kw := range q.Keywords {
			for _, id := range l.byKeyword[strings.ToLower(kw)] {
				if !seen[id] {
					seen[id] = true
					union = append(union, id)
				}
			}
		}
		sets = append(sets, union)
	}
	if !q.After.IsZero() || !q.Before.IsZero() {
		sets = append(sets, l.bucketRange(q.After, q.Before))
	}

	if len(sets) == 0 {
		return l.order
	}

	result := sets[0]
	for _, set := range sets[1:] {
		result = intersectIDs(result, set)
	}
	return result
}

func (l *LongTerm) bucketRange(after, before time.Time) []uuid.UUID {
	lo := int64(0)
	if !after.IsZero() {
		lo = after.Unix() / 3600
	}
	hi := int64(1<<62 - 1)
	if !before.IsZero() {
		hi = before.Unix() / 3600
	}
	var out []uuid.UUID
	for bucket, ids := range l.byBucket {
		if bucket >= lo && bucket <= hi {
			out = append(out, ids...)
		}
	}
	return out
}

func intersectIDs(a, b []uuid.UUID) []uuid.UUID {
	inB := make(map[uuid.UUID]bool, len(b))
	for _, id := range b {
		inB[id] = true
	}
	var out []uuid.UUID
	for _, id := range a {
		if inB[id] {
			out = append(out, id)
		}
	}
	return out
}

// decay ages entries at a tenth of their short-term rate, prunes below the
// long-term floor, and rebuilds the indices if anything was removed.
func (l *LongTerm) decay(dt float64) {
	if dt <= 0 {
		return
	}
	removed := false
	kept := l.order[:0]
	for _, id := range l.order {
		m := l.byID[id]
		m.Importance *= 1 - m.DecayRate*dt*0.1
		if m.Importance < 0 {
			m.Importance = 0
		}
		if m.Importance < longTermFloor {
			delete(l.byID, id)
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	l.order = kept
	if removed {
		l.rebuild()
	}
}

func participantsOf(m *Memory) []types.Entity {
	seen := make(map[types.Entity]bool)
	var out []types.Entity
	add := func(e types.Entity) {
		if e != types.NoEntity && !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	for _, p := range m.Event.Participants {
		add(p)
	}
	if m.Event.Payload.Kind == PayloadSocial && m.Event.Payload.Social != nil {
		add(m.Event.Payload.Social.Target)
	}
	return out
}

func keywordsOf(m *Memory) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(kw string) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && !seen[kw] {
			seen[kw] = true
			out = append(out, kw)
		}
	}
	for _, tag := range m.Event.Tags {
		add(tag)
	}
	add(m.Event.subject())
	for _, word := range strings.Fields(m.Event.Description) {
		add(strings.Trim(word, ".,!?;:"))
	}
	return out
}
