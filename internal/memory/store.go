package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	longTermThreshold = 0.6
	// defaultDecayRate is the per-second importance loss applied during
	// short-term decay.
	defaultDecayRate = 0.01

	promoteImportance = 0.6
	promoteRecalls    = 2
)

// Store coordinates the four tiers for one NPC. It is not internally
// synchronized: the simulation gives each NPC's store to exactly one worker
// per tick.
type Store struct {
	shortTerm *ShortTerm
	working   *Working
	longTerm  *LongTerm
	episodic  *Episodic
	semantic  *Semantic

	decayRate float64
	nowFunc   func() time.Time
}

// Option tweaks a Store at construction.
type Option func(*Store)

// WithShortTermCapacity overrides the short-term buffer size.
func WithShortTermCapacity(n int) Option {
	return func(s *Store) { s.shortTerm = NewShortTerm(n) }
}

// WithDecayRate overrides the default per-memory decay rate.
func WithDecayRate(rate float64) Option {
	return func(s *Store) { s.decayRate = rate }
}

// NewStore returns a Store with empty tiers.
func NewStore(opts ...Option) *Store {
	s := &Store{
		shortTerm: NewShortTerm(DefaultShortTermCapacity),
		working:   NewWorking(),
		longTerm:  NewLongTerm(),
		episodic:  NewEpisodic(),
		semantic:  NewSemantic(),
		decayRate: defaultDecayRate,
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StoreEvent scores an event and writes it into the tiers: always short-term,
// working, and episodic; long-term above 0.6 importance; mined into semantic
// knowledge above 0.7. It returns the created memory.
func (s *Store) StoreEvent(e Event) *Memory {
	if e.Timestamp.IsZero() {
		e.Timestamp = s.nowFunc()
	}

	similar := s.shortTerm.countSimilar(&e)
	m := &Memory{
		ID:         uuid.New(),
		Event:      e,
		Importance: computeImportance(&e, similar),
		CreatedAt:  e.Timestamp,
		DecayRate:  s.decayRate,
	}

	s.shortTerm.Add(m)
	s.working.Add(m)
	s.episodic.Add(m)
	if m.Importance > longTermThreshold {
		s.longTerm.Add(m)
	}
	s.semantic.Mine(m)
	return m
}

// Recall searches short-term, long-term, and episodic stores independently,
// unions the results, boosts every returned memory, and sorts by relevance.
// An empty result is a valid answer; Recall never fails.
func (s *Store) Recall(q Query) []*Memory {
	seen := make(map[uuid.UUID]bool)
	var out []*Memory
	collect := func(found []*Memory) {
		for _, m := range found {
			if !seen[m.ID] {
				seen[m.ID] = true
				out = append(out, m)
			}
		}
	}
	collect(s.shortTerm.search(&q))
	collect(s.longTerm.search(&q))
	collect(s.episodic.search(&q))

	for _, m := range out {
		m.boostRecall()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return q.Relevance(out[i]) > q.Relevance(out[j])
	})
	return out
}

// Decay ages the tiers by dt seconds and promotes short-term memories that
// have proven themselves (importance above 0.6, recalled more than twice)
// into long-term without removing them from short-term. Decay with dt=0
// leaves everything unchanged.
func (s *Store) Decay(dt float64) {
	if dt <= 0 {
		return
	}
	s.shortTerm.decay(dt)
	s.longTerm.decay(dt)

	for _, m := range s.shortTerm.Items() {
		if m.Importance > promoteImportance && m.RecallCount > promoteRecalls {
			s.longTerm.Add(m)
		}
	}
}

// ShortTerm exposes the short-term tier for inspection and snapshots.
func (s *Store) ShortTerm() *ShortTerm { return s.shortTerm }

// Working exposes the working-memory tier.
func (s *Store) Working() *Working { return s.working }

// LongTerm exposes the long-term tier.
func (s *Store) LongTerm() *LongTerm { return s.longTerm }

// Episodic exposes the episodic tier.
func (s *Store) Episodic() *Episodic { return s.episodic }

// Semantic exposes the knowledge map.
func (s *Store) Semantic() *Semantic { return s.semantic }
