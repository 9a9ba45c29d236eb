package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veilsong/npccore/internal/types"
)

// Memory wraps an immutable Event with the mutable bookkeeping the tiers
// maintain. Importance and RecallCount are the only fields that change after
// creation; a memory is removed when importance falls below its tier's floor.
type Memory struct {
	ID          uuid.UUID `json:"id" msgpack:"id"`
	Event       Event     `json:"event" msgpack:"event"`
	Importance  float64   `json:"importance" msgpack:"importance"`
	CreatedAt   time.Time `json:"created_at" msgpack:"created_at"`
	RecallCount int       `json:"recall_count" msgpack:"recall_count"`
	DecayRate   float64   `json:"decay_rate" msgpack:"decay_rate"`
}

// Query selects memories across the tiers. Zero-valued fields are
// unconstrained; a query never fails, it just returns fewer results.
type Query struct {
	Keywords      []string
	Target        types.Entity
	Kind          PayloadKind
	After         time.Time
	Before        time.Time
	MinImportance float64
}

// Matches reports whether a memory satisfies every set predicate.
func (q *Query) Matches(m *Memory) bool {
	if m.Importance < q.MinImportance {
		return false
	}
	if q.Kind != "" && m.Event.Payload.Kind != q.Kind {
		return false
	}
	if q.Target != types.NoEntity && !mentionsEntity(m, q.Target) {
		return false
	}
	if !q.After.IsZero() && m.CreatedAt.Before(q.After) {
		return false
	}
	if !q.Before.IsZero() && m.CreatedAt.After(q.Before) {
		return false
	}
	if len(q.Keywords) > 0 && countKeywordHits(m, q.Keywords) == 0 {
		return false
	}
	return true
}

// Relevance scores a matched memory for ranking: importance scaled up for a
// type match, an entity match, and each matching keyword.
func (q *Query) Relevance(m *Memory) float64 {
	score := m.Importance
	if q.Kind != "" && m.Event.Payload.Kind == q.Kind {
		score *= 1.5
	}
	if q.Target != types.NoEntity && mentionsEntity(m, q.Target) {
		score *= 1.3
	}
	for i := 0; i < countKeywordHits(m, q.Keywords); i++ {
		score *= 1.2
	}
	return score
}

func mentionsEntity(m *Memory, e types.Entity) bool {
	for _, p := range m.Event.Participants {
		if p == e {
			return true
		}
	}
	if m.Event.Payload.Kind == PayloadSocial && m.Event.Payload.Social != nil {
		return m.Event.Payload.Social.Target == e
	}
	return false
}

func countKeywordHits(m *Memory, keywords []string) int {
	desc := strings.ToLower(m.Event.Description)
	subject := strings.ToLower(m.Event.subject())
	hits := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(desc, kw) || strings.Contains(subject, kw) {
			hits++
			continue
		}
		for _, tag := range m.Event.Tags {
			if strings.EqualFold(tag, kw) {
				hits++
				break
			}
		}
	}
	return hits
}

// boostRecall bumps the recall counter and grows importance by 10%, capped
// at 1.0. Called for every memory a recall returns.
func (m *Memory) boostRecall() {
	m.RecallCount++
	m.Importance *= 1.1
	if m.Importance > 1.0 {
		m.Importance = 1.0
	}
}
