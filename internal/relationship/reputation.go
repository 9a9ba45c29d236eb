package relationship

import (
	"time"

	"github.com/veilsong/npccore/internal/types"
)

// Standing is the qualitative seven-level reputation scale.
type Standing string

const (
	StandingDespised Standing = "despised"
	StandingScorned  Standing = "scorned"
	StandingDisliked Standing = "disliked"
	StandingNeutral  Standing = "neutral"
	StandingAccepted Standing = "accepted"
	StandingHonored  Standing = "honored"
	StandingRevered  Standing = "revered"
)

// StandingFor maps a score in [-1,1] to the qualitative scale by fixed
// thresholds.
func StandingFor(score float64) Standing {
	switch {
	case score < -0.7:
		return StandingDespised
	case score < -0.4:
		return StandingScorned
	case score < -0.1:
		return StandingDisliked
	case score <= 0.1:
		return StandingNeutral
	case score <= 0.4:
		return StandingAccepted
	case score <= 0.7:
		return StandingHonored
	default:
		return StandingRevered
	}
}

// ReputationEvent is one entry in a ledger's bounded history.
type ReputationEvent struct {
	Reason    string    `json:"reason" msgpack:"reason"`
	Delta     float64   `json:"delta" msgpack:"delta"`
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
}

const reputationHistoryCap = 50

type reputationKey struct {
	entity types.Entity
	group  string
}

type reputationEntry struct {
	score   float64
	history []ReputationEvent
}

// Reputation is the per-entity, per-group ledger, separate from pairwise
// relationship state. Updates are independent per (entity, group) pair and
// clamp to [-1,1].
type Reputation struct {
	entries map[reputationKey]*reputationEntry
	nowFunc func() time.Time
}

// NewReputation returns an empty ledger.
func NewReputation() *Reputation {
	return &Reputation{
		entries: make(map[reputationKey]*reputationEntry),
		nowFunc: time.Now,
	}
}

// Adjust shifts an entity's score with one group and records the event.
func (r *Reputation) Adjust(e types.Entity, group, reason string, delta float64) float64 {
	key := reputationKey{entity: e, group: group}
	entry, ok := r.entries[key]
	if !ok {
		entry = &reputationEntry{}
		r.entries[key] = entry
	}
	entry.score = clampReputation(entry.score + delta)
	entry.history = append(entry.history, ReputationEvent{
		Reason:    reason,
		Delta:     delta,
		Timestamp: r.nowFunc(),
	})
	if len(entry.history) > reputationHistoryCap {
		entry.history = entry.history[len(entry.history)-reputationHistoryCap:]
	}
	return entry.score
}

// Score returns an entity's current score with a group; unknown pairs are 0.
func (r *Reputation) Score(e types.Entity, group string) float64 {
	if entry, ok := r.entries[reputationKey{entity: e, group: group}]; ok {
		return entry.score
	}
	return 0
}

// Standing returns the qualitative level for an entity with a group.
func (r *Reputation) Standing(e types.Entity, group string) Standing {
	return StandingFor(r.Score(e, group))
}

// History returns the recorded events for an (entity, group) pair.
func (r *Reputation) History(e types.Entity, group string) []ReputationEvent {
	if entry, ok := r.entries[reputationKey{entity: e, group: group}]; ok {
		return entry.history
	}
	return nil
}

func clampReputation(v float64) float64 {
	switch {
	case v < -1:
		return -1
	case v > 1:
		return 1
	default:
		return v
	}
}
