// Package memory implements the four-tier memory store: short-term, working,
// long-term with derived indices, episodic grouping, and semantic knowledge
// mined from high-importance events.
package memory

import (
	"time"

	"github.com/veilsong/npccore/internal/personality"
	"github.com/veilsong/npccore/internal/types"
)

// PayloadKind discriminates the five event payload variants.
type PayloadKind string

const (
	PayloadSocial     PayloadKind = "social"
	PayloadEmotional  PayloadKind = "emotional"
	PayloadKnowledge  PayloadKind = "knowledge"
	PayloadSpatial    PayloadKind = "spatial"
	PayloadProcedural PayloadKind = "procedural"
)

// SocialPayload records an interaction with another entity.
// RelationshipImpact is signed; its magnitude drives importance.
type SocialPayload struct {
	Target             types.Entity `json:"target" msgpack:"target"`
	Interaction        string       `json:"interaction" msgpack:"interaction"`
	RelationshipImpact float64      `json:"relationship_impact" msgpack:"relationship_impact"`
}

// EmotionalPayload records a felt emotion and what set it off.
type EmotionalPayload struct {
	Emotion   personality.Emotion `json:"emotion" msgpack:"emotion"`
	Intensity float64             `json:"intensity" msgpack:"intensity"`
	Trigger   string              `json:"trigger" msgpack:"trigger"`
}

// KnowledgePayload records learned information about a topic.
type KnowledgePayload struct {
	Topic     string  `json:"topic" msgpack:"topic"`
	Relevance float64 `json:"relevance" msgpack:"relevance"`
	Source    string  `json:"source" msgpack:"source"`
}

// SpatialPayload records a place and how much it mattered.
type SpatialPayload struct {
	Location     string  `json:"location" msgpack:"location"`
	Significance float64 `json:"significance" msgpack:"significance"`
}

// ProceduralPayload records practice of a skill.
type ProceduralPayload struct {
	Skill       string  `json:"skill" msgpack:"skill"`
	SuccessRate float64 `json:"success_rate" msgpack:"success_rate"`
}

// Payload is the closed tagged-variant set for event payloads. Exactly the
// field matching Kind is set; the rest stay nil.
type Payload struct {
	Kind       PayloadKind        `json:"kind" msgpack:"kind"`
	Social     *SocialPayload     `json:"social,omitempty" msgpack:"social,omitempty"`
	Emotional  *EmotionalPayload  `json:"emotional,omitempty" msgpack:"emotional,omitempty"`
	Knowledge  *KnowledgePayload  `json:"knowledge,omitempty" msgpack:"knowledge,omitempty"`
	Spatial    *SpatialPayload    `json:"spatial,omitempty" msgpack:"spatial,omitempty"`
	Procedural *ProceduralPayload `json:"procedural,omitempty" msgpack:"procedural,omitempty"`
}

// Event is an immutable record of something that happened to the NPC.
type Event struct {
	Description  string               `json:"description" msgpack:"description"`
	Payload      Payload              `json:"payload" msgpack:"payload"`
	Participants []types.Entity       `json:"participants,omitempty" msgpack:"participants,omitempty"`
	Location     string               `json:"location,omitempty" msgpack:"location,omitempty"`
	Emotion      *personality.Emotion `json:"emotion,omitempty" msgpack:"emotion,omitempty"`
	Tags         []string             `json:"tags,omitempty" msgpack:"tags,omitempty"`
	Timestamp    time.Time            `json:"timestamp" msgpack:"timestamp"`
}

// subject returns the payload's primary subject, used when checking whether
// two recent events are near-duplicates.
func (e *Event) subject() string {
	switch e.Payload.Kind {
	case PayloadSocial:
		if e.Payload.Social != nil {
			return e.Payload.Social.Interaction
		}
	case PayloadEmotional:
		if e.Payload.Emotional != nil {
			return e.Payload.Emotional.Trigger
		}
	case PayloadKnowledge:
		if e.Payload.Knowledge != nil {
			return e.Payload.Knowledge.Topic
		}
	case PayloadSpatial:
		if e.Payload.Spatial != nil {
			return e.Payload.Spatial.Location
		}
	case PayloadProcedural:
		if e.Payload.Procedural != nil {
			return e.Payload.Procedural.Skill
		}
	}
	return ""
}
