package memory

import (
	"time"

	"github.com/google/uuid"
)

// semanticThreshold is the importance a Knowledge or Procedural memory must
// clear before it feeds the knowledge map.
const semanticThreshold = 0.7

// KnowledgeNode is consolidated understanding of one topic or skill.
type KnowledgeNode struct {
	Topic      string      `json:"topic" msgpack:"topic"`
	Confidence float64     `json:"confidence" msgpack:"confidence"`
	Supporting []uuid.UUID `json:"supporting" msgpack:"supporting"`
	UpdatedAt  time.Time   `json:"updated_at" msgpack:"updated_at"`
}

// Semantic maps topics and skills to knowledge nodes. It is populated only
// from Knowledge and Procedural memories above the importance threshold.
type Semantic struct {
	nodes map[string]*KnowledgeNode
}

// NewSemantic returns an empty knowledge map.
func NewSemantic() *Semantic {
	return &Semantic{nodes: make(map[string]*KnowledgeNode)}
}

// Mine folds a memory into the knowledge map if it qualifies. Repeated
// support for a topic compounds confidence toward 1.
func (s *Semantic) Mine(m *Memory) {
	if m.Importance <= semanticThreshold {
		return
	}

	var topic string
	var strength float64
	switch m.Event.Payload.Kind {
	case PayloadKnowledge:
		if m.Event.Payload.Knowledge == nil {
			return
		}
		topic = m.Event.Payload.Knowledge.Topic
		strength = m.Event.Payload.Knowledge.Relevance
	case PayloadProcedural:
		if m.Event.Payload.Procedural == nil {
			return
		}
		topic = m.Event.Payload.Procedural.Skill
		strength = m.Event.Payload.Procedural.SuccessRate
	default:
		return
	}
	if topic == "" {
		return
	}

	node, ok := s.nodes[topic]
	if !ok {
		node = &KnowledgeNode{Topic: topic}
		s.nodes[topic] = node
	}
	// Each supporting memory closes a fraction of the remaining gap.
	node.Confidence += (1 - node.Confidence) * 0.3 * strength
	node.Supporting = append(node.Supporting, m.ID)
	node.UpdatedAt = m.Event.Timestamp
}

// Node returns the knowledge node for a topic, if any.
func (s *Semantic) Node(topic string) (*KnowledgeNode, bool) {
	n, ok := s.nodes[topic]
	return n, ok
}

// Topics returns every known topic.
func (s *Semantic) Topics() []string {
	out := make([]string, 0, len(s.nodes))
	for topic := range s.nodes {
		out = append(out, topic)
	}
	return out
}
