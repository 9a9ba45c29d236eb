package memory

import (
	"time"

	"github.com/google/uuid"
)

// episodeGap is the largest silence between events that still extends the
// current episode.
const episodeGap = time.Hour

// Episode is a time- and theme-bounded grouping of consecutive memories.
type Episode struct {
	ID       uuid.UUID `json:"id" msgpack:"id"`
	Theme    string    `json:"theme" msgpack:"theme"`
	Start    time.Time `json:"start" msgpack:"start"`
	End      time.Time `json:"end" msgpack:"end"`
	Memories []*Memory `json:"memories" msgpack:"memories"`
}

// Episodic groups consecutive memories into episodes. A new event extends the
// open episode while the gap to the previous event stays under an hour and
// the themes match; otherwise the episode closes and a new one opens.
type Episodic struct {
	episodes []*Episode
	current  *Episode
}

// NewEpisodic returns an empty episodic store.
func NewEpisodic() *Episodic {
	return &Episodic{}
}

// Add routes a memory into the open episode or starts a fresh one.
func (ep *Episodic) Add(m *Memory) {
	theme := themeOf(&m.Event)
	if ep.current != nil &&
		m.Event.Timestamp.Sub(ep.current.End) < episodeGap &&
		ep.current.Theme == theme {
		ep.current.Memories = append(ep.current.Memories, m)
		ep.current.End = m.Event.Timestamp
		return
	}
	ep.current = &Episode{
		ID:       uuid.New(),
		Theme:    theme,
		Start:    m.Event.Timestamp,
		End:      m.Event.Timestamp,
		Memories: []*Memory{m},
	}
	ep.episodes = append(ep.episodes, ep.current)
}

// Episodes returns all episodes, oldest first. The open episode is included.
func (ep *Episodic) Episodes() []*Episode {
	return ep.episodes
}

// search returns member memories matching the query across all episodes.
func (ep *Episodic) search(q *Query) []*Memory {
	var out []*Memory
	for _, episode := range ep.episodes {
		for _, m := range episode.Memories {
			if q.Matches(m) {
				out = append(out, m)
			}
		}
	}
	return out
}

// themeOf derives an episode theme: the first event tag when present,
// otherwise the payload kind.
func themeOf(e *Event) string {
	if len(e.Tags) > 0 {
		return e.Tags[0]
	}
	return string(e.Payload.Kind)
}
