package memory

import "github.com/veilsong/npccore/internal/types"

const (
	workingWindowSize = 7
	attentionCap      = 3
)

// Working is the rolling context window: the last seven memories plus an
// attention-focus list capped at three entities.
type Working struct {
	window    []*Memory
	attention []types.Entity
}

// NewWorking returns an empty working memory.
func NewWorking() *Working {
	return &Working{
		window: make([]*Memory, 0, workingWindowSize),
	}
}

// Add pushes a memory into the window, dropping the oldest beyond seven, and
// focuses attention on the event's participants.
func (w *Working) Add(m *Memory) {
	if len(w.window) >= workingWindowSize {
		copy(w.window, w.window[1:])
		w.window[len(w.window)-1] = m
	} else {
		w.window = append(w.window, m)
	}
	for _, p := range m.Event.Participants {
		w.Focus(p)
	}
}

// Focus moves an entity to the front of the attention list, evicting the
// least-recent entry past the cap.
func (w *Working) Focus(e types.Entity) {
	if e == types.NoEntity {
		return
	}
	for i, cur := range w.attention {
		if cur == e {
			copy(w.attention[1:i+1], w.attention[:i])
			w.attention[0] = e
			return
		}
	}
	w.attention = append(w.attention, types.NoEntity)
	copy(w.attention[1:], w.attention)
	w.attention[0] = e
	if len(w.attention) > attentionCap {
		w.attention = w.attention[:attentionCap]
	}
}

// Window returns the context window, oldest first.
func (w *Working) Window() []*Memory {
	return w.window
}

// Attention returns the focused entities, most recent first.
func (w *Working) Attention() []types.Entity {
	return w.attention
}

// Attending reports whether an entity currently holds attention.
func (w *Working) Attending(e types.Entity) bool {
	for _, cur := range w.attention {
		if cur == e {
			return true
		}
	}
	return false
}
