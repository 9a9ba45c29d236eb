package behavior

import "math"

// emotionalOverrideThreshold is the dominant-emotion magnitude above which
// feeling preempts the rest of the tree.
const emotionalOverrideThreshold = 0.75

// EmotionalResponse interrupts planned behavior when an emotion spikes hard
// enough, moving the NPC into an Emotional state driven by the dominant
// feeling. Placed early in a Selector it acts as an override branch.
type EmotionalResponse struct {
	Threshold float64
}

// NewEmotionalResponse builds the node; a non-positive threshold takes the
// default.
func NewEmotionalResponse(threshold float64) *EmotionalResponse {
	if threshold <= 0 {
		threshold = emotionalOverrideThreshold
	}
	return &EmotionalResponse{Threshold: threshold}
}

func (n *EmotionalResponse) Execute(ctx *Context) Status {
	if ctx.Emotions == nil {
		return Failure
	}
	dominant, intensity := ctx.Emotions.Dominant()
	if math.Abs(intensity) < n.Threshold {
		return Failure
	}
	ctx.State = State{Kind: StateEmotional, Emotion: dominant}
	ctx.Emit(Action{Kind: "express_emotion", Detail: string(dominant)})
	return Success
}

func (n *EmotionalResponse) Reset() {}
