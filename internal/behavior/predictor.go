package behavior

import (
	"context"
	"time"

	"github.com/veilsong/npccore/internal/personality"
)

// Predictor scores behavior candidates from a feature vector. Implementations
// may call out to a model service; the node tolerates slow or failing ones.
type Predictor interface {
	Predict(ctx context.Context, features []float64) ([]float64, error)
}

// predictTimeout bounds one model call; past it the node fails and the tree
// falls through to its scripted branches.
const predictTimeout = 50 * time.Millisecond

// FeatureVectorLen is the input contract shared with the predictor service:
// the ten trait values, a one-hot of the current state, then four world
// scalars (time of day, harmony, nearby count, hostile presence).
const FeatureVectorLen = 10 + StateVectorLen + 4

// Features assembles the predictor input from the evaluation context.
func Features(ctx *Context) []float64 {
	v := make([]float64, 0, FeatureVectorLen)
	for _, t := range personality.AllTraits() {
		if ctx.Personality != nil {
			v = append(v, ctx.Personality.Value(t))
		} else {
			v = append(v, 0.5)
		}
	}
	oneHot := make([]float64, StateVectorLen)
	oneHot[ctx.State.Kind.vectorIndex()] = 1
	v = append(v, oneHot...)

	var tod, harmony, nearby, hostile float64
	if ctx.World != nil {
		tod = ctx.World.TimeOfDay / 24
		harmony = ctx.World.Harmony
		nearby = float64(len(ctx.World.Nearby))
		for _, n := range ctx.World.Nearby {
			if n.Hostile {
				hostile = 1
				break
			}
		}
	}
	return append(v, tod, harmony, nearby, hostile)
}

// MLPrediction asks an external model which behavior state fits the current
// situation. The model returns one score per state slot; the node adopts the
// highest-scoring state. Any error, timeout, or malformed response is a
// Failure so scripted siblings take over.
type MLPrediction struct {
	Predictor Predictor
	Timeout   time.Duration
}

// NewMLPrediction builds the node; a zero timeout takes the default.
func NewMLPrediction(p Predictor, timeout time.Duration) *MLPrediction {
	if timeout <= 0 {
		timeout = predictTimeout
	}
	return &MLPrediction{Predictor: p, Timeout: timeout}
}

func (n *MLPrediction) Execute(ctx *Context) Status {
	if n.Predictor == nil {
		return Failure
	}
	callCtx, cancel := context.WithTimeout(context.Background(), n.Timeout)
	defer cancel()

	scores, err := n.Predictor.Predict(callCtx, Features(ctx))
	if err != nil || len(scores) != StateVectorLen {
		return Failure
	}
	best, bestScore := 0, scores[0]
	for i, s := range scores[1:] {
		if s > bestScore {
			best, bestScore = i+1, s
		}
	}
	if bestScore <= 0 {
		return Failure
	}
	ctx.State = State{Kind: stateIndex[best]}
	return Success
}

func (n *MLPrediction) Reset() {}
