package behavior

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/veilsong/npccore/internal/personality"
	"github.com/veilsong/npccore/internal/types"
)

//go:embed routines.yaml
var routinesYAML []byte

// defaultRoutines is parsed once at startup; a broken embedded file is a
// build defect, so init panics.
var defaultRoutines map[string][]RoutineSlot

func init() {
	if err := yaml.Unmarshal(routinesYAML, &defaultRoutines); err != nil {
		panic(fmt.Sprintf("behavior: bad embedded routines: %v", err))
	}
}

// RoutineFor returns the default daily schedule for an archetype, falling
// back to the villager schedule.
func RoutineFor(a types.Archetype) []RoutineSlot {
	if slots, ok := defaultRoutines[string(a)]; ok {
		return slots
	}
	return defaultRoutines[string(types.ArchetypeVillager)]
}

// TreeOptions tune factory output without changing tree shape.
type TreeOptions struct {
	// Predictor, when set, adds a model-driven branch after the survival
	// branch. Nil builds a purely scripted tree.
	Predictor Predictor
	// ThreatRadius overrides the archetype default scan radius.
	ThreatRadius float64
	// Patrol overrides the guardian waypoint route.
	Patrol []string
}

// BuildTree assembles the archetype's behavior tree:
//
//	Selector
//	  ├─ Sequence(threat?, combat)        survival
//	  ├─ EmotionalResponse                feeling override
//	  ├─ MLPrediction                     optional, model-driven
//	  ├─ <archetype branch>               patrol / trade / study / attune
//	  ├─ DailyRoutine                     scripted day
//	  └─ AIDecision                       personality-weighted fallback
//
// Earlier branches preempt later ones, so a detected threat always wins and
// an idle wander is the last resort.
func BuildTree(a types.Archetype, opts TreeOptions) Node {
	radius := opts.ThreatRadius
	if radius <= 0 {
		radius = defaultThreatRadius(a)
	}

	children := []Node{
		NewSequence(NewThreatDetection(radius), NewCombatDispatch()),
		NewEmotionalResponse(0),
	}
	if opts.Predictor != nil {
		children = append(children, NewMLPrediction(opts.Predictor, 0))
	}
	if branch := archetypeBranch(a, opts); branch != nil {
		children = append(children, branch)
	}
	children = append(children,
		NewDailyRoutine(RoutineFor(a)),
		NewAIDecision(fallbackOptions(a)),
	)
	return NewSelector(children...)
}

func defaultThreatRadius(a types.Archetype) float64 {
	switch a {
	case types.ArchetypeGuardian:
		return 30
	case types.ArchetypeEchoTouched:
		return 20
	default:
		return 10
	}
}

// archetypeBranch is the one branch that distinguishes the archetypes beyond
// their schedules. Villagers get none; their day is their routine.
func archetypeBranch(a types.Archetype, opts TreeOptions) Node {
	switch a {
	case types.ArchetypeGuardian:
		route := opts.Patrol
		if len(route) == 0 {
			route = []string{"north gate", "market square", "south gate", "wall walk"}
		}
		// Patrol only during watch hours; off shift the routine takes over.
		return NewSequence(
			NewCondition(func(ctx *Context) bool {
				return ctx.World != nil && ctx.World.TimeOfDay >= 6 && ctx.World.TimeOfDay < 22
			}),
			NewPatrol(route...),
		)
	case types.ArchetypeEchoTouched:
		// The song-sensitive drift toward resonance when the world harmony
		// surges.
		return NewSequence(
			NewCondition(func(ctx *Context) bool {
				return ctx.World != nil && ctx.World.Harmony > 0.8
			}),
			NewAIDecision([]DecisionOption{
				{
					State:  State{Kind: StatePerforming, Activity: "channeling the song"},
					Base:   0.2,
					Traits: map[personality.Trait]float64{personality.TraitResonance: 1.0},
				},
				{
					State:  State{Kind: StateExploring, Destination: "resonance stones"},
					Base:   0.2,
					Traits: map[personality.Trait]float64{personality.TraitOpenness: 0.6},
				},
			}),
		)
	default:
		return nil
	}
}

// fallbackOptions are the idle-time choices weighed by personality when
// nothing scheduled applies.
func fallbackOptions(a types.Archetype) []DecisionOption {
	opts := []DecisionOption{
		{
			State: Idle(),
			Base:  0.4,
		},
		{
			State:  State{Kind: StateExploring, Destination: "nearby"},
			Base:   0.1,
			Traits: map[personality.Trait]float64{personality.TraitOpenness: 0.6},
		},
		{
			State:  State{Kind: StatePerforming, Activity: "chatting with neighbors"},
			Base:   0.1,
			Traits: map[personality.Trait]float64{personality.TraitExtraversion: 0.8},
			Emotion: map[personality.Emotion]float64{
				personality.EmotionJoy: 0.3,
			},
		},
	}
	if a == types.ArchetypeScholar {
		opts = append(opts, DecisionOption{
			State:  State{Kind: StatePerforming, Activity: "reading"},
			Base:   0.2,
			Traits: map[personality.Trait]float64{personality.TraitConscientiousness: 0.5},
		})
	}
	return opts
}
