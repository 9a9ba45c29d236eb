package behavior

import (
	"fmt"

	"github.com/veilsong/npccore/internal/types"
)

// Blackboard keys the stock leaves communicate through.
const (
	KeyActivity    = "activity"
	KeyThreat      = "threat"
	KeyThreatRange = "threat_distance"
	KeyWaypoint    = "waypoint"
)

// Condition evaluates a predicate against the context.
type Condition struct {
	Check func(ctx *Context) bool
}

// NewCondition wraps a predicate as a leaf node.
func NewCondition(check func(ctx *Context) bool) *Condition {
	return &Condition{Check: check}
}

func (c *Condition) Execute(ctx *Context) Status {
	if c.Check != nil && c.Check(ctx) {
		return Success
	}
	return Failure
}

func (c *Condition) Reset() {}

// RoutineSlot is one scheduled block of an NPC's day.
type RoutineSlot struct {
	// From/Until bound the slot in float hours; a slot may wrap midnight.
	From     float64 `yaml:"from"`
	Until    float64 `yaml:"until"`
	Activity string  `yaml:"activity"`
}

// covers reports whether the slot contains the given time of day.
func (s RoutineSlot) covers(hour float64) bool {
	if s.From <= s.Until {
		return hour >= s.From && hour < s.Until
	}
	// Wrapping slot, e.g. 22:00-06:00.
	return hour >= s.From || hour < s.Until
}

// DailyRoutine looks the current time of day up in a schedule and writes the
// activity to the blackboard, moving the NPC into Performing.
type DailyRoutine struct {
	Schedule []RoutineSlot
}

// NewDailyRoutine builds the leaf from a schedule.
func NewDailyRoutine(schedule []RoutineSlot) *DailyRoutine {
	return &DailyRoutine{Schedule: schedule}
}

func (d *DailyRoutine) Execute(ctx *Context) Status {
	if ctx.World == nil {
		return Failure
	}
	for _, slot := range d.Schedule {
		if slot.covers(ctx.World.TimeOfDay) {
			ctx.Blackboard.SetString(KeyActivity, slot.Activity)
			ctx.State = State{Kind: StatePerforming, Activity: slot.Activity}
			return Success
		}
	}
	return Failure
}

func (d *DailyRoutine) Reset() {}

// ThreatDetection scans the world feed for hostiles within its radius and
// publishes the nearest one to the blackboard.
type ThreatDetection struct {
	Radius float64
}

// NewThreatDetection builds the leaf with a scan radius.
func NewThreatDetection(radius float64) *ThreatDetection {
	return &ThreatDetection{Radius: radius}
}

func (t *ThreatDetection) Execute(ctx *Context) Status {
	if ctx.World == nil {
		return Failure
	}
	threat, ok := ctx.World.NearestHostile(t.Radius)
	if !ok {
		return Failure
	}
	ctx.Blackboard.SetEntity(KeyThreat, threat.Entity)
	ctx.Blackboard.SetFloat(KeyThreatRange, threat.Distance)
	return Success
}

func (t *ThreatDetection) Reset() {}

// CombatDispatch emits an attack request against the blackboard threat and
// moves the NPC into Interacting with it.
type CombatDispatch struct{}

// NewCombatDispatch builds the leaf.
func NewCombatDispatch() *CombatDispatch {
	return &CombatDispatch{}
}

func (c *CombatDispatch) Execute(ctx *Context) Status {
	threat, ok := ctx.Blackboard.Entity(KeyThreat)
	if !ok || threat == types.NoEntity {
		return Failure
	}
	ctx.Emit(Action{Kind: "attack", Target: threat})
	ctx.State = State{Kind: StateInteracting, Target: threat}
	return Success
}

func (c *CombatDispatch) Reset() {}

// Patrol cycles through its waypoints, emitting a move request and advancing
// one waypoint per successful pass.
type Patrol struct {
	Waypoints []string
	current   int
}

// NewPatrol builds the leaf over a cyclic waypoint list.
func NewPatrol(waypoints ...string) *Patrol {
	return &Patrol{Waypoints: waypoints}
}

func (p *Patrol) Execute(ctx *Context) Status {
	if len(p.Waypoints) == 0 {
		return Failure
	}
	wp := p.Waypoints[p.current]
	p.current = (p.current + 1) % len(p.Waypoints)

	ctx.Blackboard.SetString(KeyWaypoint, wp)
	ctx.Emit(Action{Kind: "move_to", Detail: wp})
	ctx.State = State{
		Kind:        StateExploring,
		Destination: wp,
		Progress:    float64(p.current) / float64(len(p.Waypoints)),
	}
	return Success
}

// Reset keeps the patrol position: a cyclic route survives tree resets.
func (p *Patrol) Reset() {}

// FollowEntity keeps the NPC trailing a target while it stays nearby.
type FollowEntity struct {
	Target   types.Entity
	MaxRange float64
}

// NewFollowEntity builds the leaf.
func NewFollowEntity(target types.Entity, maxRange float64) *FollowEntity {
	return &FollowEntity{Target: target, MaxRange: maxRange}
}

func (f *FollowEntity) Execute(ctx *Context) Status {
	if ctx.World == nil {
		return Failure
	}
	for _, n := range ctx.World.Nearby {
		if n.Entity != f.Target {
			continue
		}
		if n.Distance > f.MaxRange {
			return Failure
		}
		ctx.Emit(Action{Kind: "follow", Target: f.Target, Detail: fmt.Sprintf("%.1f", n.Distance)})
		ctx.State = State{Kind: StateFollowing, Target: f.Target}
		return Running
	}
	return Failure
}

func (f *FollowEntity) Reset() {}
