package ai

import (
	"github.com/enetx/fsm"

	"github.com/samdwyer/hollowgate/internal/combat"
	"github.com/samdwyer/hollowgate/internal/entity"
)

const (
	stateIdle   fsm.State = "idle"
	stateWander fsm.State = "wander"
	stateChase  fsm.State = "chase"
	stateAttack fsm.State = "attack"
)

const (
	eventSpot      fsm.Event = "spot"      // Hero engageable inside aggro and not leashed
	eventReach     fsm.Event = "reach"     // Hero inside attack radius
	eventFallBack  fsm.Event = "fall_back" // Hero left attack radius
	eventDisengage fsm.Event = "disengage" // Hero lost, untouchable or leash broken
	eventArrive    fsm.Event = "arrive"    // Wander point reached
	eventRoam      fsm.Event = "roam"      // Dwell over
)

var machineStates = map[entity.State]fsm.State{
	entity.StateIdle:   stateIdle,
	entity.StateWander: stateWander,
	entity.StateChase:  stateChase,
	entity.StateAttack: stateAttack,
}

// brain is one enemy's state machine plus the inputs its guards read. The
// inputs are refreshed by Controller.Update before any event fires.
type brain struct {
	c *Controller
	e *entity.Enemy
	m *fsm.FSM

	now     float64
	quarry  Quarry
	dist    float64
	hunting bool
}

func (c *Controller) newBrain(e *entity.Enemy, start fsm.State) *brain {
	b := &brain{c: c, e: e}
	b.m = fsm.New(start).
		TransitionWhen(stateIdle, eventSpot, stateChase, b.canEngage).
		TransitionWhen(stateWander, eventSpot, stateChase, b.canEngage).
		TransitionWhen(stateChase, eventDisengage, stateWander, b.lost).
		TransitionWhen(stateAttack, eventDisengage, stateWander, b.lost).
		TransitionWhen(stateChase, eventReach, stateAttack, b.inReach).
		TransitionWhen(stateAttack, eventFallBack, stateChase, b.outOfReach).
		Transition(stateWander, eventArrive, stateIdle).
		Transition(stateIdle, eventRoam, stateWander).
		OnEnter(stateChase, func(*fsm.Context) error {
			b.follow()
			return nil
		}).
		OnEnter(stateAttack, func(*fsm.Context) error {
			b.e.State = entity.StateAttack
			b.strike()
			return nil
		}).
		OnEnter(stateWander, func(*fsm.Context) error {
			b.e.ClearOrders()
			b.c.pickWanderTarget(b.now, b.e)
			return nil
		}).
		OnEnter(stateIdle, func(*fsm.Context) error {
			b.e.State = entity.StateIdle
			b.e.MoveTarget = nil
			b.e.DwellUntil = b.now + b.c.dwell()
			return nil
		})
	return b
}

// fire triggers ev and reports whether the state changed. An event with no
// matching transition, or whose guard refuses, leaves the machine as it was.
func (b *brain) fire(ev fsm.Event) bool {
	before := b.m.Current()
	b.m.Trigger(ev)
	return b.m.Current() != before
}

func (b *brain) canEngage(*fsm.Context) bool {
	return b.hunting && b.dist <= b.e.AggroRadius && !b.c.leashed(b.e)
}

func (b *brain) lost(*fsm.Context) bool {
	return !b.hunting || b.dist > b.e.AggroRadius || b.c.leashed(b.e)
}

func (b *brain) inReach(*fsm.Context) bool {
	return b.dist <= b.e.AttackRadius
}

func (b *brain) outOfReach(*fsm.Context) bool {
	return b.dist > b.e.AttackRadius
}

// follow points the enemy at the hero's current position.
func (b *brain) follow() {
	b.e.State = entity.StateChase
	b.e.AttackTarget = b.quarry
	target := b.quarry.Position()
	b.e.MoveTarget = &target
}

// strike holds position and attacks when the cooldown allows.
func (b *brain) strike() {
	b.e.MoveTarget = nil
	combat.TryBasicAttack(b.now, b.e, b.quarry, b.c.events)
}
