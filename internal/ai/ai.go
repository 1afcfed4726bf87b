// Package ai drives enemy behaviour: a four-state machine (idle, wander,
// chase, attack) re-evaluated every tick from the distance to the hero.
package ai

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/samdwyer/hollowgate/internal/combat"
	"github.com/samdwyer/hollowgate/internal/entity"
	"github.com/samdwyer/hollowgate/internal/event"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/world"
)

// Quarry is the target enemies hunt.
type Quarry interface {
	combat.Target
	CanAct() bool
}

// Terrain picks wander destinations that respect the field bounds and the
// village exclusion ring. *world.Field implements it.
type Terrain interface {
	RandomPointNear(rng *rand.Rand, center world.Vec2, radius float64) world.Vec2
}

// Controller evaluates enemy state transitions. Each enemy gets its own
// state machine; the controller feeds it the tick's distance and engagement
// checks and fires events whose guards read them.
type Controller struct {
	cfg     gamedata.AIBalance
	terrain Terrain
	rng     *rand.Rand
	events  *event.Queue
	log     *zap.Logger
	brains  map[*entity.Enemy]*brain
}

// New creates an AI controller.
func New(cfg gamedata.AIBalance, terrain Terrain, rng *rand.Rand, events *event.Queue, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Controller{
		cfg:     cfg,
		terrain: terrain,
		rng:     rng,
		events:  events,
		log:     log.Named("ai"),
		brains:  make(map[*entity.Enemy]*brain),
	}
}

// UpdateAll updates every enemy. A fault in one enemy is logged and skipped
// so the rest still update this tick.
func (c *Controller) UpdateAll(now float64, enemies []*entity.Enemy, quarry Quarry) {
	for i, e := range enemies {
		c.guard(i, e, func() { c.Update(now, e, quarry) })
	}
}

func (c *Controller) guard(index int, e *entity.Enemy, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			id := "<nil>"
			if e != nil {
				id = e.ID()
			}
			c.log.Error("enemy update failed",
				zap.Int("index", index),
				zap.String("enemy", id),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}

// Update evaluates one enemy for this tick. Dead enemies are left alone; the
// respawn scheduler owns them.
func (c *Controller) Update(now float64, e *entity.Enemy, quarry Quarry) {
	if !e.Alive {
		return
	}
	e.LastDecisionAt = now

	b, ok := c.brain(e)
	if !ok {
		c.log.Warn("enemy in unknown state, resetting",
			zap.String("enemy", e.ID()),
			zap.Int("state", int(e.State)),
		)
		e.ClearOrders()
		c.pickWanderTarget(now, e)
		return
	}

	b.now = now
	b.quarry = quarry
	b.dist = e.Position().Dist(quarry.Position())
	b.hunting = Engageable(now, quarry)

	switch b.m.Current() {
	case stateIdle, stateWander:
		if b.fire(eventSpot) {
			return
		}
		c.roam(b)

	case stateChase:
		if b.fire(eventDisengage) || b.fire(eventReach) {
			return
		}
		b.follow()

	case stateAttack:
		if b.fire(eventDisengage) || b.fire(eventFallBack) {
			return
		}
		b.strike()
	}
}

// Engageable reports whether enemies may pursue quarry at now.
func Engageable(now float64, quarry Quarry) bool {
	return quarry.IsAlive() && quarry.CanAct() && !quarry.Invulnerable(now)
}

// brain returns e's machine, rebuilding it when e.State was changed from
// outside (respawn, repair). ok is false for a state the machine does not know.
func (c *Controller) brain(e *entity.Enemy) (*brain, bool) {
	want, ok := machineStates[e.State]
	if !ok {
		return nil, false
	}
	b := c.brains[e]
	if b == nil || b.m.Current() != want {
		b = c.newBrain(e, want)
		c.brains[e] = b
	}
	return b, true
}

// leashed reports whether e has been dragged too far from its spawn origin.
func (c *Controller) leashed(e *entity.Enemy) bool {
	if c.cfg.LeashRadius <= 0 {
		return false
	}
	return e.Position().Dist(e.SpawnOrigin) > c.cfg.LeashRadius+e.AggroRadius
}

// roam handles idle and wander: arriving at the wander point starts a dwell,
// and a finished dwell or an overdue walk re-rolls the destination.
func (c *Controller) roam(b *brain) {
	e, now := b.e, b.now
	if b.m.Current() == stateIdle {
		if now >= e.DwellUntil {
			b.fire(eventRoam)
		}
		return
	}

	arrived := e.MoveTarget == nil ||
		e.Position().Dist(*e.MoveTarget) <= c.cfg.ArriveEpsilon
	if arrived {
		b.fire(eventArrive)
		return
	}
	if c.cfg.WanderTimeout > 0 && now >= e.WanderUntil {
		c.pickWanderTarget(now, e)
	}
}

// pickWanderTarget sends e toward a point around its spawn origin, which
// also walks a leashed enemy back home.
func (c *Controller) pickWanderTarget(now float64, e *entity.Enemy) {
	var p world.Vec2
	if c.terrain != nil {
		p = c.terrain.RandomPointNear(c.rng, e.SpawnOrigin, c.cfg.LeashRadius)
	} else {
		p = world.RandomPointInDisc(c.rng, e.SpawnOrigin, c.cfg.LeashRadius)
	}
	e.State = entity.StateWander
	e.MoveTarget = &p
	e.WanderUntil = now + c.cfg.WanderTimeout
}

func (c *Controller) dwell() float64 {
	span := c.cfg.DwellMax - c.cfg.DwellMin
	if span <= 0 {
		return c.cfg.DwellMin
	}
	return c.cfg.DwellMin + c.rng.Float64()*span
}
