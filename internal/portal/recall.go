package portal

import (
	"context"

	"github.com/enetx/fsm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/hollowgate/internal/entity"
	"github.com/samdwyer/hollowgate/internal/event"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/telemetry"
	"github.com/samdwyer/hollowgate/internal/world"
)

// RecallPrompt is shown while a return portal waits to be clicked.
const RecallPrompt = "Click the portal to return to the village"

// State is the recall state.
type State int

const (
	StateIdle State = iota
	StateAwaitingTeleport
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingTeleport:
		return "awaiting-teleport"
	default:
		return "unknown"
	}
}

const (
	machineIdle     fsm.State = "idle"
	machineAwaiting fsm.State = "awaiting-teleport"

	eventOpen     fsm.Event = "open"
	eventTeleport fsm.Event = "teleport"
	eventCancel   fsm.Event = "cancel"
)

// Recall owns the village portal and the optional return portal.
// The hero is frozen exactly while a return portal exists.
type Recall struct {
	cfg     gamedata.VillageBalance
	Village *Portal
	Return  *Portal
	Message string

	m     *fsm.FSM
	hero  *entity.Player // Hero of the transition in progress
	click world.Vec2     // Click of the teleport in progress

	events *event.Queue
	log    *zap.Logger
	tracer trace.Tracer
}

// NewRecall creates the village portal at its configured position.
func NewRecall(cfg gamedata.VillageBalance, events *event.Queue, log *zap.Logger) *Recall {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Recall{
		cfg:     cfg,
		Village: NewPortal(cfg.PortalPosition, cfg.PortalRadius),
		events:  events,
		log:     log.Named("portal"),
		tracer:  telemetry.Tracer("portal"),
	}
	r.m = fsm.New(machineIdle).
		Transition(machineIdle, eventOpen, machineAwaiting).
		TransitionWhen(machineAwaiting, eventTeleport, machineIdle, r.clickHits).
		Transition(machineAwaiting, eventCancel, machineIdle).
		OnEnter(machineAwaiting, func(*fsm.Context) error {
			r.open(r.hero)
			return nil
		}).
		OnEnter(machineIdle, func(*fsm.Context) error {
			r.discard(r.hero)
			return nil
		})
	return r
}

// State returns the current recall state.
func (r *Recall) State() State {
	if r.m.Current() == machineAwaiting {
		return StateAwaitingTeleport
	}
	return StateIdle
}

// fire triggers ev for hero p and reports whether the state changed.
func (r *Recall) fire(ev fsm.Event, p *entity.Player) bool {
	r.hero = p
	defer func() { r.hero = nil }()
	before := r.m.Current()
	r.m.Trigger(ev)
	return r.m.Current() != before
}

func (r *Recall) clickHits(*fsm.Context) bool {
	return r.Return != nil && r.Return.Hit(r.click, r.cfg.ClickTolerance)
}

// RecallToVillage opens a return portal at the hero's feet and freezes them
// until it is clicked. Calling it again while waiting moves the portal to the
// hero's current position. A dead hero cannot recall.
func (r *Recall) RecallToVillage(ctx context.Context, now float64, p *entity.Player) bool {
	if !p.Alive {
		return false
	}

	_, span := r.tracer.Start(ctx, "portal.recall")
	defer span.End()

	refreshed := r.State() == StateAwaitingTeleport
	if refreshed {
		r.open(p)
	} else {
		r.fire(eventOpen, p)
	}

	span.SetAttributes(
		attribute.Bool("portal.refreshed", refreshed),
		attribute.String("portal.id", r.Return.ID),
	)
	r.events.Push(event.Event{
		Type: event.RecallPrompted, At: now, SourceID: p.ID(), Pos: p.Pos,
	})
	return true
}

// open places the return portal under p, links the pair and freezes p.
func (r *Recall) open(p *entity.Player) {
	if r.Return == nil {
		r.Return = NewPortal(p.Pos, r.cfg.PortalRadius)
	}
	r.Return.Pos = p.Pos
	r.Return.LinkedTo = r.Village
	r.Village.LinkedTo = r.Return

	p.Frozen = true
	p.ClearOrders()
	p.MoveDir = world.Vec2{}
	r.Message = RecallPrompt
}

// HandleFrozenPortalClick teleports a frozen hero to the village portal when
// click lands on the return portal. It returns false, changing nothing, when
// no return portal is waiting or the click misses.
func (r *Recall) HandleFrozenPortalClick(ctx context.Context, now float64, click world.Vec2, p *entity.Player) bool {
	if !p.Frozen || r.Return == nil {
		return false
	}

	r.click = click
	from := p.Pos
	if !r.fire(eventTeleport, p) {
		return false
	}

	_, span := r.tracer.Start(ctx, "portal.teleport")
	defer span.End()

	p.Pos = r.Village.Pos
	p.ClearOrders()

	span.SetAttributes(
		attribute.Float64("portal.from_x", from.X),
		attribute.Float64("portal.from_z", from.Z),
	)
	r.log.Debug("teleported to village", zap.String("hero", p.ID()))
	r.events.Push(event.Event{
		Type: event.TeleportSucceeded, At: now, SourceID: p.ID(), Pos: p.Pos,
	})
	return true
}

// Cancel drops any waiting return portal and unfreezes the hero.
func (r *Recall) Cancel(p *entity.Player) {
	if r.fire(eventCancel, p) {
		return
	}
	if p.Frozen || r.Return != nil {
		r.discard(p)
	}
}

func (r *Recall) discard(p *entity.Player) {
	if r.Return != nil {
		r.Return.LinkedTo = nil
	}
	r.Village.LinkedTo = nil
	r.Return = nil
	if p != nil {
		p.Frozen = false
	}
	r.Message = ""
}

// Update advances the portal spin animation.
func (r *Recall) Update(dt float64) {
	r.Village.Advance(dt, r.cfg.SpinSpeed)
	if r.Return != nil {
		r.Return.Advance(dt, r.cfg.SpinSpeed)
	}
}

// Repair restores frozen == (return portal exists). It returns true if the
// two had drifted apart.
func (r *Recall) Repair(p *entity.Player) bool {
	want := r.Return != nil
	if p.Frozen == want {
		return false
	}
	r.log.Warn("frozen flag out of sync with return portal",
		zap.Bool("frozen", p.Frozen),
		zap.Bool("return_portal", want),
	)
	p.Frozen = want
	if !want {
		r.Message = ""
	}
	return true
}
