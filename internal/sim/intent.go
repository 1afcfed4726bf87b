package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/samdwyer/hollowgate/internal/combat"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/skill"
	"github.com/samdwyer/hollowgate/internal/world"
)

// ErrUnknownIntent is returned by Submit for an intent kind it does not know.
var ErrUnknownIntent = errors.New("sim: unknown intent")

// aheadDistance is how far in front of the hero an unaimed area skill lands.
const aheadDistance = 4.0

// IntentKind identifies a discrete player request.
type IntentKind int

const (
	IntentBasicAttack IntentKind = iota
	IntentCastSkill
	IntentMoveTo
	IntentStop
	IntentRecall
	IntentPortalInteraction
)

// String returns the intent name.
func (k IntentKind) String() string {
	switch k {
	case IntentBasicAttack:
		return "basic_attack"
	case IntentCastSkill:
		return "cast_skill"
	case IntentMoveTo:
		return "move_to"
	case IntentStop:
		return "stop"
	case IntentRecall:
		return "recall"
	case IntentPortalInteraction:
		return "portal_interaction"
	default:
		return "unknown"
	}
}

// Intent is a discrete request produced by an input adapter. Intents are
// queued by Submit and applied at the start of the next Step.
type Intent struct {
	Kind  IntentKind
	Key   gamedata.Key // CastSkill only
	Point *world.Vec2  // Optional for CastSkill, required for MoveTo and PortalInteraction
}

// BasicAttack requests an auto-attack on the nearest enemy.
func BasicAttack() Intent { return Intent{Kind: IntentBasicAttack} }

// CastSkill requests the skill bound to key, aimed at point if non-nil.
func CastSkill(key gamedata.Key, point *world.Vec2) Intent {
	return Intent{Kind: IntentCastSkill, Key: key, Point: point}
}

// MoveTo requests a walk to point.
func MoveTo(point world.Vec2) Intent { return Intent{Kind: IntentMoveTo, Point: &point} }

// Stop drops the hero's move and attack orders.
func Stop() Intent { return Intent{Kind: IntentStop} }

// Recall requests a return portal.
func Recall() Intent { return Intent{Kind: IntentRecall} }

// PortalInteraction clicks the ground at point while a recall is pending.
func PortalInteraction(point world.Vec2) Intent {
	return Intent{Kind: IntentPortalInteraction, Point: &point}
}

// Submit validates an intent and queues it. Invalid input is rejected with an
// error and nothing is queued.
func (s *Sim) Submit(in Intent) error {
	if in.Point != nil && !in.Point.IsFinite() {
		return fmt.Errorf("%w: %s point %v", skill.ErrInvalidPoint, in.Kind, *in.Point)
	}

	switch in.Kind {
	case IntentBasicAttack, IntentStop, IntentRecall:
	case IntentCastSkill:
		if s.catalog.Skills.Get(in.Key) == nil {
			return fmt.Errorf("%w: %q", skill.ErrUnknownSkill, in.Key)
		}
	case IntentMoveTo, IntentPortalInteraction:
		if in.Point == nil {
			return fmt.Errorf("%w: %s", skill.ErrNoPoint, in.Kind)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownIntent, in.Kind)
	}

	p := in
	if in.Point != nil {
		pt := *in.Point
		p.Point = &pt
	}
	s.intents = append(s.intents, p)
	return nil
}

// SetMoveDir sets the continuous movement input for the following ticks.
// A zero vector stops held movement. Non-finite input is ignored.
func (s *Sim) SetMoveDir(dir world.Vec2) {
	if !dir.IsFinite() {
		return
	}
	s.Player.MoveDir = dir
}

// SetCursor records the last ground point under the pointer, used to aim
// area skills cast without an explicit point. nil forgets it.
func (s *Sim) SetCursor(p *world.Vec2) {
	if p == nil || !p.IsFinite() {
		s.cursor = nil
		return
	}
	c := *p
	s.cursor = &c
}

func (s *Sim) applyIntents(ctx context.Context, now float64) {
	pending := s.intents
	s.intents = nil
	for _, in := range pending {
		s.guard("intent", in.Kind.String(), func() { s.apply(ctx, now, in) })
	}
}

func (s *Sim) apply(ctx context.Context, now float64, in Intent) {
	p := s.Player

	switch in.Kind {
	case IntentBasicAttack:
		if !p.CanAct() {
			return
		}
		target, ok := combat.Nearest(p.Pos, p.AcquireRadius, s.Enemies, nil)
		if !ok {
			return
		}
		p.ClearOrders()
		p.AttackTarget = target
		p.AttackMove = !combat.InRange(p.Pos, target.Pos, p.Reach)

	case IntentCastSkill:
		def := s.catalog.Skills.Get(in.Key)
		point := in.Point
		if def.Archetype.NeedsPoint() && point == nil {
			aim := s.fallbackPoint()
			point = &aim
		}
		if _, err := s.skills.Cast(ctx, now, in.Key, point); err != nil {
			s.log.Warn("cast rejected", zap.String("key", string(in.Key)), zap.Error(err))
		}

	case IntentMoveTo:
		if !p.CanAct() {
			return
		}
		dest := s.Field.ClampBounds(*in.Point)
		p.ClearOrders()
		p.MoveTarget = &dest

	case IntentStop:
		p.ClearOrders()
		p.MoveDir = world.Vec2{}

	case IntentRecall:
		s.recall.RecallToVillage(ctx, now, p)

	case IntentPortalInteraction:
		s.recall.HandleFrozenPortalClick(ctx, now, *in.Point, p)
	}
}

// fallbackPoint aims an area skill cast without a point: the last cursor
// point, else the nearest living enemy, else a point ahead of the hero.
func (s *Sim) fallbackPoint() world.Vec2 {
	if s.cursor != nil {
		return *s.cursor
	}
	if e, ok := combat.Nearest(s.Player.Pos, math.Inf(1), s.Enemies, nil); ok {
		return e.Pos
	}
	return s.Player.Pos.Add(s.facing.Scale(aheadDistance))
}
