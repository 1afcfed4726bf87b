// Package skill owns the hero's basic attack and Q/W/E/R skills: cooldown and
// mana gating, the archetype effects, and the explicitly scheduled effects
// (aura ticks, storm strikes) that are resolved each tick.
package skill

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/hollowgate/internal/combat"
	"github.com/samdwyer/hollowgate/internal/entity"
	"github.com/samdwyer/hollowgate/internal/event"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/telemetry"
	"github.com/samdwyer/hollowgate/internal/world"
)

// Invalid input. Expected no-ops (cooldown, mana, no target) are not errors.
var (
	ErrUnknownSkill = errors.New("skill: unknown skill key")
	ErrNoPoint      = errors.New("skill: ground point required")
	ErrInvalidPoint = errors.New("skill: malformed ground point")
)

// timeEpsilon absorbs float error when comparing scheduled timestamps.
const timeEpsilon = 1e-9

// Roster supplies the targets the caster's skills can hit.
type Roster interface {
	Targets() []combat.Target
}

// System resolves the hero's attacks and skills.
type System struct {
	defs   *gamedata.SkillRegistry
	caster *entity.Player
	roster Roster
	rng    *rand.Rand
	events *event.Queue
	log    *zap.Logger
	tracer trace.Tracer
}

// New creates a skill system for one caster. Presentation collaborators that
// need skill data (tooltips, previews) keep the returned *System.
func New(defs *gamedata.SkillRegistry, caster *entity.Player, roster Roster, rng *rand.Rand, events *event.Queue, log *zap.Logger) *System {
	if log == nil {
		log = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &System{
		defs:   defs,
		caster: caster,
		roster: roster,
		rng:    rng,
		events: events,
		log:    log.Named("skill"),
		tracer: telemetry.Tracer("skill"),
	}
}

// Definitions returns the skill registry this system casts from.
func (s *System) Definitions() *gamedata.SkillRegistry { return s.defs }

// BasicAttack makes the caster attack target. See combat.TryBasicAttack.
func (s *System) BasicAttack(now float64, target combat.Target) bool {
	return combat.TryBasicAttack(now, s.caster, target, s.events)
}

// CanCast reports whether Cast(key) would currently pass the cooldown, mana
// and caster gates. It does not check targets.
func (s *System) CanCast(key gamedata.Key, now float64) bool {
	def := s.defs.Get(key)
	if def == nil || !s.caster.CanAct() {
		return false
	}
	if def.Archetype == gamedata.ArchetypeAura && s.caster.Aura.Active {
		return true
	}
	return s.caster.CooldownReady(key, now) && s.caster.MP >= def.ManaCost
}

// Cast attempts the skill bound to key. point is the aimed ground point; it is
// required for area and beam skills. It returns false without mutating
// anything when the caster cannot act, the skill is on cooldown, mana is short,
// or there is no valid target. Only invalid input yields an error.
func (s *System) Cast(ctx context.Context, now float64, key gamedata.Key, point *world.Vec2) (bool, error) {
	def := s.defs.Get(key)
	if def == nil {
		return false, fmt.Errorf("%w: %q", ErrUnknownSkill, key)
	}
	if point != nil && !point.IsFinite() {
		return false, fmt.Errorf("%w: %v", ErrInvalidPoint, *point)
	}
	if def.Archetype.NeedsPoint() && point == nil {
		return false, fmt.Errorf("%w: %s", ErrNoPoint, key)
	}

	_, span := s.tracer.Start(ctx, "skill.cast")
	defer span.End()
	span.SetAttributes(
		attribute.String("skill.key", string(key)),
		attribute.String("skill.archetype", string(def.Archetype)),
	)

	ok := s.cast(now, def, point)
	span.SetAttributes(attribute.Bool("skill.success", ok))
	return ok, nil
}

func (s *System) cast(now float64, def *gamedata.SkillDef, point *world.Vec2) bool {
	c := s.caster
	if !c.CanAct() {
		return false
	}

	if def.Archetype == gamedata.ArchetypeAura {
		if c.Aura.Active {
			s.toggleAuraOff(now)
			return true
		}
		if now < c.Aura.LockoutUntil {
			return false
		}
	}

	if !c.CooldownReady(def.Key, now) || c.MP < def.ManaCost {
		return false
	}

	targets := s.targets()

	// Chain needs an initial target before anything is spent.
	var first combat.Target
	if def.Archetype == gamedata.ArchetypeChain {
		var found bool
		first, found = combat.Nearest(c.Position(), def.Range, targets, nil)
		if !found {
			return false
		}
	}

	c.SpendMP(def.ManaCost)
	c.Cooldowns[def.Key] = now + def.Cooldown

	castPos := c.Position()
	if point != nil {
		castPos = *point
	}
	s.events.Push(event.Event{
		Type: event.SkillCast, At: now, SourceID: c.ID(), Pos: castPos,
		Archetype: string(def.Archetype), Skill: string(def.Key),
	})

	switch def.Archetype {
	case gamedata.ArchetypeChain:
		s.chain(now, def, first, targets)
	case gamedata.ArchetypeArea:
		s.area(now, def, *point, targets)
	case gamedata.ArchetypeAura:
		s.toggleAuraOn(now, def)
	case gamedata.ArchetypeStorm:
		s.scheduleStorm(now, def)
	case gamedata.ArchetypeBeam:
		s.beam(now, def, *point, targets)
	case gamedata.ArchetypeNova:
		s.nova(now, def, targets)
	}
	return true
}

// Update resolves due aura ticks and storm strikes. Each effect is isolated:
// a fault in one is logged and does not stop the others.
func (s *System) Update(now float64) {
	s.guard("aura", func() { s.updateAura(now) })
	s.guard("storm", func() { s.resolveStrikes(now) })
}

func (s *System) targets() []combat.Target {
	if s.roster == nil {
		return nil
	}
	return s.roster.Targets()
}

func (s *System) guard(effect string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("scheduled effect failed",
				zap.String("effect", effect),
				zap.String("caster", s.caster.ID()),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}

// =============================================================================
// Instant effects
// =============================================================================

// chain hits first, then hops to the nearest not-yet-hit living target within
// jumpRange of the last one hit, up to def.Jumps extra hits.
func (s *System) chain(now float64, def *gamedata.SkillDef, first combat.Target, targets []combat.Target) {
	hit := make(map[string]bool, def.Jumps+1)
	current := first

	for hop := 0; ; hop++ {
		hitPos := current.Position()
		result := combat.Strike(now, s.caster.ID(), current, def.Damage, s.events)
		hit[current.ID()] = true
		s.events.Push(event.Event{
			Type: event.ChainHit, At: now, SourceID: s.caster.ID(),
			TargetID: current.ID(), Pos: hitPos, Amount: result.Damage,
		})

		if hop >= def.Jumps {
			return
		}
		next, ok := combat.Nearest(hitPos, def.JumpRange, targets, func(t combat.Target) bool {
			return hit[t.ID()]
		})
		if !ok {
			return
		}
		current = next
	}
}

// area damages everything within radius of point and refreshes its slow.
func (s *System) area(now float64, def *gamedata.SkillDef, point world.Vec2, targets []combat.Target) {
	victims := combat.Within(point, def.Radius, targets)
	for _, t := range victims {
		combat.Strike(now, s.caster.ID(), t, def.Damage, s.events)
		if t.IsAlive() && def.SlowDuration > 0 {
			t.ApplySlow(def.SlowFactor, now+def.SlowDuration)
		}
	}
	s.events.Push(event.Event{
		Type: event.AreaImpact, At: now, SourceID: s.caster.ID(),
		Pos: point, Amount: float64(len(victims)),
	})
}

// beam damages everything within width of the segment from the caster toward
// point, up to def.Range long.
func (s *System) beam(now float64, def *gamedata.SkillDef, point world.Vec2, targets []combat.Target) {
	origin := s.caster.Position()
	dir := point.Sub(origin).Normalize()
	if dir.IsZero() {
		dir = world.V(1, 0)
	}

	count := 0
	for _, t := range targets {
		if !t.IsAlive() {
			continue
		}
		rel := t.Position().Sub(origin)
		along := rel.Dot(dir)
		if along < 0 || along > def.Range {
			continue
		}
		if rel.Sub(dir.Scale(along)).Len() > def.Width {
			continue
		}
		combat.Strike(now, s.caster.ID(), t, def.Damage, s.events)
		count++
	}
	s.events.Push(event.Event{
		Type: event.AreaImpact, At: now, SourceID: s.caster.ID(),
		Pos: origin.Add(dir.Scale(def.Range)), Amount: float64(count),
	})
}

// nova damages everything within radius of the caster once.
func (s *System) nova(now float64, def *gamedata.SkillDef, targets []combat.Target) {
	center := s.caster.Position()
	victims := combat.Within(center, def.Radius, targets)
	for _, t := range victims {
		combat.Strike(now, s.caster.ID(), t, def.Damage, s.events)
	}
	s.events.Push(event.Event{
		Type: event.AreaImpact, At: now, SourceID: s.caster.ID(),
		Pos: center, Amount: float64(len(victims)),
	})
}

// =============================================================================
// Aura
// =============================================================================

func (s *System) toggleAuraOn(now float64, def *gamedata.SkillDef) {
	a := &s.caster.Aura
	*a = entity.AuraState{
		Key:          def.Key,
		Active:       true,
		StartedAt:    now,
		NextTickAt:   now + def.Tick,
		ExpiresAt:    now + def.Duration,
		LockoutUntil: a.LockoutUntil,
	}
	s.events.Push(event.Event{
		Type: event.AuraToggled, At: now, SourceID: s.caster.ID(),
		Pos: s.caster.Position(), Amount: 1, Skill: string(def.Key),
	})
}

// toggleAuraOff is the manual switch-off; it starts the re-toggle lockout.
func (s *System) toggleAuraOff(now float64) {
	lockout := 0.0
	if def := s.defs.Get(s.caster.Aura.Key); def != nil {
		lockout = def.ToggleLockout
	}
	s.deactivateAura(now)
	s.caster.Aura.LockoutUntil = now + lockout
}

func (s *System) deactivateAura(now float64) {
	a := &s.caster.Aura
	if !a.Active {
		return
	}
	a.Active = false
	s.events.Push(event.Event{
		Type: event.AuraToggled, At: now, SourceID: s.caster.ID(),
		Pos: s.caster.Position(), Amount: 0, Skill: string(a.Key),
	})
}

// updateAura fires every tick whose timestamp has passed and that falls within
// the aura's duration, then expires the aura once its duration is over.
func (s *System) updateAura(now float64) {
	a := &s.caster.Aura
	if !a.Active {
		return
	}
	def := s.defs.Get(a.Key)
	if def == nil {
		s.log.Warn("active aura has no definition", zap.String("key", string(a.Key)))
		s.deactivateAura(now)
		return
	}

	for a.Active && a.NextTickAt <= now+timeEpsilon && a.NextTickAt <= a.ExpiresAt+timeEpsilon {
		tickAt := a.NextTickAt
		a.NextTickAt += def.Tick

		if !s.caster.SpendMP(def.TickManaCost) {
			s.deactivateAura(tickAt)
			return
		}
		a.Ticks++

		center := s.caster.Position()
		victims := combat.Within(center, def.Radius, s.targets())
		for _, t := range victims {
			combat.Strike(tickAt, s.caster.ID(), t, def.Damage, s.events)
		}
		s.events.Push(event.Event{
			Type: event.AuraTick, At: tickAt, SourceID: s.caster.ID(),
			Pos: center, Amount: float64(len(victims)),
		})
	}

	if a.Active && now+timeEpsilon >= a.ExpiresAt {
		s.deactivateAura(a.ExpiresAt)
	}
}

// =============================================================================
// Storm
// =============================================================================

// scheduleStorm queues def.Count strikes at random times in (now, now+duration]
// and random points within radius of the caster's current position. Points
// are fixed now and do not follow the caster.
func (s *System) scheduleStorm(now float64, def *gamedata.SkillDef) {
	origin := s.caster.Position()
	for i := 0; i < def.Count; i++ {
		at := now + def.Duration*(1-s.rng.Float64())
		if at <= now {
			at = math.Nextafter(now, math.Inf(1))
		}
		s.caster.Strikes = append(s.caster.Strikes, entity.ScheduledStrike{
			At:     at,
			Pos:    world.RandomPointInDisc(s.rng, origin, def.Radius),
			Radius: def.StrikeRadius,
			Damage: def.Damage,
		})
	}
	sort.SliceStable(s.caster.Strikes, func(i, j int) bool {
		return s.caster.Strikes[i].At < s.caster.Strikes[j].At
	})
}

// resolveStrikes resolves and removes every strike whose time has come.
// A resolved strike is gone from the queue, so it can never fire twice.
func (s *System) resolveStrikes(now float64) {
	queue := s.caster.Strikes
	due := 0
	for due < len(queue) && queue[due].At <= now {
		due++
	}
	if due == 0 {
		return
	}

	fired := queue[:due]
	s.caster.Strikes = append([]entity.ScheduledStrike(nil), queue[due:]...)

	targets := s.targets()
	for _, strike := range fired {
		victims := combat.Within(strike.Pos, strike.Radius, targets)
		for _, t := range victims {
			combat.Strike(strike.At, s.caster.ID(), t, strike.Damage, s.events)
		}
		s.events.Push(event.Event{
			Type: event.StormStrike, At: strike.At, SourceID: s.caster.ID(),
			Pos: strike.Pos, Amount: float64(len(victims)),
		})
	}
}
