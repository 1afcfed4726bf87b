// Package sim is the combat-and-progression simulation core. A Sim owns the
// hero, the enemy roster and every subsystem, and advances them one tick at a
// time in a fixed order. It never reads the wall clock; callers pass time in.
package sim

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/hollowgate/internal/ai"
	"github.com/samdwyer/hollowgate/internal/entity"
	"github.com/samdwyer/hollowgate/internal/event"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/portal"
	"github.com/samdwyer/hollowgate/internal/progression"
	"github.com/samdwyer/hollowgate/internal/skill"
	"github.com/samdwyer/hollowgate/internal/store"
	"github.com/samdwyer/hollowgate/internal/telemetry"
	"github.com/samdwyer/hollowgate/internal/world"
)

// Options configures a new Sim.
type Options struct {
	Catalog *gamedata.Catalog
	Balance *gamedata.Balance // Overrides Catalog.Balance when set
	Seed    int64             // 0 picks a time-based seed
	Store   store.Store       // Progress persistence; nil keeps nothing
	Logger  *zap.Logger
}

// Sim is one game session.
type Sim struct {
	Player  *entity.Player
	Enemies Roster
	Field   *world.Field

	catalog *gamedata.Catalog
	balance gamedata.Balance
	seed    int64
	rng     *rand.Rand
	events  *event.Queue

	skills   *skill.System
	ai       *ai.Controller
	recall   *portal.Recall
	village  *portal.Village
	progress *progression.Tracker

	intents []Intent
	cursor  *world.Vec2
	facing  world.Vec2
	now     float64

	log    *zap.Logger
	tracer trace.Tracer
}

// New builds a session: generates the field, restores saved progress and
// populates every spawn slot.
func New(ctx context.Context, opts Options) (*Sim, error) {
	if opts.Catalog == nil {
		return nil, errors.New("sim: catalog required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	balance := opts.Catalog.Balance
	if opts.Balance != nil {
		balance = *opts.Balance
	}
	if err := balance.Validate(); err != nil {
		return nil, err
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	tracer := telemetry.Tracer("sim")
	ctx, span := tracer.Start(ctx, "session.start")
	defer span.End()

	rng := rand.New(rand.NewSource(seed))
	events := event.NewQueue()

	v := balance.Village
	field := world.NewField(world.Layout{
		Extent:        balance.Field.Extent,
		Village:       world.Ring{Center: v.Center, Radius: v.RestRadius},
		Exclusion:     world.Ring{Center: v.Center, Radius: v.ExclusionRadius},
		CampCount:     balance.Field.CampCount,
		CampRadius:    balance.Field.CampRadius,
		SlotsPerCamp:  balance.Field.SlotsPerCamp,
		CampClearance: balance.Field.CampClearance,
	}, rng)
	field.Generate(ctx)

	player := entity.NewPlayer(opts.Catalog.Hero, v.Center)
	progress := progression.New(opts.Catalog.Progression, opts.Store, events, log)
	if err := progress.Load(ctx, player); err != nil {
		log.Warn("could not restore progress, starting fresh", zap.Error(err))
		player = entity.NewPlayer(opts.Catalog.Hero, v.Center)
		progress = progression.New(opts.Catalog.Progression, opts.Store, events, log)
		progress.Init(player)
	}

	var enemies Roster
	for _, slot := range field.SpawnSlots() {
		def := opts.Catalog.Enemies.SpawnRandom(rng)
		if def == nil {
			return nil, errors.New("sim: enemy registry is empty")
		}
		e := entity.NewEnemy(def, slot)
		progress.SpawnEnemy(e, player.Level)
		enemies = append(enemies, e)
	}

	recall := portal.NewRecall(v, events, log)
	s := &Sim{
		Player:   player,
		Enemies:  enemies,
		Field:    field,
		catalog:  opts.Catalog,
		balance:  balance,
		seed:     seed,
		rng:      rng,
		events:   events,
		ai:       ai.New(balance.AI, field, rng, events, log),
		recall:   recall,
		village:  portal.NewVillage(v, balance.Respawn, recall, events, log),
		progress: progress,
		facing:   world.V(0, 1),
		log:      log.Named("sim"),
		tracer:   tracer,
	}
	s.skills = skill.New(opts.Catalog.Skills, player, enemies, rng, events, log)

	span.SetAttributes(
		attribute.Int64("session.seed", seed),
		attribute.Int("field.camps", len(field.Camps)),
		attribute.Int("field.enemies", len(enemies)),
		attribute.Int("hero.level", player.Level),
	)
	s.log.Info("session started",
		zap.Int64("seed", seed),
		zap.Int("camps", len(field.Camps)),
		zap.Int("enemies", len(enemies)),
		zap.Int("level", player.Level),
	)
	return s, nil
}

// Seed returns the seed the session was generated from.
func (s *Sim) Seed() int64 { return s.seed }

// Now returns the time of the last Step.
func (s *Sim) Now() float64 { return s.now }

// Step advances the simulation to now, dt seconds after the previous step,
// and returns the events produced. The order is fixed: intents, enemy AI,
// skills and auto-attack, movement and regen, portal and life cycle,
// progression, then the invariant check.
func (s *Sim) Step(ctx context.Context, now, dt float64) []event.Event {
	if dt < 0 {
		dt = 0
	}
	if now < s.now {
		now = s.now
	}
	s.now = now

	s.settleDeaths(now)
	s.applyIntents(ctx, now)

	s.ai.UpdateAll(now, s.Enemies, s.Player)

	s.guard("skills", s.Player.ID(), func() { s.skills.Update(now) })
	s.guard("auto_attack", s.Player.ID(), func() { s.autoAttack(now) })

	s.integrate(now, dt)

	s.recall.Update(dt)
	s.guard("life", s.Player.ID(), func() { s.village.UpdateLife(ctx, now, s.Player) })

	s.guard("progression", s.Player.ID(), func() { s.awardKills(ctx, now) })
	s.guard("respawn", "", func() {
		s.progress.UpdateRespawns(ctx, now, s.Enemies, s.Player.Level, s.balance.Respawn.EnemyDelay)
	})

	s.enforceInvariants(ctx, now)

	return s.events.Drain()
}

// autoAttack swings at the hero's attack target whenever it is in reach.
func (s *Sim) autoAttack(now float64) {
	p := s.Player
	target := p.AttackTarget
	if target == nil || !p.CanAct() {
		return
	}
	if !target.IsAlive() {
		p.ClearOrders()
		return
	}
	if p.Pos.Dist(target.Position()) <= p.Reach {
		p.AttackMove = false
		s.skills.BasicAttack(now, target)
		return
	}
	p.AttackMove = true
}

func (s *Sim) integrate(now, dt float64) {
	p := s.Player
	before := p.Pos
	s.guard("move", p.ID(), func() { p.Integrate(dt, s.Field.ClampBounds) })
	if d := p.Pos.Sub(before); !d.IsZero() {
		s.facing = d.Normalize()
	}
	s.guard("regen", p.ID(), func() { s.village.Regen(dt, p) })

	for _, e := range s.Enemies {
		if e == nil {
			continue
		}
		s.guard("move", e.ID(), func() { e.Integrate(now, dt, s.Field.ClampOutside) })
	}
}

// awardKills grants XP for every enemy that died this tick.
func (s *Sim) awardKills(ctx context.Context, now float64) {
	for _, ev := range s.events.Pending() {
		if ev.Type != event.EnemyDied {
			continue
		}
		e := s.Enemies.ByID(ev.TargetID)
		if e == nil {
			continue
		}
		s.progress.GrantXP(ctx, now, s.Player, e.XPReward)
	}
}

// enforceInvariants clamps anything that drifted out of range and logs it.
// A body clamped to zero HP dies here; fallen enemies pay out XP at once since
// the kill stage has already run this tick.
func (s *Sim) enforceInvariants(ctx context.Context, now float64) {
	if s.Player.ClampVitals() {
		s.log.Warn("hero vitals out of range, clamped",
			zap.Float64("hp", s.Player.HP),
			zap.Float64("mp", s.Player.MP),
		)
	}
	s.recall.Repair(s.Player)
	for _, e := range s.Enemies {
		if e != nil && e.ClampVitals() {
			s.log.Warn("enemy vitals out of range, clamped", zap.String("enemy", e.ID()))
		}
	}
	for _, e := range s.settleDeaths(now) {
		s.progress.GrantXP(ctx, now, s.Player, e.XPReward)
	}
}

// settleDeaths marks every living body at zero HP as dead and emits the death
// events the damage path would have. It returns the enemies that fell.
func (s *Sim) settleDeaths(now float64) []*entity.Enemy {
	if s.Player.SettleDeath() {
		s.log.Warn("hero at zero health marked dead", zap.String("hero", s.Player.ID()))
		s.events.Push(event.Event{
			Type: event.PlayerDied, At: now, TargetID: s.Player.ID(), Pos: s.Player.Pos,
		})
	}
	var fallen []*entity.Enemy
	for _, e := range s.Enemies {
		if e == nil || !e.SettleDeath() {
			continue
		}
		s.events.Push(event.Event{
			Type: event.EnemyDied, At: now, TargetID: e.ID(), Pos: e.Pos,
		})
		fallen = append(fallen, e)
	}
	return fallen
}

// guard runs fn and turns a panic into a logged error so one faulty entity or
// effect cannot stop the tick.
func (s *Sim) guard(stage, id string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("tick stage failed",
				zap.String("stage", stage),
				zap.String("entity", id),
				zap.Float64("now", s.now),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}
