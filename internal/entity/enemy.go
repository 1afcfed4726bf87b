package entity

import (
	"github.com/samdwyer/hollowgate/internal/combat"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/world"
)

// State is an enemy's behaviour state.
type State int

const (
	StateIdle State = iota
	StateWander
	StateChase
	StateAttack
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWander:
		return "wander"
	case StateChase:
		return "chase"
	case StateAttack:
		return "attack"
	default:
		return "unknown"
	}
}

// Stats are an enemy's combat numbers for one life, after scaling.
type Stats struct {
	MaxHP    float64
	Damage   float64
	XPReward float64
	Speed    float64
}

// Enemy is a hostile creature bound to a spawn slot. It is never destroyed:
// death marks it not-alive until it respawns in place.
type Enemy struct {
	Body

	Def    *gamedata.EnemyDef
	Name   string
	Symbol rune

	Damage   float64
	XPReward float64

	AggroRadius    float64
	AttackRadius   float64
	AttackInterval float64
	attackReadyAt  float64

	State          State
	LastDecisionAt float64
	SpawnOrigin    world.Vec2
	Generation     int // Incremented on every respawn

	SlowFactor float64
	SlowUntil  float64

	DwellUntil  float64 // Idle until this time
	WanderUntil float64 // Re-roll the wander target after this time
	RespawnAt   float64 // Non-zero while dead and waiting to respawn
}

// NewEnemy creates an enemy of the given definition at its spawn slot with
// unscaled base stats. Callers normally apply scaled stats with Reset.
func NewEnemy(def *gamedata.EnemyDef, origin world.Vec2) *Enemy {
	return &Enemy{
		Body:           newBody(def.ID, origin, def.HP, def.Speed),
		Def:            def,
		Name:           def.Name,
		Symbol:         def.GlyphRune(),
		Damage:         def.Damage,
		XPReward:       def.XP,
		AggroRadius:    def.AggroRadius,
		AttackRadius:   def.AttackRadius,
		AttackInterval: def.AttackCooldown,
		State:          StateWander,
		SpawnOrigin:    origin,
		SlowFactor:     1,
	}
}

// Reset starts a new life at the spawn origin with the given stats.
func (e *Enemy) Reset(stats Stats) {
	e.Pos = e.SpawnOrigin
	e.Alive = true
	e.MaxHP = stats.MaxHP
	e.HP = stats.MaxHP
	e.Damage = stats.Damage
	e.XPReward = stats.XPReward
	e.Speed = stats.Speed
	e.State = StateWander
	e.SlowFactor = 1
	e.SlowUntil = 0
	e.DwellUntil = 0
	e.WanderUntil = 0
	e.RespawnAt = 0
	e.attackReadyAt = 0
	e.ClearOrders()
}

// =============================================================================
// combat.Target / combat.Attacker implementation
// =============================================================================

// Kind returns combat.KindEnemy.
func (e *Enemy) Kind() combat.Kind { return combat.KindEnemy }

// CanAct is true while alive.
func (e *Enemy) CanAct() bool { return e.Alive }

// AttackDamage returns the enemy's damage per hit.
func (e *Enemy) AttackDamage() float64 { return e.Damage }

// AttackRange returns the attack radius.
func (e *Enemy) AttackRange() float64 { return e.AttackRadius }

// AttackCooldown returns seconds between attacks.
func (e *Enemy) AttackCooldown() float64 { return e.AttackInterval }

// AttackReadyAt returns when the next attack is allowed.
func (e *Enemy) AttackReadyAt() float64 { return e.attackReadyAt }

// SetAttackReadyAt sets when the next attack is allowed.
func (e *Enemy) SetAttackReadyAt(t float64) { e.attackReadyAt = t }

// Invulnerable is always false for enemies.
func (e *Enemy) Invulnerable(float64) bool { return false }

// ApplySlow sets a speed multiplier until the given time. A new slow replaces
// the old one (duration refresh); multipliers never stack.
func (e *Enemy) ApplySlow(factor, until float64) {
	e.SlowFactor = factor
	e.SlowUntil = until
}

// EffectiveSpeed returns the movement speed at now, including any slow.
func (e *Enemy) EffectiveSpeed(now float64) float64 {
	if now < e.SlowUntil {
		return e.Speed * e.SlowFactor
	}
	return e.Speed
}

// ClampVitals repairs HP into range. Returns true if a repair was needed.
func (e *Enemy) ClampVitals() bool {
	return e.clampHP()
}

// Integrate walks toward the current move target for dt seconds.
func (e *Enemy) Integrate(now, dt float64, clamp func(world.Vec2) world.Vec2) {
	if !e.Alive || dt <= 0 || e.MoveTarget == nil {
		return
	}
	var reached bool
	e.Pos, reached = e.Pos.MoveToward(*e.MoveTarget, e.EffectiveSpeed(now)*dt)
	if reached {
		e.MoveTarget = nil
	}
	if clamp != nil {
		e.Pos = clamp(e.Pos)
	}
}

var (
	_ combat.Target   = (*Enemy)(nil)
	_ combat.Attacker = (*Enemy)(nil)
)
