package entity

import (
	"math"

	"github.com/samdwyer/hollowgate/internal/combat"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/world"
)

// AuraState tracks a toggled aura. Ticks are explicit timestamps so the
// simulation stays deterministic under a virtual clock.
type AuraState struct {
	Key          gamedata.Key // Skill that activated the aura
	Active       bool
	StartedAt    float64
	NextTickAt   float64
	ExpiresAt    float64
	LockoutUntil float64 // Re-toggle is refused before this time
	Ticks        int     // Ticks fired since activation
}

// ScheduledStrike is a pending storm strike with a fixed time and point.
type ScheduledStrike struct {
	At     float64
	Pos    world.Vec2
	Radius float64
	Damage float64
}

// Player is the controllable hero.
type Player struct {
	Body

	Name string

	MP    float64
	MaxMP float64

	Level    int
	XP       float64
	XPToNext float64

	BaseDamage float64
	HPRegen    float64 // Per second
	MPRegen    float64 // Per second

	Reach          float64
	AttackInterval float64
	AcquireRadius  float64
	attackReadyAt  float64

	Frozen            bool    // True while a recall prompt is pending
	InvulnerableUntil float64 // Damage ignored before this time
	RespawnAt         float64 // Non-zero while dead and waiting to respawn

	Cooldowns map[gamedata.Key]float64 // Skill key -> time it becomes ready
	Aura      AuraState
	Strikes   []ScheduledStrike // Pending storm strikes, sorted by At

	AttackMove bool       // Walking toward an attack target that is out of range
	MoveDir    world.Vec2 // Continuous movement input for this tick
}

// NewPlayer creates a level-one hero from its definition.
func NewPlayer(def gamedata.HeroDef, pos world.Vec2) *Player {
	return &Player{
		Body:           newBody("hero", pos, def.HP, def.Speed),
		Name:           def.Name,
		MP:             def.MP,
		MaxMP:          def.MP,
		Level:          1,
		BaseDamage:     def.Damage,
		HPRegen:        def.HPRegen,
		MPRegen:        def.MPRegen,
		Reach:          def.AttackRange,
		AttackInterval: def.AttackCooldown,
		AcquireRadius:  def.AcquireRadius,
		Cooldowns:      make(map[gamedata.Key]float64),
	}
}

// =============================================================================
// combat.Target / combat.Attacker implementation
// =============================================================================

// Kind returns combat.KindPlayer.
func (p *Player) Kind() combat.Kind { return combat.KindPlayer }

// CanAct is false while dead or frozen by a recall prompt.
func (p *Player) CanAct() bool { return p.Alive && !p.Frozen }

// AttackDamage returns the basic attack damage.
func (p *Player) AttackDamage() float64 { return p.BaseDamage }

// AttackRange returns the basic attack reach.
func (p *Player) AttackRange() float64 { return p.Reach }

// AttackCooldown returns seconds between basic attacks.
func (p *Player) AttackCooldown() float64 { return p.AttackInterval }

// AttackReadyAt returns when the next basic attack is allowed.
func (p *Player) AttackReadyAt() float64 { return p.attackReadyAt }

// SetAttackReadyAt sets when the next basic attack is allowed.
func (p *Player) SetAttackReadyAt(t float64) { p.attackReadyAt = t }

// Invulnerable reports whether damage is ignored at now.
func (p *Player) Invulnerable(now float64) bool { return now < p.InvulnerableUntil }

// ApplySlow is ignored; nothing slows the hero.
func (p *Player) ApplySlow(factor, until float64) {}

// =============================================================================
// Mana and cooldowns
// =============================================================================

// SpendMP reduces MP and returns false if insufficient.
func (p *Player) SpendMP(amount float64) bool {
	if amount < 0 || p.MP < amount {
		return false
	}
	p.MP -= amount
	return true
}

// RestoreMP restores MP and returns actual amount restored.
func (p *Player) RestoreMP(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	actual := math.Min(amount, p.MaxMP-p.MP)
	if actual < 0 {
		actual = 0
	}
	p.MP += actual
	return actual
}

// MPRatio returns MP as a fraction of max.
func (p *Player) MPRatio() float64 {
	if p.MaxMP <= 0 {
		return 0
	}
	return p.MP / p.MaxMP
}

// CooldownReady reports whether the skill bound to key may be cast at now.
func (p *Player) CooldownReady(key gamedata.Key, now float64) bool {
	return now >= p.Cooldowns[key]
}

// CooldownRemaining returns seconds until key is ready, zero if ready.
func (p *Player) CooldownRemaining(key gamedata.Key, now float64) float64 {
	return math.Max(0, p.Cooldowns[key]-now)
}

// Regenerate restores HP and MP for dt seconds at the base rates times multiplier.
func (p *Player) Regenerate(dt, multiplier float64) {
	if !p.Alive || dt <= 0 {
		return
	}
	p.Heal(p.HPRegen * multiplier * dt)
	p.RestoreMP(p.MPRegen * multiplier * dt)
}

// ClampVitals repairs HP and MP into range. Returns true if a repair was needed.
func (p *Player) ClampVitals() bool {
	fixed := p.clampHP()
	if math.IsNaN(p.MP) || p.MP < 0 {
		p.MP = 0
		fixed = true
	}
	if p.MP > p.MaxMP {
		p.MP = p.MaxMP
		fixed = true
	}
	return fixed
}

// ClearOrders drops pending move and attack orders.
func (p *Player) ClearOrders() {
	p.Body.ClearOrders()
	p.AttackMove = false
}

// =============================================================================
// Movement
// =============================================================================

// Integrate moves the hero for dt seconds. Held movement input takes priority
// over click orders and cancels them. clamp keeps the result on the field.
func (p *Player) Integrate(dt float64, clamp func(world.Vec2) world.Vec2) {
	if !p.CanAct() || dt <= 0 {
		return
	}
	step := p.Speed * dt

	switch {
	case !p.MoveDir.IsZero():
		p.ClearOrders()
		p.Pos = p.Pos.Add(p.MoveDir.Normalize().Scale(step))

	case p.AttackTarget != nil:
		target := p.AttackTarget
		if !target.IsAlive() {
			p.ClearOrders()
			break
		}
		dist := p.Pos.Dist(target.Position())
		if dist <= p.Reach {
			p.AttackMove = false
			break
		}
		// Stop slightly inside reach so the inclusive range check passes.
		p.AttackMove = true
		p.Pos, _ = p.Pos.MoveToward(target.Position(), math.Min(step, dist-p.Reach*0.95))

	case p.MoveTarget != nil:
		var reached bool
		p.Pos, reached = p.Pos.MoveToward(*p.MoveTarget, step)
		if reached {
			p.MoveTarget = nil
		}
	}

	if clamp != nil {
		p.Pos = clamp(p.Pos)
	}
}

var (
	_ combat.Target   = (*Player)(nil)
	_ combat.Attacker = (*Player)(nil)
)
