// Package entity provides the hero and enemy records the simulation mutates.
package entity

import (
	"math"

	"github.com/google/uuid"

	"github.com/samdwyer/hollowgate/internal/combat"
	"github.com/samdwyer/hollowgate/internal/world"
)

// Body is the state shared by every entity on the field.
type Body struct {
	id    string
	Pos   world.Vec2 // Position on the ground plane
	Alive bool
	HP    float64
	MaxHP float64
	Speed float64 // Units per second

	MoveTarget   *world.Vec2   // Point being walked to, nil when none
	AttackTarget combat.Target // Entity being attacked, nil when none
}

func newBody(prefix string, pos world.Vec2, hp, speed float64) Body {
	return Body{
		id:    prefix + "_" + uuid.NewString()[:8],
		Pos:   pos,
		Alive: true,
		HP:    hp,
		MaxHP: hp,
		Speed: speed,
	}
}

// ID returns the entity's unique identifier.
func (b *Body) ID() string { return b.id }

// IsAlive returns true while the entity has not been killed.
func (b *Body) IsAlive() bool { return b.Alive }

// Position returns the current ground position.
func (b *Body) Position() world.Vec2 { return b.Pos }

// SettleDeath kills a living body whose HP is zero, negative or NaN without
// having gone through TakeDamage. It reports whether the body just died.
func (b *Body) SettleDeath() bool {
	if !b.Alive || b.HP > 0 {
		return false
	}
	b.HP = 0
	b.Alive = false
	return true
}

// TakeDamage reduces HP and returns actual damage taken. Reaching zero kills.
func (b *Body) TakeDamage(amount float64) float64 {
	if amount <= 0 || !b.Alive {
		return 0
	}
	actual := math.Min(amount, b.HP)
	b.HP -= actual
	if b.HP <= 0 {
		b.HP = 0
		b.Alive = false
	}
	return actual
}

// Heal restores HP and returns actual amount healed.
func (b *Body) Heal(amount float64) float64 {
	if amount <= 0 || !b.Alive {
		return 0
	}
	actual := math.Min(amount, b.MaxHP-b.HP)
	if actual < 0 {
		actual = 0
	}
	b.HP += actual
	return actual
}

// HPRatio returns HP as a fraction of max, for HUD bars.
func (b *Body) HPRatio() float64 {
	if b.MaxHP <= 0 {
		return 0
	}
	return b.HP / b.MaxHP
}

// ClearOrders drops any pending move or attack order.
func (b *Body) ClearOrders() {
	b.MoveTarget = nil
	b.AttackTarget = nil
}

// clampHP repairs HP into [0, MaxHP]. Returns true if a repair was needed.
func (b *Body) clampHP() bool {
	fixed := false
	if math.IsNaN(b.HP) || b.HP < 0 {
		b.HP = 0
		fixed = true
	}
	if b.HP > b.MaxHP {
		b.HP = b.MaxHP
		fixed = true
	}
	return fixed
}
