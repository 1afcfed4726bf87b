// Package combat provides the capability interfaces shared by the hero and
// enemies, and the damage rules both the skill system and enemy AI use.
package combat

import (
	"github.com/samdwyer/hollowgate/internal/event"
	"github.com/samdwyer/hollowgate/internal/world"
)

// Kind tags which side an entity fights for.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Target is anything that can be hit. Both the hero and enemies implement it,
// so skills and AI treat them uniformly.
type Target interface {
	// Identity
	ID() string
	Kind() Kind
	IsAlive() bool
	Position() world.Vec2

	// Mutations
	TakeDamage(amount float64) float64 // Returns actual damage taken
	ApplySlow(factor, until float64)   // Refreshes, never stacks

	// Invulnerable reports whether damage is currently ignored.
	Invulnerable(now float64) bool
}

// Attacker is anything with a cooldown-gated basic attack.
type Attacker interface {
	ID() string
	Kind() Kind
	IsAlive() bool
	Position() world.Vec2

	// CanAct is false while the attacker is frozen or otherwise disabled.
	CanAct() bool
	AttackDamage() float64
	AttackRange() float64
	AttackCooldown() float64
	AttackReadyAt() float64
	SetAttackReadyAt(t float64)
}

// Hit describes the outcome of a single damage application.
type Hit struct {
	Damage float64 // Actual damage taken after clamping
	Killed bool    // Target went from alive to dead
}

// Strike applies damage to a target and emits the resulting events.
// Dead or invulnerable targets are left untouched.
func Strike(now float64, sourceID string, target Target, amount float64, events *event.Queue) Hit {
	if target == nil || !target.IsAlive() || target.Invulnerable(now) || amount <= 0 {
		return Hit{}
	}

	actual := target.TakeDamage(amount)
	hit := Hit{Damage: actual, Killed: !target.IsAlive()}

	if target.Kind() == KindPlayer {
		events.Push(event.Event{
			Type: event.PlayerHit, At: now, SourceID: sourceID,
			TargetID: target.ID(), Pos: target.Position(), Amount: actual,
		})
	}

	if hit.Killed {
		t := event.EnemyDied
		if target.Kind() == KindPlayer {
			t = event.PlayerDied
		}
		events.Push(event.Event{
			Type: t, At: now, SourceID: sourceID,
			TargetID: target.ID(), Pos: target.Position(),
		})
	}

	return hit
}

// InRange reports whether target is within reach of origin. The boundary is
// inclusive: distance exactly equal to reach is in range.
func InRange(origin, target world.Vec2, reach float64) bool {
	return origin.Dist(target) <= reach
}

// TryBasicAttack performs attacker's basic attack on target if every gate
// passes: attacker alive and able to act, target alive, target within range,
// cooldown elapsed. On failure nothing is mutated and false is returned.
func TryBasicAttack(now float64, attacker Attacker, target Target, events *event.Queue) bool {
	if attacker == nil || target == nil {
		return false
	}
	if !attacker.IsAlive() || !attacker.CanAct() || !target.IsAlive() {
		return false
	}
	if !InRange(attacker.Position(), target.Position(), attacker.AttackRange()) {
		return false
	}
	if now < attacker.AttackReadyAt() {
		return false
	}

	attacker.SetAttackReadyAt(now + attacker.AttackCooldown())
	events.Push(event.Event{
		Type: event.BasicAttack, At: now, SourceID: attacker.ID(),
		TargetID: target.ID(), Pos: target.Position(),
	})
	Strike(now, attacker.ID(), target, attacker.AttackDamage(), events)
	return true
}
