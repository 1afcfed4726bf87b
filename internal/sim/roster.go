package sim

import (
	"github.com/samdwyer/hollowgate/internal/combat"
	"github.com/samdwyer/hollowgate/internal/entity"
)

// Roster is the fixed set of enemy slots. Enemies are killed and revived in
// place, never removed, so slot order is stable for the whole session.
type Roster []*entity.Enemy

// Targets returns the roster as combat targets in slot order.
func (r Roster) Targets() []combat.Target {
	out := make([]combat.Target, len(r))
	for i, e := range r {
		out[i] = e
	}
	return out
}

// AliveCount returns the number of enemies still alive.
func (r Roster) AliveCount() int {
	count := 0
	for _, e := range r {
		if e.IsAlive() {
			count++
		}
	}
	return count
}

// ByID returns the enemy with the given ID, or nil.
func (r Roster) ByID(id string) *entity.Enemy {
	for _, e := range r {
		if e.ID() == id {
			return e
		}
	}
	return nil
}
