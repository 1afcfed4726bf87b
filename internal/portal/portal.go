// Package portal implements the village portal, the recall state machine that
// freezes the hero until they step through a return portal, and the village
// services: boosted regeneration and death/respawn.
package portal

import (
	"math"

	"github.com/google/uuid"

	"github.com/samdwyer/hollowgate/internal/world"
)

// Portal is a clickable gateway on the field.
type Portal struct {
	ID       string
	Pos      world.Vec2
	Radius   float64 // Click radius
	Spin     float64 // Cosmetic phase in radians, [0, 2π)
	LinkedTo *Portal
}

// NewPortal creates an unlinked portal.
func NewPortal(pos world.Vec2, radius float64) *Portal {
	return &Portal{
		ID:     "portal_" + uuid.NewString()[:8],
		Pos:    pos,
		Radius: radius,
	}
}

// Hit reports whether point lies within the portal's radius plus tolerance.
func (p *Portal) Hit(point world.Vec2, tolerance float64) bool {
	return p.Pos.Dist(point) <= p.Radius+tolerance
}

// Advance turns the spin phase by speed radians per second.
func (p *Portal) Advance(dt, speed float64) {
	if dt <= 0 {
		return
	}
	p.Spin = math.Mod(p.Spin+speed*dt, 2*math.Pi)
	if p.Spin < 0 {
		p.Spin += 2 * math.Pi
	}
}
