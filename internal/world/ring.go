package world

import (
	"math"
	"math/rand"
)

// Ring is a circular area on the ground plane.
type Ring struct {
	Center Vec2
	Radius float64
}

// Contains reports whether p lies inside or on the ring boundary.
func (r Ring) Contains(p Vec2) bool {
	return p.Dist(r.Center) <= r.Radius
}

// PushOut projects p onto the ring boundary if it lies strictly inside.
// Points at the exact center are pushed along +X.
func (r Ring) PushOut(p Vec2) Vec2 {
	d := p.Sub(r.Center)
	l := d.Len()
	if l >= r.Radius {
		return p
	}
	if l == 0 {
		return r.Center.Add(Vec2{X: r.Radius})
	}
	return r.Center.Add(d.Scale(r.Radius / l))
}

// RandomPointInDisc returns a uniformly distributed point within radius of center.
func RandomPointInDisc(rng *rand.Rand, center Vec2, radius float64) Vec2 {
	angle := rng.Float64() * 2 * math.Pi
	dist := math.Sqrt(rng.Float64()) * radius
	return center.Add(Vec2{X: math.Cos(angle) * dist, Z: math.Sin(angle) * dist})
}

// RandomPointInAnnulus returns a point whose distance from center lies in [inner, outer].
func RandomPointInAnnulus(rng *rand.Rand, center Vec2, inner, outer float64) Vec2 {
	angle := rng.Float64() * 2 * math.Pi
	// Uniform by area.
	r2 := inner*inner + rng.Float64()*(outer*outer-inner*inner)
	dist := math.Sqrt(r2)
	return center.Add(Vec2{X: math.Cos(angle) * dist, Z: math.Sin(angle) * dist})
}
