// Package world provides ground-plane geometry and field layout.
package world

import "math"

// Vec2 is a point or direction on the ground plane. Height is fixed, so only
// the X and Z axes are tracked.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Z float64 `json:"z" yaml:"z"`
}

// V is shorthand for constructing a Vec2.
func V(x, z float64) Vec2 { return Vec2{X: x, Z: z} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Z*o.Z }

// Len returns the vector length.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Z) }

// Dist returns the distance between two points.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// IsZero reports whether v is the zero vector.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Z == 0 }

// Normalize returns the unit vector in v's direction, or zero for a zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Z / l}
}

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Z) && !math.IsInf(v.X, 0) && !math.IsInf(v.Z, 0)
}

// MoveToward steps from v toward target by at most step, never overshooting.
// The second result reports whether target was reached.
func (v Vec2) MoveToward(target Vec2, step float64) (Vec2, bool) {
	d := target.Sub(v)
	l := d.Len()
	if l <= step || l == 0 {
		return target, true
	}
	return v.Add(d.Scale(step / l)), false
}
