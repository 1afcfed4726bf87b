package world

// Camp is a circular cluster of enemy spawn slots in the field.
type Camp struct {
	Center Vec2
	Radius float64
	Slots  []Vec2
}

// Contains returns true if the given point is inside the camp.
func (c Camp) Contains(p Vec2) bool {
	return p.Dist(c.Center) <= c.Radius
}

// Intersects returns true if this camp overlaps with another camp.
func (c Camp) Intersects(other Camp) bool {
	return c.Center.Dist(other.Center) < c.Radius+other.Radius
}
