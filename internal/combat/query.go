package combat

import "github.com/samdwyer/hollowgate/internal/world"

// Nearest returns the living target closest to origin within radius, or nil.
// Exact ties resolve to the first candidate in iteration order, so results are
// reproducible. Targets for which skip returns true are ignored.
func Nearest[T Target](origin world.Vec2, radius float64, candidates []T, skip func(T) bool) (T, bool) {
	var best T
	found := false
	bestDist := 0.0

	for _, c := range candidates {
		if !c.IsAlive() {
			continue
		}
		if skip != nil && skip(c) {
			continue
		}
		d := origin.Dist(c.Position())
		if d > radius {
			continue
		}
		if !found || d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}

// Within returns every living target within radius of center, in iteration order.
func Within[T Target](center world.Vec2, radius float64, candidates []T) []T {
	var out []T
	for _, c := range candidates {
		if c.IsAlive() && center.Dist(c.Position()) <= radius {
			out = append(out, c)
		}
	}
	return out
}
