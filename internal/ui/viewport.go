package ui

import (
	"math"

	"github.com/samdwyer/hollowgate/internal/world"
)

// rowScale is how many world units one terminal row covers. Cells are about
// twice as tall as they are wide, so rows cover two units and columns one.
const rowScale = 2.0

// Viewport maps the ground plane onto a block of terminal cells centred on
// Center.
type Viewport struct {
	Center world.Vec2
	Cols   int
	Rows   int
}

// ToCell returns the cell showing p and whether it is inside the viewport.
func (v Viewport) ToCell(p world.Vec2) (x, y int, ok bool) {
	x = v.Cols/2 + int(math.Round(p.X-v.Center.X))
	y = v.Rows/2 + int(math.Round((p.Z-v.Center.Z)/rowScale))
	ok = x >= 0 && x < v.Cols && y >= 0 && y < v.Rows
	return x, y, ok
}

// ToWorld returns the ground point at the middle of cell (x, y).
func (v Viewport) ToWorld(x, y int) world.Vec2 {
	return world.V(
		v.Center.X+float64(x-v.Cols/2),
		v.Center.Z+float64(y-v.Rows/2)*rowScale,
	)
}
