package sight

import (
	"cdogs-mapgen/internal/algo"
	"cdogs-mapgen/internal/gamemap"
)

// HasLineOfSight reports whether b can be seen from a. The endpoints
// themselves never block, so a wall can be seen from open floor. The line
// is antialiased, which makes sight past corners stricter than a plain
// Bresenham line.
func HasLineOfSight(m *gamemap.Map, a, b gamemap.Point) bool {
	return algo.HasClearLineXiaolinWu(a.X, a.Y, b.X, b.Y, func(x, y int) bool {
		p := gamemap.Point{X: x, Y: y}
		if p == a || p == b {
			return false
		}
		return !m.IsTransparent(x, y)
	})
}

// HasClearPath reports whether walking straight from a to b, one axis step
// at a time, stays on walkable tiles.
func HasClearPath(m *gamemap.Map, a, b gamemap.Point) bool {
	return algo.HasClearLineJMRaytrace(a.X, a.Y, b.X, b.Y, func(x, y int) bool {
		return !m.IsWalkable(x, y)
	})
}

// SightLine returns the tiles tested by HasLineOfSight between a and b.
func SightLine(a, b gamemap.Point) []gamemap.Point {
	var pts []gamemap.Point
	algo.XiaolinWuLineDraw(a.X, a.Y, b.X, b.Y, func(x, y int) {
		pts = append(pts, gamemap.Point{X: x, Y: y})
	})
	return pts
}
