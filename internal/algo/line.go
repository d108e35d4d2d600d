package algo

import "math"

// aaFactor is added to a cell's anti-aliased coverage before it is compared
// against zero. Cells whose coverage does not survive the offset are skipped.
const aaFactor = -0.1

// HasClearLineBresenham walks the Bresenham line from (x0,y0) to (x1,y1),
// endpoints inclusive, and reports false as soon as isBlocked returns true.
// Cells after the first blocking cell are never passed to isBlocked.
func HasClearLineBresenham(x0, y0, x1, y1 int, isBlocked func(x, y int) bool) bool {
	return bresenham(x0, y0, x1, y1, func(x, y int) bool { return !isBlocked(x, y) })
}

// BresenhamLineDraw passes every cell of the Bresenham line from (x0,y0) to
// (x1,y1) to draw exactly once, in order.
func BresenhamLineDraw(x0, y0, x1, y1 int, draw func(x, y int)) {
	bresenham(x0, y0, x1, y1, func(x, y int) bool {
		draw(x, y)
		return true
	})
}

// bresenham visits the 8-connected line; visit returning false stops the walk.
func bresenham(x0, y0, x1, y1 int, visit func(x, y int) bool) bool {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := step(x0, x1), step(y0, y1)
	err := dx - dy
	x, y := x0, y0
	for {
		if !visit(x, y) {
			return false
		}
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// HasClearLineXiaolinWu walks the anti-aliased line from (x0,y0) to (x1,y1),
// testing both cells straddling the ideal line at every step. It reports
// false as soon as a touched cell is blocked.
func HasClearLineXiaolinWu(x0, y0, x1, y1 int, isBlocked func(x, y int) bool) bool {
	return xiaolinWu(x0, y0, x1, y1, func(x, y int) bool { return !isBlocked(x, y) })
}

// XiaolinWuLineDraw passes every touched cell of the anti-aliased line to draw.
func XiaolinWuLineDraw(x0, y0, x1, y1 int, draw func(x, y int)) {
	xiaolinWu(x0, y0, x1, y1, func(x, y int) bool {
		draw(x, y)
		return true
	})
}

func xiaolinWu(x0, y0, x1, y1 int, visit func(x, y int) bool) bool {
	// Axis-aligned lines and single points have no fractional coverage.
	if x0 == x1 || y0 == y1 {
		return bresenham(x0, y0, x1, y1, visit)
	}
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	plot := func(x, y int, coverage float64) bool {
		if coverage+aaFactor <= 0 {
			return true
		}
		if steep {
			return visit(y, x)
		}
		return visit(x, y)
	}

	// Walk from the first endpoint so early termination happens nearest it.
	sx := step(x0, x1)
	n := abs(x1 - x0)
	gradient := float64(y1-y0) / float64(n)
	intery := float64(y0)
	for i, x := 0, x0; i <= n; i, x = i+1, x+sx {
		ipart := math.Floor(intery)
		frac := intery - ipart
		y := int(ipart)
		if !plot(x, y, 1-frac) {
			return false
		}
		if !plot(x, y+1, frac) {
			return false
		}
		intery += gradient
	}
	return true
}

// HasClearLineJMRaytrace walks the 4-connected grid traversal from (x0,y0) to
// (x1,y1) and reports false as soon as a cell is blocked.
func HasClearLineJMRaytrace(x0, y0, x1, y1 int, isBlocked func(x, y int) bool) bool {
	return jmRaytrace(x0, y0, x1, y1, func(x, y int) bool { return !isBlocked(x, y) })
}

// JMRaytraceLineDraw passes every cell of the 4-connected traversal to draw.
func JMRaytraceLineDraw(x0, y0, x1, y1 int, draw func(x, y int)) {
	jmRaytrace(x0, y0, x1, y1, func(x, y int) bool {
		draw(x, y)
		return true
	})
}

// jmRaytrace is James McNeill's grid raytrace: every cell the segment passes
// through, stepping one axis at a time.
func jmRaytrace(x0, y0, x1, y1 int, visit func(x, y int) bool) bool {
	dx, dy := abs(x1-x0), abs(y1-y0)
	x, y := x0, y0
	xInc, yInc := 1, 1
	if x1 <= x0 {
		xInc = -1
	}
	if y1 <= y0 {
		yInc = -1
	}
	err := dx - dy
	dx *= 2
	dy *= 2
	for n := 1 + abs(x1-x0) + abs(y1-y0); n > 0; n-- {
		if !visit(x, y) {
			return false
		}
		if err > 0 {
			x += xInc
			err -= dy
		} else {
			y += yInc
			err += dx
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func step(from, to int) int {
	if from < to {
		return 1
	}
	return -1
}
