// Package sight computes what can be seen on a generated map.
package sight

import "cdogs-mapgen/internal/gamemap"

// octant transform matrices.
// For each octant, a (dx, dy) sweep pair maps to a world offset via:
//   worldX = cx + dx*xx + dy*xy
//   worldY = cy + dx*yx + dy*yy
// where dx sweeps horizontally within the row and dy is the fixed row index.
var octants = [8][4]int{
	{1, 0, 0, 1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
	{-1, 0, 0, 1},
	{-1, 0, 0, -1},
	{0, -1, -1, 0},
	{0, 1, -1, 0},
	{1, 0, 0, -1},
}

// UpdateFOV resets visibility and runs recursive shadowcasting from origin.
// Lit tiles are also marked explored.
func UpdateFOV(m *gamemap.Map, origin gamemap.Point, radius int) {
	for y := range m.Height {
		for x := range m.Width {
			m.At(x, y).Visible = false
		}
	}
	if !m.InBounds(origin.X, origin.Y) {
		return
	}
	t := m.At(origin.X, origin.Y)
	t.Visible = true
	t.Explored = true

	for _, o := range octants {
		castLight(m, origin.X, origin.Y, 1, 1.0, 0.0, radius, o[0], o[1], o[2], o[3])
	}
}

// RevealAll marks every tile visible and explored.
func RevealAll(m *gamemap.Map) {
	for y := range m.Height {
		for x := range m.Width {
			t := m.At(x, y)
			t.Visible = true
			t.Explored = true
		}
	}
}

// castLight casts light for one octant.
//   - j is the current row (distance from origin along the main axis)
//   - dy = -j is fixed for the entire inner sweep
//   - dx sweeps from -j to 0 within the row
//   - lSlope = (dx - 0.5) / (dy + 0.5)   rSlope = (dx + 0.5) / (dy - 0.5)
func castLight(m *gamemap.Map, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int) {
	if start < end {
		return
	}
	radiusSq := float64(radius * radius)
	newStart := start

	for j := row; j <= radius; j++ {
		dy := -j
		blocked := false

		for dx := -j; dx <= 0; dx++ {
			wx := cx + dx*xx + dy*xy
			wy := cy + dx*yx + dy*yy

			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			if float64(dx*dx+dy*dy) < radiusSq && m.InBounds(wx, wy) {
				t := m.At(wx, wy)
				t.Visible = true
				t.Explored = true
			}

			opaque := !m.IsTransparent(wx, wy)

			if blocked {
				if opaque {
					newStart = rSlope
				} else {
					blocked = false
					start = newStart
				}
			} else if opaque && j < radius {
				blocked = true
				castLight(m, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
