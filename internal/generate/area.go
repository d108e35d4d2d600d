package generate

import "cdogs-mapgen/internal/gamemap"

// IsAreaInside reports whether r fits on the map with a free far border.
func (b *Builder) IsAreaInside(r gamemap.Rect) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.W < b.Map.Width && r.Y+r.H < b.Map.Height
}

func (b *Builder) isAreaFunc(r gamemap.Rect, fn func(p gamemap.Point) bool) bool {
	if !b.IsAreaInside(r) {
		return false
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if !fn(gamemap.Point{X: x, Y: y}) {
				return false
			}
		}
	}
	return true
}

// IsAreaClear reports whether every tile of r is floor.
func (b *Builder) IsAreaClear(r gamemap.Rect) bool {
	return b.isAreaFunc(r, func(p gamemap.Point) bool {
		return b.isType(p, gamemap.TileFloor)
	})
}

// IsAreaClearOrRoom reports whether every tile of r is floor or a wall on
// a room perimeter.
func (b *Builder) IsAreaClearOrRoom(r gamemap.Rect) bool {
	return b.isAreaFunc(r, func(p gamemap.Point) bool {
		c, _ := b.class(p)
		switch c.Type {
		case gamemap.TileFloor:
			return true
		case gamemap.TileWall:
			return b.areaHasRoomAndFloor(p)
		}
		return false
	})
}

// IsAreaClearOrWall reports whether every tile of r is non-room floor or a
// wall that is not part of a room perimeter.
func (b *Builder) IsAreaClearOrWall(r gamemap.Rect) bool {
	return b.isAreaFunc(r, func(p gamemap.Point) bool {
		c, _ := b.class(p)
		switch c.Type {
		case gamemap.TileFloor:
			return !c.IsRoom
		case gamemap.TileWall:
			return !b.areaHasRoomAndFloor(p)
		}
		return false
	})
}

// areaHasRoomAndFloor reports whether the 3x3 block around p holds both room
// floor and plain floor, which marks a wall at p as a room perimeter.
func (b *Builder) areaHasRoomAndFloor(p gamemap.Point) bool {
	hasRoom, hasFloor := false, false
	for y := p.Y - 1; y <= p.Y+1; y++ {
		for x := p.X - 1; x <= p.X+1; x++ {
			c, ok := b.class(gamemap.Point{X: x, Y: y})
			if !ok || !c.IsFloor() {
				continue
			}
			if c.IsRoom {
				hasRoom = true
			} else {
				hasFloor = true
			}
		}
	}
	return hasRoom && hasFloor
}

// RoomOverlapSize returns the width of the passage opened by placing room r
// over existing rooms, or 0 if the overlap is not a clean passage.
//
// Overlap points are perimeter tiles of r that are already room perimeter
// walls. With at least two of them, every tile of their bounding box must be
// room floor or room perimeter; the passage is then the larger extent of the
// box minus one. When overlapAccess is non-nil the access masks of the
// overlapped rooms are ORed into it.
func (b *Builder) RoomOverlapSize(r gamemap.Rect, overlapAccess *uint16) int {
	n := 0
	var lo, hi gamemap.Point
	r.Each(func(p gamemap.Point) {
		if !r.IsAtEdge(p) || !b.Map.InBounds(p.X, p.Y) {
			return
		}
		if !b.isType(p, gamemap.TileWall) || !b.areaHasRoomAndFloor(p) {
			return
		}
		if overlapAccess != nil {
			for y := p.Y - 1; y <= p.Y+1; y++ {
				for x := p.X - 1; x <= p.X+1; x++ {
					q := gamemap.Point{X: x, Y: y}
					if c, ok := b.class(q); ok && c.IsRoom {
						*overlapAccess |= b.Map.Access(q)
					}
				}
			}
		}
		if n == 0 {
			lo, hi = p, p
		} else {
			lo = gamemap.Point{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
			hi = gamemap.Point{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
		}
		n++
	})
	if n < 2 {
		return 0
	}
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			p := gamemap.Point{X: x, Y: y}
			c, _ := b.class(p)
			if c.IsWall() {
				if !b.areaHasRoomAndFloor(p) {
					return 0
				}
			} else if !c.IsRoom {
				return 0
			}
		}
	}
	return max(hi.X-lo.X, hi.Y-lo.Y) - 1
}
