package generate

import "cdogs-mapgen/internal/gamemap"

// carveCorridor digs an L-shaped tunnel between from and to. Only tiles that
// cannot be walked on are replaced, so rooms and doors along the way keep
// their class.
func (b *Builder) carveCorridor(from, to gamemap.Point) {
	if b.coin() {
		b.carveH(from.X, to.X, from.Y)
		b.carveV(from.Y, to.Y, to.X)
	} else {
		b.carveV(from.Y, to.Y, from.X)
		b.carveH(from.X, to.X, to.Y)
	}
}

func (b *Builder) carveH(x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		b.carve(gamemap.Point{X: x, Y: y})
	}
}

func (b *Builder) carveV(y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		b.carve(gamemap.Point{X: x, Y: y})
	}
}

func (b *Builder) carve(p gamemap.Point) {
	if b.Map.InBounds(p.X, p.Y) && !b.walkable(p) {
		b.set(p, b.Tiles.Floor)
	}
}

// addCorridor paints an S-shaped corridor from v1 to v2 with tile c: along
// the dominant axis d to the midpoint, across to one past the target's
// row or column, then along d again to the target.
func (b *Builder) addCorridor(v1, v2 gamemap.Point, horizontal bool, c gamemap.TileClass) {
	start, end := v1, v2
	var d, dAlt, half gamemap.Point
	if horizontal {
		d = gamemap.Point{X: 1}
		if start.X > end.X {
			start, end = end, start
		}
		dAlt = gamemap.Point{Y: 1}
		half = gamemap.Point{X: (end.X-start.X)/2 + start.X, Y: end.Y + 1}
		if end.Y < start.Y {
			dAlt.Y = -1
			half.Y = end.Y - 1
		}
	} else {
		d = gamemap.Point{Y: 1}
		if start.Y > end.Y {
			start, end = end, start
		}
		dAlt = gamemap.Point{X: 1}
		half = gamemap.Point{X: end.X + 1, Y: (end.Y-start.Y)/2 + start.Y}
		if end.X < start.X {
			dAlt.X = -1
			half.X = end.X - 1
		}
	}
	v := start
	for ; v.X != half.X && v.Y != half.Y; v = v.Add(d) {
		b.set(v, c)
	}
	for ; v.X != end.X && v.Y != end.Y; v = v.Add(dAlt) {
		b.set(v, c)
	}
	for ; v.X != end.X || v.Y != end.Y; v = v.Add(d) {
		b.set(v, c)
	}
	b.set(v, c)
}
