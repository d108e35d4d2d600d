package generate

import (
	"cdogs-mapgen/internal/algo"
	"cdogs-mapgen/internal/gamemap"
	"cdogs-mapgen/internal/mission"
)

// Exit areas are square with this inner extent; the exit rect is one wider.
const exitSize = 8

const placeAttempts = 1000

// Cave runs the cellular automaton generator over b.Map.
func Cave(b *Builder, p mission.CaveParams, missionIndex int) {
	w, h := b.Map.Width, b.Map.Height

	walls := p.FillPercent * w * h / 100
	cells := make([]gamemap.TileClass, w*h)
	for i := range cells {
		if i < walls {
			cells[i] = b.Tiles.Wall
		} else {
			cells[i] = b.Tiles.Floor
		}
	}
	b.Rand.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
	for i, c := range cells {
		b.Map.SetClass(gamemap.Point{X: i % w, Y: i / w}, c)
	}

	for range p.Repeat {
		b.caveStep(p.R1, p.R2)
	}
	b.linkDisconnectedAreas()
	b.FixCorridors(p.CorridorWidth)
	b.placeSquares(p.Squares)
	rooms := b.placeCaveRooms(p)
	if keys := min(p.Doors.Keys, gamemap.KeyCount); p.Doors.Enabled && keys > 0 {
		level := 0
		for len(rooms) > 0 {
			rooms = b.SetRoomAccessMaskOverlap(rooms, b.GenerateAccessMask(&level, keys))
		}
		b.Map.KeyAccessCount = max(level-1, 0)
		b.placeKeyCards()
	}
	b.placeCaveStart()
	b.EnsureConnected(b.Map.Start)
	if p.ExitEnabled {
		b.placeRandomExit(missionIndex)
	}
}

// caveStep applies one generation of the automaton. A tile becomes wall if
// at least r1 walls lie within distance 1 or at most r2 within distance 2.
func (b *Builder) caveStep(r1, r2 int) {
	w, h := b.Map.Width, b.Map.Height
	next := make([]gamemap.TileClass, w*h)
	for y := range h {
		for x := range w {
			p := gamemap.Point{X: x, Y: y}
			if b.countWallsAround(p, 1) >= r1 || b.countWallsAround(p, 2) <= r2 {
				next[y*w+x] = b.Tiles.Wall
			} else {
				next[y*w+x] = b.Tiles.Floor
			}
		}
	}
	for i, c := range next {
		b.Map.SetClass(gamemap.Point{X: i % w, Y: i / w}, c)
	}
}

// countWallsAround counts walls in the square of radius d around p,
// p included. Tiles off the map count as walls.
func (b *Builder) countWallsAround(p gamemap.Point, d int) int {
	n := 0
	for y := p.Y - d; y <= p.Y+d; y++ {
		for x := p.X - d; x <= p.X+d; x++ {
			c, ok := b.class(gamemap.Point{X: x, Y: y})
			if !ok || c.IsWall() {
				n++
			}
		}
	}
	return n
}

// linkDisconnectedAreas labels the open regions and joins each one to the
// next with an S-shaped corridor between randomly chosen tiles.
func (b *Builder) linkDisconnectedAreas() {
	w := b.Map.Width
	labels := make([]int, w*b.Map.Height)
	n := 0
	for i := range labels {
		id := n + 1
		filled := algo.FloodFill(i%w, i/w,
			func(x, y int) bool {
				return b.Map.InBounds(x, y) && labels[y*w+x] == 0 && !b.Map.At(x, y).Class.IsWall()
			},
			func(x, y int) { labels[y*w+x] = id },
		)
		if filled {
			n = id
		}
	}
	if n < 2 {
		return
	}

	order := b.Rand.Perm(len(labels))
	starts := make([]int, n)
	for i := range starts {
		starts[i] = -1
	}
	for _, idx := range order {
		if l := labels[idx]; l > 0 && starts[l-1] < 0 {
			starts[l-1] = idx
		}
	}
	for i := 0; i+1 < n; i++ {
		v1 := gamemap.Point{X: starts[i] % w, Y: starts[i] / w}
		v2 := gamemap.Point{X: starts[i+1] % w, Y: starts[i+1] / w}
		horizontal := abs(v1.X-v2.X) > abs(v1.Y-v2.Y)
		b.addCorridor(v1, v2, horizontal, b.Tiles.Floor)
	}
	b.logf("linked %d cave areas", n)
}

// FixCorridors opens up any wall that pinches a passage narrower than
// width. From each wall, rays are cast to the perimeter of the surrounding
// square of radius width; a ray fails when it is not stopped by a wall
// straight away yet does not run through open floor all the way. Passes
// repeat until nothing changes, since opening one wall can expose another.
func (b *Builder) FixCorridors(width int) {
	for pass := 0; pass < b.Map.Width*b.Map.Height; pass++ {
		changed := false
		for y := width; y < b.Map.Height-width; y++ {
			for x := width; x < b.Map.Width-width; x++ {
				v := gamemap.Point{X: x, Y: y}
				if !b.isType(v, gamemap.TileWall) {
					continue
				}
				if !b.checkCorridorsAroundTile(v, width) {
					b.set(v, b.Tiles.Floor)
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}

func (b *Builder) checkCorridorsAroundTile(v gamemap.Point, width int) bool {
	for y := v.Y - width; y <= v.Y+width; y++ {
		for x := v.X - width; x <= v.X+width; x++ {
			if y != v.Y-width && y != v.Y+width && x != v.X-width && x != v.X+width {
				continue
			}
			count := 0
			firstWall, allFloor := false, true
			algo.BresenhamLineDraw(v.X, v.Y, x, y, func(x, y int) {
				p := gamemap.Point{X: x, Y: y}
				if count == 1 {
					firstWall = b.isType(p, gamemap.TileWall)
				}
				if count > 0 && !b.isType(p, gamemap.TileFloor) {
					allFloor = false
				}
				count++
			})
			if !firstWall && !allFloor {
				return false
			}
		}
	}
	return true
}

// placeSquares carves open squares over areas that already hold floor.
func (b *Builder) placeSquares(squares int) {
	count := 0
	for i := 0; i < placeAttempts && count < squares; i++ {
		v := b.randomTile()
		r := gamemap.Rect{X: v.X, Y: v.Y, W: b.randInt(8, 16), H: b.randInt(8, 16)}
		if !b.isAreaClearForCaveSquare(r) {
			continue
		}
		b.FillRect(r, b.Tiles.Square, b.Tiles.Square)
		count++
		b.logf("square %v", r)
	}
}

func (b *Builder) isAreaClearForCaveSquare(r gamemap.Rect) bool {
	if !b.IsAreaInside(r) {
		return false
	}
	hasFloor, ok := false, true
	r.Each(func(p gamemap.Point) {
		c, _ := b.class(p)
		switch {
		case c.IsSquare:
			ok = false
		case c.IsFloor():
			hasFloor = true
		case c.IsWall():
		default:
			ok = false
		}
	})
	return ok && hasFloor
}

// placeCaveRooms places up to p.Rooms.Count rooms and returns their rects.
func (b *Builder) placeCaveRooms(p mission.CaveParams) []gamemap.Rect {
	var rooms []gamemap.Rect
	for i := 0; i < placeAttempts && len(rooms) < p.Rooms.Count; i++ {
		pos := b.randomTile()
		size := b.RoomSize(p.Rooms, 1)
		r := gamemap.Rect{X: pos.X, Y: pos.Y, W: size.X, H: size.Y}
		if !b.isAreaClearForCaveRoom(r, p) {
			continue
		}
		b.buildCaveRoom(r, p)
		rooms = append(rooms, r)
		b.logf("room %d,%d (%dx%d)", r.X, r.Y, r.W, r.H)
	}
	return rooms
}

// edgeOutside returns the tiles just outside edge tile v of r: diagonally
// outside, then outside along x, then outside along y. At a non-corner edge
// two of the three coincide with v or each other.
func edgeOutside(r gamemap.Rect, v gamemap.Point) (out, outX, outY gamemap.Point) {
	isTop, isBottom := v.Y == r.Y, v.Y == r.Y+r.H-1
	isLeft, isRight := v.X == r.X, v.X == r.X+r.W-1
	out = v
	switch {
	case isLeft:
		out.X = r.X - 1
	case isRight:
		out.X = r.X + r.W
	}
	switch {
	case isTop:
		out.Y = r.Y - 1
	case isBottom:
		out.Y = r.Y + r.H
	}
	return out, gamemap.Point{X: out.X, Y: v.Y}, gamemap.Point{X: v.X, Y: out.Y}
}

func isCorner(r gamemap.Rect, v gamemap.Point) bool {
	return (v.X == r.X || v.X == r.X+r.W-1) && (v.Y == r.Y || v.Y == r.Y+r.H-1)
}

func (b *Builder) caveRoomInsideOK(v gamemap.Point) bool {
	c, ok := b.class(v)
	return ok && c.IsRoom
}

func (b *Builder) caveRoomOutsideOK(v gamemap.Point) bool {
	c, ok := b.class(v)
	return ok && c.IsFloor()
}

// isAreaClearForCaveRoom reports whether room r can be placed without
// sealing off part of the cave. Open edge tiles must continue into open
// floor outside, and at least one of them must be off the corners so the
// room gets a door. Overlaps with existing rooms are allowed only when
// enabled and when the merged passage is at least a corridor wide.
func (b *Builder) isAreaClearForCaveRoom(r gamemap.Rect, p mission.CaveParams) bool {
	if !b.IsAreaInside(r) {
		return false
	}
	hasFloor, hasFloorAtEdge, overlap := false, false, false
	ok := true
	r.Each(func(v gamemap.Point) {
		c, _ := b.class(v)
		switch {
		case c.IsFloor() && !c.IsRoom:
			hasFloor = true
			if r.IsAtEdge(v) && !isCorner(r, v) {
				hasFloorAtEdge = true
			}
		case c.IsRoom || c.IsDoor():
			overlap = true
		case !c.IsWall():
			ok = false
		}
	})
	if !ok || !hasFloor || !hasFloorAtEdge {
		return false
	}

	ok = true
	r.Each(func(v gamemap.Point) {
		if !ok || !r.IsAtEdge(v) {
			return
		}
		out, outX, outY := edgeOutside(r, v)
		c, _ := b.class(v)
		switch c.Type {
		case gamemap.TileDoor, gamemap.TileWall:
			if b.caveRoomInsideOK(out) || b.caveRoomInsideOK(outX) || b.caveRoomInsideOK(outY) {
				overlap = true
			}
		case gamemap.TileFloor:
			if !b.caveRoomOutsideOK(out) || !b.caveRoomOutsideOK(outX) || !b.caveRoomOutsideOK(outY) {
				ok = false
			}
		default:
			panic("generate: unexpected tile type in cave room " + c.Type.String())
		}
	})
	if !ok {
		return false
	}

	if overlap {
		if !p.Rooms.Overlap {
			return false
		}
		if b.RoomOverlapSize(r, nil) < p.CorridorWidth {
			return false
		}
	}
	return true
}

// buildCaveRoom walls in r. Edge tiles that open onto floor become doors
// (room floor when doors are off); corners and tiles at the map edge become
// walls.
func (b *Builder) buildCaveRoom(r gamemap.Rect, p mission.CaveParams) {
	opening := b.Tiles.Room
	if p.Doors.Enabled {
		opening = b.Tiles.Door
	}
	r.Each(func(v gamemap.Point) {
		if !r.IsAtEdge(v) {
			return
		}
		if isCorner(r, v) {
			b.set(v, b.Tiles.Wall)
			return
		}
		out, outX, outY := edgeOutside(r, v)
		atMapEdge := v.X == 0 || v.Y == 0 || v.X == b.Map.Width-1 || v.Y == b.Map.Height-1
		if b.isType(v, gamemap.TileDoor) {
			if !b.caveRoomOutsideOK(out) && !b.caveRoomOutsideOK(outX) && !b.caveRoomOutsideOK(outY) {
				b.set(v, b.Tiles.Wall)
			}
			return
		}
		if !atMapEdge &&
			(out == v || b.caveRoomOutsideOK(out)) &&
			(outX == v || b.caveRoomOutsideOK(outX)) &&
			(outY == v || b.caveRoomOutsideOK(outY)) {
			b.set(v, opening)
		} else {
			b.set(v, b.Tiles.Wall)
		}
	})
	b.MakeRoom(r, false, true)
	b.MakeRoomWalls(p.Rooms, r)
}

// placeKeyCards drops a key card for every lock colour in use. Card k goes
// in a room behind lock k-1, so collecting them in order opens every room.
func (b *Builder) placeKeyCards() {
	for k := b.Map.KeyAccessCount - 1; k >= 0; k-- {
		var access uint16
		if k > 0 {
			access = gamemap.AccessMask(k - 1)
		}
		b.placeKeyCard(k, access)
	}
}

func (b *Builder) placeKeyCard(k int, access uint16) {
	good := func(v gamemap.Point, needRoom bool) bool {
		t, ok := b.Map.Get(v)
		if !ok || !t.Walkable() || t.LeaveFree || t.Access != access || (needRoom && !t.Class.IsRoom) {
			return false
		}
		below, ok := b.Map.Get(gamemap.Point{X: v.X, Y: v.Y + 1})
		return ok && below.Walkable() && !below.LeaveFree
	}
	for range placeAttempts {
		if v := b.randomTile(); good(v, true) {
			b.PlaceKey(v, k)
			return
		}
	}
	for _, needRoom := range []bool{true, false} {
		for y := range b.Map.Height {
			for x := range b.Map.Width {
				if v := (gamemap.Point{X: x, Y: y}); good(v, needRoom) {
					b.PlaceKey(v, k)
					return
				}
			}
		}
	}
	b.logf("no tile for %s key", gamemap.KeyName(k))
}

// placeCaveStart puts the start on open unlocked floor outside any room,
// then on any walkable tile. A map with no walkable tile at all gets a
// single floor tile carved at its centre for the start.
func (b *Builder) placeCaveStart() {
	good := func(v gamemap.Point) bool {
		t, ok := b.Map.Get(v)
		return ok && t.Walkable() && !t.Class.IsRoom && !t.Class.IsDoor() && t.Access == 0 && !t.LeaveFree
	}
	for range placeAttempts {
		if v := b.randomTile(); good(v) {
			b.Map.Start = v
			return
		}
	}
	for _, fn := range []func(gamemap.Point) bool{good, b.walkable} {
		for y := range b.Map.Height {
			for x := range b.Map.Width {
				if v := (gamemap.Point{X: x, Y: y}); fn(v) {
					b.Map.Start = v
					return
				}
			}
		}
	}
	b.Map.Start = b.Map.Bounds().Center()
	b.carve(b.Map.Start)
	b.logf("no open floor, start carved at %d,%d", b.Map.Start.X, b.Map.Start.Y)
}

// placeRandomExit adds a 9x9 exit whose centre can be walked on. No exit is
// added when none of the attempts finds a walkable centre.
func (b *Builder) placeRandomExit(missionIndex int) {
	e := gamemap.Exit{Mission: missionIndex + 1}
	e.R.W, e.R.H = exitSize+1, exitSize+1
	for range 10000 {
		e.R.X = b.Rand.Intn(b.Map.Width - exitSize - 1)
		e.R.Y = b.Rand.Intn(b.Map.Height - exitSize - 1)
		c := e.R.Center()
		if b.Map.IsWalkable(c.X, c.Y) {
			b.Map.Exits = append(b.Map.Exits, e)
			return
		}
	}
	b.logf("no walkable tile for the exit")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
