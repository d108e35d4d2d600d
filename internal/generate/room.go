package generate

import (
	"cdogs-mapgen/internal/gamemap"
	"cdogs-mapgen/internal/mission"
)

// Door sides, in the order PlaceDoors and the corridor search test them.
const (
	sideLeft = iota
	sideRight
	sideTop
	sideBottom
)

// MakeRoom stamps r as a room: the perimeter becomes wall, except where it
// is already room floor, and the interior becomes room floor. With walls
// false the perimeter is left untouched. With removeInterRoomWalls set, any
// perimeter wall with room floor on two opposing sides is opened up so that
// overlapping rooms merge.
func (b *Builder) MakeRoom(r gamemap.Rect, walls, removeInterRoomWalls bool) {
	r.Each(func(p gamemap.Point) {
		if !r.IsAtEdge(p) {
			b.set(p, b.Tiles.Room)
			return
		}
		if c, ok := b.class(p); walls && ok && !c.IsRoom {
			b.set(p, b.Tiles.Wall)
		}
	})
	if !removeInterRoomWalls {
		return
	}
	r.Each(func(p gamemap.Point) {
		if !r.IsAtEdge(p) {
			return
		}
		if (b.isRoomFloor(gamemap.Point{X: p.X + 1, Y: p.Y}) && b.isRoomFloor(gamemap.Point{X: p.X - 1, Y: p.Y})) ||
			(b.isRoomFloor(gamemap.Point{X: p.X, Y: p.Y + 1}) && b.isRoomFloor(gamemap.Point{X: p.X, Y: p.Y - 1})) {
			b.set(p, b.Tiles.Room)
		}
	})
}

// PlaceDoors stamps mask over r, then opens a run of doors on every side
// flagged in sides. A run stops at the first tile that is not a wall or that
// would open onto a wall.
func (b *Builder) PlaceDoors(r gamemap.Rect, sides [4]bool, d mission.DoorParams, mask uint16) {
	tile := b.Tiles.Room
	if d.Enabled {
		tile = b.Tiles.Door
	}
	b.SetRoomAccessMask(r, mask)

	for side, on := range sides {
		if !on {
			continue
		}
		size := d.Min
		if d.Max > d.Min {
			size = b.randInt(d.Min, d.Max)
		}
		var roomDim int
		var dir, start gamemap.Point
		switch side {
		case sideLeft:
			roomDim, dir, start = r.H, gamemap.Point{X: 1}, gamemap.Point{X: r.X, Y: r.Y}
		case sideRight:
			roomDim, dir, start = r.H, gamemap.Point{X: 1}, gamemap.Point{X: r.X + r.W - 1, Y: r.Y}
		case sideTop:
			roomDim, dir, start = r.W, gamemap.Point{Y: 1}, gamemap.Point{X: r.X, Y: r.Y}
		case sideBottom:
			roomDim, dir, start = r.W, gamemap.Point{Y: 1}, gamemap.Point{X: r.X, Y: r.Y + r.H - 1}
		}
		b.placeDoorRun(size, roomDim, start, dir, d.RandomPos, tile)
	}
}

func (b *Builder) placeDoorRun(size, roomDim int, start, dir gamemap.Point, randomPos bool, tile gamemap.TileClass) {
	across := gamemap.Point{X: 1 - dir.X, Y: 1 - dir.Y}
	size = min(size, roomDim-2)
	if size <= 0 {
		return
	}
	offset := (roomDim - size) / 2
	if randomPos {
		offset = b.randInt(1, roomDim-size-1)
	}
	for i := range size {
		k := offset + i
		v := gamemap.Point{X: start.X + across.X*k, Y: start.Y + across.Y*k}
		if !b.tryPlaceDoorTile(v, dir, tile) {
			break
		}
	}
}

func (b *Builder) tryPlaceDoorTile(v, dir gamemap.Point, tile gamemap.TileClass) bool {
	out := gamemap.Point{X: v.X + dir.X, Y: v.Y + dir.Y}
	in := gamemap.Point{X: v.X - dir.X, Y: v.Y - dir.Y}
	if !b.isType(v, gamemap.TileWall) || b.isType(out, gamemap.TileWall) || b.isType(in, gamemap.TileWall) {
		return false
	}
	b.set(v, tile)
	return true
}

// FillRect sets the perimeter of r to edge and the rest to fill.
func (b *Builder) FillRect(r gamemap.Rect, edge, fill gamemap.TileClass) {
	r.Each(func(p gamemap.Point) {
		if r.IsAtEdge(p) {
			b.set(p, edge)
		} else {
			b.set(p, fill)
		}
	})
}

// SetRoomAccessMask sets the access mask of every tile in r.
func (b *Builder) SetRoomAccessMask(r gamemap.Rect, mask uint16) {
	r.Each(func(p gamemap.Point) {
		if b.Map.InBounds(p.X, p.Y) {
			b.Map.SetAccess(p, mask)
		}
	})
}

// SetRoomAccessMaskOverlap locks rooms[0] and every room transitively
// overlapping it with mask. Locked rooms are removed; the remaining rooms
// are returned.
func (b *Builder) SetRoomAccessMaskOverlap(rooms []gamemap.Rect, mask uint16) []gamemap.Rect {
	if len(rooms) == 0 {
		return rooms
	}
	cluster := []gamemap.Rect{rooms[0]}
	for i := 0; i < len(cluster); i++ {
		for j := 0; j < len(rooms); j++ {
			r := rooms[j]
			if !cluster[i].Intersects(r) {
				continue
			}
			b.logf("room overlap %v %v access %#x", cluster[i], r, mask)
			b.SetRoomAccessMask(r, mask)
			cluster = append(cluster, r)
			rooms = append(rooms[:j], rooms[j+1:]...)
			j--
		}
	}
	return rooms
}

// MakeRoomWalls grows up to r.Walls decorative walls inside room.
func (b *Builder) MakeRoomWalls(r mission.RoomParams, room gamemap.Rect) {
	count := 0
	for i := 0; i < 100 && count < r.Walls; i++ {
		if b.TryBuildWall(true, max(r.WallPad, 1), r.WallLength, room) {
			count++
		}
	}
}

// TryBuildWall picks a random tile in area (the whole map when area is
// empty) and, if it has pad tiles of clearance, grows a wall from it.
func (b *Builder) TryBuildWall(isRoom bool, pad, length int, area gamemap.Rect) bool {
	var v gamemap.Point
	if area.W <= 0 || area.H <= 0 {
		v = b.randomTile()
	} else {
		v = gamemap.Point{X: area.X + b.Rand.Intn(area.W), Y: area.Y + b.Rand.Intn(area.H)}
	}
	if !b.isValidStartForWall(v, isRoom, pad) {
		return false
	}
	b.set(v, b.Tiles.Wall)
	b.growWall(v, isRoom, pad, b.Rand.Intn(4), length)
	return true
}

func (b *Builder) isValidStartForWall(p gamemap.Point, isRoom bool, pad int) bool {
	if p.X <= 0 || p.Y <= 0 || p.X >= b.Map.Width-1 || p.Y >= b.Map.Height-1 {
		return false
	}
	for y := p.Y - pad; y <= p.Y+pad; y++ {
		for x := p.X - pad; x <= p.X+pad; x++ {
			c, ok := b.class(gamemap.Point{X: x, Y: y})
			if !ok || !c.IsFloor() || c.IsRoom != isRoom {
				return false
			}
		}
	}
	return true
}

// wallDirs is indexed by growth direction: up, right, down, left.
var wallDirs = [4]gamemap.Point{{Y: -1}, {X: 1}, {Y: 1}, {X: -1}}

// growWall extends a wall from pos in direction d for up to length tiles,
// stopping when the widening wedge ahead is not clear floor. Each step may
// branch off in a random direction.
func (b *Builder) growWall(pos gamemap.Point, isRoom bool, pad, d, length int) {
	dir := wallDirs[d]
	across := gamemap.Point{X: dir.Y, Y: dir.X}
	for length > 0 {
		next := pos.Add(dir)
		if next.X <= 0 || next.Y <= 0 || next.X >= b.Map.Width-1 || next.Y >= b.Map.Height-1 {
			return
		}
		//   xxxxx
		//    xxx
		//     o
		for level := range pad {
			dist := 2 + level
			for k := -1 - level; k <= 1+level; k++ {
				v := gamemap.Point{
					X: pos.X + dir.X*dist + across.X*k,
					Y: pos.Y + dir.Y*dist + across.Y*k,
				}
				if !b.growWallCheck(v, isRoom) {
					return
				}
			}
		}
		pos = next
		b.set(pos, b.Tiles.Wall)
		length--
		if length > 0 && b.Rand.Intn(4) == 0 {
			l := b.Rand.Intn(length)
			b.growWall(pos, isRoom, pad, b.Rand.Intn(4), l)
			length -= l
		}
	}
}

func (b *Builder) growWallCheck(v gamemap.Point, isRoom bool) bool {
	c, ok := b.class(v)
	if !ok {
		return true
	}
	return c.IsFloor() && c.IsRoom == isRoom
}
