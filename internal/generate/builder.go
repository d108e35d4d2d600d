package generate

import (
	"cdogs-mapgen/internal/gamemap"
	"cdogs-mapgen/internal/mission"
	"math/rand"
)

// Builder mutates a Map during generation. It owns the random source so
// that every draw happens in a fixed order for a given seed.
type Builder struct {
	Map   *gamemap.Map
	Tiles gamemap.TileClasses
	Rand  *rand.Rand
	Logf  func(format string, args ...any)
}

// NewBuilder returns a builder over a fresh map of the given size filled
// with the Nothing class.
func NewBuilder(width, height int, tiles gamemap.TileClasses, rng *rand.Rand) *Builder {
	return &Builder{
		Map:   gamemap.New(width, height, tiles.Nothing),
		Tiles: tiles,
		Rand:  rng,
	}
}

func (b *Builder) logf(format string, args ...any) {
	if b.Logf != nil {
		b.Logf(format, args...)
	}
}

// randInt returns a uniform integer in [lo, hi].
func (b *Builder) randInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + b.Rand.Intn(hi-lo+1)
}

func (b *Builder) coin() bool {
	return b.Rand.Intn(2) == 0
}

func (b *Builder) randomTile() gamemap.Point {
	return gamemap.Point{X: b.Rand.Intn(b.Map.Width), Y: b.Rand.Intn(b.Map.Height)}
}

// class returns the class at p; ok is false off the map.
func (b *Builder) class(p gamemap.Point) (gamemap.TileClass, bool) {
	return b.Map.Class(p)
}

func (b *Builder) set(p gamemap.Point, c gamemap.TileClass) {
	if b.Map.InBounds(p.X, p.Y) {
		b.Map.SetClass(p, c)
	}
}

func (b *Builder) isType(p gamemap.Point, t gamemap.TileType) bool {
	c, ok := b.class(p)
	return ok && c.Type == t
}

func (b *Builder) isRoomFloor(p gamemap.Point) bool {
	c, ok := b.class(p)
	return ok && c.IsFloor() && c.IsRoom
}

func (b *Builder) walkable(p gamemap.Point) bool {
	return b.Map.IsWalkable(p.X, p.Y)
}

// setLeaveFree marks p so later placement leaves it alone.
func (b *Builder) setLeaveFree(p gamemap.Point) {
	if b.Map.InBounds(p.X, p.Y) {
		b.Map.At(p.X, p.Y).LeaveFree = true
	}
}

func (b *Builder) isLeaveFree(p gamemap.Point) bool {
	return b.Map.InBounds(p.X, p.Y) && b.Map.At(p.X, p.Y).LeaveFree
}

// PlaceKey records key k at p and reserves the tile.
func (b *Builder) PlaceKey(p gamemap.Point, k int) {
	b.Map.Keys = append(b.Map.Keys, gamemap.Key{Pos: p, Index: k})
	b.setLeaveFree(p)
	b.logf("key %s at %d,%d", gamemap.KeyName(k), p.X, p.Y)
}

// RoomSize picks a room size large enough to hold a door run of doorMin.
func (b *Builder) RoomSize(r mission.RoomParams, doorMin int) gamemap.Point {
	lo := max(r.Min, doorMin+2)
	hi := max(r.Max, doorMin+2)
	return gamemap.Point{X: b.randInt(lo, hi), Y: b.randInt(lo, hi)}
}

// GenerateAccessMask rolls a lock colour for the next room. Colours unlock
// in order: a colour can only be rolled once the previous one is in use.
// Only the first keys colours are ever rolled. level counts the colours in
// use plus one and is raised as needed.
func (b *Builder) GenerateAccessMask(level *int, keys int) uint16 {
	k := -1
	switch b.Rand.Intn(20) {
	case 0:
		k = 3
	case 1, 2:
		k = 2
	case 3, 4, 5:
		k = 1
	case 6, 7, 8, 9:
		k = 0
	}
	var mask uint16
	if k >= 0 && k < keys && *level >= k+1 {
		mask = gamemap.AccessMask(k)
		*level = max(*level, k+2)
	}
	*level = max(*level, 1)
	return mask
}
