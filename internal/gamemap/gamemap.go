package gamemap

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{p.X + d.X, p.Y + d.Y} }

// Rect is an axis-aligned rectangle given by its top-left corner and size.
// A rect covers X..X+W-1 and Y..Y+H-1.
type Rect struct {
	X, Y, W, H int
}

// Center returns the tile at the middle of the rectangle.
func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// IsAtEdge reports whether p lies on the perimeter of r.
func (r Rect) IsAtEdge(p Point) bool {
	return r.Contains(p) &&
		(p.X == r.X || p.X == r.X+r.W-1 || p.Y == r.Y || p.Y == r.Y+r.H-1)
}

// Intersects reports whether r and other share at least one tile.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.W && other.X < r.X+r.W &&
		r.Y < other.Y+other.H && other.Y < r.Y+r.H
}

// Inset shrinks r by n tiles on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{r.X + n, r.Y + n, r.W - 2*n, r.H - 2*n}
}

// Each calls fn for every tile of r in row-major order.
func (r Rect) Each(fn func(p Point)) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			fn(Point{x, y})
		}
	}
}

// Exit is a region that ends the mission when entered.
type Exit struct {
	R       Rect
	Mission int
	Hidden  bool
}

// Map holds the tile grid and placement results for one generated level.
type Map struct {
	Width, Height  int
	Tiles          [][]Tile
	Start          Point
	Exits          []Exit
	Keys           []Key
	KeyAccessCount int
}

// New creates a Map filled with tiles of class fill.
func New(width, height int, fill TileClass) *Map {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = MakeTile(fill)
		}
	}
	return &Map{Width: width, Height: height, Tiles: tiles}
}

// Size returns the map dimensions.
func (m *Map) Size() Point { return Point{m.Width, m.Height} }

// Bounds returns the rect covering the whole map.
func (m *Map) Bounds() Rect { return Rect{0, 0, m.Width, m.Height} }

// InBounds reports whether (x, y) is within the map boundaries.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// At returns a pointer to the tile at (x, y). Panics if out of bounds.
func (m *Map) At(x, y int) *Tile {
	return &m.Tiles[y][x]
}

// Get returns the tile at p and whether p is on the map.
func (m *Map) Get(p Point) (Tile, bool) {
	if !m.InBounds(p.X, p.Y) {
		return Tile{}, false
	}
	return m.Tiles[p.Y][p.X], true
}

// Set replaces the tile at (x, y).
func (m *Map) Set(x, y int, t Tile) {
	m.Tiles[y][x] = t
}

// SetClass changes the class at p, keeping access and markers.
func (m *Map) SetClass(p Point, c TileClass) {
	m.Tiles[p.Y][p.X].Class = c
}

// Class returns the class at p and whether p is on the map.
func (m *Map) Class(p Point) (TileClass, bool) {
	if !m.InBounds(p.X, p.Y) {
		return TileClass{}, false
	}
	return m.Tiles[p.Y][p.X].Class, true
}

// Access returns the access mask at p, 0 when off the map.
func (m *Map) Access(p Point) uint16 {
	if !m.InBounds(p.X, p.Y) {
		return 0
	}
	return m.Tiles[p.Y][p.X].Access
}

// SetAccess sets the access mask at p.
func (m *Map) SetAccess(p Point, mask uint16) {
	m.Tiles[p.Y][p.X].Access = mask
}

// IsWall reports whether p is on the map and a wall.
func (m *Map) IsWall(p Point) bool {
	c, ok := m.Class(p)
	return ok && c.IsWall()
}

// IsWalkable returns true when (x, y) is in bounds and walkable.
func (m *Map) IsWalkable(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	return m.Tiles[y][x].Walkable()
}

// IsTransparent returns true when (x, y) is in bounds and transparent.
func (m *Map) IsTransparent(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	return m.Tiles[y][x].Transparent()
}

// KeyAt returns the key placed at p, if any.
func (m *Map) KeyAt(p Point) (Key, bool) {
	for _, k := range m.Keys {
		if k.Pos == p {
			return k, true
		}
	}
	return Key{}, false
}

// ExitAt reports whether p lies inside any exit.
func (m *Map) ExitAt(p Point) bool {
	for _, e := range m.Exits {
		if e.R.Contains(p) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	c := *m
	c.Tiles = make([][]Tile, len(m.Tiles))
	for y := range m.Tiles {
		c.Tiles[y] = append([]Tile(nil), m.Tiles[y]...)
	}
	c.Exits = append([]Exit(nil), m.Exits...)
	c.Keys = append([]Key(nil), m.Keys...)
	return &c
}
