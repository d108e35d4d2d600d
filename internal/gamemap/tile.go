package gamemap

import "fmt"

// TileType is the structural type shared by every tile class.
type TileType uint8

const (
	TileNothing TileType = iota
	TileFloor
	TileWall
	TileDoor
)

func (t TileType) String() string {
	switch t {
	case TileNothing:
		return "nothing"
	case TileFloor:
		return "floor"
	case TileWall:
		return "wall"
	case TileDoor:
		return "door"
	}
	panic(fmt.Sprintf("gamemap: unknown tile type %d", uint8(t)))
}

// TileClass is an immutable description of what a tile is. Generators stamp
// classes from a TileClasses table into the grid and only ever compare them.
type TileClass struct {
	Name     string   `json:"name"`
	Type     TileType `json:"-"`
	IsRoom   bool     `json:"-"`
	IsSquare bool     `json:"-"`
	CanWalk  bool     `json:"-"`
}

func (c TileClass) IsWall() bool  { return c.Type == TileWall }
func (c TileClass) IsFloor() bool { return c.Type == TileFloor }
func (c TileClass) IsDoor() bool  { return c.Type == TileDoor }

// IsClear reports whether the class is plain floor that is not part of a room.
func (c TileClass) IsClear() bool { return c.Type == TileFloor && !c.IsRoom }

// TileClasses is the closed vocabulary of classes a generator may stamp.
// Only the names are configurable; the structural flags are fixed by slot.
type TileClasses struct {
	Floor   TileClass `json:"floor"`
	Wall    TileClass `json:"wall"`
	Room    TileClass `json:"room"`
	Door    TileClass `json:"door"`
	Nothing TileClass `json:"nothing"`
	Square  TileClass `json:"square"`
}

// DefaultTileClasses returns the stock class table.
func DefaultTileClasses() TileClasses {
	return TileClasses{
		Floor:   MakeFloorClass("floor"),
		Wall:    MakeWallClass("wall"),
		Room:    MakeRoomClass("room"),
		Door:    MakeDoorClass("door"),
		Nothing: MakeNothingClass("nothing"),
		Square:  MakeSquareClass("square"),
	}
}

// Normalize restores the structural flags of every slot, keeping names.
// Missing names fall back to the defaults.
func (tc TileClasses) Normalize() TileClasses {
	def := DefaultTileClasses()
	name := func(c, d TileClass) string {
		if c.Name == "" {
			return d.Name
		}
		return c.Name
	}
	return TileClasses{
		Floor:   MakeFloorClass(name(tc.Floor, def.Floor)),
		Wall:    MakeWallClass(name(tc.Wall, def.Wall)),
		Room:    MakeRoomClass(name(tc.Room, def.Room)),
		Door:    MakeDoorClass(name(tc.Door, def.Door)),
		Nothing: MakeNothingClass(name(tc.Nothing, def.Nothing)),
		Square:  MakeSquareClass(name(tc.Square, def.Square)),
	}
}

// MakeWallClass returns a blocking wall class.
func MakeWallClass(name string) TileClass {
	return TileClass{Name: name, Type: TileWall}
}

// MakeFloorClass returns open, walkable floor outside any room.
func MakeFloorClass(name string) TileClass {
	return TileClass{Name: name, Type: TileFloor, CanWalk: true}
}

// MakeRoomClass returns walkable floor belonging to a room interior.
func MakeRoomClass(name string) TileClass {
	return TileClass{Name: name, Type: TileFloor, IsRoom: true, CanWalk: true}
}

// MakeDoorClass returns a walkable door.
func MakeDoorClass(name string) TileClass {
	return TileClass{Name: name, Type: TileDoor, CanWalk: true}
}

// MakeNothingClass returns void: not walkable, not a wall.
func MakeNothingClass(name string) TileClass {
	return TileClass{Name: name, Type: TileNothing}
}

// MakeSquareClass returns open floor carved by cave square placement.
func MakeSquareClass(name string) TileClass {
	return TileClass{Name: name, Type: TileFloor, IsSquare: true, CanWalk: true}
}

// Tile holds the class, lock state and visibility state for one map cell.
type Tile struct {
	Class     TileClass
	Access    uint16
	LeaveFree bool
	Explored  bool
	Visible   bool
}

// Walkable reports whether actors can stand on the tile.
func (t Tile) Walkable() bool { return t.Class.CanWalk }

// Transparent reports whether the tile lets sight through. Doors block it.
func (t Tile) Transparent() bool { return t.Class.Type == TileFloor }

// MakeTile returns an unlocked tile of class c.
func MakeTile(c TileClass) Tile {
	return Tile{Class: c}
}
