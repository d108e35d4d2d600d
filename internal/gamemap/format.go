package gamemap

import (
	"fmt"
	"strings"
)

// Glyph returns the ASCII glyph used by Format for the tile at p.
func (m *Map) Glyph(p Point) byte {
	if p == m.Start {
		return '@'
	}
	if k, ok := m.KeyAt(p); ok {
		return "YGBR"[k.Index]
	}
	t := m.Tiles[p.Y][p.X]
	switch t.Class.Type {
	case TileWall:
		return '#'
	case TileDoor:
		if k := KeyIndex(t.Access); k >= 0 {
			return "ygbr"[k]
		}
		return '+'
	case TileNothing:
		return ' '
	case TileFloor:
	default:
		panic(fmt.Sprintf("gamemap: unknown tile type %d", t.Class.Type))
	}
	switch {
	case m.ExitAt(p):
		return 'x'
	case t.Class.IsSquare:
		return ':'
	case t.Class.IsRoom && t.Access != 0:
		return '%'
	case t.Class.IsRoom:
		return ','
	}
	return '.'
}

// Format renders the map as one line of ASCII per row.
//
//	# wall   . floor   , room   % locked room   + door
//	y g b r  locked door by key colour
//	Y G B R  key card  @ start   x exit   : square
func Format(m *Map) string {
	var b strings.Builder
	b.Grow((m.Width + 1) * m.Height)
	for y := range m.Height {
		for x := range m.Width {
			b.WriteByte(m.Glyph(Point{x, y}))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String implements fmt.Stringer using Format.
func (m *Map) String() string { return Format(m) }
