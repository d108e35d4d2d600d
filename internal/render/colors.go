package render

import "github.com/gdamore/tcell/v2"

// Cell is how one map glyph is drawn.
type Cell struct {
	Glyph string
	Color tcell.Color
}

// Theme maps the ASCII glyphs of gamemap.Format to screen cells. Emoji are
// rendered by the terminal with their own colors, so emoji themes rely on
// distinct glyphs rather than tinting.
type Theme struct {
	Name      string
	CellWidth int
	Cells     map[byte]Cell
	// Dim replaces the color of explored tiles that are out of sight.
	Dim tcell.Color
}

// Cell returns the cell for glyph g, falling back to the glyph itself.
func (t Theme) Cell(g byte) Cell {
	if c, ok := t.Cells[g]; ok {
		return c
	}
	return Cell{Glyph: string(g), Color: tcell.ColorWhite}
}

// ASCIITheme draws the map with the same characters as the text dump.
var ASCIITheme = Theme{
	Name:      "ascii",
	CellWidth: 1,
	Dim:       tcell.ColorDarkSlateGray,
	Cells: map[byte]Cell{
		'#': {"#", tcell.ColorGray},
		'.': {".", tcell.ColorDarkKhaki},
		',': {".", tcell.ColorLightSteelBlue},
		':': {":", tcell.ColorTan},
		'%': {".", tcell.ColorOrchid},
		'+': {"+", tcell.ColorSaddleBrown},
		'x': {"x", tcell.ColorLimeGreen},
		'@': {"@", tcell.ColorWhite},
		' ': {" ", tcell.ColorDefault},
		'Y': {"Y", tcell.ColorYellow},
		'G': {"G", tcell.ColorGreen},
		'B': {"B", tcell.ColorBlue},
		'R': {"R", tcell.ColorRed},
		'y': {"+", tcell.ColorYellow},
		'g': {"+", tcell.ColorGreen},
		'b': {"+", tcell.ColorBlue},
		'r': {"+", tcell.ColorRed},
	},
}

// EmojiTheme draws the map with two-column emoji.
var EmojiTheme = Theme{
	Name:      "emoji",
	CellWidth: 2,
	Dim:       tcell.ColorDarkSlateGray,
	Cells: map[byte]Cell{
		'#': {"🧱", tcell.ColorDefault},
		'.': {"🟫", tcell.ColorDefault},
		',': {"⬜", tcell.ColorDefault},
		':': {"🟨", tcell.ColorDefault},
		'%': {"🟪", tcell.ColorDefault},
		'+': {"🚪", tcell.ColorDefault},
		'x': {"🟩", tcell.ColorDefault},
		'@': {"🧑", tcell.ColorDefault},
		' ': {"  ", tcell.ColorDefault},
		'Y': {"🔑", tcell.ColorYellow},
		'G': {"🗝", tcell.ColorGreen},
		'B': {"🔵", tcell.ColorBlue},
		'R': {"🔴", tcell.ColorRed},
		'y': {"🟡", tcell.ColorYellow},
		'g': {"🟢", tcell.ColorGreen},
		'b': {"🔷", tcell.ColorBlue},
		'r': {"🟥", tcell.ColorRed},
	},
}

// Themes lists the selectable themes in cycling order.
var Themes = []Theme{ASCIITheme, EmojiTheme}
