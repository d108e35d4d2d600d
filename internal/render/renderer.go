package render

import (
	"cdogs-mapgen/internal/gamemap"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// HUDHeight is the number of rows reserved at the bottom for the HUD.
const HUDHeight = 5

// Renderer draws a generated map onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
	theme  Theme
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen, theme Theme) *Renderer {
	w, h := screen.Size()
	return &Renderer{
		screen: screen,
		camera: NewCamera(0, 0, w, max(h-HUDHeight, 1), theme.CellWidth),
		theme:  theme,
	}
}

// SetTheme switches theme, keeping the camera centre.
func (r *Renderer) SetTheme(theme Theme) {
	cx, cy := r.camera.ScreenToWorld(r.camera.ViewWidth/2, r.camera.ViewHeight/2)
	r.theme = theme
	r.camera.CellWidth = max(theme.CellWidth, 1)
	r.camera.Center(cx, cy)
}

// Theme returns the current theme.
func (r *Renderer) Theme() Theme { return r.theme }

// Resize adapts the viewport to the current screen size.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.camera.ViewWidth = w
	r.camera.ViewHeight = max(h-HUDHeight, 1)
}

// CenterOn recenters the camera on world position p.
func (r *Renderer) CenterOn(p gamemap.Point) { r.camera.Center(p.X, p.Y) }

// WorldToScreen converts world coordinates to screen coordinates.
// visible is false when the position falls outside the viewport.
func (r *Renderer) WorldToScreen(wx, wy int) (sx, sy int, visible bool) {
	return r.camera.WorldToScreen(wx, wy)
}

// DrawMap renders the map. With fog set, only visible and explored tiles
// are drawn and explored tiles out of sight are dimmed.
func (r *Renderer) DrawMap(m *gamemap.Map, fog bool) {
	r.screen.Clear()
	base := tcell.StyleDefault.Background(tcell.ColorBlack)
	for y := range m.Height {
		for x := range m.Width {
			tile := m.At(x, y)
			if fog && !tile.Visible && !tile.Explored {
				continue
			}
			sx, sy, onScreen := r.camera.WorldToScreen(x, y)
			if !onScreen {
				continue
			}
			c := r.theme.Cell(m.Glyph(gamemap.Point{X: x, Y: y}))
			color := c.Color
			if fog && !tile.Visible {
				color = r.theme.Dim
			}
			r.putGlyph(sx, sy, c.Glyph, base.Foreground(color))
		}
	}
}

// DrawPath highlights pts, typically a sight line.
func (r *Renderer) DrawPath(m *gamemap.Map, pts []gamemap.Point, color tcell.Color) {
	style := tcell.StyleDefault.Background(color).Foreground(tcell.ColorBlack)
	for _, p := range pts {
		if !m.InBounds(p.X, p.Y) {
			continue
		}
		sx, sy, onScreen := r.camera.WorldToScreen(p.X, p.Y)
		if !onScreen {
			continue
		}
		r.putGlyph(sx, sy, r.theme.Cell(m.Glyph(p)).Glyph, style)
	}
}

// DrawCursor marks world position p.
func (r *Renderer) DrawCursor(p gamemap.Point) {
	sx, sy, onScreen := r.camera.WorldToScreen(p.X, p.Y)
	if !onScreen {
		return
	}
	style := tcell.StyleDefault.Reverse(true)
	for i := range r.camera.CellWidth {
		mainc, combc, _, _ := r.screen.GetContent(sx+i, sy)
		r.screen.SetContent(sx+i, sy, mainc, combc, style)
	}
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	if r.camera.CellWidth == 2 && runewidth.StringWidth(glyph) < 2 {
		// Pad narrow glyphs so the grid stays aligned.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
