package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Status is the information shown on the HUD status line.
type Status struct {
	Kind     string
	Width    int
	Height   int
	Seed     int64
	Keys     int
	Locks    int
	Exits    int
	Cursor   string
	Fog      bool
	Sight    string
	Messages []string
}

// DrawHUD renders the status bar and message log at the bottom of the screen.
func (r *Renderer) DrawHUD(s Status) {
	_, screenH := r.screen.Size()
	hudY := screenH - HUDHeight

	r.drawHLine(hudY, tcell.ColorGray)

	fog := "off"
	if s.Fog {
		fog = "on"
	}
	status := fmt.Sprintf("%s %dx%d  seed:%d  keys:%d locks:%d exits:%d  fog:%s  theme:%s",
		s.Kind, s.Width, s.Height, s.Seed, s.Keys, s.Locks, s.Exits, fog, r.theme.Name)
	r.drawText(0, hudY+1, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	r.drawText(0, hudY+2, s.Cursor+"  "+s.Sight, tcell.StyleDefault.Foreground(tcell.ColorLightCyan))

	start := max(len(s.Messages)-2, 0)
	for i, msg := range s.Messages[start:] {
		r.drawText(0, hudY+3+i, msg, tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	}

	r.screen.Show()
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := range w {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col++
	}
}
