package render

import (
	"cdogs-mapgen/internal/gamemap"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	s.SetSize(w, h)
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	return s
}

func TestCameraRoundTrip(t *testing.T) {
	for _, cw := range []int{1, 2} {
		c := NewCamera(10, 10, 40, 20, cw)
		sx, sy, ok := c.WorldToScreen(10, 10)
		if !ok {
			t.Fatalf("cell width %d: centre not visible", cw)
		}
		if x, y := c.ScreenToWorld(sx, sy); x != 10 || y != 10 {
			t.Errorf("cell width %d: round trip gave (%d,%d)", cw, x, y)
		}
		if _, _, ok := c.WorldToScreen(10+40/cw, 10); ok {
			t.Errorf("cell width %d: tile past the right edge reported visible", cw)
		}
	}
}

func TestDrawMapASCII(t *testing.T) {
	s := newTestScreen(t, 10, 3+HUDHeight)
	defer s.Fini()
	tiles := gamemap.DefaultTileClasses()
	m := gamemap.New(3, 3, tiles.Wall)
	m.SetClass(gamemap.Point{X: 1, Y: 1}, tiles.Floor)
	m.Start = gamemap.Point{X: 1, Y: 1}

	r := NewRenderer(s, ASCIITheme)
	r.camera.OffsetX, r.camera.OffsetY = 0, 0
	r.DrawMap(m, false)

	if mainc, _, _, _ := s.GetContent(0, 0); mainc != '#' {
		t.Errorf("(0,0) = %q, want '#'", mainc)
	}
	if mainc, _, _, _ := s.GetContent(1, 1); mainc != '@' {
		t.Errorf("(1,1) = %q, want '@'", mainc)
	}
}

func TestDrawMapFogHidesUnexplored(t *testing.T) {
	s := newTestScreen(t, 10, 3+HUDHeight)
	defer s.Fini()
	tiles := gamemap.DefaultTileClasses()
	m := gamemap.New(3, 3, tiles.Wall)
	m.At(2, 2).Explored = true

	r := NewRenderer(s, ASCIITheme)
	r.camera.OffsetX, r.camera.OffsetY = 0, 0
	r.DrawMap(m, true)

	if mainc, _, _, _ := s.GetContent(0, 0); mainc == '#' {
		t.Error("unexplored tile drawn under fog")
	}
	mainc, _, style, _ := s.GetContent(2, 2)
	if mainc != '#' {
		t.Fatalf("explored tile not drawn, got %q", mainc)
	}
	if fg, _, _ := style.Decompose(); fg != ASCIITheme.Dim {
		t.Errorf("explored tile out of sight should be dimmed, fg=%v", fg)
	}
}

func TestThemesCoverGlyphs(t *testing.T) {
	for _, th := range Themes {
		for _, g := range []byte("#.,:%+x@ YGBRygbr") {
			if _, ok := th.Cells[g]; !ok {
				t.Errorf("theme %s has no cell for %q", th.Name, g)
			}
		}
	}
}
