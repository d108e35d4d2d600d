// Package viewer runs the interactive map preview on a tcell screen.
package viewer

import (
	"cdogs-mapgen/internal/gamemap"
	"cdogs-mapgen/internal/generate"
	"cdogs-mapgen/internal/mission"
	"cdogs-mapgen/internal/render"
	"cdogs-mapgen/internal/sight"
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// fovRadius is how far the cursor sees when fog is on.
const fovRadius = 12

// Viewer owns one preview session: the mission being shown, the map built
// from it, and the UI toggles.
type Viewer struct {
	screen   tcell.Screen
	renderer *render.Renderer
	mission  mission.Mission
	gmap     *gamemap.Map
	cursor   gamemap.Point
	fog      bool
	line     bool
	theme    int
	messages []string
}

// New creates a viewer for m on an initialised screen and builds the
// first map.
func New(screen tcell.Screen, m mission.Mission) (*Viewer, error) {
	v := &Viewer{
		screen:   screen,
		renderer: render.NewRenderer(screen, render.Themes[0]),
		mission:  m,
	}
	if err := v.regenerate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Map returns the map currently shown.
func (v *Viewer) Map() *gamemap.Map { return v.gmap }

// UseTheme switches to the theme with the given name.
func (v *Viewer) UseTheme(name string) error {
	for i, t := range render.Themes {
		if t.Name == name {
			v.theme = i
			v.renderer.SetTheme(t)
			return nil
		}
	}
	return fmt.Errorf("unknown theme %q", name)
}

func (v *Viewer) regenerate() error {
	var trace []string
	gm, err := generate.Generate(&generate.Config{
		Mission: v.mission,
		Logf: func(format string, args ...any) {
			trace = append(trace, fmt.Sprintf(format, args...))
		},
	})
	if err != nil {
		return err
	}
	v.gmap = gm
	v.cursor = gm.Start
	v.addMessage(fmt.Sprintf("generated %s map, seed %d (%d trace events)",
		v.mission.Kind, v.mission.Seed, len(trace)))
	if len(trace) > 0 {
		v.addMessage(trace[len(trace)-1])
	}
	v.updateSight()
	return nil
}

func (v *Viewer) updateSight() {
	if v.fog {
		sight.UpdateFOV(v.gmap, v.cursor, fovRadius)
	} else {
		sight.RevealAll(v.gmap)
	}
}

// Run draws and handles input until the user quits. The caller owns the
// screen and must Fini it.
func (v *Viewer) Run() {
	for {
		v.draw()
		ev := v.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			v.screen.Sync()
			v.renderer.Resize()
		case *tcell.EventKey:
			if !v.handle(keyToAction(ev)) {
				return
			}
		}
	}
}

// handle applies one action and reports whether the session continues.
func (v *Viewer) handle(a Action) bool {
	switch a {
	case ActionQuit:
		return false
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		dx, dy := actionToDelta(a)
		next := gamemap.Point{X: v.cursor.X + dx, Y: v.cursor.Y + dy}
		if v.gmap.InBounds(next.X, next.Y) {
			v.cursor = next
			v.updateSight()
		}
	case ActionNewSeed:
		v.mission.Seed++
		v.regenerateOrReport()
	case ActionSwitchKind:
		if v.mission.Kind == mission.KindCave {
			v.mission.Kind = mission.KindInterior
		} else {
			v.mission.Kind = mission.KindCave
		}
		v.regenerateOrReport()
	case ActionToggleFog:
		v.fog = !v.fog
		if !v.fog {
			sight.RevealAll(v.gmap)
		} else {
			v.clearExplored()
		}
		v.updateSight()
	case ActionToggleLine:
		v.line = !v.line
	case ActionTheme:
		v.theme = (v.theme + 1) % len(render.Themes)
		v.renderer.SetTheme(render.Themes[v.theme])
	case ActionHome:
		v.cursor = v.gmap.Start
		v.updateSight()
	}
	return true
}

func (v *Viewer) regenerateOrReport() {
	if err := v.regenerate(); err != nil {
		v.addMessage("generate: " + err.Error())
	}
}

func (v *Viewer) clearExplored() {
	for y := range v.gmap.Height {
		for x := range v.gmap.Width {
			v.gmap.At(x, y).Explored = false
		}
	}
}

func (v *Viewer) draw() {
	v.renderer.CenterOn(v.cursor)
	v.renderer.DrawMap(v.gmap, v.fog)
	sightText := ""
	if v.line {
		v.renderer.DrawPath(v.gmap, sight.SightLine(v.gmap.Start, v.cursor), tcell.ColorDarkCyan)
		if sight.HasLineOfSight(v.gmap, v.gmap.Start, v.cursor) {
			sightText = "start can see cursor"
		} else {
			sightText = "start cannot see cursor"
		}
		if sight.HasClearPath(v.gmap, v.gmap.Start, v.cursor) {
			sightText += ", straight walk open"
		}
	}
	v.renderer.DrawCursor(v.cursor)
	v.renderer.DrawHUD(render.Status{
		Kind:     string(v.mission.Kind),
		Width:    v.gmap.Width,
		Height:   v.gmap.Height,
		Seed:     v.mission.Seed,
		Keys:     len(v.gmap.Keys),
		Locks:    v.gmap.KeyAccessCount,
		Exits:    len(v.gmap.Exits),
		Cursor:   v.describe(v.cursor),
		Fog:      v.fog,
		Sight:    sightText,
		Messages: v.messages,
	})
}

// describe summarises the tile at p for the HUD.
func (v *Viewer) describe(p gamemap.Point) string {
	t, ok := v.gmap.Get(p)
	if !ok {
		return ""
	}
	s := fmt.Sprintf("(%d,%d) %s", p.X, p.Y, t.Class.Type)
	if t.Class.IsRoom {
		s += " room"
	}
	if t.Access != 0 {
		s += " locked:" + gamemap.KeyName(gamemap.KeyIndex(t.Access))
	}
	if k, ok := v.gmap.KeyAt(p); ok {
		s += " key:" + gamemap.KeyName(k.Index)
	}
	if v.gmap.ExitAt(p) {
		s += " exit"
	}
	return s
}

func (v *Viewer) addMessage(msg string) {
	v.messages = append(v.messages, msg)
	if len(v.messages) > 50 {
		v.messages = v.messages[len(v.messages)-50:]
	}
}
