package generate

import (
	"cdogs-mapgen/internal/gamemap"
	"cdogs-mapgen/internal/mission"
	"fmt"
	"math/rand"
	"testing"
)

func testBuilder(w, h int, seed int64) *Builder {
	return NewBuilder(w, h, gamemap.DefaultTileClasses(), rand.New(rand.NewSource(seed)))
}

// floodFrom returns the tiles reachable from start through tiles for which
// pass returns true, using 4-connected BFS.
func floodFrom(m *gamemap.Map, start gamemap.Point, pass func(p gamemap.Point, t gamemap.Tile) bool) [][]bool {
	visited := make([][]bool, m.Height)
	for y := range visited {
		visited[y] = make([]bool, m.Width)
	}
	if t, ok := m.Get(start); !ok || !pass(start, t) {
		return visited
	}
	visited[start.Y][start.X] = true
	queue := []gamemap.Point{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range dirs4 {
			n := cur.Add(d)
			t, ok := m.Get(n)
			if !ok || visited[n.Y][n.X] || !pass(n, t) {
				continue
			}
			visited[n.Y][n.X] = true
			queue = append(queue, n)
		}
	}
	return visited
}

func walkable(_ gamemap.Point, t gamemap.Tile) bool { return t.Walkable() }

// assertConnected fails for every walkable tile not reachable from start.
func assertConnected(t *testing.T, m *gamemap.Map, label string) {
	t.Helper()
	if !m.IsWalkable(m.Start.X, m.Start.Y) {
		t.Fatalf("%s: start %v is not walkable", label, m.Start)
	}
	visited := floodFrom(m, m.Start, walkable)
	for y := range m.Height {
		for x := range m.Width {
			if m.IsWalkable(x, y) && !visited[y][x] {
				t.Errorf("%s: unreachable walkable tile at (%d,%d)", label, x, y)
				return
			}
		}
	}
}

// collectKeys walks from the start through tiles whose locks are opened by
// the keys held, picks up every key reached, and repeats until no new key
// turns up. It returns the held mask and the final reachable tiles.
func collectKeys(m *gamemap.Map) (uint16, [][]bool) {
	var held uint16
	for {
		visited := floodFrom(m, m.Start, func(_ gamemap.Point, t gamemap.Tile) bool {
			return t.Walkable() && t.Access&^held == 0
		})
		grown := held
		for _, k := range m.Keys {
			if visited[k.Pos.Y][k.Pos.X] {
				grown |= k.Mask()
			}
		}
		if grown == held {
			return held, visited
		}
		held = grown
	}
}

// assertSolvable fails unless every key can be collected in some order and
// every exit is then reachable.
func assertSolvable(t *testing.T, m *gamemap.Map, label string) {
	t.Helper()
	_, visited := collectKeys(m)
	for _, k := range m.Keys {
		if !visited[k.Pos.Y][k.Pos.X] {
			t.Errorf("%s: %s key at %v cannot be collected", label, gamemap.KeyName(k.Index), k.Pos)
		}
	}
	for _, e := range m.Exits {
		if c := e.R.Center(); !visited[c.Y][c.X] {
			t.Errorf("%s: exit %v not reachable with every key", label, e.R)
		}
	}
}

func TestGenerateSolvable(t *testing.T) {
	sizes := []gamemap.Point{{X: 48, Y: 48}, {X: 64, Y: 64}, {X: 96, Y: 72}}
	for _, kind := range []mission.Kind{mission.KindCave, mission.KindInterior} {
		t.Run(string(kind), func(t *testing.T) {
			for _, size := range sizes {
				for seed := range int64(15) {
					m := mission.Default(kind, size.X, size.Y)
					m.Seed = seed
					gm, err := Generate(&Config{Mission: m})
					if err != nil {
						t.Fatal(err)
					}
					assertSolvable(t, gm, fmt.Sprintf("%dx%d seed=%d", size.X, size.Y, seed))
				}
			}
		})
	}
}

func TestCollectKeysNeedsOrder(t *testing.T) {
	// start | yellow lock | green key ; green lock | yellow key
	// The yellow key sits behind green and the green key behind yellow.
	b := testBuilder(16, 16, 1)
	b.FillRect(b.Map.Bounds(), b.Tiles.Wall, b.Tiles.Wall)
	b.FillRect(gamemap.Rect{X: 1, Y: 1, W: 9, H: 1}, b.Tiles.Floor, b.Tiles.Floor)
	m := b.Map
	m.Start = gamemap.Point{X: 1, Y: 1}
	m.SetAccess(gamemap.Point{X: 3, Y: 1}, gamemap.AccessYellow)
	m.SetAccess(gamemap.Point{X: 6, Y: 1}, gamemap.AccessGreen)
	m.Keys = []gamemap.Key{{Pos: gamemap.Point{X: 5, Y: 1}, Index: 1}, {Pos: gamemap.Point{X: 8, Y: 1}, Index: 0}}

	held, visited := collectKeys(m)
	if held != 0 || visited[1][5] {
		t.Errorf("crossed locks collected %#x", held)
	}

	m.Keys[1].Pos = gamemap.Point{X: 2, Y: 1}
	held, visited = collectKeys(m)
	if held != gamemap.AccessYellow|gamemap.AccessGreen || !visited[1][8] {
		t.Errorf("ordered keys collected %#x", held)
	}
}

func TestGenerateRejectsInvalidMission(t *testing.T) {
	m := mission.DefaultCave(30, 30)
	m.Cave.CorridorWidth = 0
	gm, err := Generate(&Config{Mission: m})
	if err == nil {
		t.Fatal("expected an error for corridor_width 0")
	}
	if gm != nil {
		t.Error("no map should be returned with an error")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, kind := range []mission.Kind{mission.KindCave, mission.KindInterior} {
		t.Run(string(kind), func(t *testing.T) {
			m := mission.Default(kind, 48, 40)
			m.Seed = 7
			a, err := Generate(&Config{Mission: m})
			if err != nil {
				t.Fatal(err)
			}
			b, err := Generate(&Config{Mission: m})
			if err != nil {
				t.Fatal(err)
			}
			if gamemap.Format(a) != gamemap.Format(b) {
				t.Error("same seed produced different maps")
			}
		})
	}
}

func TestGenerateUsesGivenRand(t *testing.T) {
	m := mission.DefaultInterior(48, 48)
	m.Seed = 1
	a, _ := Generate(&Config{Mission: m, Rand: rand.New(rand.NewSource(99))})
	m.Seed = 2
	b, _ := Generate(&Config{Mission: m, Rand: rand.New(rand.NewSource(99))})
	if gamemap.Format(a) != gamemap.Format(b) {
		t.Error("an explicit Rand should override the mission seed")
	}
}

func TestGenerateAllWalkableConnected(t *testing.T) {
	for _, kind := range []mission.Kind{mission.KindCave, mission.KindInterior} {
		for seed := range int64(10) {
			m := mission.Default(kind, 48, 48)
			m.Seed = seed
			gm, err := Generate(&Config{Mission: m})
			if err != nil {
				t.Fatalf("%s seed=%d: %v", kind, seed, err)
			}
			assertConnected(t, gm, string(kind))
		}
	}
}

func TestGenerateLogf(t *testing.T) {
	var lines int
	m := mission.DefaultCave(40, 40)
	_, err := Generate(&Config{Mission: m, Logf: func(string, ...any) { lines++ }})
	if err != nil {
		t.Fatal(err)
	}
	if lines == 0 {
		t.Error("expected trace output from the cave generator")
	}
}
