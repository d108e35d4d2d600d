package generate

import (
	"cdogs-mapgen/internal/gamemap"
	"cdogs-mapgen/internal/mission"
	"testing"
)

func scenarioCave() mission.Mission {
	m := mission.DefaultCave(30, 30)
	m.Seed = 42
	m.Cave.FillPercent = 40
	m.Cave.Repeat = 4
	m.Cave.R1 = 5
	m.Cave.R2 = 2
	m.Cave.CorridorWidth = 2
	return m
}

func TestCaveScenario(t *testing.T) {
	gm, err := Generate(&Config{Mission: scenarioCave()})
	if err != nil {
		t.Fatal(err)
	}
	for y := range gm.Height {
		for x := range gm.Width {
			if gm.At(x, y).Class.Type == gamemap.TileNothing {
				t.Fatalf("tile (%d,%d) left unset", x, y)
			}
		}
	}
	assertConnected(t, gm, "cave 30x30")

	again, _ := Generate(&Config{Mission: scenarioCave()})
	if gamemap.Format(gm) != gamemap.Format(again) {
		t.Error("re-running with the same seed changed the map")
	}
}

// caveBase runs the automaton, linking and corridor widening only.
func caveBase(seed int64, width int) *Builder {
	b := testBuilder(40, 40, seed)
	p := mission.DefaultCave(40, 40).Cave
	p.CorridorWidth = width
	b.Map.Bounds().Each(func(v gamemap.Point) {
		if b.Rand.Intn(100) < p.FillPercent {
			b.set(v, b.Tiles.Wall)
		} else {
			b.set(v, b.Tiles.Floor)
		}
	})
	for range p.Repeat {
		b.caveStep(p.R1, p.R2)
	}
	b.linkDisconnectedAreas()
	b.FixCorridors(width)
	return b
}

func TestFixCorridorsLeavesNoPinch(t *testing.T) {
	for _, width := range []int{1, 2, 3} {
		for seed := range int64(5) {
			b := caveBase(seed, width)
			for y := width; y < b.Map.Height-width; y++ {
				for x := width; x < b.Map.Width-width; x++ {
					v := gamemap.Point{X: x, Y: y}
					if b.isType(v, gamemap.TileWall) && !b.checkCorridorsAroundTile(v, width) {
						t.Errorf("width=%d seed=%d: wall at %v pinches a corridor", width, seed, v)
					}
				}
			}
		}
	}
}

func TestLinkDisconnectedAreasJoinsRegions(t *testing.T) {
	b := testBuilder(30, 30, 3)
	b.FillRect(b.Map.Bounds(), b.Tiles.Wall, b.Tiles.Wall)
	b.FillRect(gamemap.Rect{X: 2, Y: 2, W: 5, H: 5}, b.Tiles.Floor, b.Tiles.Floor)
	b.FillRect(gamemap.Rect{X: 20, Y: 20, W: 5, H: 5}, b.Tiles.Floor, b.Tiles.Floor)
	b.FillRect(gamemap.Rect{X: 20, Y: 3, W: 4, H: 4}, b.Tiles.Floor, b.Tiles.Floor)
	b.linkDisconnectedAreas()

	visited := floodFrom(b.Map, gamemap.Point{X: 3, Y: 3}, walkable)
	for _, p := range []gamemap.Point{{X: 22, Y: 22}, {X: 21, Y: 4}} {
		if !visited[p.Y][p.X] {
			t.Errorf("region at %v not linked", p)
		}
	}
}

func TestCaveStepSnapshot(t *testing.T) {
	// A lone wall in open floor has one wall in its 3x3 and is removed;
	// its neighbours must not see the removal mid-pass.
	b := testBuilder(9, 9, 1)
	b.FillRect(b.Map.Bounds(), b.Tiles.Floor, b.Tiles.Floor)
	b.set(gamemap.Point{X: 4, Y: 4}, b.Tiles.Wall)
	b.caveStep(5, -1)
	if b.isType(gamemap.Point{X: 4, Y: 4}, gamemap.TileWall) {
		t.Error("lone wall should become floor")
	}
	// Corners see five off-map tiles and turn to wall.
	if !b.isType(gamemap.Point{X: 0, Y: 0}, gamemap.TileWall) {
		t.Error("corner should become wall")
	}
	if b.isType(gamemap.Point{X: 3, Y: 4}, gamemap.TileWall) {
		t.Error("tile beside the lone wall should stay floor")
	}
}

func TestCaveKeysMatchLocks(t *testing.T) {
	for seed := range int64(10) {
		m := mission.DefaultCave(64, 64)
		m.Seed = seed
		m.Cave.Rooms.Count = 8
		gm, err := Generate(&Config{Mission: m})
		if err != nil {
			t.Fatal(err)
		}
		if gm.KeyAccessCount > gamemap.KeyCount {
			t.Fatalf("seed=%d: %d locks", seed, gm.KeyAccessCount)
		}
		for _, k := range gm.Keys {
			var want uint16
			if k.Index > 0 {
				want = gamemap.AccessMask(k.Index - 1)
			}
			if got := gm.Access(k.Pos); got != want {
				t.Errorf("seed=%d: %s key at %v has access %#x, want %#x",
					seed, gamemap.KeyName(k.Index), k.Pos, got, want)
			}
			if !gm.IsWalkable(k.Pos.X, k.Pos.Y) {
				t.Errorf("seed=%d: key at %v is not walkable", seed, k.Pos)
			}
		}
		allowed := uint16(0)
		for k := range gm.KeyAccessCount {
			allowed |= gamemap.AccessMask(k)
		}
		for y := range gm.Height {
			for x := range gm.Width {
				if a := gm.Access(gamemap.Point{X: x, Y: y}); a&^allowed != 0 {
					t.Fatalf("seed=%d: tile (%d,%d) locked with %#x beyond %d colours",
						seed, x, y, a, gm.KeyAccessCount)
				}
			}
		}
	}
}

func TestCaveStartAndExit(t *testing.T) {
	for seed := range int64(10) {
		m := mission.DefaultCave(40, 40)
		m.Seed = seed
		m.Index = 2
		gm, err := Generate(&Config{Mission: m})
		if err != nil {
			t.Fatal(err)
		}
		s, _ := gm.Get(gm.Start)
		if s.Class.IsRoom || s.Access != 0 {
			t.Errorf("seed=%d: start %v inside a room or locked", seed, gm.Start)
		}
		if len(gm.Exits) != 1 {
			t.Fatalf("seed=%d: %d exits", seed, len(gm.Exits))
		}
		e := gm.Exits[0]
		if e.Mission != 3 {
			t.Errorf("seed=%d: exit leads to mission %d, want 3", seed, e.Mission)
		}
		if e.R.X < 0 || e.R.Y < 0 || e.R.X+e.R.W > gm.Width || e.R.Y+e.R.H > gm.Height {
			t.Errorf("seed=%d: exit %v off the map", seed, e.R)
		}
	}
}

func TestCaveDoorKeysLimit(t *testing.T) {
	cases := []struct {
		name string
		keys int
	}{
		{"no keys", 0},
		{"one key", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed := uint16(0)
			for k := range tc.keys {
				allowed |= gamemap.AccessMask(k)
			}
			for seed := range int64(20) {
				m := mission.DefaultCave(64, 64)
				m.Seed = seed
				m.Cave.Rooms.Count = 8
				m.Cave.Doors.Keys = tc.keys
				gm, err := Generate(&Config{Mission: m})
				if err != nil {
					t.Fatal(err)
				}
				if gm.KeyAccessCount > tc.keys {
					t.Errorf("seed=%d: %d lock colours", seed, gm.KeyAccessCount)
				}
				if len(gm.Keys) > tc.keys {
					t.Errorf("seed=%d: %d keys placed", seed, len(gm.Keys))
				}
				gm.Bounds().Each(func(p gamemap.Point) {
					if a := gm.Access(p); a&^allowed != 0 {
						t.Fatalf("seed=%d: tile %v locked with %#x", seed, p, a)
					}
				})
			}
		})
	}
}

func TestCaveWithoutFloor(t *testing.T) {
	// r1=0 turns every tile into wall.
	m := mission.DefaultCave(40, 40)
	m.Cave.R1 = 0
	var trace []string
	gm, err := Generate(&Config{Mission: m, Logf: func(format string, args ...any) {
		trace = append(trace, format)
	}})
	if err != nil {
		t.Fatal(err)
	}
	if !gm.IsWalkable(gm.Start.X, gm.Start.Y) {
		t.Errorf("start %v is not walkable", gm.Start)
	}
	for _, e := range gm.Exits {
		if c := e.R.Center(); !gm.IsWalkable(c.X, c.Y) {
			t.Errorf("exit %v has an unwalkable centre", e.R)
		}
	}
	assertConnected(t, gm, "floorless cave")
	if len(trace) == 0 {
		t.Error("expected the missing floor to be logged")
	}
}
