package generate

import (
	"cdogs-mapgen/internal/gamemap"
	"cdogs-mapgen/internal/mission"
	"fmt"
	"testing"
)

func scenarioInterior() mission.InteriorParams {
	p := mission.DefaultInterior(64, 64).Interior
	p.Rooms.Min = 8
	p.Rooms.Max = 16
	p.CorridorWidth = 3
	p.Doors.Enabled = true
	p.Doors.Keys = 2
	return p
}

func runInterior(seed int64, w, h int, p mission.InteriorParams) *interior {
	g := &interior{b: testBuilder(w, h, seed), p: p}
	g.run(0)
	return g
}

func (g *interior) leafRoomAt(p gamemap.Point) (int, bool) {
	for i, a := range g.areas {
		if a.isLeaf() && !a.isCorridor && a.r.Contains(p) {
			return i, true
		}
	}
	return -1, false
}

func TestInteriorScenario(t *testing.T) {
	for seed := range int64(10) {
		g := runInterior(seed, 64, 64, scenarioInterior())
		m := g.b.Map

		if m.KeyAccessCount > 2 {
			t.Errorf("seed=%d: %d locked corridors, want at most 2", seed, m.KeyAccessCount)
		}
		if len(m.Keys) != m.KeyAccessCount {
			t.Errorf("seed=%d: %d keys for %d locks", seed, len(m.Keys), m.KeyAccessCount)
		}
		if _, ok := g.leafRoomAt(m.Start); !ok {
			t.Errorf("seed=%d: start %v not in a room", seed, m.Start)
		}
		if len(m.Exits) != 1 {
			t.Fatalf("seed=%d: %d exits", seed, len(m.Exits))
		}
		e := m.Exits[0].R
		i, ok := g.leafRoomAt(gamemap.Point{X: e.X, Y: e.Y})
		if !ok {
			t.Fatalf("seed=%d: exit %v not in a room", seed, e)
		}
		if r := g.areas[i].r; !r.Contains(gamemap.Point{X: e.X + e.W - 1, Y: e.Y + e.H - 1}) {
			t.Errorf("seed=%d: exit %v spills out of room %v", seed, e, r)
		}
		assertConnected(t, m, "interior 64x64")
	}
}

// Keys must be collectable in some order starting with no key at all, and
// the exit must be reachable once they are held.
func TestInteriorKeysReachable(t *testing.T) {
	for seed := range int64(10) {
		g := runInterior(seed, 64, 64, scenarioInterior())
		m := g.b.Map
		assertSolvable(t, m, fmt.Sprintf("seed=%d", seed))
		for _, k := range m.Keys {
			if a := m.Access(k.Pos); a != 0 {
				t.Errorf("seed=%d: key tile %v is locked with %#x", seed, k.Pos, a)
			}
		}
	}
}

func TestInteriorLocksUseKnownColours(t *testing.T) {
	for seed := range int64(10) {
		g := runInterior(seed, 64, 64, scenarioInterior())
		m := g.b.Map
		allowed := uint16(0)
		for k := range m.KeyAccessCount {
			allowed |= gamemap.AccessMask(k)
		}
		m.Bounds().Each(func(p gamemap.Point) {
			if a := m.Access(p); a != 0 && a&allowed != a {
				t.Errorf("seed=%d: tile %v has mask %#x without a key", seed, p, a)
			}
		})
	}
}

func TestInteriorTreeInvariant(t *testing.T) {
	for seed := range int64(10) {
		g := runInterior(seed, 80, 60, scenarioInterior())
		for i, a := range g.areas {
			leaf := a.child1 == -1 && a.child2 == -1
			internal := a.child1 >= 0 && a.child2 >= 0
			if !leaf && !internal {
				t.Errorf("seed=%d: area %d has one child", seed, i)
			}
			steps := 0
			for j := i; g.areas[j].parent != -1; j = g.areas[j].parent {
				p := g.areas[j].parent
				if g.areas[p].level != g.areas[j].level-1 {
					t.Fatalf("seed=%d: area %d at level %d under parent at level %d",
						seed, j, g.areas[j].level, g.areas[p].level)
				}
				steps++
				if steps > a.level {
					t.Fatalf("seed=%d: parent walk from area %d does not end", seed, i)
				}
			}
		}
	}
}

func TestInteriorAreasTileTheMap(t *testing.T) {
	for seed := range int64(5) {
		g := runInterior(seed, 64, 48, scenarioInterior())
		covered := make([]int, g.b.Map.Width*g.b.Map.Height)
		for _, a := range g.areas {
			if a.isCorridor || a.isLeaf() {
				a.r.Each(func(p gamemap.Point) { covered[p.Y*g.b.Map.Width+p.X]++ })
			}
		}
		for i, n := range covered {
			// Rooms split from one leaf share a wall.
			if n == 0 || n > 4 {
				t.Fatalf("seed=%d: tile %d covered %d times", seed, i, n)
			}
		}
	}
}

func TestInteriorDoorsDisabled(t *testing.T) {
	p := scenarioInterior()
	p.Doors.Enabled = false
	for seed := range int64(5) {
		g := runInterior(seed, 64, 64, p)
		m := g.b.Map
		if len(m.Keys) != 0 || m.KeyAccessCount != 0 {
			t.Errorf("seed=%d: keys placed with doors off", seed)
		}
		m.Bounds().Each(func(q gamemap.Point) {
			if c, _ := m.Class(q); c.IsDoor() {
				t.Fatalf("seed=%d: door at %v with doors off", seed, q)
			}
		})
		assertConnected(t, m, "interior without doors")
	}
}

func TestInteriorSingleRoom(t *testing.T) {
	// Too small to split: the whole map is one room.
	g := runInterior(1, 16, 16, scenarioInterior())
	if len(g.areas) != 1 {
		t.Fatalf("got %d areas, want 1", len(g.areas))
	}
	m := g.b.Map
	if m.Start != (gamemap.Point{X: 8, Y: 8}) {
		t.Errorf("start = %v, want the map centre", m.Start)
	}
	if len(m.Exits) != 0 {
		t.Errorf("single room should have no exit, got %v", m.Exits)
	}
	assertConnected(t, m, "single room")
}

func TestInteriorPillarsAreSolid(t *testing.T) {
	p := scenarioInterior()
	p.Pillars.Count = 3
	for seed := range int64(5) {
		g := runInterior(seed, 96, 96, p)
		for i, a := range g.areas {
			if g.adj.hasConnections(i) || a.isCorridor || !a.isLeaf() {
				continue
			}
			// Disconnected rooms are pillars: nothing inside can be walked.
			a.r.Inset(1).Each(func(q gamemap.Point) {
				if g.b.Map.IsWalkable(q.X, q.Y) && !g.carvedThrough(q) {
					t.Errorf("seed=%d: pillar %v walkable at %v", seed, a.r, q)
				}
			})
		}
	}
}

// carvedThrough reports whether q is plain floor left by a connecting
// corridor rather than room floor.
func (g *interior) carvedThrough(q gamemap.Point) bool {
	c, _ := g.b.Map.Class(q)
	return c.IsFloor() && !c.IsRoom
}

func TestSharedWall(t *testing.T) {
	tests := []struct {
		name   string
		r1, r2 gamemap.Rect
		want   gamemap.Rect
		side   int
		ok     bool
	}{
		{
			name: "left-right",
			r1:   gamemap.Rect{X: 0, Y: 0, W: 10, H: 8},
			r2:   gamemap.Rect{X: 9, Y: 2, W: 6, H: 10},
			want: gamemap.Rect{X: 9, Y: 2, W: 1, H: 6},
			side: sideLeft,
			ok:   true,
		},
		{
			name: "right-left",
			r1:   gamemap.Rect{X: 9, Y: 2, W: 6, H: 10},
			r2:   gamemap.Rect{X: 0, Y: 0, W: 10, H: 8},
			want: gamemap.Rect{X: 9, Y: 2, W: 1, H: 6},
			side: sideLeft,
			ok:   true,
		},
		{
			name: "top-bottom",
			r1:   gamemap.Rect{X: 4, Y: 0, W: 8, H: 6},
			r2:   gamemap.Rect{X: 0, Y: 5, W: 10, H: 6},
			want: gamemap.Rect{X: 4, Y: 5, W: 6, H: 1},
			side: sideTop,
			ok:   true,
		},
		{
			name: "corner only",
			r1:   gamemap.Rect{X: 0, Y: 0, W: 5, H: 5},
			r2:   gamemap.Rect{X: 4, Y: 4, W: 5, H: 5},
		},
		{
			name: "gap",
			r1:   gamemap.Rect{X: 0, Y: 0, W: 5, H: 5},
			r2:   gamemap.Rect{X: 5, Y: 0, W: 5, H: 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, side, ok := sharedWall(tt.r1, tt.r2)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (got != tt.want || side != tt.side) {
				t.Errorf("got %v side %d, want %v side %d", got, side, tt.want, tt.side)
			}
		})
	}
}

func TestAdjacencyPanicsOutOfRange(t *testing.T) {
	a := newAdjacency(3)
	a.connect(0, 2)
	if !a.isConnected(2, 0) || !a.hasConnections(0) {
		t.Fatal("connect should be symmetric")
	}
	a.disconnectAll(2)
	if a.hasConnections(0) {
		t.Error("disconnectAll should clear both directions")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range index")
		}
	}()
	a.isConnected(0, 3)
}
