package generate

import (
	"cdogs-mapgen/internal/gamemap"
	"cdogs-mapgen/internal/mission"
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// criticalPath tags the side of the start-to-exit route an area lies on.
// The start is on the left branch of the root, the exit on the right.
type criticalPath uint8

const (
	critNone criticalPath = iota
	critLeft
	critRight
)

// Corridor ends that open onto an area this many levels shallower or more
// are walled off.
const corridorLevelDiffBlock = 1

// bspArea is one node of the partition tree. Areas live in a flat slice and
// refer to each other by index so the slice can grow while it is walked.
type bspArea struct {
	r            gamemap.Rect
	level        int
	parent       int
	child1       int
	child2       int
	link         int // area this one was connected to by a door
	horizontal   bool
	isCorridor   bool
	criticalPath criticalPath
}

func rootArea(r gamemap.Rect) bspArea {
	return bspArea{r: r, parent: -1, child1: -1, child2: -1, link: -1}
}

func (a *bspArea) isLeaf() bool {
	return a.child1 == -1 && a.child2 == -1
}

// dAlong is the unit step along a corridor, dAcross the step across it.
func (a *bspArea) dAlong() gamemap.Point {
	if a.horizontal {
		return gamemap.Point{X: 1}
	}
	return gamemap.Point{Y: 1}
}

func (a *bspArea) dAcross() gamemap.Point {
	if a.horizontal {
		return gamemap.Point{Y: 1}
	}
	return gamemap.Point{X: 1}
}

type interior struct {
	b     *Builder
	p     mission.InteriorParams
	areas []bspArea
	adj   *adjacency
	dist  []int
}

// Interior runs the BSP generator over b.Map.
func Interior(b *Builder, p mission.InteriorParams, missionIndex int) {
	g := &interior{b: b, p: p}
	g.run(missionIndex)
}

func (g *interior) run(missionIndex int) {
	g.areas = []bspArea{rootArea(g.b.Map.Bounds())}
	g.splitAreas()
	g.splitLeafRooms()
	g.fillRooms()

	if len(g.areas) > 1 {
		g.setupAdjacency()
		g.addDoorsToClosestCorridors()
		g.connectUnconnectedRooms()
		g.findAndMarkCriticalPath(missionIndex)
		g.fillCorridors()
		g.calcDistanceToCriticalPath()
		if g.p.Doors.Enabled {
			g.placeKeys()
		}
		g.addPillars()
		g.addRoomWalls()
	} else {
		g.b.Map.Start = g.areas[0].r.Center()
	}
	g.b.EnsureConnected(g.b.Map.Start)
}

func (g *interior) area(i int) *bspArea {
	if i < 0 || i >= len(g.areas) {
		panic(fmt.Sprintf("generate: area %d out of range for %d areas", i, len(g.areas)))
	}
	return &g.areas[i]
}

// splitAreas splits every area, alternating axis by depth, until the pieces
// are too small. Each split parent becomes the corridor strip between its
// two children.
func (g *interior) splitAreas() {
	cw := g.p.CorridorWidth
	hcount := g.b.Rand.Intn(2)
	minSize := min(g.p.Rooms.Min+cw/2, min(g.b.Map.Width, g.b.Map.Height))
	for i := 0; i < len(g.areas); i++ {
		horizontal := (hcount+g.areas[i].level)%2 == 1
		a1, a2, ok := g.trySplit(i, horizontal, minSize)
		if !ok {
			continue
		}
		// Odd widths give the extra column to the first child.
		for k := range cw {
			switch {
			case horizontal && k%2 == 0:
				a1.r.W--
			case horizontal:
				a2.r.X++
				a2.r.W--
			case k%2 == 0:
				a1.r.H--
			default:
				a2.r.Y++
				a2.r.H--
			}
		}
		a := g.area(i)
		a.isCorridor = true
		if horizontal {
			a.r = gamemap.Rect{X: a1.r.X + a1.r.W, Y: a1.r.Y, W: cw, H: a1.r.H}
		} else {
			a.r = gamemap.Rect{X: a1.r.X, Y: a1.r.Y + a1.r.H, W: a1.r.W, H: cw}
		}
		a.horizontal = !horizontal
		a.child1 = len(g.areas)
		a.child2 = len(g.areas) + 1
		g.areas = append(g.areas, a1, a2)
	}
}

// trySplit cuts area idx in two at a random position leaving both halves at
// least minSize along the split axis.
func (g *interior) trySplit(idx int, horizontal bool, minSize int) (bspArea, bspArea, bool) {
	a := g.area(idx)
	size := a.r.H
	if horizontal {
		size = a.r.W
	}
	r := size - 2*minSize
	if r < 0 {
		return bspArea{}, bspArea{}, false
	}
	a1 := rootArea(a.r)
	a2 := rootArea(a.r)
	a1.level, a2.level = a.level+1, a.level+1
	a1.parent, a2.parent = idx, idx
	a1.link, a2.link = idx, idx
	a1.horizontal, a2.horizontal = horizontal, horizontal
	at := g.b.randInt(0, r) + minSize
	if horizontal {
		a1.r.W = at
		a2.r.X += at
		a2.r.W -= at
	} else {
		a1.r.H = at
		a2.r.Y += at
		a2.r.H -= at
	}
	return a1, a2, true
}

// splitLeafRooms splits rooms larger than Rooms.Max along their longer
// axis. The halves share their dividing wall.
func (g *interior) splitLeafRooms() {
	for i := 0; i < len(g.areas); i++ {
		a := g.area(i)
		if a.isCorridor || (a.r.W <= g.p.Rooms.Max && a.r.H <= g.p.Rooms.Max) {
			continue
		}
		horizontal := a.r.W > a.r.H
		a1, a2, ok := g.trySplit(i, horizontal, g.p.Rooms.Min)
		if !ok {
			continue
		}
		if horizontal {
			a1.r.W++
		} else {
			a1.r.H++
		}
		a = g.area(i)
		a.child1 = len(g.areas)
		a.child2 = len(g.areas) + 1
		g.areas = append(g.areas, a1, a2)
	}
}

func (g *interior) fillRooms() {
	for i := range g.areas {
		if a := g.area(i); a.isLeaf() {
			g.b.MakeRoom(a.r, true, false)
		}
	}
}

// setupAdjacency joins every corridor to the corridor it branched from.
func (g *interior) setupAdjacency() {
	g.adj = newAdjacency(len(g.areas))
	for i, a := range g.areas {
		if a.isCorridor && a.parent >= 0 {
			g.adj.connect(i, a.parent)
		}
	}
}

// addDoorsToClosestCorridors opens each room onto its nearest corridor
// ancestor, on the first side whose midpoint faces into it.
func (g *interior) addDoorsToClosestCorridors() {
	for i := range g.areas {
		a := g.area(i)
		if !a.isLeaf() {
			continue
		}
		ci := i
		for !g.area(ci).isCorridor && g.area(ci).parent >= 0 {
			ci = g.area(ci).parent
		}
		corridor := g.area(ci)
		mid := a.r.Center()
		outside := [4]gamemap.Point{
			sideLeft:   {X: a.r.X - 1, Y: mid.Y},
			sideRight:  {X: a.r.X + a.r.W, Y: mid.Y},
			sideTop:    {X: mid.X, Y: a.r.Y - 1},
			sideBottom: {X: mid.X, Y: a.r.Y + a.r.H},
		}
		for side, out := range outside {
			if !corridor.r.Contains(out) {
				continue
			}
			var sides [4]bool
			sides[side] = true
			g.b.PlaceDoors(a.r, sides, g.p.Doors, 0)
			g.adj.connect(i, ci)
			a.link = ci
			break
		}
	}
}

func (g *interior) isUnconnectedRoom(i int) bool {
	a := g.area(i)
	return a.isLeaf() && !a.isCorridor && !g.adj.hasConnections(i)
}

// connectUnconnectedRooms gives every room without a door a door into an
// already connected neighbour sharing a wall with it. Rooms with no such
// neighbour get a corridor carved to the nearest connected area.
func (g *interior) connectUnconnectedRooms() {
	for {
		for progress := true; progress; {
			progress = false
			for i := range g.areas {
				if g.isUnconnectedRoom(i) && g.tryConnectRooms(i) {
					progress = true
				}
			}
		}
		stranded := -1
		for i := range g.areas {
			if g.isUnconnectedRoom(i) {
				stranded = i
				break
			}
		}
		if stranded < 0 {
			return
		}
		g.forceConnect(stranded)
	}
}

func (g *interior) tryConnectRooms(i int) bool {
	a1 := g.area(i)
	for j := range g.areas {
		a2 := g.area(j)
		if j == i || !a2.isLeaf() || !g.adj.hasConnections(j) {
			continue
		}
		door, side, ok := sharedWall(a1.r, a2.r)
		if !ok {
			continue
		}
		var sides [4]bool
		sides[side] = true
		g.b.PlaceDoors(door, sides, g.p.Doors, 0)
		g.adj.connect(i, j)
		a1.link = j
		return true
	}
	return false
}

// sharedWall finds the wall segment shared by rooms r1 and r2, which must
// overlap by more than one tile besides the corners. It returns the segment
// as a one-tile-thick rect and the side of that rect to open.
func sharedWall(r1, r2 gamemap.Rect) (gamemap.Rect, int, bool) {
	// Shrink by one so rooms sharing a wall line up edge to edge.
	s1 := gamemap.Rect{X: r1.X, Y: r1.Y, W: r1.W - 1, H: r1.H - 1}
	s2 := gamemap.Rect{X: r2.X, Y: r2.Y, W: r2.W - 1, H: r2.H - 1}
	const overlap = 1
	switch {
	case s1.X == s2.X+s2.W || s2.X == s1.X+s1.W:
		if !(s1.Y+overlap < s2.Y+s2.H && s2.Y+overlap < s1.Y+s1.H) {
			return gamemap.Rect{}, 0, false
		}
		x := max(r1.X, r2.X)
		lo, hi := max(r1.Y, r2.Y), min(r1.Y+r1.H, r2.Y+r2.H)
		return gamemap.Rect{X: x, Y: lo, W: 1, H: hi - lo}, sideLeft, true
	case s1.Y == s2.Y+s2.H || s2.Y == s1.Y+s1.H:
		if !(s1.X+overlap < s2.X+s2.W && s2.X+overlap < s1.X+s1.W) {
			return gamemap.Rect{}, 0, false
		}
		y := max(r1.Y, r2.Y)
		lo, hi := max(r1.X, r2.X), min(r1.X+r1.W, r2.X+r2.W)
		return gamemap.Rect{X: lo, Y: y, W: hi - lo, H: 1}, sideTop, true
	}
	return gamemap.Rect{}, 0, false
}

// forceConnect carves a corridor from room i to the nearest connected area.
func (g *interior) forceConnect(i int) {
	a := g.area(i)
	from := a.r.Center()
	best, bestD := -1, 0
	for j := range g.areas {
		if j == i || !g.adj.hasConnections(j) {
			continue
		}
		c := g.area(j).r.Center()
		if d := abs(c.X-from.X) + abs(c.Y-from.Y); best < 0 || d < bestD {
			best, bestD = j, d
		}
	}
	if best < 0 {
		// Nothing is connected yet; anchor on the root corridor.
		best = 0
	}
	g.b.carveCorridor(from, g.area(best).r.Center())
	g.adj.connect(i, best)
	a.link = best
	g.b.logf("room %d has no neighbour; carved corridor to area %d", i, best)
}

// findAndMarkCriticalPath puts the start in the deepest room under the
// root's first child and the exit in the deepest room under its second,
// then tags the connection chain from each back to the root.
func (g *interior) findAndMarkCriticalPath(missionIndex int) {
	root := g.area(0)
	room1 := g.findDeepestRoomFrom(root.child1)
	g.b.Map.Start = g.area(room1).r.Center()
	room2 := g.findDeepestRoomFrom(root.child2)
	if g.p.ExitEnabled {
		r := g.area(room2).r
		g.b.Map.Exits = append(g.b.Map.Exits, gamemap.Exit{
			R:       gamemap.Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 3, H: r.H - 3},
			Mission: missionIndex + 1,
		})
	}
	g.markParentCorridors(room1, critLeft)
	g.markParentCorridors(room2, critRight)
}

func (g *interior) findDeepestRoomFrom(idx int) int {
	if idx < 0 {
		return 0
	}
	stack := []int{idx}
	deepest, maxDepth := idx, 0
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		a := g.area(i)
		if a.isLeaf() && a.level > maxDepth {
			maxDepth = a.level
			deepest = i
		}
		if a.child1 >= 0 {
			stack = append(stack, a.child1)
		}
		if a.child2 >= 0 {
			stack = append(stack, a.child2)
		}
	}
	return deepest
}

// markParentCorridors follows connection links from idx to the root.
func (g *interior) markParentCorridors(idx int, cp criticalPath) {
	for i, steps := idx, 0; i >= 0 && steps <= len(g.areas); steps++ {
		a := g.area(i)
		a.criticalPath = cp
		i = a.link
	}
}

// fillCorridors paints corridors as floor and caps their ends. Children
// come after their parents in the slice, so walking backwards caps the
// inner corridors first.
func (g *interior) fillCorridors() {
	for i := len(g.areas) - 1; i >= 0; i-- {
		a := g.area(i)
		if !a.isCorridor {
			continue
		}
		a.r.Each(func(p gamemap.Point) { g.b.set(p, g.b.Tiles.Floor) })
		along, across := a.dAlong(), a.dAcross()
		end1 := gamemap.Point{X: a.r.X, Y: a.r.Y}
		end2 := gamemap.Point{X: a.r.X + a.r.W - 1, Y: a.r.Y + a.r.H - 1}
		g.capCorridor(a, end1, across, along)
		g.capCorridor(a, end2, scale(across, -1), scale(along, -1))
	}
}

// capCorridor closes the end of corridor a at end. An end facing off the
// map or onto a much shallower area is walled, working inwards until a side
// opening is reached; otherwise it gets a door, or stays open without doors.
func (g *interior) capCorridor(a *bspArea, end, across, along gamemap.Point) {
	cw := g.p.CorridorWidth
	outside := gamemap.Point{X: end.X - along.X, Y: end.Y - along.Y}
	capTile := g.b.Tiles.Floor
	if !g.b.Map.InBounds(outside.X, outside.Y) {
		capTile = g.b.Tiles.Wall
	} else {
		for i := range g.areas {
			a2 := g.area(i)
			if !a2.r.Contains(outside) {
				continue
			}
			if a.level-a2.level > corridorLevelDiffBlock {
				capTile = g.b.Tiles.Wall
			} else if g.p.Doors.Enabled {
				capTile = g.b.Tiles.Door
			}
			break
		}
	}
	for j := 0; ; j++ {
		endJ := end.Add(scale(along, j))
		if !g.b.Map.IsWall(endJ.Add(scale(across, -1))) || !g.b.Map.IsWall(endJ.Add(scale(across, cw))) {
			break
		}
		for k := range cw {
			g.b.set(endJ.Add(scale(across, k)), capTile)
		}
		if !capTile.IsWall() {
			break
		}
	}
}

func scale(p gamemap.Point, k int) gamemap.Point {
	return gamemap.Point{X: p.X * k, Y: p.Y * k}
}

// calcDistanceToCriticalPath labels corridors and rooms with their
// breadth-first distance to the critical path, which is 1 on it.
func (g *interior) calcDistanceToCriticalPath() {
	g.dist = make([]int, len(g.areas))
	var frontier []int
	for i, a := range g.areas {
		if a.criticalPath != critNone {
			g.dist[i] = 1
			frontier = append(frontier, i)
		}
	}
	for d := 2; len(frontier) > 0; d++ {
		var next []int
		for i := range g.areas {
			a := g.area(i)
			if g.dist[i] > 0 || (!a.isCorridor && !a.isLeaf()) {
				continue
			}
			for _, f := range frontier {
				if g.adj.isConnected(i, f) {
					g.dist[i] = d
					next = append(next, i)
					break
				}
			}
		}
		frontier = next
	}
}

// critChild returns the child of i that lies on the critical path.
func (g *interior) critChild(i int) int {
	a := g.area(i)
	if a.child1 >= 0 && g.area(a.child1).criticalPath != critNone {
		return a.child1
	}
	return a.child2
}

// placeKeys locks up to Doors.Keys corridors on the critical path and puts
// each key in the room furthest off the path reachable from that corridor
// without going through it. On the exit side the lock goes on the next
// corridor along the path, since the player arrives from the parent.
func (g *interior) placeKeys() {
	var candidates []int
	for i := range g.areas {
		a := g.area(i)
		if !a.isCorridor || a.criticalPath == critNone || i == 0 {
			continue
		}
		if a.criticalPath == critRight {
			if c := g.critChild(i); c < 0 || !g.area(c).isCorridor {
				continue
			}
		}
		candidates = append(candidates, i)
	}
	limit := min(g.p.Doors.Keys, gamemap.KeyCount)
	for len(candidates) > limit {
		k := g.b.Rand.Intn(len(candidates))
		candidates = append(candidates[:k], candidates[k+1:]...)
	}

	auxLocked := mapset.New[int]()
	locks := 0
	for _, idx := range candidates {
		lockIdx := idx
		if g.area(idx).criticalPath == critRight {
			lockIdx = g.critChild(idx)
		}
		var rooms []int
		for _, r := range g.findRoomsFurthestFromCriticalPath(idx) {
			if !auxLocked.Has(r) {
				rooms = append(rooms, r)
			}
		}
		if len(rooms) == 0 {
			g.b.logf("no room for key behind corridor %d", lockIdx)
			continue
		}
		key := locks
		mask := gamemap.AccessMask(key)
		g.lockCorridor(g.area(lockIdx), mask)
		g.b.Rand.Shuffle(len(rooms), func(i, j int) { rooms[i], rooms[j] = rooms[j], rooms[i] })
		g.placeKey(rooms[0], key, g.area(lockIdx).criticalPath)
		g.addLockedRooms(rooms, mask, auxLocked)
		locks++
	}
	g.b.Map.KeyAccessCount = locks
}

// lockCorridor sets mask on the open tiles across both ends of corridor a.
func (g *interior) lockCorridor(a *bspArea, mask uint16) {
	across := a.dAcross()
	end1 := gamemap.Point{X: a.r.X, Y: a.r.Y}
	end2 := gamemap.Point{X: a.r.X + a.r.W - 1, Y: a.r.Y + a.r.H - 1}
	for k := range g.p.CorridorWidth {
		for _, p := range []gamemap.Point{end1.Add(scale(across, k)), end2.Add(scale(across, -k))} {
			if g.b.Map.InBounds(p.X, p.Y) && !g.b.Map.IsWall(p) {
				g.b.Map.SetAccess(p, mask)
			}
		}
	}
}

// findRoomsFurthestFromCriticalPath follows connections from fromIdx away
// from the critical path and returns the areas where every branch ends.
func (g *interior) findRoomsFurthestFromCriticalPath(fromIdx int) []int {
	seen := mapset.New[int]()
	seen.Put(fromIdx)
	list := []int{fromIdx}
	var furthest []int
	for i := 0; i < len(list); i++ {
		idx := list[i]
		hasChildren := false
		for j := range g.areas {
			if j == idx || !g.adj.isConnected(idx, j) || g.dist[j] <= g.dist[idx] {
				continue
			}
			hasChildren = true
			if !seen.Has(j) {
				seen.Put(j)
				list = append(list, j)
			}
		}
		if !hasChildren && g.area(idx).criticalPath == critNone {
			furthest = append(furthest, idx)
		}
	}
	return furthest
}

// placeKey puts key k at the centre of room idx, then pulls the room and
// its path back to the critical path onto the critical path.
func (g *interior) placeKey(idx, k int, cp criticalPath) {
	room := g.area(idx)
	g.b.PlaceKey(room.r.Center(), k)
	room.criticalPath = cp
	dNext := g.dist[idx]
	g.dist[idx] = 1
	next := idx
	for dNext--; dNext > 1; dNext-- {
		for j := range g.areas {
			if g.adj.isConnected(j, next) && g.dist[j] == dNext {
				next = j
				g.area(j).criticalPath = cp
				g.dist[j] = 1
				break
			}
		}
	}
}

// addLockedRooms locks some of the other candidate rooms with the same
// mask so objectives can be held back behind the key.
func (g *interior) addLockedRooms(rooms []int, mask uint16, locked mapset.Set[int]) {
	for _, idx := range rooms[1:] {
		if !g.b.coin() {
			continue
		}
		g.b.SetRoomAccessMask(g.area(idx).r.Inset(1), mask)
		locked.Put(idx)
	}
}

// addPillars turns off-path dead-end areas into solid blocks, then clears
// wall fragments left with nothing walkable around them.
func (g *interior) addPillars() {
	for count := 0; count < g.p.Pillars.Count; {
		set := mapset.New[int]()
		for i, d := range g.dist {
			if d != 1 {
				continue
			}
			for _, c := range g.findRoomsFurthestFromCriticalPath(i) {
				set.Put(c)
			}
		}
		if set.Size() == 0 {
			break
		}
		all := make([]int, 0, set.Size())
		set.Each(func(i int) { all = append(all, i) })
		sort.Ints(all)
		g.b.Rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
		for _, idx := range all {
			if count == g.p.Pillars.Count {
				break
			}
			r := g.area(idx).r
			g.b.FillRect(r, g.b.Tiles.Wall, g.b.Tiles.Nothing)
			g.b.SetRoomAccessMask(r, 0)
			g.adj.disconnectAll(idx)
			count++
			g.b.logf("pillar %v", r)
		}
	}

	g.b.Map.Bounds().Each(func(p gamemap.Point) {
		if g.allTilesAroundUnwalkable(p) {
			g.b.set(p, g.b.Tiles.Nothing)
		}
	})
}

func (g *interior) allTilesAroundUnwalkable(p gamemap.Point) bool {
	for y := p.Y - 1; y <= p.Y+1; y++ {
		for x := p.X - 1; x <= p.X+1; x++ {
			if g.b.Map.IsWalkable(x, y) {
				return false
			}
		}
	}
	return true
}

// addRoomWalls decorates every room off the critical path.
func (g *interior) addRoomWalls() {
	for i := range g.areas {
		a := g.area(i)
		if a.isLeaf() && a.criticalPath == critNone {
			g.b.MakeRoomWalls(g.p.Rooms, a.r)
		}
	}
}
