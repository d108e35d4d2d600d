package generate

import (
	"cdogs-mapgen/internal/algo"
	"cdogs-mapgen/internal/gamemap"

	"github.com/zyedidia/generic/mapset"
)

var dirs4 = [4]gamemap.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// labelWalkable numbers the 4-connected walkable regions of the map, in
// row-major order of their first tile. Non-walkable tiles get 0.
func (b *Builder) labelWalkable() ([]int, int) {
	w := b.Map.Width
	labels := make([]int, w*b.Map.Height)
	n := 0
	for i := range labels {
		x, y := i%w, i/w
		id := n + 1
		filled := algo.FloodFill(x, y,
			func(x, y int) bool {
				return b.Map.IsWalkable(x, y) && labels[y*w+x] == 0
			},
			func(x, y int) { labels[y*w+x] = id },
		)
		if filled {
			n = id
		}
	}
	return labels, n
}

// EnsureConnected carves floor so that every walkable tile can be reached
// from start. Each stranded region is joined to the reachable set along the
// shortest path through unwalkable tiles. It reports how many regions were
// joined.
func (b *Builder) EnsureConnected(start gamemap.Point) int {
	labels, n := b.labelWalkable()
	if n <= 1 {
		return 0
	}
	w := b.Map.Width
	main := 0
	if b.Map.InBounds(start.X, start.Y) {
		main = labels[start.Y*w+start.X]
	}
	if main == 0 {
		main = largestLabel(labels, n)
	}
	joined := mapset.New[int]()
	joined.Put(main)

	linked := 0
	for id := 1; id <= n; id++ {
		if joined.Has(id) {
			continue
		}
		path := b.pathToJoined(labels, id, joined)
		for _, p := range path {
			if l := labels[p.Y*w+p.X]; l != 0 {
				joined.Put(l)
			}
			b.carve(p)
		}
		joined.Put(id)
		linked++
		b.logf("joined stranded region %d (%d tiles carved)", id, len(path))
	}
	return linked
}

func largestLabel(labels []int, n int) int {
	counts := make([]int, n+1)
	for _, l := range labels {
		counts[l]++
	}
	best := 1
	for id := 2; id <= n; id++ {
		if counts[id] > counts[best] {
			best = id
		}
	}
	return best
}

// pathToJoined runs a multi-source BFS from every tile of region id and
// returns the tiles strictly between it and the first joined tile reached.
func (b *Builder) pathToJoined(labels []int, id int, joined mapset.Set[int]) []gamemap.Point {
	w, h := b.Map.Width, b.Map.Height
	prev := make([]int, w*h)
	for i := range prev {
		prev[i] = -2
	}
	var queue []int
	for i, l := range labels {
		if l == id {
			prev[i] = -1
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		p := gamemap.Point{X: i % w, Y: i / w}
		for _, d := range dirs4 {
			q := p.Add(d)
			if !b.Map.InBounds(q.X, q.Y) {
				continue
			}
			j := q.Y*w + q.X
			if prev[j] != -2 {
				continue
			}
			prev[j] = i
			if joined.Has(labels[j]) {
				var path []gamemap.Point
				for k := i; prev[k] != -1; k = prev[k] {
					path = append(path, gamemap.Point{X: k % w, Y: k / w})
				}
				return path
			}
			queue = append(queue, j)
		}
	}
	return nil
}
