package generate

import "fmt"

// adjacency is a symmetric connection matrix over area indices.
type adjacency struct {
	n int
	m []bool
}

func newAdjacency(n int) *adjacency {
	return &adjacency{n: n, m: make([]bool, n*n)}
}

func (a *adjacency) index(i, j int) int {
	if i < 0 || j < 0 || i >= a.n || j >= a.n {
		panic(fmt.Sprintf("generate: adjacency (%d,%d) out of range for %d areas", i, j, a.n))
	}
	return i*a.n + j
}

func (a *adjacency) connect(i, j int) {
	a.m[a.index(i, j)] = true
	a.m[a.index(j, i)] = true
}

func (a *adjacency) isConnected(i, j int) bool {
	return a.m[a.index(i, j)]
}

func (a *adjacency) hasConnections(i int) bool {
	for j := range a.n {
		if a.isConnected(i, j) {
			return true
		}
	}
	return false
}

func (a *adjacency) disconnectAll(i int) {
	for j := range a.n {
		a.m[a.index(i, j)] = false
		a.m[a.index(j, i)] = false
	}
}
