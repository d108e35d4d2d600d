package algo

// FloodFill fills the 4-connected region around (x, y) for which isSame
// holds, calling fill once per cell before its neighbours are examined.
//
// No visited set is kept: fill must change the cell so that isSame reports
// false for it afterwards. A worklist is used instead of recursion so that
// regions spanning a whole map cannot exhaust the stack.
//
// FloodFill reports whether the start cell was filled.
func FloodFill(x, y int, isSame func(x, y int) bool, fill func(x, y int)) bool {
	if !isSame(x, y) {
		return false
	}
	stack := [][2]int{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !isSame(p[0], p[1]) {
			continue
		}
		fill(p[0], p[1])
		// Pushed in reverse so left is explored first.
		stack = append(stack,
			[2]int{p[0], p[1] + 1},
			[2]int{p[0], p[1] - 1},
			[2]int{p[0] + 1, p[1]},
			[2]int{p[0] - 1, p[1]},
		)
	}
	return true
}
