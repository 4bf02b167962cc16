package engine

// IsOut reports whether the head has left the board or two cells of different segments
// overlap. A straight run cannot overlap itself, so any repeated cell is a collision.
func (e *Engine) IsOut() bool {
	if !e.grid.InBounds(e.head) {
		return true
	}

	seen := make(map[Point]int, e.body.Len())
	out := false
	e.body.Walk(e.head, func(seg int, p Point) bool {
		if prev, ok := seen[p]; ok && prev != seg {
			out = true
			return false
		}
		seen[p] = seg
		return true
	})
	return out
}
