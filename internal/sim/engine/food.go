package engine

// RespawnFood places one food cell on a uniformly random cell the body does not cover.
// It returns false when the body covers the whole board and nothing can be placed.
func (e *Engine) RespawnFood() bool {
	area := e.grid.Area()
	if e.body.Len() >= area {
		return false
	}

	h, w := e.grid.Height(), e.grid.Width()
	for tries := 0; tries < 4*area; tries++ {
		p := Point{Row: e.rng.Intn(h), Col: e.rng.Intn(w)}
		if e.BodyIntersects(p) && !e.grid.Has(p) {
			continue
		}
		e.grid.Set(p, true)
		return true
	}

	// Dense board: pick among the free cells directly.
	occupied := make(map[Point]struct{}, e.body.Len())
	e.body.Walk(e.head, func(_ int, p Point) bool {
		occupied[p] = struct{}{}
		return true
	})
	free := make([]Point, 0, area-len(occupied))
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			p := Point{Row: r, Col: c}
			if _, ok := occupied[p]; !ok {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return false
	}
	e.grid.Set(free[e.rng.Intn(len(free))], true)
	return true
}
