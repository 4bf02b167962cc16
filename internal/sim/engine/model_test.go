package engine

import (
	mrand "math/rand"
	"testing"
)

// refSnake is a cell-list snake driven alongside the engine. It shares no code with
// the run-length walk.
type refSnake struct {
	cells   []Point // head first
	heading Direction
}

func (s *refSnake) step(requested Direction, grew bool) {
	if requested != s.heading && requested != Reflect(s.heading) {
		s.heading = requested
	}
	head := s.cells[0]
	switch s.heading {
	case Up:
		head.Row--
	case Down:
		head.Row++
	case Left:
		head.Col--
	case Right:
		head.Col++
	}
	if !grew {
		s.cells = s.cells[:len(s.cells)-1]
	}
	s.cells = append([]Point{head}, s.cells...)
}

func (s *refSnake) occupied() map[Point]bool {
	m := make(map[Point]bool, len(s.cells))
	for _, c := range s.cells {
		m[c] = true
	}
	return m
}

func (s *refSnake) collided(height, width int) bool {
	h := s.cells[0]
	if h.Row < 0 || h.Row >= height || h.Col < 0 || h.Col >= width {
		return true
	}
	for _, c := range s.cells[1:] {
		if c == h {
			return true
		}
	}
	return false
}

// isOutPairwise is the quadratic scan: every cell against every cell of another segment.
func isOutPairwise(e *Engine) bool {
	if !e.grid.InBounds(e.head) {
		return true
	}
	out := false
	e.body.Walk(e.head, func(si int, p Point) bool {
		e.body.Walk(e.head, func(sj int, q Point) bool {
			if si != sj && p == q {
				out = true
				return false
			}
			return true
		})
		return !out
	})
	return out
}

func TestEngineMatchesReferenceSnake(t *testing.T) {
	const height, width = 12, 12
	dirs := []Direction{Up, Down, Left, Right}

	for seed := int64(0); seed < 40; seed++ {
		e, err := New(Config{Height: height, Width: width, Heading: Up, Seed: uint64(seed)})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if !e.RespawnFood() {
			t.Fatalf("initial food")
		}
		ref := &refSnake{cells: []Point{e.Head()}, heading: Up}
		r := mrand.New(mrand.NewSource(seed))

		requested := Up
		for tick := 0; tick < 400; tick++ {
			if r.Intn(3) == 0 {
				requested = dirs[r.Intn(len(dirs))]
			}
			before := e.Len()
			res := e.Step(requested)
			ref.step(requested, res.Grew)

			if res.Grew && e.Len() != before+1 {
				t.Fatalf("seed %d tick %d: grew but len %d -> %d", seed, tick, before, e.Len())
			}
			if !res.Grew && e.Len() != before {
				t.Fatalf("seed %d tick %d: len changed %d -> %d", seed, tick, before, e.Len())
			}
			if e.Head() != ref.cells[0] {
				t.Fatalf("seed %d tick %d: head %+v ref %+v", seed, tick, e.Head(), ref.cells[0])
			}
			if e.Len() != len(ref.cells) {
				t.Fatalf("seed %d tick %d: len %d ref %d", seed, tick, e.Len(), len(ref.cells))
			}

			wantOut := ref.collided(height, width)
			if res.Out != wantOut || isOutPairwise(e) != wantOut {
				t.Fatalf("seed %d tick %d: out=%v pairwise=%v ref=%v", seed, tick, res.Out, isOutPairwise(e), wantOut)
			}
			if res.Out {
				break
			}

			occ := ref.occupied()
			for row := 0; row < height; row++ {
				for col := 0; col < width; col++ {
					p := Point{Row: row, Col: col}
					if e.BodyIntersects(p) != occ[p] {
						t.Fatalf("seed %d tick %d: BodyIntersects(%+v)=%v ref=%v", seed, tick, p, !occ[p], occ[p])
					}
				}
			}
			if res.Full {
				break
			}
			if food, ok := e.Food(); !ok || occ[food] || e.Grid().Count() != 1 {
				t.Fatalf("seed %d tick %d: bad food %+v ok=%v count=%d", seed, tick, food, ok, e.Grid().Count())
			}
			for i := 1; i < len(e.body); i++ {
				if e.body[i].Dir == e.body[i-1].Dir {
					t.Fatalf("seed %d tick %d: adjacent segments share a direction: %+v", seed, tick, e.body)
				}
			}
		}
	}
}
