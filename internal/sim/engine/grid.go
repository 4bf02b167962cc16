package engine

// Point is a (row, col) cell coordinate.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) Add(dRow, dCol int) Point {
	return Point{Row: p.Row + dRow, Col: p.Col + dCol}
}

// Grid marks food cells on a height x width board, stored row-major in one buffer.
type Grid struct {
	height int
	width  int
	food   []bool
}

func NewGrid(height, width int) *Grid {
	return &Grid{
		height: height,
		width:  width,
		food:   make([]bool, height*width),
	}
}

func (g *Grid) Height() int { return g.height }
func (g *Grid) Width() int  { return g.width }
func (g *Grid) Area() int   { return g.height * g.width }

func (g *Grid) InBounds(p Point) bool {
	return p.Row >= 0 && p.Row < g.height && p.Col >= 0 && p.Col < g.width
}

func (g *Grid) index(p Point) int { return p.Row*g.width + p.Col }

// Has reports whether p holds food. Out-of-range points never do.
func (g *Grid) Has(p Point) bool {
	if !g.InBounds(p) {
		return false
	}
	return g.food[g.index(p)]
}

func (g *Grid) Set(p Point, v bool) {
	if !g.InBounds(p) {
		return
	}
	g.food[g.index(p)] = v
}

// Each calls fn for every food cell in row-major order until fn returns false.
func (g *Grid) Each(fn func(p Point) bool) {
	for i, v := range g.food {
		if !v {
			continue
		}
		if !fn(Point{Row: i / g.width, Col: i % g.width}) {
			return
		}
	}
}

func (g *Grid) Count() int {
	n := 0
	for _, v := range g.food {
		if v {
			n++
		}
	}
	return n
}
