package engine

import (
	"fmt"

	"golang.org/x/exp/rand"
)

type Config struct {
	Height  int
	Width   int
	Heading Direction
	Seed    uint64
}

// DefaultHeading moves along the longer side of the board.
func DefaultHeading(height, width int) Direction {
	if width >= height {
		return Right
	}
	return Down
}

// Engine owns the board, the body and the head position. It is not safe for
// concurrent use; the game loop is its only caller while running.
type Engine struct {
	cfg  Config
	grid *Grid
	body Body
	head Point
	tick uint64

	src *rand.PCGSource
	rng *rand.Rand
}

func New(cfg Config) (*Engine, error) {
	if cfg.Height <= 0 || cfg.Width <= 0 {
		return nil, fmt.Errorf("board size must be positive: height=%d width=%d", cfg.Height, cfg.Width)
	}
	if !cfg.Heading.Valid() {
		return nil, fmt.Errorf("invalid heading %d", uint32(cfg.Heading))
	}
	src := &rand.PCGSource{}
	src.Seed(cfg.Seed)
	return &Engine{
		cfg:  cfg,
		grid: NewGrid(cfg.Height, cfg.Width),
		body: Body{{Count: 1, Dir: Reflect(cfg.Heading)}},
		head: Point{Row: cfg.Height / 2, Col: cfg.Width / 2},
		src:  src,
		rng:  rand.New(src),
	}, nil
}

func (e *Engine) Config() Config { return e.cfg }
func (e *Engine) Grid() *Grid    { return e.grid }
func (e *Engine) Head() Point    { return e.head }
func (e *Engine) Tick() uint64   { return e.tick }
func (e *Engine) Len() int       { return e.body.Len() }

// Heading is the direction the head currently moves in.
func (e *Engine) Heading() Direction { return Reflect(e.body.Head().Dir) }

// Body returns a copy of the segments, head first.
func (e *Engine) Body() Body { return e.body.Clone() }

// Cells visits every occupied cell head to tail.
func (e *Engine) Cells(fn func(seg int, p Point) bool) { e.body.Walk(e.head, fn) }

// Grow lengthens the tail segment by amount.
func (e *Engine) Grow(amount int) {
	e.body.Tail().Count += amount
}

// Advance moves the snake one cell. It reports whether food was eaten, in which case the
// snake grew by one and the food cell has been cleared.
func (e *Engine) Advance() bool {
	if len(e.body) == 0 {
		panic("engine: advance on empty body")
	}
	e.body.Head().Count++
	e.body.Tail().Count--
	if e.body.Tail().Count <= 0 {
		e.body.dropTail()
	}

	dr, dc := e.Heading().Step()
	e.head = e.head.Add(dr, dc)

	if e.grid.Has(e.head) {
		e.Grow(1)
		e.grid.Set(e.head, false)
		return true
	}
	return false
}

// BodyIntersects reports whether p is occupied by the snake.
func (e *Engine) BodyIntersects(p Point) bool {
	hit := false
	e.body.Walk(e.head, func(_ int, c Point) bool {
		if c == p {
			hit = true
			return false
		}
		return true
	})
	return hit
}

func (e *Engine) PlaceFood(p Point)    { e.grid.Set(p, true) }
func (e *Engine) ClearFood(p Point)    { e.grid.Set(p, false) }
func (e *Engine) HasFood(p Point) bool { return e.grid.Has(p) }

// Food returns the first food cell in row-major order.
func (e *Engine) Food() (Point, bool) {
	var (
		food  Point
		found bool
	)
	e.grid.Each(func(p Point) bool {
		food, found = p, true
		return false
	})
	return food, found
}
