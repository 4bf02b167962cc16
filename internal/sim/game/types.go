package game

import (
	"termsnake/internal/sim/engine"
)

type Outcome int

const (
	Running Outcome = iota
	GameOver
	Quit
	// Won means the snake covers the whole board.
	Won
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case GameOver:
		return "game_over"
	case Quit:
		return "quit"
	case Won:
		return "won"
	default:
		return "unknown"
	}
}

type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyQuit
)

func (k Key) Direction() (engine.Direction, bool) {
	switch k {
	case KeyUp:
		return engine.Up, true
	case KeyDown:
		return engine.Down, true
	case KeyLeft:
		return engine.Left, true
	case KeyRight:
		return engine.Right, true
	default:
		return engine.Up, false
	}
}

// Frame is a read-only copy of the board for one redraw.
type Frame struct {
	GameID  string
	Tick    uint64
	Height  int
	Width   int
	Heading engine.Direction
	Head    engine.Point
	Cells   []engine.Point // head first
	Body    engine.Body
	Food    []engine.Point
	Len     int
	Outcome Outcome
}

// Display renders frames. The tick loop is its only caller.
type Display interface {
	Draw(f Frame) error
}

// KeySource delivers decoded key presses. The channel may be closed when input ends.
type KeySource interface {
	Keys() <-chan Key
}

// Publisher fans frames out to spectators. It must not block the tick loop.
type Publisher interface {
	Publish(f Frame)
}

type StartEntry struct {
	Kind     string           `json:"kind"`
	GameID   string           `json:"game_id"`
	Tick     uint64           `json:"tick"`
	Height   int              `json:"height"`
	Width    int              `json:"width"`
	Heading  engine.Direction `json:"heading"`
	Seed     uint64           `json:"seed"`
	TickMS   int              `json:"tick_ms"`
	Snapshot string           `json:"snapshot,omitempty"`
	Digest   string           `json:"digest"`
}

type TickEntry struct {
	Kind      string           `json:"kind"`
	Tick      uint64           `json:"tick"`
	Requested engine.Direction `json:"requested"`
	Turned    bool             `json:"turned,omitempty"`
	Grew      bool             `json:"grew,omitempty"`
	Head      [2]int           `json:"head"`
	Food      [][2]int         `json:"food,omitempty"`
	Len       int              `json:"len"`
	Digest    string           `json:"digest"`
}

type EndEntry struct {
	Kind    string `json:"kind"`
	Tick    uint64 `json:"tick"`
	Outcome string `json:"outcome"`
	Len     int    `json:"len"`
}

const (
	KindStart = "start"
	KindTick  = "tick"
	KindEnd   = "end"
)

// TickLogger records a game so it can be replayed.
type TickLogger interface {
	WriteStart(StartEntry) error
	WriteTick(TickEntry) error
	WriteEnd(EndEntry) error
}

// TickLoggers writes every entry to each logger and returns the first error.
type TickLoggers []TickLogger

func (ls TickLoggers) WriteStart(e StartEntry) error {
	var first error
	for _, l := range ls {
		if err := l.WriteStart(e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (ls TickLoggers) WriteTick(e TickEntry) error {
	var first error
	for _, l := range ls {
		if err := l.WriteTick(e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (ls TickLoggers) WriteEnd(e EndEntry) error {
	var first error
	for _, l := range ls {
		if err := l.WriteEnd(e); err != nil && first == nil {
			first = err
		}
	}
	return first
}
