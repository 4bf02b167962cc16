// Package control holds the state shared between the tick loop and the input reader.
// Each cell has a single writer; plain atomic loads and stores are enough.
package control

import (
	"sync/atomic"

	"termsnake/internal/sim/engine"
)

type Shared struct {
	requested atomic.Uint32
	over      atomic.Bool
	quit      atomic.Bool
}

func New(initial engine.Direction) *Shared {
	s := &Shared{}
	s.requested.Store(uint32(initial))
	return s
}

// Requested is the latest direction written by the input reader.
func (s *Shared) Requested() engine.Direction {
	return engine.Direction(s.requested.Load())
}

func (s *Shared) SetRequested(d engine.Direction) {
	if !d.Valid() {
		return
	}
	s.requested.Store(uint32(d))
}

// Over is set once by the tick loop when the snake is lost.
func (s *Shared) Over() bool { return s.over.Load() }
func (s *Shared) SetOver()   { s.over.Store(true) }

// Quit is set once by the input reader on a quit key.
func (s *Shared) Quit() bool { return s.quit.Load() }
func (s *Shared) SetQuit()   { s.quit.Store(true) }
