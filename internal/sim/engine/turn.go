package engine

// ApplyTurn starts a new zero-length head segment when requested is a real turn. Keeping
// the current heading or reversing into the neck leaves the body unchanged.
func (e *Engine) ApplyTurn(requested Direction) bool {
	h := e.Heading()
	if requested == h || requested == Reflect(h) || !requested.Valid() {
		return false
	}
	e.body.pushHead(Segment{Count: 0, Dir: Reflect(requested)})
	return true
}

type StepResult struct {
	Tick   uint64
	Turned bool
	Grew   bool
	// Full is set when the snake covers the board and no food could be placed.
	Full bool
	Out  bool
	Head Point
	Len  int
}

// Step runs one tick: turn, advance, respawn eaten food, then check for loss.
func (e *Engine) Step(requested Direction) StepResult {
	res := StepResult{Tick: e.tick}
	res.Turned = e.ApplyTurn(requested)
	res.Grew = e.Advance()
	if res.Grew {
		res.Full = !e.RespawnFood()
	}
	res.Out = e.IsOut()
	res.Head = e.head
	res.Len = e.body.Len()
	e.tick++
	return res
}
