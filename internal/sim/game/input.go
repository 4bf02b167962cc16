package game

import "context"

// readInput forwards key presses into the shared state until the game ends. It never
// touches the engine.
func (g *Game) readInput(ctx context.Context, stop context.CancelFunc) {
	keys := g.cfg.Keys.Keys()
	for {
		if g.shared.Over() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case k, ok := <-keys:
			if !ok {
				return
			}
			if k == KeyQuit {
				g.shared.SetQuit()
				stop()
				return
			}
			if d, ok := k.Direction(); ok {
				g.shared.SetRequested(d)
			}
		}
	}
}
