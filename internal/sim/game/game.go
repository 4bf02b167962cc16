package game

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"termsnake/internal/sim/control"
	"termsnake/internal/sim/engine"
)

type Config struct {
	GameID       string
	TickInterval time.Duration
	// Snapshot is the path the engine was resumed from, if any.
	Snapshot string

	Display    Display
	Keys       KeySource
	TickLogger TickLogger
	Publisher  Publisher
	Logger     *log.Logger
}

// Game runs one engine with a periodic tick worker and an input reader. The engine is
// touched only by the tick worker; the reader talks to it through control.Shared.
type Game struct {
	cfg    Config
	eng    *engine.Engine
	shared *control.Shared
	log    *log.Logger

	outcome Outcome
}

func New(cfg Config, eng *engine.Engine) (*Game, error) {
	if eng == nil {
		return nil, fmt.Errorf("nil engine")
	}
	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive: %v", cfg.TickInterval)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if _, ok := eng.Food(); !ok {
		eng.RespawnFood()
	}
	g := &Game{
		cfg:    cfg,
		eng:    eng,
		shared: control.New(eng.Heading()),
		log:    logger,
	}
	if cfg.TickLogger != nil {
		err := cfg.TickLogger.WriteStart(StartEntry{
			Kind:     KindStart,
			GameID:   cfg.GameID,
			Tick:     eng.Tick(),
			Height:   eng.Grid().Height(),
			Width:    eng.Grid().Width(),
			Heading:  eng.Heading(),
			Seed:     eng.Config().Seed,
			TickMS:   int(cfg.TickInterval / time.Millisecond),
			Snapshot: cfg.Snapshot,
			Digest:   eng.Digest(),
		})
		if err != nil {
			g.log.Printf("tick log: write start: %v", err)
		}
	}
	return g, nil
}

func (g *Game) Engine() *engine.Engine  { return g.eng }
func (g *Game) Shared() *control.Shared { return g.shared }
func (g *Game) Outcome() Outcome        { return g.outcome }

// Run blocks until the snake is lost, the board is full, the player quits or ctx ends.
// Outcomes are not errors; an error means the display failed.
func (g *Game) Run(ctx context.Context) (Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if g.cfg.Keys != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.readInput(ctx, cancel)
		}()
	}

	outcome, err := g.loop(ctx)
	cancel()
	wg.Wait()

	g.outcome = outcome
	if outcome == Quit {
		g.publish(outcome)
	}
	g.writeEnd()
	return outcome, err
}

func (g *Game) loop(ctx context.Context) (Outcome, error) {
	if err := g.draw(Running); err != nil {
		return Quit, err
	}

	ticker := time.NewTicker(g.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Quit, nil
		case <-ticker.C:
			// A quit can race the tick; it wins.
			if g.shared.Quit() {
				return Quit, nil
			}
			_, outcome, err := g.StepOnce()
			if err != nil {
				return Quit, err
			}
			if outcome != Running {
				return outcome, nil
			}
		}
	}
}

// StepOnce runs one tick with the currently requested direction.
func (g *Game) StepOnce() (engine.StepResult, Outcome, error) {
	requested := g.shared.Requested()
	res := g.eng.Step(requested)

	outcome := Running
	switch {
	case res.Out:
		outcome = GameOver
	case res.Full:
		outcome = Won
	}
	if outcome != Running {
		g.shared.SetOver()
		g.outcome = outcome
	}

	if g.cfg.TickLogger != nil {
		entry := TickEntry{
			Kind:      KindTick,
			Tick:      res.Tick,
			Requested: requested,
			Turned:    res.Turned,
			Grew:      res.Grew,
			Head:      [2]int{res.Head.Row, res.Head.Col},
			Len:       res.Len,
			Digest:    g.eng.Digest(),
		}
		g.eng.Grid().Each(func(p engine.Point) bool {
			entry.Food = append(entry.Food, [2]int{p.Row, p.Col})
			return true
		})
		if err := g.cfg.TickLogger.WriteTick(entry); err != nil {
			g.log.Printf("tick log: write tick %d: %v", res.Tick, err)
		}
	}

	if outcome == GameOver {
		// The head may be off the board; spectators still get the final state.
		g.publish(outcome)
		return res, outcome, nil
	}
	return res, outcome, g.draw(outcome)
}

func (g *Game) draw(outcome Outcome) error {
	if g.cfg.Display == nil && g.cfg.Publisher == nil {
		return nil
	}
	f := g.Frame(outcome)
	if g.cfg.Publisher != nil {
		g.cfg.Publisher.Publish(f)
	}
	if g.cfg.Display != nil {
		if err := g.cfg.Display.Draw(f); err != nil {
			return fmt.Errorf("draw tick %d: %w", f.Tick, err)
		}
	}
	return nil
}

func (g *Game) publish(outcome Outcome) {
	if g.cfg.Publisher != nil {
		g.cfg.Publisher.Publish(g.Frame(outcome))
	}
}

// Frame copies the current engine state. Call it only from the tick worker, or after
// Run has returned.
func (g *Game) Frame(outcome Outcome) Frame {
	f := Frame{
		GameID:  g.cfg.GameID,
		Tick:    g.eng.Tick(),
		Height:  g.eng.Grid().Height(),
		Width:   g.eng.Grid().Width(),
		Heading: g.eng.Heading(),
		Head:    g.eng.Head(),
		Len:     g.eng.Len(),
		Body:    g.eng.Body(),
		Outcome: outcome,
	}
	f.Cells = make([]engine.Point, 0, f.Len)
	g.eng.Cells(func(_ int, p engine.Point) bool {
		f.Cells = append(f.Cells, p)
		return true
	})
	g.eng.Grid().Each(func(p engine.Point) bool {
		f.Food = append(f.Food, p)
		return true
	})
	return f
}

func (g *Game) writeEnd() {
	if g.cfg.TickLogger == nil {
		return
	}
	err := g.cfg.TickLogger.WriteEnd(EndEntry{
		Kind:    KindEnd,
		Tick:    g.eng.Tick(),
		Outcome: g.outcome.String(),
		Len:     g.eng.Len(),
	})
	if err != nil {
		g.log.Printf("tick log: write end: %v", err)
	}
}
