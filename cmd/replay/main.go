package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	persistlog "termsnake/internal/persistence/log"
	"termsnake/internal/persistence/snapshot"
	"termsnake/internal/sim/engine"
	"termsnake/internal/sim/game"
)

func main() {
	var (
		eventsDir = flag.String("events", "", "events dir containing events-*.jsonl.zst")
		snapPath  = flag.String("snapshot", "", "override the snapshot named in the start record (resumed games)")
	)
	flag.Parse()

	if *eventsDir == "" {
		fmt.Fprintln(os.Stderr, "missing -events")
		os.Exit(2)
	}

	sum, err := verify(*eventsDir, *snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: game=%s checked=%d ticks outcome=%s len=%d\n", sum.GameID, sum.Checked, sum.Outcome, sum.Len)
}

type summary struct {
	GameID  string
	Checked uint64
	Outcome string
	Len     int
}

var errNoStart = errors.New("first record is not a start record")

// verify re-runs a recorded game from its start record and the requested directions,
// comparing the state digest after every tick.
func verify(eventsDir, snapOverride string) (summary, error) {
	var (
		sum summary
		g   *game.Game
	)
	err := persistlog.ReadEvents(eventsDir, func(rec persistlog.Record) error {
		switch {
		case rec.Start != nil:
			if g != nil {
				return fmt.Errorf("second start record at tick %d", rec.Start.Tick)
			}
			var err error
			g, err = startGame(*rec.Start, snapOverride)
			if err != nil {
				return err
			}
			sum.GameID = rec.Start.GameID
			if got := g.Engine().Digest(); got != rec.Start.Digest {
				return fmt.Errorf("start digest mismatch: got %s want %s", got, rec.Start.Digest)
			}

		case rec.Tick != nil:
			if g == nil {
				return errNoStart
			}
			e := rec.Tick
			g.Shared().SetRequested(e.Requested)
			res, _, err := g.StepOnce()
			if err != nil {
				return err
			}
			if res.Tick != e.Tick {
				return fmt.Errorf("tick mismatch: got %d want %d", res.Tick, e.Tick)
			}
			if res.Turned != e.Turned || res.Grew != e.Grew || res.Len != e.Len {
				return fmt.Errorf("tick %d: result mismatch: got turned=%v grew=%v len=%d", e.Tick, res.Turned, res.Grew, res.Len)
			}
			if got := g.Engine().Digest(); got != e.Digest {
				return fmt.Errorf("tick %d: digest mismatch: got %s want %s", e.Tick, got, e.Digest)
			}
			sum.Checked++

		case rec.End != nil:
			if g == nil {
				return errNoStart
			}
			sum.Outcome = rec.End.Outcome
			sum.Len = g.Engine().Len()
			if sum.Len != rec.End.Len {
				return fmt.Errorf("end length mismatch: got %d want %d", sum.Len, rec.End.Len)
			}
		}
		return nil
	})
	if err != nil {
		return sum, err
	}
	if g == nil {
		return sum, errNoStart
	}
	if sum.Outcome == "" {
		sum.Len = g.Engine().Len()
	}
	return sum, nil
}

func startGame(st game.StartEntry, snapOverride string) (*game.Game, error) {
	var (
		eng *engine.Engine
		err error
	)
	path := st.Snapshot
	if snapOverride != "" {
		path = snapOverride
	}
	if path != "" {
		snap, rerr := snapshot.ReadSnapshot(path)
		if rerr != nil {
			return nil, fmt.Errorf("read snapshot: %w", rerr)
		}
		eng, err = engine.FromSnapshot(snap)
	} else {
		eng, err = engine.New(engine.Config{Height: st.Height, Width: st.Width, Heading: st.Heading, Seed: st.Seed})
	}
	if err != nil {
		return nil, err
	}
	if eng.Tick() != st.Tick {
		return nil, fmt.Errorf("start tick mismatch: engine at %d, log at %d", eng.Tick(), st.Tick)
	}
	return game.New(game.Config{GameID: st.GameID, TickInterval: time.Millisecond}, eng)
}
