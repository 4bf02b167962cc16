package engine

import (
	"fmt"

	"golang.org/x/exp/rand"

	"termsnake/internal/persistence/snapshot"
)

func (e *Engine) ExportSnapshot(gameID string) snapshot.SnapshotV1 {
	snap := snapshot.SnapshotV1{
		Header: snapshot.Header{Version: snapshot.Version, GameID: gameID, Tick: e.tick},
		Height: e.grid.Height(),
		Width:  e.grid.Width(),
		Seed:   e.cfg.Seed,
		Head:   [2]int{e.head.Row, e.head.Col},
	}
	snap.Segments = make([]snapshot.SegmentV1, 0, len(e.body))
	for _, s := range e.body {
		snap.Segments = append(snap.Segments, snapshot.SegmentV1{Count: s.Count, Dir: uint32(s.Dir)})
	}
	e.grid.Each(func(p Point) bool {
		snap.Food = append(snap.Food, [2]int{p.Row, p.Col})
		return true
	})
	if b, err := e.src.MarshalBinary(); err == nil {
		snap.RNG = b
	}
	return snap
}

// FromSnapshot rebuilds an engine. The heading comes from the stored head segment.
func FromSnapshot(snap snapshot.SnapshotV1) (*Engine, error) {
	if len(snap.Segments) == 0 {
		return nil, fmt.Errorf("snapshot has no segments")
	}
	head := Direction(snap.Segments[0].Dir)
	if !head.Valid() {
		return nil, fmt.Errorf("snapshot head segment has invalid direction %d", snap.Segments[0].Dir)
	}
	e, err := New(Config{Height: snap.Height, Width: snap.Width, Heading: Reflect(head), Seed: snap.Seed})
	if err != nil {
		return nil, err
	}

	e.body = e.body[:0]
	for i, s := range snap.Segments {
		d := Direction(s.Dir)
		if !d.Valid() || s.Count < 0 {
			return nil, fmt.Errorf("snapshot segment %d invalid: %+v", i, s)
		}
		e.body = append(e.body, Segment{Count: s.Count, Dir: d})
	}
	e.head = Point{Row: snap.Head[0], Col: snap.Head[1]}
	e.tick = snap.Header.Tick
	for _, f := range snap.Food {
		p := Point{Row: f[0], Col: f[1]}
		if !e.grid.InBounds(p) {
			return nil, fmt.Errorf("snapshot food out of bounds: %v", f)
		}
		e.grid.Set(p, true)
	}
	if len(snap.RNG) > 0 {
		src := &rand.PCGSource{}
		if err := src.UnmarshalBinary(snap.RNG); err != nil {
			return nil, fmt.Errorf("snapshot rng: %w", err)
		}
		e.src = src
		e.rng = rand.New(src)
	}
	return e, nil
}
