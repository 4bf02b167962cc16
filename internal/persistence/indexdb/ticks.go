package indexdb

import "termsnake/internal/sim/game"

// TickRecorder feeds one game's tick entries into the index.
type TickRecorder struct {
	idx    *SQLiteIndex
	gameID string
}

func (s *SQLiteIndex) Ticks(gameID string) *TickRecorder {
	return &TickRecorder{idx: s, gameID: gameID}
}

func (r *TickRecorder) WriteStart(game.StartEntry) error { return nil }
func (r *TickRecorder) WriteEnd(game.EndEntry) error     { return nil }

func (r *TickRecorder) WriteTick(e game.TickEntry) error {
	r.idx.WriteTick(r.gameID, e)
	return nil
}
