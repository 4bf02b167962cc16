package indexdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"termsnake/internal/sim/engine"
	"termsnake/internal/sim/game"
)

func TestSQLiteIndex_RecordGameAndTopGames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	idx.RecordGame(GameRow{GameID: "a", StartedAt: start, EndedAt: start.Add(time.Minute), Height: 10, Width: 20, Seed: 1 << 63, Ticks: 300, Len: 7, Outcome: "game_over"})
	idx.RecordGame(GameRow{GameID: "b", StartedAt: start, EndedAt: start, Height: 10, Width: 20, Seed: 2, Ticks: 100, Len: 7, Outcome: "quit"})
	idx.RecordGame(GameRow{GameID: "c", StartedAt: start, EndedAt: start, Height: 10, Width: 20, Seed: 3, Ticks: 50, Len: 2, Outcome: "game_over"})
	idx.RecordGame(GameRow{})
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	idx, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx.Close()

	top, err := idx.TopGames(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopGames: %v", err)
	}
	if len(top) != 2 || top[0].GameID != "b" || top[1].GameID != "a" {
		t.Fatalf("top = %+v", top)
	}
	if top[1].Seed != 1<<63 || top[1].Ticks != 300 || !top[1].EndedAt.Equal(start.Add(time.Minute)) {
		t.Fatalf("row a = %+v", top[1])
	}
}

func TestSQLiteIndex_Ticks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	var tl game.TickLogger = idx.Ticks("g1")
	for i := uint64(0); i < 5; i++ {
		_ = tl.WriteTick(game.TickEntry{Kind: game.KindTick, Tick: i, Requested: engine.Left, Grew: i == 3, Head: [2]int{1, int(i)}, Len: 1, Digest: "x"})
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()
	var (
		requested string
		grew      int
		col       int
	)
	if err := db.QueryRow(`SELECT requested,grew,head_col FROM ticks WHERE game_id='g1' AND tick=3`).Scan(&requested, &grew, &col); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if requested != "left" || grew != 1 || col != 3 {
		t.Fatalf("row = %s %d %d", requested, grew, col)
	}

	idx, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx.Close()
	n, err := idx.TickCount(context.Background(), "g1")
	if err != nil || n != 5 {
		t.Fatalf("TickCount = %d, %v", n, err)
	}
}

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqTick}

	s.WriteTick("g", game.TickEntry{Tick: 2})
	s.RecordGame(GameRow{GameID: "g"})

	st := s.Stats()
	if st.DropTickTotal != 1 || st.DropGameTotal != 1 {
		t.Fatalf("drops = %+v", st)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}

func TestSQLiteIndex_NilAndClosedAreNoops(t *testing.T) {
	var s *SQLiteIndex
	s.WriteTick("g", game.TickEntry{})
	s.RecordGame(GameRow{GameID: "g"})
	if st := s.Stats(); st != (Stats{}) {
		t.Fatalf("nil stats = %+v", st)
	}

	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	idx.RecordGame(GameRow{GameID: "late"})
	if err := idx.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
