package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"termsnake/internal/sim/game"
)

// SQLiteIndex is a secondary, queryable index of finished games. Writes are queued to a
// single writer goroutine and dropped when it falls behind; the tick log stays the
// source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropTick atomic.Uint64
	dropGame atomic.Uint64
}

type reqKind int

const (
	reqTick reqKind = iota + 1
	reqGame
)

type req struct {
	kind reqKind

	gameID string
	tick   game.TickEntry
	game   GameRow
}

// GameRow is one finished game.
type GameRow struct {
	GameID    string
	StartedAt time.Time
	EndedAt   time.Time
	Height    int
	Width     int
	Seed      uint64
	Ticks     uint64
	Len       int
	Outcome   string
	EventsDir string
	Snapshot  string
}

type Stats struct {
	QueueDepth    int
	QueueCapacity int
	DropTickTotal uint64
	DropGameTotal uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	return openSQLite(path, 65536)
}

func openSQLite(path string, queue int) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, queue),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS games (
			game_id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			height INTEGER NOT NULL,
			width INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			length INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			events_dir TEXT NOT NULL,
			snapshot_path TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_length ON games(length DESC, ticks ASC);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			game_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			requested TEXT NOT NULL,
			turned INTEGER NOT NULL,
			grew INTEGER NOT NULL,
			head_row INTEGER NOT NULL,
			head_col INTEGER NOT NULL,
			length INTEGER NOT NULL,
			digest TEXT NOT NULL,
			PRIMARY KEY (game_id, tick)
		);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close drains the queue, commits and closes the database.
func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:    len(s.ch),
		QueueCapacity: cap(s.ch),
		DropTickTotal: s.dropTick.Load(),
		DropGameTotal: s.dropGame.Load(),
	}
}

func (s *SQLiteIndex) WriteTick(gameID string, entry game.TickEntry) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqTick, gameID: gameID, tick: entry}:
	default:
		s.dropTick.Add(1)
	}
}

func (s *SQLiteIndex) RecordGame(row GameRow) {
	if s == nil || s.closed.Load() || row.GameID == "" {
		return
	}
	select {
	case s.ch <- req{kind: reqGame, game: row}:
	default:
		s.dropGame.Add(1)
	}
}

// TopGames lists the longest snakes first, ties broken by fewer ticks.
func (s *SQLiteIndex) TopGames(ctx context.Context, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `SELECT game_id,started_at,ended_at,height,width,seed,ticks,length,outcome,events_dir,snapshot_path
		FROM games ORDER BY length DESC, ticks ASC, game_id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameRow
	for rows.Next() {
		var (
			g              GameRow
			started, ended string
			seed, ticks    int64
		)
		if err := rows.Scan(&g.GameID, &started, &ended, &g.Height, &g.Width, &seed, &ticks, &g.Len, &g.Outcome, &g.EventsDir, &g.Snapshot); err != nil {
			return nil, err
		}
		g.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		g.EndedAt, _ = time.Parse(time.RFC3339Nano, ended)
		g.Seed = uint64(seed)
		g.Ticks = uint64(ticks)
		out = append(out, g)
	}
	return out, rows.Err()
}

// TickCount reports how many ticks are indexed for a game.
func (s *SQLiteIndex) TickCount(ctx context.Context, gameID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ticks WHERE game_id=?`, gameID).Scan(&n)
	return n, err
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertTick, _ := s.db.Prepare(`INSERT OR REPLACE INTO ticks(game_id,tick,requested,turned,grew,head_row,head_col,length,digest) VALUES(?,?,?,?,?,?,?,?,?)`)
	insertGame, _ := s.db.Prepare(`INSERT OR REPLACE INTO games(game_id,started_at,ended_at,height,width,seed,ticks,length,outcome,events_dir,snapshot_path) VALUES(?,?,?,?,?,?,?,?,?,?,?)`)
	defer func() {
		if insertTick != nil {
			_ = insertTick.Close()
		}
		if insertGame != nil {
			_ = insertGame.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		commitEvery   = 500
		commitMaxWait = time.Second
	)
	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
	}

	ticker := time.NewTicker(commitMaxWait)
	defer ticker.Stop()

	for {
		var (
			r  req
			ok bool
		)
		select {
		case <-ticker.C:
			commit()
			continue
		case r, ok = <-s.ch:
		}
		if !ok {
			break
		}
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqTick:
			e := r.tick
			if insertTick == nil {
				continue
			}
			if _, err := tx.Stmt(insertTick).Exec(
				r.gameID,
				int64(e.Tick),
				e.Requested.String(),
				boolInt(e.Turned),
				boolInt(e.Grew),
				e.Head[0], e.Head[1],
				e.Len,
				e.Digest,
			); err != nil {
				rollback()
				continue
			}
			opCount++

		case reqGame:
			g := r.game
			if insertGame == nil {
				continue
			}
			if _, err := tx.Stmt(insertGame).Exec(
				g.GameID,
				g.StartedAt.UTC().Format(time.RFC3339Nano),
				g.EndedAt.UTC().Format(time.RFC3339Nano),
				g.Height,
				g.Width,
				int64(g.Seed),
				int64(g.Ticks),
				g.Len,
				g.Outcome,
				g.EventsDir,
				g.Snapshot,
			); err != nil {
				rollback()
				continue
			}
			opCount++
		}
		if opCount >= commitEvery {
			commit()
		}
	}

	commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
