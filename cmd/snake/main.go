package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"termsnake/internal/observerproto"
	"termsnake/internal/persistence/archive"
	"termsnake/internal/persistence/indexdb"
	persistlog "termsnake/internal/persistence/log"
	"termsnake/internal/persistence/snapshot"
	"termsnake/internal/sim/engine"
	"termsnake/internal/sim/game"
	"termsnake/internal/sim/tuning"
	"termsnake/internal/term"
	"termsnake/internal/transport/observer"
)

func main() {
	var (
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml (missing file means defaults)")
		height     = flag.Int("height", 0, "board rows (0: ask)")
		width      = flag.Int("width", 0, "board columns (0: ask)")
		tickMS     = flag.Int("tick_ms", 0, "milliseconds per tick")
		heading    = flag.String("heading", "", "initial heading: up|down|left|right")
		seed       = flag.Uint64("seed", 0, "food placement seed (0: from clock)")
		dataDir    = flag.String("data", "", "runtime data directory")
		observe    = flag.String("observe", "", "serve the spectator stream on this address, e.g. 127.0.0.1:8091")
		disableDB  = flag.Bool("disable_db", false, "do not record games in <data>/index.db")
		indexTicks = flag.Bool("index_ticks", false, "also index every tick in <data>/index.db")
		resume     = flag.String("resume", "", "start from a .snap.zst written by an earlier game")
		gameID     = flag.String("game", "", "game id (default: derived from the start time)")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[snake] ", log.LstdFlags|log.Lmicroseconds)

	tune, err := loadTuning(*tuningPath)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "height":
			tune.Height = *height
		case "width":
			tune.Width = *width
		case "tick_ms":
			tune.TickMS = *tickMS
		case "heading":
			tune.Heading = *heading
		case "seed":
			tune.Seed = *seed
		case "data":
			tune.DataDir = *dataDir
		case "observe":
			tune.ObserverAddr = *observe
		case "disable_db":
			tune.DisableDB = *disableDB
		case "index_ticks":
			tune.IndexTicks = *indexTicks
		}
	})
	tune.Normalize()
	if err := tune.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	snapPath := strings.TrimSpace(*resume)
	eng, err := newEngine(tune, snapPath)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	id := strings.TrimSpace(*gameID)
	if id == "" {
		id = time.Now().UTC().Format("20060102-150405.000000")
	}
	gameDir := filepath.Join(tune.DataDir, "games", id)
	if err := os.MkdirAll(gameDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}
	logFile, err := os.OpenFile(filepath.Join(tune.DataDir, "snake.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Fatalf("log file: %v", err)
	}
	defer logFile.Close()
	// The terminal UI owns stdout and stderr from here on.
	logger.SetOutput(logFile)

	os.Exit(run(runConfig{
		Tuning:   tune,
		GameID:   id,
		GameDir:  gameDir,
		Snapshot: snapPath,
	}, eng, logger, os.Stdout))
}

func loadTuning(path string) (tuning.Tuning, error) {
	t, err := tuning.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return tuning.Load("")
	}
	return t, err
}

func newEngine(tune tuning.Tuning, snapPath string) (*engine.Engine, error) {
	if snapPath != "" {
		snap, err := snapshot.ReadSnapshot(snapPath)
		if err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		eng, err := engine.FromSnapshot(snap)
		if err != nil {
			return nil, fmt.Errorf("resume: %w", err)
		}
		return eng, nil
	}

	h, w := tune.Height, tune.Width
	if !tune.SizeKnown() {
		if !term.StdinIsTerminal() {
			return nil, errors.New("stdin is not a terminal; pass -height and -width")
		}
		var err error
		h, w, err = term.PromptSize(os.Stdin, os.Stdout)
		if err != nil {
			return nil, err
		}
	}
	seed := tune.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return engine.New(engine.Config{
		Height:  h,
		Width:   w,
		Heading: tune.EngineHeading(h, w),
		Seed:    seed,
	})
}

type runConfig struct {
	Tuning   tuning.Tuning
	GameID   string
	GameDir  string
	Snapshot string
}

func run(cfg runConfig, eng *engine.Engine, logger *log.Logger, out io.Writer) int {
	ctx, cancel := signalContext()
	defer cancel()

	tune := cfg.Tuning
	startedAt := time.Now()

	tickLog := persistlog.NewTickLogger(cfg.GameDir)
	defer tickLog.Close()
	loggers := game.TickLoggers{tickLog}

	var (
		idx      *indexdb.SQLiteIndex
		prevBest int
	)
	if !tune.DisableDB {
		var err error
		idx, err = indexdb.OpenSQLite(filepath.Join(tune.DataDir, "index.db"))
		if err != nil {
			logger.Printf("index disabled: %v", err)
			idx = nil
		} else {
			defer idx.Close()
			if top, err := idx.TopGames(ctx, 1); err == nil && len(top) > 0 {
				prevBest = top[0].Len
			}
			if tune.IndexTicks {
				loggers = append(loggers, idx.Ticks(cfg.GameID))
			}
		}
	}

	var pub game.Publisher
	if tune.ObserverAddr != "" {
		hub := observer.NewHub(cfg.GameID, observerproto.BoardParams{
			Height: eng.Grid().Height(),
			Width:  eng.Grid().Width(),
			TickMS: tune.TickMS,
			Seed:   eng.Config().Seed,
		})
		srv := observer.NewServer(hub, logger)
		go func() {
			if err := srv.Serve(ctx, tune.ObserverAddr); err != nil {
				logger.Printf("observer: %v", err)
			}
		}()
		pub = hub
	}

	screen, err := term.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	g, err := game.New(game.Config{
		GameID:       cfg.GameID,
		TickInterval: time.Duration(tune.TickMS) * time.Millisecond,
		Snapshot:     cfg.Snapshot,
		Display:      screen,
		Keys:         screen,
		TickLogger:   loggers,
		Publisher:    pub,
		Logger:       logger,
	}, eng)
	if err != nil {
		screen.Close()
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger.Printf("game %s: %dx%d seed=%d tick=%dms", cfg.GameID, eng.Grid().Height(), eng.Grid().Width(), eng.Config().Seed, tune.TickMS)

	outcome, runErr := g.Run(ctx)
	screen.Close()

	finalPath := filepath.Join(cfg.GameDir, "final.snap.zst")
	final := eng.ExportSnapshot(cfg.GameID)
	if err := snapshot.WriteSnapshot(finalPath, final); err != nil {
		logger.Printf("snapshot: %v", err)
		finalPath = ""
	}
	if idx != nil {
		if dst, ok, err := archive.ArchiveBest(tune.DataDir, finalPath, final, outcome.String(), prevBest); err != nil {
			logger.Printf("archive: %v", err)
		} else if ok {
			logger.Printf("new best length %d (was %d): %s", eng.Len(), prevBest, dst)
		}
	}
	idx.RecordGame(indexdb.GameRow{
		GameID:    cfg.GameID,
		StartedAt: startedAt,
		EndedAt:   time.Now(),
		Height:    eng.Grid().Height(),
		Width:     eng.Grid().Width(),
		Seed:      eng.Config().Seed,
		Ticks:     eng.Tick(),
		Len:       eng.Len(),
		Outcome:   outcome.String(),
		EventsDir: persistlog.EventsDir(cfg.GameDir),
		Snapshot:  finalPath,
	})
	logger.Printf("game %s ended: %s len=%d ticks=%d", cfg.GameID, outcome, eng.Len(), eng.Tick())

	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		return 1
	}
	fmt.Fprintf(out, "%s: length %d after %d ticks\n", strings.ReplaceAll(outcome.String(), "_", " "), eng.Len(), eng.Tick())
	if err := eng.WriteReport(out); err != nil {
		return 1
	}
	return 0
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
