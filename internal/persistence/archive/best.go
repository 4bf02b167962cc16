package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"termsnake/internal/persistence/snapshot"
)

type BestMeta struct {
	GameID    string `json:"game_id"`
	Len       int    `json:"len"`
	Tick      uint64 `json:"tick"`
	Height    int    `json:"height"`
	Width     int    `json:"width"`
	Seed      uint64 `json:"seed"`
	Outcome   string `json:"outcome"`
	Previous  int    `json:"previous_best"`
	Snapshot  string `json:"snapshot"`
	CreatedAt string `json:"created_at"`
}

// ArchiveBest copies the final snapshot of a record-setting game into
// `dataDir/archives/best_<LLLLL>_<game>/` next to a meta.json. It returns
// (archivedPath, archived=true) only when the snapshot beats previousBest.
func ArchiveBest(dataDir, snapshotPath string, snap snapshot.SnapshotV1, outcome string, previousBest int) (archivedPath string, archived bool, err error) {
	n := snapLen(snap)
	if n <= previousBest || snapshotPath == "" {
		return "", false, nil
	}
	gameID := snap.Header.GameID
	if gameID == "" {
		gameID = "unknown"
	}

	dir := filepath.Join(dataDir, "archives", fmt.Sprintf("best_%05d_%s", n, gameID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, err
	}
	dst := filepath.Join(dir, filepath.Base(snapshotPath))
	if err := copyFile(snapshotPath, dst); err != nil {
		return "", false, err
	}

	meta := BestMeta{
		GameID:    snap.Header.GameID,
		Len:       n,
		Tick:      snap.Header.Tick,
		Height:    snap.Height,
		Width:     snap.Width,
		Seed:      snap.Seed,
		Outcome:   outcome,
		Previous:  previousBest,
		Snapshot:  filepath.Base(dst),
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if b, err := json.MarshalIndent(meta, "", "  "); err == nil {
		_ = os.WriteFile(filepath.Join(dir, "meta.json"), b, 0o644)
	}
	return dst, true, nil
}

func snapLen(snap snapshot.SnapshotV1) int {
	n := 0
	for _, s := range snap.Segments {
		n += s.Count
	}
	return n
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
