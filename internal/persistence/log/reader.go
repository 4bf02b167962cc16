package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"termsnake/internal/sim/game"
)

// Record is one decoded tick-log line; exactly one of the entry pointers is set.
type Record struct {
	Kind  string
	Start *game.StartEntry
	Tick  *game.TickEntry
	End   *game.EndEntry
}

// ListEventFiles returns the events-*.jsonl.zst files in dir in chronological order.
func ListEventFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "events-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// ReadEvents decodes every record under dir in order and hands it to fn. A non-nil
// error from fn stops the scan and is returned as is.
func ReadEvents(dir string, fn func(Record) error) error {
	files, err := ListEventFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no events files in %s", dir)
	}
	for _, path := range files {
		if err := readFile(path, fn); err != nil {
			return err
		}
	}
	return nil
}

func readFile(path string, fn func(Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		rec, err := decodeRecord(sc.Bytes())
		if err != nil {
			return fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

func decodeRecord(b []byte) (Record, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return Record{}, err
	}
	rec := Record{Kind: head.Kind}
	var err error
	switch head.Kind {
	case game.KindStart:
		rec.Start = &game.StartEntry{}
		err = json.Unmarshal(b, rec.Start)
	case game.KindTick:
		rec.Tick = &game.TickEntry{}
		err = json.Unmarshal(b, rec.Tick)
	case game.KindEnd:
		rec.End = &game.EndEntry{}
		err = json.Unmarshal(b, rec.End)
	default:
		err = fmt.Errorf("unknown record kind %q", head.Kind)
	}
	return rec, err
}
