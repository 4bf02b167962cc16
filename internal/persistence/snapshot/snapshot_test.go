package snapshot

import (
	"path/filepath"
	"testing"
)

func TestWriteReadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games", "g1", "final.snap.zst")
	in := SnapshotV1{
		Header:   Header{Version: Version, GameID: "g1", Tick: 42},
		Height:   10,
		Width:    20,
		Seed:     7,
		Head:     [2]int{3, 4},
		Segments: []SegmentV1{{Count: 2, Dir: 1}, {Count: 3, Dir: 3}},
		Food:     [][2]int{{9, 19}},
		RNG:      []byte{1, 2, 3},
	}
	if err := WriteSnapshot(path, in); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h != in.Header {
		t.Fatalf("header mismatch: got %+v want %+v", h, in.Header)
	}

	out, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if out.Height != 10 || out.Width != 20 || out.Seed != 7 || out.Head != in.Head {
		t.Fatalf("board mismatch: %+v", out)
	}
	if len(out.Segments) != 2 || out.Segments[1] != in.Segments[1] {
		t.Fatalf("segments mismatch: %+v", out.Segments)
	}
	if len(out.Food) != 1 || out.Food[0] != [2]int{9, 19} {
		t.Fatalf("food mismatch: %+v", out.Food)
	}
	if string(out.RNG) != string(in.RNG) {
		t.Fatalf("rng mismatch: %v", out.RNG)
	}
}

func TestReadSnapshot_RejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v9.snap.zst")
	if err := WriteSnapshot(path, SnapshotV1{Header: Header{Version: 9}, Height: 1, Width: 1}); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if _, err := ReadSnapshot(path); err == nil {
		t.Fatalf("expected version error")
	}
}
