package engine

import (
	"path/filepath"
	"testing"

	"termsnake/internal/persistence/snapshot"
)

func TestSnapshotRoundTrip_SameFutureAndDigest(t *testing.T) {
	e, err := New(Config{Height: 15, Width: 15, Heading: Right, Seed: 99})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.RespawnFood()
	seq := []Direction{Right, Down, Down, Left, Left, Up, Right, Right, Down}
	for i := 0; i < 20; i++ {
		e.Step(seq[i%len(seq)])
	}

	path := filepath.Join(t.TempDir(), "final.snap.zst")
	if err := snapshot.WriteSnapshot(path, e.ExportSnapshot("g1")); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if snap.Header.GameID != "g1" || snap.Header.Tick != e.Tick() {
		t.Fatalf("header = %+v", snap.Header)
	}

	r, err := FromSnapshot(snap)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if r.Digest() != e.Digest() {
		t.Fatalf("digest mismatch after import")
	}
	if r.Heading() != e.Heading() {
		t.Fatalf("heading mismatch: %s vs %s", r.Heading(), e.Heading())
	}

	// Both copies must eat and respawn identically from here on.
	for i := 0; i < 30; i++ {
		d := seq[(i+3)%len(seq)]
		a, b := e.Step(d), r.Step(d)
		if a != b {
			t.Fatalf("step %d diverged: %+v vs %+v", i, a, b)
		}
		if e.Digest() != r.Digest() {
			t.Fatalf("step %d digest diverged", i)
		}
		if a.Out {
			break
		}
	}
}

func TestFromSnapshot_RejectsEmptyBody(t *testing.T) {
	if _, err := FromSnapshot(snapshot.SnapshotV1{Height: 3, Width: 3}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDigest_ChangesWithState(t *testing.T) {
	a := newTestEngine(t, 8, 8, Up)
	b := newTestEngine(t, 8, 8, Up)
	if a.Digest() != b.Digest() {
		t.Fatalf("identical engines must share a digest")
	}
	b.PlaceFood(Point{Row: 0, Col: 0})
	if a.Digest() == b.Digest() {
		t.Fatalf("food must change the digest")
	}
	a.Step(Up)
	if a.Digest() == newTestEngine(t, 8, 8, Up).Digest() {
		t.Fatalf("a step must change the digest")
	}
}
