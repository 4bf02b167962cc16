package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
)

// Digest hashes the observable state: tick, board size, head, segments and food.
func (e *Engine) Digest() string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, e.tick)
	digestWriteI64(h, &tmp, int64(e.grid.Height()))
	digestWriteI64(h, &tmp, int64(e.grid.Width()))
	digestWriteI64(h, &tmp, int64(e.head.Row))
	digestWriteI64(h, &tmp, int64(e.head.Col))

	digestWriteU64(h, &tmp, uint64(len(e.body)))
	for _, s := range e.body {
		digestWriteI64(h, &tmp, int64(s.Count))
		h.Write([]byte{byte(s.Dir)})
	}

	e.grid.Each(func(p Point) bool {
		digestWriteI64(h, &tmp, int64(p.Row))
		digestWriteI64(h, &tmp, int64(p.Col))
		return true
	})

	return hex.EncodeToString(h.Sum(nil))
}

func digestWriteU64(h hash.Hash, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hash.Hash, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}
