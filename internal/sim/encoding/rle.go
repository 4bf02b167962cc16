package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// Run is one run-length pair.
type Run struct {
	Value uint32
	Len   int
}

// EncodeRuns encodes runs into base64(varint pairs). The pairs are (value, len)
// repeated. Negative lengths encode as 0.
func EncodeRuns(runs []Run) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte
	for _, r := range runs {
		n := binary.PutUvarint(tmp[:], uint64(r.Value))
		buf.Write(tmp[:n])
		l := r.Len
		if l < 0 {
			l = 0
		}
		n = binary.PutUvarint(tmp[:], uint64(l))
		buf.Write(tmp[:n])
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func DecodeRuns(b64 string) ([]Run, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	var out []Run
	for i := 0; i < len(raw); {
		v, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		l, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		if v > 0xFFFFFFFF {
			return nil, fmt.Errorf("run value too large: %d", v)
		}
		if l > 1<<31 {
			return nil, fmt.Errorf("run length too large: %d", l)
		}
		out = append(out, Run{Value: uint32(v), Len: int(l)})
	}
	return out, nil
}
