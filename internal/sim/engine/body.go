package engine

// Segment is a run of Count body cells. Dir points from the run toward the tail, so
// walking from the head steps in Dir and the head itself moves in Reflect(Dir).
type Segment struct {
	Count int       `json:"count"`
	Dir   Direction `json:"direction"`
}

// Body is the run-length encoded snake, read head to tail.
type Body []Segment

func (b Body) Head() *Segment { return &b[0] }
func (b Body) Tail() *Segment { return &b[len(b)-1] }

// Len is the number of cells the body occupies.
func (b Body) Len() int {
	n := 0
	for _, s := range b {
		n += s.Count
	}
	return n
}

// Walk visits every occupied cell starting at head, passing the index of the owning
// segment. It stops early when fn returns false.
func (b Body) Walk(head Point, fn func(seg int, p Point) bool) {
	cur := head
	for i, s := range b {
		dr, dc := s.Dir.Step()
		for n := 0; n < s.Count; n++ {
			if !fn(i, cur) {
				return
			}
			cur = cur.Add(dr, dc)
		}
	}
}

// Clone returns a copy that does not share storage with b.
func (b Body) Clone() Body {
	out := make(Body, len(b))
	copy(out, b)
	return out
}

func (b *Body) pushHead(s Segment) {
	*b = append(*b, Segment{})
	copy((*b)[1:], (*b)[:len(*b)-1])
	(*b)[0] = s
}

func (b *Body) dropTail() {
	*b = (*b)[:len(*b)-1]
}
