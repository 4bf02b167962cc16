package observer

import (
	"encoding/json"
	"sync"

	"termsnake/internal/observerproto"
	"termsnake/internal/sim/game"
)

// Hub is the game.Publisher behind the observer stream. Publish never blocks: each
// subscriber holds at most one pending frame and a newer frame replaces it.
type Hub struct {
	mu     sync.Mutex
	board  observerproto.BoardParams
	gameID string
	tick   uint64
	latest []byte
	subs   map[uint64]chan []byte
	nextID uint64
}

func NewHub(gameID string, board observerproto.BoardParams) *Hub {
	return &Hub{
		gameID: gameID,
		board:  board,
		subs:   map[uint64]chan []byte{},
	}
}

func (h *Hub) Publish(f game.Frame) {
	b, err := json.Marshal(observerproto.FromFrame(f))
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tick = f.Tick
	h.latest = b
	for _, ch := range h.subs {
		offerLatest(ch, b)
	}
}

func offerLatest(ch chan []byte, b []byte) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}

// Subscribe registers a spectator. The latest frame, if any, is queued immediately.
func (h *Hub) Subscribe() (id uint64, frames <-chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	ch := make(chan []byte, 1)
	if h.latest != nil {
		ch <- h.latest
	}
	h.subs[h.nextID] = ch
	return h.nextID, ch
}

func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) Bootstrap() observerproto.BootstrapResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	return observerproto.BootstrapResponse{
		ProtocolVersion: observerproto.Version,
		GameID:          h.gameID,
		Tick:            h.tick,
		BoardParams:     h.board,
	}
}
