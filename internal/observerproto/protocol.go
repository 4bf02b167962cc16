package observerproto

import (
	"termsnake/internal/sim/encoding"
	"termsnake/internal/sim/game"
)

// Version is the spectator protocol version.
const Version = "1.0"

const (
	TypeSubscribe = "SUBSCRIBE"
	TypeTick      = "TICK"
)

// Client -> Server. First message on the observer WS connection.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// HTTP response for GET /v1/observer/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string      `json:"protocol_version"`
	GameID          string      `json:"game_id"`
	Tick            uint64      `json:"tick"`
	BoardParams     BoardParams `json:"board_params"`
}

type BoardParams struct {
	Height int    `json:"height"`
	Width  int    `json:"width"`
	TickMS int    `json:"tick_ms"`
	Seed   uint64 `json:"seed"`
}

// Server -> Client. Sent after every drawn tick and once when the game ends.
// Cells are [row, col]; Body lists them head first.
type TickMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	GameID          string `json:"game_id"`
	Tick            uint64 `json:"tick"`

	Heading  string   `json:"heading"`
	Head     [2]int   `json:"head"`
	Body     [][2]int `json:"body"`
	Segments string   `json:"segments"` // run-length body: base64 varint (direction, count) pairs
	Food     [][2]int `json:"food"`
	Len      int      `json:"len"`
	Outcome  string   `json:"outcome"`
}

func FromFrame(f game.Frame) TickMsg {
	m := TickMsg{
		Type:            TypeTick,
		ProtocolVersion: Version,
		GameID:          f.GameID,
		Tick:            f.Tick,
		Heading:         f.Heading.String(),
		Head:            [2]int{f.Head.Row, f.Head.Col},
		Body:            make([][2]int, 0, len(f.Cells)),
		Food:            make([][2]int, 0, len(f.Food)),
		Len:             f.Len,
		Outcome:         f.Outcome.String(),
	}
	runs := make([]encoding.Run, 0, len(f.Body))
	for _, s := range f.Body {
		runs = append(runs, encoding.Run{Value: uint32(s.Dir), Len: s.Count})
	}
	m.Segments = encoding.EncodeRuns(runs)
	for _, p := range f.Cells {
		m.Body = append(m.Body, [2]int{p.Row, p.Col})
	}
	for _, p := range f.Food {
		m.Food = append(m.Food, [2]int{p.Row, p.Col})
	}
	return m
}
