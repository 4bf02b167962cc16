package observer

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"termsnake/internal/observerproto"
	"termsnake/internal/sim/engine"
	"termsnake/internal/sim/game"
)

func frameAt(tick uint64) game.Frame {
	return game.Frame{
		GameID:  "g1",
		Tick:    tick,
		Height:  8,
		Width:   8,
		Heading: engine.Right,
		Head:    engine.Point{Row: 4, Col: 4},
		Cells:   []engine.Point{{Row: 4, Col: 4}},
		Food:    []engine.Point{{Row: 0, Col: 0}},
		Len:     1,
	}
}

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub("g1", observerproto.BoardParams{Height: 8, Width: 8, TickMS: 100, Seed: 5})
	srv := NewServer(hub, log.New(io.Discard, "", 0))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return hub, ts
}

func TestHub_LatestWins(t *testing.T) {
	hub := NewHub("g1", observerproto.BoardParams{})
	id, frames := hub.Subscribe()
	for i := uint64(1); i <= 3; i++ {
		hub.Publish(frameAt(i))
	}
	var m observerproto.TickMsg
	if err := json.Unmarshal(<-frames, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Tick != 3 {
		t.Fatalf("tick = %d want 3", m.Tick)
	}
	select {
	case <-frames:
		t.Fatalf("stale frame still queued")
	default:
	}

	hub.Unsubscribe(id)
	if hub.Subscribers() != 0 {
		t.Fatalf("subscribers = %d", hub.Subscribers())
	}
	if b := hub.Bootstrap(); b.Tick != 3 || b.GameID != "g1" {
		t.Fatalf("bootstrap = %+v", b)
	}
}

func TestHub_LateSubscriberGetsLatest(t *testing.T) {
	hub := NewHub("g1", observerproto.BoardParams{})
	hub.Publish(frameAt(9))
	_, frames := hub.Subscribe()
	select {
	case b := <-frames:
		if !strings.Contains(string(b), `"tick":9`) {
			t.Fatalf("frame = %s", b)
		}
	default:
		t.Fatalf("no frame queued")
	}
}

func TestBootstrapHandler(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/observer/bootstrap")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	var b observerproto.BootstrapResponse
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.ProtocolVersion != observerproto.Version || b.BoardParams.Width != 8 || b.BoardParams.Seed != 5 {
		t.Fatalf("bootstrap = %+v", b)
	}
}

func TestHandlers_RejectNonLoopback(t *testing.T) {
	srv := NewServer(NewHub("g", observerproto.BoardParams{}), log.New(io.Discard, "", 0))
	for _, path := range []string{"/v1/observer/bootstrap", "/v1/observer/ws"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.1.2.3:4567"
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: code = %d", path, rec.Code)
		}
	}
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/observer/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWS_SubscribeThenTicks(t *testing.T) {
	hub, ts := newTestServer(t)
	conn := dial(t, ts)
	if err := conn.WriteJSON(observerproto.SubscribeMsg{Type: observerproto.TypeSubscribe, ProtocolVersion: observerproto.Version}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	hub.Publish(frameAt(12))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m observerproto.TickMsg
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	if m.Type != observerproto.TypeTick || m.Tick != 12 || m.Heading != "right" || len(m.Food) != 1 {
		t.Fatalf("tick msg = %+v", m)
	}
}

func TestWS_RejectsBadHandshake(t *testing.T) {
	hub, ts := newTestServer(t)
	conn := dial(t, ts)
	if err := conn.WriteJSON(observerproto.SubscribeMsg{Type: "HELLO", ProtocolVersion: observerproto.Version}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("err = %v", err)
	}
	if hub.Subscribers() != 0 {
		t.Fatalf("bad handshake registered a subscriber")
	}
}
