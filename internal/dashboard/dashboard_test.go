package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/goleak"

	"bazinga/internal/consciousness"
)

func testEngine() *consciousness.Engine {
	cfg := consciousness.Basic()
	cfg.CycleInterval = 40 * time.Millisecond
	return consciousness.New(cfg)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	return conn
}

func TestHubRunStop(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	hub.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// No write pump drains this client, so the second broadcast overflows
	// its one-slot buffer and the hub must drop it.
	slow := &client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- slow
	waitFor(t, "registration", func() bool { return hub.ClientCount() == 1 })

	hub.BroadcastState(consciousness.Snapshot{})
	hub.BroadcastState(consciousness.Snapshot{})
	waitFor(t, "slow client drop", func() bool { return hub.ClientCount() == 0 })
}

func TestStateEnvelope(t *testing.T) {
	e := testEngine()
	s := NewServer(e, "")
	go s.hub.Run()
	defer s.hub.Stop()

	srv := httptest.NewServer(s.routes())
	defer srv.Close()
	conn := dialWS(t, srv)
	defer conn.Close()
	waitFor(t, "registration", func() bool { return s.hub.ClientCount() == 1 })

	e.Cycle()
	s.hub.BroadcastState(e.Snapshot())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != TypeState {
		t.Errorf("Type = %q, want %q", msg.Type, TypeState)
	}
	if msg.Timestamp == "" {
		t.Error("envelope has no timestamp")
	}
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Data is %T, want object", msg.Data)
	}
	if data["name"] != "basic" {
		t.Errorf("name = %v, want basic", data["name"])
	}
	if data["cycles"] != float64(1) {
		t.Errorf("cycles = %v, want 1", data["cycles"])
	}
}

func TestPingPong(t *testing.T) {
	s := NewServer(testEngine(), "")
	go s.hub.Run()
	defer s.hub.Stop()

	srv := httptest.NewServer(s.routes())
	defer srv.Close()
	conn := dialWS(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(Message{Type: TypePing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read pong: %v", err)
	}
	if msg.Type != TypePong {
		t.Errorf("Type = %q, want %q", msg.Type, TypePong)
	}
	if msg.Timestamp == "" {
		t.Error("pong has no timestamp")
	}
}

func TestPumpFollowsCycles(t *testing.T) {
	e := testEngine()
	s := NewServer(e, "")
	go s.hub.Run()
	defer s.hub.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pumpDone := make(chan error, 1)
	go func() { pumpDone <- s.pump(ctx) }()

	srv := httptest.NewServer(s.routes())
	defer srv.Close()
	conn := dialWS(t, srv)
	defer conn.Close()
	waitFor(t, "registration", func() bool { return s.hub.ClientCount() == 1 })

	e.Cycle()

	// One cycle must produce a state envelope and the thought it appended.
	// They may share a frame, newline-separated.
	got := map[string]bool{}
	deadline := time.Now().Add(2 * time.Second)
	for !(got[TypeState] && got[TypeThought]) {
		if !time.Now().Before(deadline) {
			t.Fatalf("envelopes seen: %v", got)
		}
		conn.SetReadDeadline(deadline)
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		for _, line := range bytes.Split(raw, []byte("\n")) {
			if len(line) == 0 {
				continue
			}
			var msg Message
			if err := json.Unmarshal(line, &msg); err != nil {
				t.Fatalf("unmarshal %q: %v", line, err)
			}
			got[msg.Type] = true
		}
	}

	cancel()
	select {
	case err := <-pumpDone:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("pump returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("pump did not stop after cancel")
	}
}

func TestIndexPage(t *testing.T) {
	e := testEngine()
	e.Cycle()
	s := NewServer(e, "")

	srv := httptest.NewServer(s.routes())
	defer srv.Close()
	defer http.DefaultClient.CloseIdleConnections()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get /: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	page := string(body)
	for _, want := range []string{"BAZINGA Live Dashboard", "new WebSocket", "Live Thoughts", "basic"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}

	missing, err := http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatalf("get /missing: %v", err)
	}
	io.Copy(io.Discard, missing.Body)
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", missing.StatusCode)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewServer(testEngine(), "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	waitFor(t, "listener bind", func() bool { return s.Addr() != "" })

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+s.Addr()+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitFor(t, "registration", func() bool { return s.hub.ClientCount() == 1 })
	conn.Close()
	waitFor(t, "deregistration", func() bool { return s.hub.ClientCount() == 0 })

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
