package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

type tokenFunc func() (string, bool)

func (f tokenFunc) Token() (string, bool) { return f() }

func fastConfig() *Config {
	return &Config{
		ReconnectBase: 5 * time.Millisecond,
		ReconnectMax:  10 * time.Millisecond,
		MaxReconnects: 3,
	}
}

func TestSubscribeDeliversUntilTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("dial should carry the credential, got %q", got)
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		_ = conn.WriteJSON(RunEvent{RunID: "run-1", Type: "node-started", NodeID: "n1"})
		_ = conn.WriteJSON(RunEvent{RunID: "run-1", Type: "node-finished", NodeID: "n1"})
		_ = conn.WriteJSON(RunEvent{RunID: "run-1", Type: EventRunCompleted})
	}))
	defer srv.Close()

	c := New(srv.URL,
		WithConfig(fastConfig()),
		WithCredentials(tokenFunc(func() (string, bool) { return "tok-1", true })),
	)

	var mu sync.Mutex
	var got []string
	err := c.Subscribe(context.Background(), "run-1", func(e RunEvent) {
		mu.Lock()
		got = append(got, e.Type)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 || got[2] != EventRunCompleted {
		t.Errorf("unexpected events: %v", got)
	}
}

func TestSubscribeReconnects(t *testing.T) {
	var dials int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		if atomic.AddInt32(&dials, 1) == 1 {
			// 第一条连接发出一个事件后粗暴断开
			_ = conn.WriteJSON(RunEvent{RunID: "run-1", Type: "node-started"})
			_ = conn.Close()
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(RunEvent{RunID: "run-1", Type: EventRunCompleted})
	}))
	defer srv.Close()

	c := New(srv.URL, WithConfig(fastConfig()))

	var events int32
	err := c.Subscribe(context.Background(), "run-1", func(RunEvent) {
		atomic.AddInt32(&events, 1)
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if got := atomic.LoadInt32(&dials); got != 2 {
		t.Errorf("expected a reconnect, got %d dials", got)
	}
	if got := atomic.LoadInt32(&events); got != 2 {
		t.Errorf("expected 2 events across connections, got %d", got)
	}
}

func TestSubscribeGivesUpAfterMaxReconnects(t *testing.T) {
	var dials int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&dials, 1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.Close()
	}))
	defer srv.Close()

	c := New(srv.URL, WithConfig(fastConfig()))

	err := c.Subscribe(context.Background(), "run-1", func(RunEvent) {})
	if err == nil {
		t.Fatal("expected failure after exhausting reconnects")
	}
	// 首次连接加上限定次数的重连
	if got := atomic.LoadInt32(&dials); got != 4 {
		t.Errorf("expected 4 dials, got %d", got)
	}
}

func TestSubscribeHonorsContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		<-block
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	c := New(srv.URL, WithConfig(fastConfig()))
	err := c.Subscribe(ctx, "run-1", func(RunEvent) {})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWSURL(t *testing.T) {
	cases := []struct {
		base, path, want string
	}{
		{"http://api.example.com", "/workflow-runs/r1/events", "ws://api.example.com/workflow-runs/r1/events"},
		{"https://api.example.com/", "/workflow-runs/r1/events", "wss://api.example.com/workflow-runs/r1/events"},
	}
	for _, c := range cases {
		if got := wsURL(c.base, c.path); got != c.want {
			t.Errorf("wsURL(%q, %q) = %q, expected %q", c.base, c.path, got, c.want)
		}
	}
}
