package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/automoto/friendlyjam/shared/messages"
	"github.com/automoto/friendlyjam/shared/model"
	"github.com/coder/websocket"
)

// echoServer sends a Ping, expects a Pong, then forwards every client
// message kind back as an Error so the test can observe it.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("Accept() error = %v", err)
			return
		}
		defer conn.CloseNow()
		ctx := r.Context()

		write := func(msg messages.ServerMessage) bool {
			frame, err := messages.EncodeServer(msg)
			if err != nil {
				t.Errorf("EncodeServer() error = %v", err)
				return false
			}
			return conn.Write(ctx, websocket.MessageBinary, frame) == nil
		}

		if !write(messages.Ping{}) {
			return
		}
		for {
			_, frame, err := conn.Read(ctx)
			if err != nil {
				return
			}
			msg, err := messages.DecodeClient(frame)
			if err != nil {
				t.Errorf("DecodeClient() error = %v", err)
				return
			}
			if !write(messages.Error{Message: messages.KindOf(msg).String()}) {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func pollUntil(t *testing.T, c *Client, n int) []messages.ServerMessage {
	t.Helper()
	var got []messages.ServerMessage
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < n && time.Now().Before(deadline) {
		got = append(got, c.Poll()...)
		time.Sleep(5 * time.Millisecond)
	}
	return got
}

func TestClientAnswersPingAndRelays(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	c := NewClient(nil)
	c.pongDelay = 10 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Connect(ctx, wsURL(srv)); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	if c.State() != StateConnected {
		t.Fatalf("State() = %v, expected connected", c.State())
	}

	got := pollUntil(t, c, 1)
	if len(got) != 1 {
		t.Fatalf("Poll() = %v, expected the Pong echo", got)
	}
	if e, ok := got[0].(messages.Error); !ok || e.Message != "Pong" {
		t.Errorf("first message = %+v, expected the server to have seen a Pong", got[0])
	}

	if err := c.Send(messages.SelectRole{Role: model.RoleSolver}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	got = pollUntil(t, c, 1)
	if len(got) != 1 {
		t.Fatalf("Poll() = %v, expected one echo", got)
	}
	if e, ok := got[0].(messages.Error); !ok || e.Message != "SelectRole" {
		t.Errorf("echo = %+v, expected SelectRole", got[0])
	}
}

func TestClientSendWhileDisconnected(t *testing.T) {
	c := NewClient(nil)
	if err := c.Send(messages.CreateRoom{}); err != ErrNotConnected {
		t.Errorf("Send() error = %v, expected ErrNotConnected", err)
	}
	if got := c.Poll(); len(got) != 0 {
		t.Errorf("Poll() = %v, expected nothing", got)
	}
}

func TestClientConnectFailure(t *testing.T) {
	c := NewClient(nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.Connect(ctx, "ws://127.0.0.1:1"); err == nil {
		t.Fatal("Connect() expected error")
	}
	if c.State() != StateError || c.LastError() == nil {
		t.Errorf("State() = %v, LastError() = %v", c.State(), c.LastError())
	}
}

func TestMemoryStore(t *testing.T) {
	var s MemoryStore
	saved, err := s.Load()
	if err != nil || saved.Token != "" {
		t.Fatalf("Load() = %+v, %v", saved, err)
	}
	if err := s.Save(SavedSession{Token: "t", RoomCode: "ABCD"}); err != nil {
		t.Fatal(err)
	}
	if saved, _ := s.Load(); saved.RoomCode != "ABCD" {
		t.Errorf("Load() = %+v", saved)
	}
}
