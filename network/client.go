package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/automoto/friendlyjam/shared/messages"
	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
)

var (
	ErrNotConnected   = errors.New("not connected")
	ErrSendBufferFull = errors.New("send buffer full")
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

const (
	inboxSize  = 256
	outboxSize = 64
	readLimit  = 1 << 16

	// pongDelay paces the keep-alive exchange, since the server answers
	// every Pong with another Ping. It must stay under the server's idle timeout.
	pongDelay = 5 * time.Second
)

// Client relays messages between the local game and the coordination
// server. Send and Poll never block the frame loop.
type Client struct {
	mu sync.RWMutex

	state     ClientState
	lastError error
	conn      *websocket.Conn
	cancel    context.CancelFunc
	logger    *log.Logger

	inbox     chan messages.ServerMessage
	outbox    chan messages.ClientMessage
	pings     chan struct{}
	pongDelay time.Duration
}

func NewClient(logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		state:     StateDisconnected,
		logger:    logger.WithPrefix("relay"),
		inbox:     make(chan messages.ServerMessage, inboxSize),
		outbox:    make(chan messages.ClientMessage, outboxSize),
		pings:     make(chan struct{}, 1),
		pongDelay: pongDelay,
	}
}

// Connect dials url and starts the read and write pumps.
func (c *Client) Connect(ctx context.Context, url string) error {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		err = fmt.Errorf("connection failed: %w", err)
		c.setError(err)
		return err
	}
	conn.SetReadLimit(readLimit)

	pumpCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.conn = conn
	c.cancel = cancel
	c.state = StateConnected
	c.mu.Unlock()

	c.logger.Info("connected to server", "url", url)
	go c.readPump(pumpCtx, conn)
	go c.writePump(pumpCtx, conn)
	return nil
}

func (c *Client) readPump(ctx context.Context, conn *websocket.Conn) {
	for {
		_, frame, err := conn.Read(ctx)
		if err != nil {
			c.disconnected(err)
			return
		}
		msg, err := messages.DecodeServer(frame)
		if err != nil {
			c.logger.Warn("dropping undecodable frame", "error", err)
			continue
		}
		if _, ok := msg.(messages.Ping); ok {
			select {
			case c.pings <- struct{}{}:
			default:
			}
			continue
		}
		select {
		case c.inbox <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// writePump sends queued messages and answers pings after pongDelay.
func (c *Client) writePump(ctx context.Context, conn *websocket.Conn) {
	var pongDue <-chan time.Time
	for {
		var msg messages.ClientMessage
		select {
		case <-ctx.Done():
			return
		case <-c.pings:
			if pongDue == nil {
				pongDue = time.After(c.pongDelay)
			}
			continue
		case <-pongDue:
			pongDue = nil
			msg = messages.Pong{}
		case msg = <-c.outbox:
		}

		frame, err := messages.EncodeClient(msg)
		if err != nil {
			c.logger.Error("encode failed", "kind", messages.KindOf(msg), "error", err)
			continue
		}
		if err := conn.Write(ctx, websocket.MessageBinary, frame); err != nil {
			c.disconnected(err)
			return
		}
	}
}

func (c *Client) disconnected(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnected {
		return
	}
	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
		c.state = StateDisconnected
	} else {
		c.state = StateError
		c.lastError = err
	}
	c.logger.Info("disconnected", "error", err)
}

// Close shuts the connection down.
func (c *Client) Close() {
	c.mu.Lock()
	conn, cancel := c.conn, c.cancel
	c.state = StateDisconnected
	c.conn, c.cancel = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
	}
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Send queues msg for the write pump.
func (c *Client) Send(msg messages.ClientMessage) error {
	if c.State() != StateConnected {
		return ErrNotConnected
	}
	select {
	case c.outbox <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Poll returns every message received since the last call, non-blocking.
func (c *Client) Poll() []messages.ServerMessage {
	return drainChan(c.inbox)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
