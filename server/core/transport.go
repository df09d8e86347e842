package core

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/automoto/friendlyjam/shared/messages"
	"github.com/automoto/friendlyjam/shared/model"
	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
)

const (
	readLimit         = 1 << 16
	writeTimeout      = 5 * time.Second
	defaultSendBuffer = 64
)

// Transport accepts websocket connections and bridges them to the
// coordinator.
type Transport struct {
	coord       *Coordinator
	idleTimeout time.Duration
	sendBuffer  int
	logger      *log.Logger
}

func NewTransport(coord *Coordinator, idleTimeout time.Duration, sendBuffer int, logger *log.Logger) *Transport {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &Transport{
		coord:       coord,
		idleTimeout: idleTimeout,
		sendBuffer:  sendBuffer,
		logger:      logger,
	}
}

func (t *Transport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		t.logger.Warn("websocket accept failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	conn.SetReadLimit(readLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	p := &peer{
		conn:   conn,
		send:   make(chan messages.ServerMessage, t.sendBuffer),
		ctx:    ctx,
		cancel: cancel,
		logger: t.logger.With("remote", r.RemoteAddr),
	}

	id, err := t.coord.Connect(ctx, p)
	if err != nil {
		conn.Close(websocket.StatusTryAgainLater, "server shutting down")
		return
	}
	p.logger = p.logger.With("client", id)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.writePump()
	}()

	t.readPump(p, id)

	t.coord.Disconnect(id)
	cancel()
	wg.Wait()
	conn.CloseNow()
}

func (t *Transport) readPump(p *peer, id model.ClientID) {
	for {
		readCtx, cancelRead := p.ctx, context.CancelFunc(func() {})
		if t.idleTimeout > 0 {
			readCtx, cancelRead = context.WithTimeout(p.ctx, t.idleTimeout)
		}
		_, frame, err := p.conn.Read(readCtx)
		cancelRead()
		if err != nil {
			switch {
			case websocket.CloseStatus(err) != -1:
				p.logger.Debug("connection closed by peer", "status", websocket.CloseStatus(err))
			case errors.Is(err, context.DeadlineExceeded):
				p.logger.Info("connection idle, dropping")
			case p.ctx.Err() != nil:
			default:
				p.logger.Debug("read failed", "error", err)
			}
			return
		}

		msg, err := messages.DecodeClient(frame)
		if err != nil {
			p.logger.Warn("undecodable message", "error", err)
			continue
		}
		if err := t.coord.Deliver(p.ctx, id, msg); err != nil {
			return
		}
	}
}

// peer is the Sender for one websocket connection.
type peer struct {
	conn   *websocket.Conn
	send   chan messages.ServerMessage
	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Logger
}

// Send queues msg. A peer that cannot keep up is disconnected rather than
// allowed to stall the coordinator.
func (p *peer) Send(msg messages.ServerMessage) {
	if p.ctx.Err() != nil {
		return
	}
	select {
	case p.send <- msg:
	default:
		p.logger.Warn("send buffer full, dropping connection")
		p.cancel()
	}
}

func (p *peer) writePump() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case msg := <-p.send:
			frame, err := messages.EncodeServer(msg)
			if err != nil {
				p.logger.Error("encode failed", "kind", messages.KindOf(msg), "error", err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(p.ctx, writeTimeout)
			err = p.conn.Write(writeCtx, websocket.MessageBinary, frame)
			cancel()
			if err != nil {
				p.logger.Debug("write failed", "error", err)
				p.cancel()
				return
			}
		}
	}
}
