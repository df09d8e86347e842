package core

import (
	"context"
	"errors"

	"github.com/automoto/friendlyjam/shared/messages"
	"github.com/automoto/friendlyjam/shared/model"
	"github.com/charmbracelet/log"
)

// ErrCoordinatorStopped is returned by calls made after Run has returned.
var ErrCoordinatorStopped = errors.New("coordinator stopped")

const inboxSize = 256

type request interface {
	apply(s *State)
}

type connectRequest struct {
	sender Sender
	reply  chan model.ClientID
}

type messageRequest struct {
	client model.ClientID
	msg    messages.ClientMessage
}

type disconnectRequest struct {
	client model.ClientID
}

type tickRequest struct{}

type statsRequest struct {
	reply chan Stats
}

func (r connectRequest) apply(s *State)    { r.reply <- s.Connect(r.sender) }
func (r messageRequest) apply(s *State)    { s.Handle(r.client, r.msg) }
func (r disconnectRequest) apply(s *State) { s.Disconnect(r.client) }
func (tickRequest) apply(s *State)         { s.Tick() }
func (r statsRequest) apply(s *State)      { r.reply <- s.Stats() }

// Coordinator serializes every event through one goroutine that owns State.
type Coordinator struct {
	state  *State
	inbox  chan request
	done   chan struct{}
	logger *log.Logger
}

func NewCoordinator(state *State, logger *log.Logger) *Coordinator {
	return &Coordinator{
		state:  state,
		inbox:  make(chan request, inboxSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run processes events until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	defer close(c.done)
	c.logger.Debug("coordinator started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("coordinator stopped")
			return
		case req := <-c.inbox:
			req.apply(c.state)
		}
	}
}

func (c *Coordinator) submit(ctx context.Context, req request) error {
	select {
	case c.inbox <- req:
		return nil
	case <-c.done:
		return ErrCoordinatorStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connect registers sender and returns its client id.
func (c *Coordinator) Connect(ctx context.Context, sender Sender) (model.ClientID, error) {
	reply := make(chan model.ClientID, 1)
	if err := c.submit(ctx, connectRequest{sender: sender, reply: reply}); err != nil {
		return 0, err
	}
	select {
	case id := <-reply:
		return id, nil
	case <-c.done:
		return 0, ErrCoordinatorStopped
	case <-ctx.Done():
		// The request is already queued, so the client will be registered
		// and nobody else knows its id.
		go func() {
			select {
			case id := <-reply:
				c.Disconnect(id)
			case <-c.done:
			}
		}()
		return 0, ctx.Err()
	}
}

// Deliver queues a decoded client message.
func (c *Coordinator) Deliver(ctx context.Context, id model.ClientID, msg messages.ClientMessage) error {
	return c.submit(ctx, messageRequest{client: id, msg: msg})
}

// Disconnect queues a disconnect. It does not wait on the caller's context,
// since the connection's context is usually already done.
func (c *Coordinator) Disconnect(id model.ClientID) {
	_ = c.submit(context.Background(), disconnectRequest{client: id})
}

func (c *Coordinator) Tick() {
	_ = c.submit(context.Background(), tickRequest{})
}

func (c *Coordinator) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	if err := c.submit(ctx, statsRequest{reply: reply}); err != nil {
		return Stats{}, err
	}
	select {
	case st := <-reply:
		return st, nil
	case <-c.done:
		return Stats{}, ErrCoordinatorStopped
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}
