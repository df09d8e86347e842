package game

import (
	"errors"
	"fmt"

	"github.com/automoto/friendlyjam/shared/messages"
	"github.com/automoto/friendlyjam/solver"
	"github.com/charmbracelet/log"
)

// SolverSession drives the solver peer.
type SolverSession struct {
	relay  Relay
	world  *solver.World
	logger *log.Logger
	fade   Fade
	level  int
}

func NewSolverSession(relay Relay, world *solver.World, logger *log.Logger) *SolverSession {
	return &SolverSession{
		relay:  relay,
		world:  world,
		logger: logger,
		level:  world.State().CurrentLevel,
	}
}

func (s *SolverSession) World() *solver.World { return s.world }
func (s *SolverSession) Fade() *Fade          { return &s.fade }

// Apply merges relayed messages into the world.
func (s *SolverSession) Apply(msgs []messages.ServerMessage) error {
	for _, msg := range msgs {
		switch m := msg.(type) {
		case messages.SyncDispatcherState:
			s.world.MergeDispatcher(m.State)
		case messages.SyncSolverState:
			if err := s.world.ReplaceState(m.State); err != nil {
				return err
			}
		case messages.PeerFailed:
			return fmt.Errorf("%w: %s", ErrPeerFailed, m.Reason)
		case messages.Error:
			s.logger.Warn("request rejected", "error", m.Message)
		case messages.Ping, messages.YourToken, messages.RoomJoined,
			messages.StartGame, messages.SyncSolverPlayer:
		}
	}
	return nil
}

// Update runs one frame. A terminal failure is reported to the peer before
// it is returned.
func (s *SolverSession) Update(in solver.Input, dt float64) error {
	if err := s.Apply(s.relay.Poll()); err != nil {
		return err
	}

	if err := s.world.Update(in, dt); err != nil {
		if errors.Is(err, solver.ErrSessionFailed) {
			s.send(messages.ReportFailure{Reason: err.Error()})
		}
		return err
	}

	if state, changed := s.world.TakeStateChange(); changed {
		s.send(messages.SyncSolverState{State: state})
	}
	current := s.world.State().CurrentLevel
	s.send(messages.SyncSolverPlayer{Player: s.world.Player.Snapshot(current)})

	if current != s.level {
		s.level = current
		s.fade.Start()
	}
	s.fade.Update(dt)
	return nil
}

func (s *SolverSession) send(msg messages.ClientMessage) {
	if err := s.relay.Send(msg); err != nil {
		s.logger.Debug("sync dropped", "kind", messages.KindOf(msg), "error", err)
	}
}

func (s *SolverSession) Draw(surface Surface) {
	s.world.Visit(surface.Draw)
}
