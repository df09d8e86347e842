package game

import (
	"fmt"
	"time"

	"github.com/automoto/friendlyjam/assets"
	"github.com/automoto/friendlyjam/config"
	"github.com/automoto/friendlyjam/dispatcher"
	"github.com/automoto/friendlyjam/network"
	"github.com/automoto/friendlyjam/shared/collision"
	"github.com/automoto/friendlyjam/shared/leveldata"
	"github.com/automoto/friendlyjam/shared/messages"
	"github.com/automoto/friendlyjam/shared/model"
	"github.com/automoto/friendlyjam/solver"
	"github.com/charmbracelet/log"
)

// interpolationDelay keeps the remote avatar one relay interval behind so
// there is usually a newer snapshot to blend toward.
const interpolationDelay = 100 * time.Millisecond

// DispatcherSession drives the dispatcher peer: its desk plus a mirror of
// the solver's level and avatar.
type DispatcherSession struct {
	relay  Relay
	desk   *dispatcher.Desk
	levels leveldata.Repository
	player config.PlayerRules
	logger *log.Logger

	snapshots network.SnapshotBuffer
	clock     time.Duration
	fade      Fade

	geometry      *solver.Geometry
	geometryLevel int
}

func NewDispatcherSession(relay Relay, desk *dispatcher.Desk, levels leveldata.Repository, player config.PlayerRules, logger *log.Logger) (*DispatcherSession, error) {
	s := &DispatcherSession{
		relay:         relay,
		desk:          desk,
		levels:        levels,
		player:        player,
		logger:        logger,
		geometryLevel: -1,
	}
	if err := s.syncGeometry(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DispatcherSession) Desk() *dispatcher.Desk { return s.desk }
func (s *DispatcherSession) Fade() *Fade            { return &s.fade }

// shownLevel is the solver's level, held at the last one once they finish.
func (s *DispatcherSession) shownLevel() int {
	level := s.desk.Solver().CurrentLevel
	if last := s.levels.Count() - 1; level > last {
		level = last
	}
	return level
}

func (s *DispatcherSession) syncGeometry() error {
	index := s.shownLevel()
	if index == s.geometryLevel {
		return nil
	}
	level, ok := s.levels.Level(index)
	if !ok {
		return fmt.Errorf("level %d of %d does not exist", index, s.levels.Count())
	}
	if s.geometryLevel >= 0 {
		s.fade.Start()
	}
	s.geometry = solver.BuildGeometry(level)
	s.geometryLevel = index
	return nil
}

// Apply merges relayed messages into the desk.
func (s *DispatcherSession) Apply(msgs []messages.ServerMessage) error {
	for _, msg := range msgs {
		switch m := msg.(type) {
		case messages.SyncSolverState:
			s.desk.MergeSolver(m.State)
			if err := s.syncGeometry(); err != nil {
				return err
			}
		case messages.SyncSolverPlayer:
			s.desk.MergePlayer(m.Player)
			s.snapshots.Push(m.Player, s.clock)
		case messages.SyncDispatcherState:
			s.desk.ReplaceState(m.State)
		case messages.PeerFailed:
			return fmt.Errorf("%w: %s", ErrPeerFailed, m.Reason)
		case messages.Error:
			s.logger.Warn("request rejected", "error", m.Message)
		case messages.Ping, messages.YourToken, messages.RoomJoined, messages.StartGame:
		}
	}
	return nil
}

// Update runs one frame and pushes any desk change made since the last one.
func (s *DispatcherSession) Update(dt float64) error {
	s.clock += time.Duration(dt * float64(time.Second))
	if err := s.Apply(s.relay.Poll()); err != nil {
		return err
	}
	if state, changed := s.desk.TakeStateChange(); changed {
		if err := s.relay.Send(messages.SyncDispatcherState{State: state}); err != nil {
			s.logger.Debug("sync dropped", "error", err)
		}
	}
	s.fade.Update(dt)
	return nil
}

// RemotePlayer returns the solver avatar as it should be drawn now.
func (s *DispatcherSession) RemotePlayer() (model.PlayerSnapshot, bool) {
	snap, ok := s.snapshots.Sample(s.clock - interpolationDelay)
	if !ok || snap.Level != s.desk.Solver().CurrentLevel {
		return model.PlayerSnapshot{}, false
	}
	return snap, true
}

func (s *DispatcherSession) Draw(surface Surface) {
	solverState := s.desk.Solver()
	solver.VisitGeometry(s.geometry, solverState.IsExitOpen(), surface.Draw)

	snap, ok := s.RemotePlayer()
	if !ok {
		return
	}
	w, h := s.player.Width, s.player.Height
	box := collision.BoxAt(snap.X.Float()-w/2, snap.Y.Float()-h/2, w, h)
	moving := snap.VelX != 0
	surface.Draw(box, assets.PlayerSprite(snap.State == model.PlayerGrounded, moving, snap.AnimationTime.Float()))
}
