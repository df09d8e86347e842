package game

import (
	"errors"
	"io"
	"testing"

	"github.com/automoto/friendlyjam/assets"
	"github.com/automoto/friendlyjam/config"
	"github.com/automoto/friendlyjam/dispatcher"
	"github.com/automoto/friendlyjam/network"
	"github.com/automoto/friendlyjam/shared/collision"
	"github.com/automoto/friendlyjam/shared/fixed"
	"github.com/automoto/friendlyjam/shared/leveldata"
	"github.com/automoto/friendlyjam/shared/messages"
	"github.com/automoto/friendlyjam/shared/model"
	"github.com/automoto/friendlyjam/solver"
	"github.com/charmbracelet/log"
)

const dt = 1.0 / 60

type fakeRelay struct {
	inbox []messages.ServerMessage
	sent  []messages.ClientMessage
}

func (r *fakeRelay) Send(msg messages.ClientMessage) error {
	r.sent = append(r.sent, msg)
	return nil
}

func (r *fakeRelay) Poll() []messages.ServerMessage {
	out := r.inbox
	r.inbox = nil
	return out
}

func (r *fakeRelay) deliver(msgs ...messages.ServerMessage) {
	r.inbox = append(r.inbox, msgs...)
}

func (r *fakeRelay) take() []messages.ClientMessage {
	out := r.sent
	r.sent = nil
	return out
}

type recordingSurface struct {
	sprites []assets.SpriteID
}

func (s *recordingSurface) Draw(_ collision.AABB, sprite assets.Sprite) {
	s.sprites = append(s.sprites, sprite.ID)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func room(name string) leveldata.Level {
	return leveldata.Level{
		Name:         name,
		Width:        320,
		Height:       160,
		Spawn:        leveldata.Point{X: 40, Y: 0},
		DoorEntrance: true,
		Entrance:     leveldata.Rect{X: 0, Y: 0, W: 8, H: 48},
		DoorExit:     true,
		Exit:         leveldata.Rect{X: 312, Y: 0, W: 8, H: 48},
		Transition:   leveldata.Rect{X: 314, Y: 0, W: 6, H: 48},
	}
}

func trapLevel() leveldata.Level {
	level := room("trap")
	level.Items = []leveldata.Item{{
		Kind:      leveldata.ItemFish,
		Bounds:    leveldata.Rect{X: 36, Y: 0, W: 8, H: 8},
		CanPickup: true,
		Trap:      true,
	}}
	return level
}

func newSolverSession(t *testing.T, relay *fakeRelay, levels ...leveldata.Level) *SolverSession {
	t.Helper()
	world, err := solver.NewWorld(config.DefaultSolverRules(), leveldata.Levels(levels), model.NewSolverState(), quietLogger())
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	return NewSolverSession(relay, world, quietLogger())
}

func countKind[T messages.ClientMessage](msgs []messages.ClientMessage) int {
	n := 0
	for _, m := range msgs {
		if _, ok := m.(T); ok {
			n++
		}
	}
	return n
}

func TestSolverSessionSyncsPlayerEveryFrame(t *testing.T) {
	relay := &fakeRelay{}
	s := newSolverSession(t, relay, room("a"))

	for i := 0; i < 3; i++ {
		if err := s.Update(solver.Input{}, dt); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
	sent := relay.take()
	if got := countKind[messages.SyncSolverPlayer](sent); got != 3 {
		t.Errorf("SyncSolverPlayer count = %d, expected 3", got)
	}
	if got := countKind[messages.SyncSolverState](sent); got != 0 {
		t.Errorf("SyncSolverState count = %d, expected 0 without changes", got)
	}
}

func TestSolverSessionReconnectBacklogKeepsDisarm(t *testing.T) {
	s := newSolverSession(t, &fakeRelay{}, trapLevel())

	err := s.Apply([]messages.ServerMessage{
		messages.StartGame{Role: model.RoleSolver},
		messages.SyncDispatcherState{State: model.DispatcherState{MonitorUnlocked: true}},
		messages.SyncSolverState{State: model.SolverState{TrashcanEvil: true}},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if s.World().State().TrashcanEvil {
		t.Error("TrashcanEvil = true, expected the replayed state disarmed")
	}
}

func TestSolverSessionDisarmsOnUnlockedMonitor(t *testing.T) {
	relay := &fakeRelay{}
	s := newSolverSession(t, relay, trapLevel())

	relay.deliver(messages.SyncDispatcherState{State: model.DispatcherState{ButtonStationOpen: true, MonitorUnlocked: true}})
	if err := s.Update(solver.Input{}, dt); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	var synced *model.SolverState
	for _, m := range relay.take() {
		if m, ok := m.(messages.SyncSolverState); ok {
			synced = &m.State
		}
	}
	if synced == nil || synced.TrashcanEvil {
		t.Fatalf("synced state = %+v, expected disarmed trashcan", synced)
	}

	var in solver.Input
	in.Press(solver.ActionPickup)
	for i := 0; i < 30; i++ {
		if err := s.Update(in, dt); err != nil {
			t.Fatalf("Update() tick %d error = %v", i, err)
		}
	}
	if !s.World().State().SolvedBubbleCode {
		t.Errorf("SolvedBubbleCode = false, expected true after disarmed pickup")
	}
}

func TestSolverSessionReportsFailure(t *testing.T) {
	relay := &fakeRelay{}
	s := newSolverSession(t, relay, trapLevel())

	var in solver.Input
	in.Press(solver.ActionPickup)
	var err error
	for i := 0; i < 30 && err == nil; i++ {
		err = s.Update(in, dt)
	}
	if !errors.Is(err, solver.ErrSessionFailed) {
		t.Fatalf("Update() error = %v, expected ErrSessionFailed", err)
	}
	if got := countKind[messages.ReportFailure](relay.take()); got != 1 {
		t.Errorf("ReportFailure count = %d, expected 1", got)
	}
}

func TestSessionsStopOnPeerFailure(t *testing.T) {
	relay := &fakeRelay{}
	s := newSolverSession(t, relay, room("a"))
	relay.deliver(messages.PeerFailed{Reason: "boom"})

	if err := s.Update(solver.Input{}, dt); !errors.Is(err, ErrPeerFailed) {
		t.Errorf("SolverSession.Update() error = %v, expected ErrPeerFailed", err)
	}

	d := newDispatcherSession(t, relay, room("a"))
	relay.deliver(messages.PeerFailed{Reason: "boom"})
	if err := d.Update(dt); !errors.Is(err, ErrPeerFailed) {
		t.Errorf("DispatcherSession.Update() error = %v, expected ErrPeerFailed", err)
	}
}

func TestSolverSessionReplaysServerState(t *testing.T) {
	relay := &fakeRelay{}
	s := newSolverSession(t, relay, room("a"), room("b"))

	relay.deliver(messages.SyncSolverState{State: model.SolverState{CurrentLevel: 1, LevelsCompleted: 1, TrashcanEvil: true}})
	if err := s.Update(solver.Input{}, dt); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := s.World().Level().Name; got != "b" {
		t.Errorf("Level().Name = %q, expected b", got)
	}
	if !s.Fade().Active() {
		t.Errorf("Fade().Active() = false, expected a transition after a level change")
	}
}

func newDispatcherSession(t *testing.T, relay *fakeRelay, levels ...leveldata.Level) *DispatcherSession {
	t.Helper()
	d, err := NewDispatcherSession(relay, dispatcher.NewDesk(""), leveldata.Levels(levels), config.DefaultSolverRules().Player, quietLogger())
	if err != nil {
		t.Fatalf("NewDispatcherSession() error = %v", err)
	}
	return d
}

func TestDispatcherSessionPushesDeskChanges(t *testing.T) {
	relay := &fakeRelay{}
	d := newDispatcherSession(t, relay, room("a"))

	d.Desk().OpenButtonStation()
	d.Desk().UnlockMonitor(dispatcher.DefaultMonitorCode)
	if err := d.Update(dt); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := d.Update(dt); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	sent := relay.take()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, expected 1", len(sent))
	}
	sync, ok := sent[0].(messages.SyncDispatcherState)
	if !ok || !sync.State.MonitorUnlocked || !sync.State.ButtonStationOpen {
		t.Errorf("sent %#v, expected SyncDispatcherState with monitor unlocked", sent[0])
	}
}

func TestDispatcherSessionMirrorsSolver(t *testing.T) {
	relay := &fakeRelay{}
	d := newDispatcherSession(t, relay, room("a"), room("b"))

	snap := model.PlayerSnapshot{X: fixed.FromInt(40), Y: fixed.FromInt(12), State: model.PlayerGrounded, Level: 1}
	relay.deliver(
		messages.SyncSolverState{State: model.SolverState{CurrentLevel: 1, TrashcanEvil: true}},
		messages.SyncSolverPlayer{Player: snap},
	)
	if err := d.Update(dt); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := d.Desk().Solver().CurrentLevel; got != 1 {
		t.Errorf("Solver().CurrentLevel = %d, expected 1", got)
	}

	surface := &recordingSurface{}
	d.Draw(surface)
	last := surface.sprites[len(surface.sprites)-1]
	if last != assets.SpritePlayerIdle {
		t.Errorf("last sprite = %v, expected the idle remote player", last)
	}
}

func TestDispatcherSessionHidesPlayerFromOtherLevel(t *testing.T) {
	relay := &fakeRelay{}
	d := newDispatcherSession(t, relay, room("a"), room("b"))

	relay.deliver(messages.SyncSolverPlayer{Player: model.PlayerSnapshot{Level: 1}})
	if err := d.Update(dt); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, ok := d.RemotePlayer(); ok {
		t.Errorf("RemotePlayer() ok = true, expected false for a snapshot from another level")
	}
}

func TestLobbySavesIssuedToken(t *testing.T) {
	relay := &fakeRelay{}
	store := &network.MemoryStore{}
	l := NewLobby(relay, store, quietLogger())

	relay.deliver(messages.Ping{}, messages.YourToken{Token: "fresh"})
	if err := l.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if l.Phase() != LobbyIdle || l.Token() != "fresh" {
		t.Errorf("Phase() = %v Token() = %q, expected idle with fresh", l.Phase(), l.Token())
	}
	if len(relay.take()) != 0 {
		t.Errorf("fresh lobby sent messages, expected none")
	}

	relay.deliver(
		messages.RoomJoined{Info: model.RoomInfo{Code: "ABCD", Players: []model.ClientID{1}}},
		messages.StartGame{Role: model.RoleSolver},
		messages.SyncDispatcherState{},
	)
	if err := l.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	saved, _ := store.Load()
	if saved.Token != "fresh" || saved.RoomCode != "ABCD" {
		t.Errorf("saved = %+v, expected fresh in ABCD", saved)
	}
	if role, ok := l.Started(); !ok || role != model.RoleSolver {
		t.Errorf("Started() = %v, %v, expected solver, true", role, ok)
	}
	if backlog := l.TakeBacklog(); len(backlog) != 1 {
		t.Errorf("TakeBacklog() = %v, expected the relayed state", backlog)
	}
}

func TestLobbyResumesSavedSession(t *testing.T) {
	relay := &fakeRelay{}
	store := &network.MemoryStore{}
	_ = store.Save(network.SavedSession{Token: "old", RoomCode: "WXYZ"})
	l := NewLobby(relay, store, quietLogger())

	relay.deliver(messages.YourToken{Token: "new"})
	if err := l.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	sent := relay.take()
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, expected Login and JoinRoom", len(sent))
	}
	if m, ok := sent[0].(messages.Login); !ok || m.Token != "old" {
		t.Errorf("sent[0] = %#v, expected Login{old}", sent[0])
	}
	if m, ok := sent[1].(messages.JoinRoom); !ok || m.Code != "WXYZ" {
		t.Errorf("sent[1] = %#v, expected JoinRoom{WXYZ}", sent[1])
	}

	relay.deliver(messages.Error{Message: "non-existent room code"})
	if err := l.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	saved, _ := store.Load()
	if saved.RoomCode != "" || saved.Token != "old" {
		t.Errorf("saved = %+v, expected the room forgotten and token kept", saved)
	}
	if l.LastError() != "non-existent room code" {
		t.Errorf("LastError() = %q, expected the server message", l.LastError())
	}
}

func TestFadeEasesOut(t *testing.T) {
	var f Fade
	f.Start()
	if f.Alpha() != 1 {
		t.Fatalf("Alpha() after Start = %v, expected 1", f.Alpha())
	}
	f.Update(fadeDuration / 2)
	mid := f.Alpha()
	if mid <= 0 || mid >= 1 {
		t.Errorf("Alpha() halfway = %v, expected between 0 and 1", mid)
	}
	f.Update(fadeDuration)
	if f.Alpha() != 0 || f.Active() {
		t.Errorf("Alpha() = %v Active() = %v, expected finished", f.Alpha(), f.Active())
	}
}
