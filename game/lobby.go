package game

import (
	"github.com/automoto/friendlyjam/network"
	"github.com/automoto/friendlyjam/shared/messages"
	"github.com/automoto/friendlyjam/shared/model"
	"github.com/charmbracelet/log"
)

// LobbyPhase tracks the client from connection to game start.
type LobbyPhase int

const (
	LobbyConnecting LobbyPhase = iota // waiting for a token
	LobbyIdle                         // not in a room
	LobbyInRoom                       // choosing roles
	LobbyStarted
)

func (p LobbyPhase) String() string {
	switch p {
	case LobbyConnecting:
		return "connecting"
	case LobbyIdle:
		return "idle"
	case LobbyInRoom:
		return "in_room"
	case LobbyStarted:
		return "started"
	default:
		return "unknown"
	}
}

// Lobby runs the pre-game handshake. A session saved by an earlier run is
// resumed automatically by presenting its token and rejoining its room.
type Lobby struct {
	relay  Relay
	store  network.SessionStore
	logger *log.Logger

	phase     LobbyPhase
	token     string
	room      model.RoomInfo
	role      model.Role
	rejoining bool
	lastError string
	backlog   []messages.ServerMessage
}

func NewLobby(relay Relay, store network.SessionStore, logger *log.Logger) *Lobby {
	return &Lobby{relay: relay, store: store, logger: logger}
}

func (l *Lobby) Phase() LobbyPhase    { return l.phase }
func (l *Lobby) Token() string        { return l.token }
func (l *Lobby) Room() model.RoomInfo { return l.room }
func (l *Lobby) LastError() string    { return l.lastError }

// Started reports the assigned role once the game has begun.
func (l *Lobby) Started() (model.Role, bool) {
	return l.role, l.phase == LobbyStarted
}

// TakeBacklog returns messages that arrived after StartGame, for the session
// to apply.
func (l *Lobby) TakeBacklog() []messages.ServerMessage {
	out := l.backlog
	l.backlog = nil
	return out
}

// Update applies pending server messages.
func (l *Lobby) Update() error {
	for _, msg := range l.relay.Poll() {
		if l.phase == LobbyStarted {
			l.backlog = append(l.backlog, msg)
			continue
		}
		if err := l.apply(msg); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lobby) apply(msg messages.ServerMessage) error {
	switch m := msg.(type) {
	case messages.YourToken:
		return l.onToken(m.Token)
	case messages.RoomJoined:
		l.room = m.Info
		l.phase = LobbyInRoom
		l.rejoining = false
		return l.store.Save(network.SavedSession{Token: l.token, RoomCode: m.Info.Code})
	case messages.StartGame:
		l.role = m.Role
		l.phase = LobbyStarted
		l.logger.Info("game started", "room", l.room.Code, "role", m.Role)
	case messages.Error:
		l.lastError = m.Message
		l.logger.Warn("request rejected", "error", m.Message)
		if l.rejoining {
			l.rejoining = false
			l.phase = LobbyIdle
			return l.store.Save(network.SavedSession{Token: l.token})
		}
	case messages.Ping, messages.PeerFailed, messages.SyncDispatcherState,
		messages.SyncSolverState, messages.SyncSolverPlayer:
	}
	return nil
}

func (l *Lobby) onToken(issued string) error {
	saved, err := l.store.Load()
	if err != nil {
		l.logger.Warn("saved session unreadable", "error", err)
	}
	if saved.Token == "" {
		l.token = issued
		l.phase = LobbyIdle
		return l.store.Save(network.SavedSession{Token: issued})
	}

	l.token = saved.Token
	l.phase = LobbyIdle
	if err := l.relay.Send(messages.Login{Token: saved.Token}); err != nil {
		return err
	}
	if saved.RoomCode != "" {
		l.logger.Info("resuming saved session", "room", saved.RoomCode)
		l.rejoining = true
		return l.relay.Send(messages.JoinRoom{Code: saved.RoomCode})
	}
	return nil
}

func (l *Lobby) CreateRoom() error {
	return l.relay.Send(messages.CreateRoom{})
}

func (l *Lobby) JoinRoom(code string) error {
	return l.relay.Send(messages.JoinRoom{Code: code})
}

func (l *Lobby) SelectRole(role model.Role) error {
	return l.relay.Send(messages.SelectRole{Role: role})
}
