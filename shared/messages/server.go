package messages

import "github.com/automoto/friendlyjam/shared/model"

// ServerMessage is the closed set of messages the server may send.
type ServerMessage interface {
	serverKind() Kind
}

// Ping is a keep-alive; clients answer with Pong.
type Ping struct{}

// Error reports a rejected request. The connection stays open.
type Error struct {
	Message string
}

// YourToken hands the client the token to present when reconnecting.
type YourToken struct {
	Token string
}

// RoomJoined is sent to every member whenever room membership changes.
type RoomJoined struct {
	Info model.RoomInfo
}

// StartGame tells a member which role it plays.
type StartGame struct {
	Role model.Role
}

// PeerFailed reports that the other member hit a terminal gameplay failure.
type PeerFailed struct {
	Reason string
}

func (Ping) serverKind() Kind       { return KindPing }
func (Error) serverKind() Kind      { return KindError }
func (YourToken) serverKind() Kind  { return KindYourToken }
func (RoomJoined) serverKind() Kind { return KindRoomJoined }
func (StartGame) serverKind() Kind  { return KindStartGame }

// The sync messages are relayed to the other member unchanged, so they are
// server messages too and keep their client tag.
func (SyncDispatcherState) serverKind() Kind { return KindSyncDispatcherState }
func (SyncSolverState) serverKind() Kind     { return KindSyncSolverState }
func (SyncSolverPlayer) serverKind() Kind    { return KindSyncSolverPlayer }
func (PeerFailed) serverKind() Kind          { return KindPeerFailed }
