package messages

import "github.com/automoto/friendlyjam/shared/model"

// ClientMessage is the closed set of messages a client may send.
type ClientMessage interface {
	clientKind() Kind
}

// Pong answers a server Ping.
type Pong struct{}

// Login replaces the connection's token with one issued earlier, so a later
// JoinRoom can reclaim a slot in a running game.
type Login struct {
	Token string
}

// CreateRoom asks for a new room with a fresh code.
type CreateRoom struct{}

// JoinRoom joins an existing room. The code is matched case-insensitively.
type JoinRoom struct {
	Code string
}

// SelectRole records the sender's role choice during role selection.
type SelectRole struct {
	Role model.Role
}

// SyncDispatcherState publishes the dispatcher's half of the shared state.
type SyncDispatcherState struct {
	State model.DispatcherState
}

// SyncSolverState publishes the solver's half of the shared state.
type SyncSolverState struct {
	State model.SolverState
}

// SyncSolverPlayer publishes the solver avatar. It is relayed, never stored.
type SyncSolverPlayer struct {
	Player model.PlayerSnapshot
}

// ReportFailure tells the peer that this side hit a terminal gameplay failure.
type ReportFailure struct {
	Reason string
}

func (Pong) clientKind() Kind                { return KindPong }
func (Login) clientKind() Kind               { return KindLogin }
func (CreateRoom) clientKind() Kind          { return KindCreateRoom }
func (JoinRoom) clientKind() Kind            { return KindJoinRoom }
func (SelectRole) clientKind() Kind          { return KindSelectRole }
func (SyncDispatcherState) clientKind() Kind { return KindSyncDispatcherState }
func (SyncSolverState) clientKind() Kind     { return KindSyncSolverState }
func (SyncSolverPlayer) clientKind() Kind    { return KindSyncSolverPlayer }
func (ReportFailure) clientKind() Kind       { return KindReportFailure }
