package messages

import "fmt"

// Kind tags a message on the wire. Values are part of the protocol and
// must never be reused.
type Kind uint8

// Client to server. The three sync kinds also flow back from the server
// when it relays them.
const (
	KindPong Kind = iota + 1
	KindLogin
	KindCreateRoom
	KindJoinRoom
	KindSelectRole
	KindSyncDispatcherState
	KindSyncSolverState
	KindSyncSolverPlayer
	KindReportFailure
)

// Server to client.
const (
	KindPing Kind = iota + 64
	KindError
	KindYourToken
	KindRoomJoined
	KindStartGame
	KindPeerFailed
)

var kindNames = map[Kind]string{
	KindPong:                "Pong",
	KindLogin:               "Login",
	KindCreateRoom:          "CreateRoom",
	KindJoinRoom:            "JoinRoom",
	KindSelectRole:          "SelectRole",
	KindSyncDispatcherState: "SyncDispatcherState",
	KindSyncSolverState:     "SyncSolverState",
	KindSyncSolverPlayer:    "SyncSolverPlayer",
	KindReportFailure:       "ReportFailure",
	KindPing:                "Ping",
	KindError:               "Error",
	KindYourToken:           "YourToken",
	KindRoomJoined:          "RoomJoined",
	KindStartGame:           "StartGame",
	KindPeerFailed:          "PeerFailed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// KindOf returns the wire tag of a client or server message.
func KindOf(msg any) Kind {
	switch m := msg.(type) {
	case ClientMessage:
		return m.clientKind()
	case ServerMessage:
		return m.serverKind()
	}
	return 0
}
