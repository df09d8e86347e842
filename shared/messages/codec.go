// Package messages defines the wire protocol between clients and the
// coordination server. Every frame is a msgpack envelope holding a kind tag
// and the msgpack-encoded message body.
package messages

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-msgpack/v2/codec"
)

var ErrUnknownKind = errors.New("unknown message kind")

type envelope struct {
	Kind Kind
	Body []byte
}

var handle = &codec.MsgpackHandle{WriteExt: true}

func marshal(v any) ([]byte, error) {
	var b []byte
	if err := codec.NewEncoderBytes(&b, handle).Encode(v); err != nil {
		return nil, err
	}
	return b, nil
}

func unmarshal(b []byte, v any) error {
	return codec.NewDecoderBytes(b, handle).Decode(v)
}

func encode(kind Kind, msg any) ([]byte, error) {
	body, err := marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	frame, err := marshal(envelope{Kind: kind, Body: body})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", kind, err)
	}
	return frame, nil
}

func open(frame []byte) (envelope, error) {
	var env envelope
	if err := unmarshal(frame, &env); err != nil {
		return envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// EncodeClient serializes a client message into one frame.
func EncodeClient(msg ClientMessage) ([]byte, error) {
	return encode(msg.clientKind(), msg)
}

// EncodeServer serializes a server message into one frame.
func EncodeServer(msg ServerMessage) ([]byte, error) {
	return encode(msg.serverKind(), msg)
}

// DecodeClient parses a frame produced by EncodeClient.
func DecodeClient(frame []byte) (ClientMessage, error) {
	env, err := open(frame)
	if err != nil {
		return nil, err
	}

	switch env.Kind {
	case KindPong:
		return decodeBody[Pong](env)
	case KindLogin:
		return decodeBody[Login](env)
	case KindCreateRoom:
		return decodeBody[CreateRoom](env)
	case KindJoinRoom:
		return decodeBody[JoinRoom](env)
	case KindSelectRole:
		return decodeBody[SelectRole](env)
	case KindSyncDispatcherState:
		return decodeBody[SyncDispatcherState](env)
	case KindSyncSolverState:
		return decodeBody[SyncSolverState](env)
	case KindSyncSolverPlayer:
		return decodeBody[SyncSolverPlayer](env)
	case KindReportFailure:
		return decodeBody[ReportFailure](env)
	default:
		return nil, fmt.Errorf("%w: %s from client", ErrUnknownKind, env.Kind)
	}
}

// DecodeServer parses a frame produced by EncodeServer.
func DecodeServer(frame []byte) (ServerMessage, error) {
	env, err := open(frame)
	if err != nil {
		return nil, err
	}

	switch env.Kind {
	case KindPing:
		return decodeBody[Ping](env)
	case KindError:
		return decodeBody[Error](env)
	case KindYourToken:
		return decodeBody[YourToken](env)
	case KindRoomJoined:
		return decodeBody[RoomJoined](env)
	case KindStartGame:
		return decodeBody[StartGame](env)
	case KindSyncDispatcherState:
		return decodeBody[SyncDispatcherState](env)
	case KindSyncSolverState:
		return decodeBody[SyncSolverState](env)
	case KindSyncSolverPlayer:
		return decodeBody[SyncSolverPlayer](env)
	case KindPeerFailed:
		return decodeBody[PeerFailed](env)
	default:
		return nil, fmt.Errorf("%w: %s from server", ErrUnknownKind, env.Kind)
	}
}

func decodeBody[T any](env envelope) (T, error) {
	var msg T
	if err := unmarshal(env.Body, &msg); err != nil {
		return msg, fmt.Errorf("decode %s: %w", env.Kind, err)
	}
	return msg, nil
}
