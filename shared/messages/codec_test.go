package messages

import (
	"errors"
	"reflect"
	"testing"

	"github.com/automoto/friendlyjam/shared/fixed"
	"github.com/automoto/friendlyjam/shared/model"
)

func TestSolverPlayerSurvivesWire(t *testing.T) {
	in := SyncSolverPlayer{Player: model.PlayerSnapshot{
		X:             fixed.FromFloat(123.456),
		Y:             fixed.FromFloat(-7.25),
		VelX:          fixed.FromFloat(0.1),
		State:         model.PlayerAirborn,
		FacingLeft:    true,
		AnimationTime: fixed.FromFloat(3.5),
		Level:         2,
	}}

	frame, err := EncodeClient(in)
	if err != nil {
		t.Fatalf("EncodeClient() error = %v", err)
	}
	out, err := DecodeClient(frame)
	if err != nil {
		t.Fatalf("DecodeClient() error = %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("DecodeClient() = %+v, expected %+v", out, in)
	}
}

func TestRoomJoinedKeepsSlotOrder(t *testing.T) {
	in := RoomJoined{Info: model.RoomInfo{Code: "ABCD", Players: []model.ClientID{7, 3}}}

	frame, err := EncodeServer(in)
	if err != nil {
		t.Fatalf("EncodeServer() error = %v", err)
	}
	out, err := DecodeServer(frame)
	if err != nil {
		t.Fatalf("DecodeServer() error = %v", err)
	}
	got, ok := out.(RoomJoined)
	if !ok {
		t.Fatalf("DecodeServer() = %T, expected RoomJoined", out)
	}
	if got.Info.Code != "ABCD" || !reflect.DeepEqual(got.Info.Players, in.Info.Players) {
		t.Errorf("RoomJoined = %+v, expected %+v", got, in)
	}
}

func TestEmptyMessages(t *testing.T) {
	frame, err := EncodeServer(Ping{})
	if err != nil {
		t.Fatalf("EncodeServer(Ping) error = %v", err)
	}
	msg, err := DecodeServer(frame)
	if err != nil {
		t.Fatalf("DecodeServer() error = %v", err)
	}
	if _, ok := msg.(Ping); !ok {
		t.Errorf("DecodeServer() = %T, expected Ping", msg)
	}
}

func TestDirectionIsEnforced(t *testing.T) {
	frame, err := EncodeClient(CreateRoom{})
	if err != nil {
		t.Fatalf("EncodeClient() error = %v", err)
	}
	if _, err := DecodeServer(frame); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("DecodeServer(client frame) error = %v, expected ErrUnknownKind", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := DecodeClient([]byte{0xc1}); err == nil {
		t.Error("DecodeClient(garbage) expected error")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		msg  any
		want Kind
	}{
		{JoinRoom{Code: "abcd"}, KindJoinRoom},
		{StartGame{Role: model.RoleSolver}, KindStartGame},
		{"not a message", 0},
	}
	for _, tt := range tests {
		if got := KindOf(tt.msg); got != tt.want {
			t.Errorf("KindOf(%T) = %v, expected %v", tt.msg, got, tt.want)
		}
	}
}

func TestRelayedSyncKeepsItsName(t *testing.T) {
	in := SyncSolverState{State: model.SolverState{CurrentLevel: 2, LevelsCompleted: 2, TrashcanEvil: true}}

	frame, err := EncodeServer(in)
	if err != nil {
		t.Fatalf("EncodeServer() error = %v", err)
	}
	out, err := DecodeServer(frame)
	if err != nil {
		t.Fatalf("DecodeServer() error = %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("DecodeServer() = %+v, expected %+v", out, in)
	}
	if got := KindOf(out); got.String() != "SyncSolverState" {
		t.Errorf("KindOf() = %v, expected SyncSolverState", got)
	}
}
