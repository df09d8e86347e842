package core

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/automoto/friendlyjam/master"
)

type fixedCounter struct {
	players, rooms int
}

func (c fixedCounter) PlayerCount() int { return c.players }
func (c fixedCounter) RoomCount() int   { return c.rooms }

func TestRegistrationRegistersAndReregisters(t *testing.T) {
	reg := master.NewRegistry(time.Minute, quietLogger())
	ts := httptest.NewServer(master.Routes(reg, quietLogger()))
	defer ts.Close()

	ctx := context.Background()
	r := NewRegistration(ts.URL, "coop", "127.0.0.1:8090", fixedCounter{players: 2, rooms: 1}, quietLogger())
	if err := r.register(ctx); err != nil {
		t.Fatalf("register() error = %v", err)
	}
	list := reg.List()
	if len(list) != 1 || list[0].Rooms != 1 || list[0].Players != 2 {
		t.Fatalf("registry = %+v, expected one server with 2 players in 1 room", list)
	}

	r.serverID = "forgotten"
	if err := r.sendHeartbeat(ctx); err != nil {
		t.Fatalf("sendHeartbeat() error = %v", err)
	}
	if r.serverID == "forgotten" {
		t.Errorf("serverID not replaced after 404 re-registration")
	}
	if got := len(reg.List()); got != 2 {
		t.Errorf("registry size = %d, expected 2", got)
	}
}
