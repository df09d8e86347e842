package network

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/automoto/friendlyjam/master"
	"github.com/charmbracelet/log"
)

func TestFetchServersAndPick(t *testing.T) {
	logger := log.New(io.Discard)
	reg := master.NewRegistry(time.Minute, logger)
	reg.Register(master.ServerInfo{Name: "busy", Address: "10.0.0.1:8090", Rooms: 5, Players: 9})
	reg.Register(master.ServerInfo{Name: "quiet", Address: "10.0.0.2:8090", Rooms: 1, Players: 2})

	ts := httptest.NewServer(master.Routes(reg, logger))
	defer ts.Close()

	servers, err := FetchServers(context.Background(), ts.Client(), ts.URL)
	if err != nil {
		t.Fatalf("FetchServers() error = %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("FetchServers() returned %d servers, expected 2", len(servers))
	}

	best, ok := PickServer(servers)
	if !ok || best.Name != "quiet" {
		t.Errorf("PickServer() = %+v, expected quiet", best)
	}
	if got := ServerURL(best); got != "ws://10.0.0.2:8090" {
		t.Errorf("ServerURL() = %q, expected ws://10.0.0.2:8090", got)
	}
}

func TestFetchServersBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	if _, err := FetchServers(context.Background(), ts.Client(), ts.URL); err == nil {
		t.Errorf("FetchServers() error = nil, expected a status error")
	}
}

func TestPickServerEmpty(t *testing.T) {
	if _, ok := PickServer(nil); ok {
		t.Errorf("PickServer(nil) ok = true, expected false")
	}
}
