package master

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

type registerRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Players int    `json:"players"`
	Rooms   int    `json:"rooms"`
}

type registerResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
	Rooms   int    `json:"rooms"`
}

const maxRequestBody = 1 << 16 // 64 KB

// Routes mounts the master API.
func Routes(reg *Registry, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /servers", withJSON(listServers(reg, logger)))
	mux.Handle("POST /servers/register", withJSON(registerServer(reg, logger)))
	mux.Handle("POST /servers/heartbeat", withJSON(heartbeat(reg)))
	mux.Handle("GET /health", withJSON(health()))
	return mux
}

func withJSON(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next(w, r)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return false
	}
	return true
}

func listServers(reg *Registry, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if err := json.NewEncoder(w).Encode(reg.List()); err != nil {
			logger.Warn("list encode error", "error", err)
		}
	}
}

func registerServer(reg *Registry, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" || req.Address == "" {
			http.Error(w, `{"error":"name and address required"}`, http.StatusBadRequest)
			return
		}

		id := reg.Register(ServerInfo{Name: req.Name, Address: req.Address, Players: req.Players, Rooms: req.Rooms})
		logger.Info("registered server", "name", req.Name, "address", req.Address, "id", id)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(registerResponse{ID: id})
	}
}

func heartbeat(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req heartbeatRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !reg.Heartbeat(req.ID, req.Players, req.Rooms) {
			http.Error(w, `{"error":"unknown server"}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

func health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
