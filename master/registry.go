package master

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ServerInfo describes a coordination server visible to clients.
type ServerInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Players int    `json:"players"`
	Rooms   int    `json:"rooms"`
}

type serverRecord struct {
	ServerInfo
	LastSeen time.Time
}

// Registry is an in-memory store of active servers with TTL-based expiry.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]*serverRecord
	ttl     time.Duration
	now     func() time.Time
	logger  *log.Logger
}

func NewRegistry(ttl time.Duration, logger *log.Logger) *Registry {
	return &Registry{
		servers: make(map[string]*serverRecord),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

func (r *Registry) Register(info ServerInfo) string {
	info.ID = uuid.NewString()

	r.mu.Lock()
	r.servers[info.ID] = &serverRecord{
		ServerInfo: info,
		LastSeen:   r.now(),
	}
	r.mu.Unlock()

	return info.ID
}

// Heartbeat refreshes a server's load. It reports false for unknown ids.
func (r *Registry) Heartbeat(id string, players, rooms int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.servers[id]
	if !ok {
		return false
	}
	rec.LastSeen = r.now()
	rec.Players = players
	rec.Rooms = rooms
	return true
}

// List returns live servers ordered by name.
func (r *Registry) List() []ServerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ServerInfo, 0, len(r.servers))
	for _, rec := range r.servers {
		result = append(result, rec.ServerInfo)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Expire drops servers not seen within the TTL.
func (r *Registry) Expire() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, rec := range r.servers {
		if age := now.Sub(rec.LastSeen); age >= r.ttl {
			r.logger.Info("expired server", "name", rec.Name, "id", id, "last_seen", age.Round(time.Second))
			delete(r.servers, id)
		}
	}
}

// Run expires stale servers every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Expire()
		}
	}
}
