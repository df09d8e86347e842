package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const heartbeatInterval = 30 * time.Second

// Counter reports live load for the master listing.
type Counter interface {
	PlayerCount() int
	RoomCount() int
}

// Registration handles registering and heartbeating with the master server.
type Registration struct {
	masterURL string
	serverID  string
	name      string
	address   string
	counter   Counter
	client    *http.Client
	logger    *log.Logger
	interval  time.Duration
}

type regRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Players int    `json:"players"`
	Rooms   int    `json:"rooms"`
}

type regResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
	Rooms   int    `json:"rooms"`
}

func NewRegistration(masterURL, name, address string, counter Counter, logger *log.Logger) *Registration {
	return &Registration{
		masterURL: masterURL,
		name:      name,
		address:   address,
		counter:   counter,
		client:    &http.Client{Timeout: 5 * time.Second},
		logger:    logger,
		interval:  heartbeatInterval,
	}
}

// Start registers once and heartbeats until ctx is cancelled.
func (r *Registration) Start(ctx context.Context) {
	if err := r.register(ctx); err != nil {
		r.logger.Warn("initial registration failed", "error", err)
	}
	go r.heartbeatLoop(ctx)
}

func (r *Registration) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.masterURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	return resp, nil
}

func (r *Registration) register(ctx context.Context) error {
	resp, err := r.post(ctx, "/servers/register", regRequest{
		Name:    r.name,
		Address: r.address,
		Players: r.counter.PlayerCount(),
		Rooms:   r.counter.RoomCount(),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result regResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	r.serverID = result.ID
	r.logger.Info("registered with master", "id", r.serverID)
	return nil
}

func (r *Registration) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.sendHeartbeat(ctx); err != nil {
				r.logger.Warn("heartbeat failed", "error", err)
			}
		}
	}
}

func (r *Registration) sendHeartbeat(ctx context.Context) error {
	if r.serverID == "" {
		return r.register(ctx)
	}
	resp, err := r.post(ctx, "/servers/heartbeat", heartbeatRequest{
		ID:      r.serverID,
		Players: r.counter.PlayerCount(),
		Rooms:   r.counter.RoomCount(),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		r.logger.Info("master lost our registration, re-registering")
		return r.register(ctx)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return nil
}
