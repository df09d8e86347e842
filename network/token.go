package network

import (
	"encoding/json"
	"fmt"

	"github.com/quasilyte/gdata"
)

const sessionKey = "session"

// SavedSession is what a client remembers between runs to reclaim its slot.
type SavedSession struct {
	Token    string `json:"token"`
	RoomCode string `json:"roomCode"`
}

// SessionStore persists the reconnection token.
type SessionStore interface {
	Load() (SavedSession, error)
	Save(SavedSession) error
}

// GdataStore keeps the session in the per-user game data directory.
type GdataStore struct {
	m *gdata.Manager
}

func OpenGdataStore(appName string) (*GdataStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open game data: %w", err)
	}
	return &GdataStore{m: m}, nil
}

// Load returns the saved session, or a zero value if none was saved yet.
func (s *GdataStore) Load() (SavedSession, error) {
	var saved SavedSession
	data, err := s.m.LoadItem(sessionKey)
	if err != nil {
		return saved, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return saved, nil
	}
	if err := json.Unmarshal(data, &saved); err != nil {
		return saved, fmt.Errorf("parse session: %w", err)
	}
	return saved, nil
}

func (s *GdataStore) Save(saved SavedSession) error {
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}
	if err := s.m.SaveItem(sessionKey, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// MemoryStore is a SessionStore that forgets everything on exit.
type MemoryStore struct {
	saved SavedSession
}

func (s *MemoryStore) Load() (SavedSession, error) { return s.saved, nil }

func (s *MemoryStore) Save(saved SavedSession) error {
	s.saved = saved
	return nil
}
