package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/automoto/friendlyjam/config"
	"github.com/charmbracelet/log"
)

const shutdownTimeout = 5 * time.Second

// Server hosts the coordinator behind a websocket endpoint.
type Server struct {
	cfg       config.ServerConfig
	logger    *log.Logger
	coord     *Coordinator
	janitor   *Janitor
	transport *Transport
}

// NewServer wires the coordinator, janitor and transport. Extra options are
// applied to the room state after the config-derived ones.
func NewServer(cfg config.ServerConfig, logger *log.Logger, opts ...Option) *Server {
	stateOpts := append([]Option{
		WithTestMode(cfg.TestMode),
		WithLogger(logger.WithPrefix("rooms")),
	}, opts...)

	coord := NewCoordinator(NewState(stateOpts...), logger)
	return &Server{
		cfg:       cfg,
		logger:    logger,
		coord:     coord,
		janitor:   NewJanitor(coord, cfg.TickRate, logger),
		transport: NewTransport(coord, cfg.IdleTimeout, cfg.SendBuffer, logger.WithPrefix("ws")),
	}
}

// Handler serves the websocket endpoint at / and a health probe.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/", s.transport)
	return mux
}

// Start runs the coordinator and janitor until ctx is cancelled. It does not
// listen; pair it with Handler or use Run.
func (s *Server) Start(ctx context.Context) {
	go s.coord.Run(ctx)
	go s.janitor.Run(ctx)
}

// Run serves on cfg.Addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.Start(ctx)

	if s.cfg.MasterURL != "" {
		addr := s.cfg.PublicAddr
		if addr == "" {
			addr = ln.Addr().String()
		}
		reg := NewRegistration(s.cfg.MasterURL, s.cfg.Name, addr, s, s.logger.WithPrefix("registration"))
		reg.Start(ctx)
	}

	srv := &http.Server{
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("server listening", "addr", ln.Addr().String(), "test_mode", s.cfg.TestMode)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) stats() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	st, err := s.coord.Stats(ctx)
	if err != nil {
		return Stats{}
	}
	return st
}

func (s *Server) PlayerCount() int {
	return s.stats().Clients
}

func (s *Server) RoomCount() int {
	return s.stats().Rooms
}
