package core

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/automoto/friendlyjam/shared/messages"
	"github.com/automoto/friendlyjam/shared/model"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	codeLength       = 4
	codeAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	maxCodeAttempts  = 10
	singlePlayerSlot = 1
)

// Sender delivers server messages to one connection. Send must not block.
type Sender interface {
	Send(msg messages.ServerMessage)
}

type client struct {
	sender Sender
	token  string
	room   string
}

// Stats is a point-in-time count of clients and rooms.
type Stats struct {
	Clients int
	Rooms   int
}

// State is the coordinator's single source of truth. It is not safe for
// concurrent use; the Coordinator goroutine owns it.
type State struct {
	clients map[model.ClientID]*client
	rooms   map[string]*Room
	nextID  model.ClientID

	testMode bool
	rng      *rand.Rand
	newCode  func() string
	newToken func() string
	logger   *log.Logger
}

// Option configures a State.
type Option func(*State)

// WithTestMode lets a single member start a game alone.
func WithTestMode(enabled bool) Option {
	return func(s *State) { s.testMode = enabled }
}

// WithRand seeds room codes and role tie-breaks.
func WithRand(rng *rand.Rand) Option {
	return func(s *State) { s.rng = rng }
}

// WithCodeGenerator replaces random room codes.
func WithCodeGenerator(gen func() string) Option {
	return func(s *State) { s.newCode = gen }
}

// WithTokenGenerator replaces random reconnection tokens.
func WithTokenGenerator(gen func() string) Option {
	return func(s *State) { s.newToken = gen }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *State) { s.logger = logger }
}

func NewState(opts ...Option) *State {
	s := &State{
		clients:  make(map[model.ClientID]*client),
		rooms:    make(map[string]*Room),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newToken: uuid.NewString,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newCode == nil {
		s.newCode = s.randomCode
	}
	return s
}

func (s *State) randomCode() string {
	var b strings.Builder
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[s.rng.IntN(len(codeAlphabet))])
	}
	return b.String()
}

func (s *State) Stats() Stats {
	return Stats{Clients: len(s.clients), Rooms: len(s.rooms)}
}

// Connect registers a new connection and greets it with a Ping and its token.
func (s *State) Connect(sender Sender) model.ClientID {
	s.nextID++
	id := s.nextID
	c := &client{sender: sender, token: s.newToken()}
	s.clients[id] = c

	sender.Send(messages.Ping{})
	sender.Send(messages.YourToken{Token: c.token})
	s.logger.Info("client connected", "client", id)
	return id
}

// Disconnect forgets a connection. During role selection its slot is freed;
// during a game the slot is kept for reconnection.
func (s *State) Disconnect(id model.ClientID) {
	c, ok := s.clients[id]
	if !ok {
		return
	}
	delete(s.clients, id)
	s.logger.Info("client disconnected", "client", id, "room", c.room)

	room, ok := s.rooms[c.room]
	if !ok {
		return
	}
	switch phase := room.phase.(type) {
	case *roleSelection:
		room.removeSlot(id)
		delete(phase.roles, id)
		if len(room.slots) == 0 {
			delete(s.rooms, room.Code)
			return
		}
		s.broadcast(room, messages.RoomJoined{Info: room.info()})
	case *inGame:
		// Slot stays; the janitor prunes the room once nobody is left.
	}
}

// Handle processes one client message.
func (s *State) Handle(id model.ClientID, msg messages.ClientMessage) {
	c, ok := s.clients[id]
	if !ok {
		return
	}

	var err error
	switch m := msg.(type) {
	case messages.Pong:
		c.sender.Send(messages.Ping{})
	case messages.Login:
		err = s.login(c, m)
	case messages.CreateRoom:
		err = s.createRoom(id, c)
	case messages.JoinRoom:
		err = s.joinRoom(id, c, m)
	case messages.SelectRole:
		err = s.selectRole(id, c, m)
	case messages.SyncDispatcherState:
		err = s.syncDispatcher(id, c, m)
	case messages.SyncSolverState:
		err = s.syncSolver(id, c, m)
	case messages.SyncSolverPlayer:
		err = s.relayFromRole(id, c, model.RoleSolver, m)
	case messages.ReportFailure:
		err = s.reportFailure(id, c, m)
	default:
		err = fmt.Errorf("%w: unexpected %T", ErrProtocolViolation, msg)
	}

	if err != nil {
		s.logger.Warn("request rejected", "client", id, "kind", messages.KindOf(msg), "error", err)
		c.sender.Send(messages.Error{Message: err.Error()})
	}
}

// Tick prunes rooms that no connected client belongs to.
func (s *State) Tick() {
	for code, room := range s.rooms {
		if s.connectedMembers(room) == 0 {
			delete(s.rooms, code)
			s.logger.Debug("pruned empty room", "room", code)
		}
	}
}

func (s *State) connectedMembers(room *Room) int {
	n := 0
	for _, sl := range room.slots {
		if c, ok := s.clients[sl.client]; ok && c.room == room.Code {
			n++
		}
	}
	return n
}

func (s *State) broadcast(room *Room, msg messages.ServerMessage) {
	for _, sl := range room.slots {
		if c, ok := s.clients[sl.client]; ok && c.room == room.Code {
			c.sender.Send(msg)
		}
	}
}

// sendToOthers delivers msg to every connected member except from.
func (s *State) sendToOthers(room *Room, from model.ClientID, msg messages.ServerMessage) {
	for _, sl := range room.slots {
		if sl.client == from {
			continue
		}
		if c, ok := s.clients[sl.client]; ok && c.room == room.Code {
			c.sender.Send(msg)
		}
	}
}

func (s *State) login(c *client, m messages.Login) error {
	if c.room != "" {
		return fmt.Errorf("%w: login after joining a room", ErrProtocolViolation)
	}
	if strings.TrimSpace(m.Token) == "" {
		return fmt.Errorf("%w: empty token", ErrProtocolViolation)
	}
	c.token = m.Token
	return nil
}

func (s *State) allocateCode() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.newCode()
		if _, taken := s.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

func (s *State) createRoom(id model.ClientID, c *client) error {
	if c.room != "" {
		return fmt.Errorf("%w: already in room %s", ErrProtocolViolation, c.room)
	}
	code, err := s.allocateCode()
	if err != nil {
		return err
	}

	room := newRoom(code)
	room.slots = append(room.slots, &slot{client: id, token: c.token})
	s.rooms[code] = room
	c.room = code

	s.logger.Info("room created", "room", code, "client", id)
	c.sender.Send(messages.RoomJoined{Info: room.info()})
	return nil
}

func (s *State) joinRoom(id model.ClientID, c *client, m messages.JoinRoom) error {
	if c.room != "" {
		return fmt.Errorf("%w: already in room %s", ErrProtocolViolation, c.room)
	}
	code := strings.ToUpper(strings.TrimSpace(m.Code))
	room, ok := s.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}

	switch phase := room.phase.(type) {
	case *roleSelection:
		if len(room.slots) >= maxSlots {
			return ErrRoomFull
		}
		room.slots = append(room.slots, &slot{client: id, token: c.token})
		c.room = code
		s.logger.Info("client joined room", "room", code, "client", id)
		s.broadcast(room, messages.RoomJoined{Info: room.info()})
		return nil

	case *inGame:
		sl := room.slotByToken(c.token)
		if sl == nil {
			return ErrAlreadyInProgress
		}
		if old, ok := s.clients[sl.client]; ok && sl.client != id {
			old.room = ""
		}
		sl.client = id
		c.room = code
		s.logger.Info("client reconnected", "room", code, "client", id, "role", sl.role)

		s.broadcast(room, messages.RoomJoined{Info: room.info()})
		c.sender.Send(messages.StartGame{Role: sl.role})
		c.sender.Send(messages.SyncDispatcherState{State: phase.dispatcher})
		c.sender.Send(messages.SyncSolverState{State: phase.solver})
		return nil
	}
	return fmt.Errorf("%w: room %s in unknown phase", ErrProtocolViolation, code)
}

func (s *State) memberRoom(id model.ClientID, c *client) (*Room, *slot, error) {
	room, ok := s.rooms[c.room]
	if !ok {
		return nil, nil, fmt.Errorf("%w: not in a room", ErrProtocolViolation)
	}
	sl := room.slotOf(id)
	if sl == nil {
		return nil, nil, fmt.Errorf("%w: not a member of %s", ErrProtocolViolation, room.Code)
	}
	return room, sl, nil
}

func (s *State) requiredPlayers() int {
	if s.testMode {
		return singlePlayerSlot
	}
	return maxSlots
}

func (s *State) selectRole(id model.ClientID, c *client, m messages.SelectRole) error {
	room, _, err := s.memberRoom(id, c)
	if err != nil {
		return err
	}
	phase, ok := room.phase.(*roleSelection)
	if !ok {
		return fmt.Errorf("%w: role selection is over", ErrProtocolViolation)
	}
	if !m.Role.Valid() {
		return fmt.Errorf("%w: invalid role %d", ErrProtocolViolation, int(m.Role))
	}

	phase.roles[id] = m.Role
	s.logger.Debug("role selected", "room", room.Code, "client", id, "role", m.Role)

	if len(room.slots) < s.requiredPlayers() || len(phase.roles) < len(room.slots) {
		return nil
	}
	s.startGame(room, phase)
	return nil
}

// startGame assigns final roles and moves the room into the game. When both
// members picked the same role a coin flip decides who switches.
func (s *State) startGame(room *Room, phase *roleSelection) {
	for _, sl := range room.slots {
		sl.role = phase.roles[sl.client]
	}
	if len(room.slots) == maxSlots && room.slots[0].role == room.slots[1].role {
		loser := room.slots[s.rng.IntN(maxSlots)]
		loser.role = loser.role.Other()
	}

	room.phase = &inGame{solver: model.NewSolverState()}
	s.logger.Info("game started", "room", room.Code)
	for _, sl := range room.slots {
		if c, ok := s.clients[sl.client]; ok {
			c.sender.Send(messages.StartGame{Role: sl.role})
		}
	}
}

func (s *State) gameOf(id model.ClientID, c *client, role model.Role) (*Room, *inGame, error) {
	room, sl, err := s.memberRoom(id, c)
	if err != nil {
		return nil, nil, err
	}
	phase, ok := room.phase.(*inGame)
	if !ok {
		return nil, nil, fmt.Errorf("%w: game has not started", ErrProtocolViolation)
	}
	if sl.role != role {
		return nil, nil, fmt.Errorf("%w: only the %s may send this", ErrProtocolViolation, role)
	}
	return room, phase, nil
}

func (s *State) syncDispatcher(id model.ClientID, c *client, m messages.SyncDispatcherState) error {
	room, phase, err := s.gameOf(id, c, model.RoleDispatcher)
	if err != nil {
		return err
	}
	phase.dispatcher = m.State
	s.sendToOthers(room, id, m)
	return nil
}

func (s *State) syncSolver(id model.ClientID, c *client, m messages.SyncSolverState) error {
	room, phase, err := s.gameOf(id, c, model.RoleSolver)
	if err != nil {
		return err
	}
	phase.solver = m.State
	s.sendToOthers(room, id, m)
	return nil
}

// relayFromRole forwards an ephemeral message without touching room state.
func (s *State) relayFromRole(id model.ClientID, c *client, role model.Role, msg messages.ServerMessage) error {
	room, _, err := s.gameOf(id, c, role)
	if err != nil {
		return err
	}
	s.sendToOthers(room, id, msg)
	return nil
}

func (s *State) reportFailure(id model.ClientID, c *client, m messages.ReportFailure) error {
	room, sl, err := s.memberRoom(id, c)
	if err != nil {
		return err
	}
	if _, ok := room.phase.(*inGame); !ok {
		return fmt.Errorf("%w: game has not started", ErrProtocolViolation)
	}
	s.logger.Warn("session failed", "room", room.Code, "role", sl.role, "reason", m.Reason)
	s.sendToOthers(room, id, messages.PeerFailed{Reason: m.Reason})
	return nil
}
