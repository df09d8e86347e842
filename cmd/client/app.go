package main

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/automoto/friendlyjam/config"
	"github.com/automoto/friendlyjam/dispatcher"
	"github.com/automoto/friendlyjam/game"
	"github.com/automoto/friendlyjam/network"
	"github.com/automoto/friendlyjam/shared/leveldata"
	"github.com/automoto/friendlyjam/shared/model"
	"github.com/automoto/friendlyjam/solver"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var errConnectionLost = errors.New("connection to server lost")

type options struct {
	create      bool
	join        string
	role        *model.Role
	monitorCode string
}

// app is the ebiten game: lobby first, then the session for our role.
type app struct {
	relay  *network.Client
	lobby  *game.Lobby
	logger *log.Logger
	opts   options

	rules  config.SolverRules
	levels leveldata.Levels
	width  int
	height int

	solver     *game.SolverSession
	dispatcher *game.DispatcherSession
	input      inputPoller

	entry      []rune
	autoJoined bool
	autoRoled  bool
}

func newApp(relay *network.Client, store network.SessionStore, rules config.SolverRules, levels leveldata.Levels, opts options, logger *log.Logger) *app {
	first, _ := levels.Level(0)
	return &app{
		relay:  relay,
		lobby:  game.NewLobby(relay, store, logger.WithPrefix("lobby")),
		logger: logger,
		opts:   opts,
		rules:  rules,
		levels: levels,
		width:  int(first.Width),
		height: int(first.Height),
	}
}

func (a *app) dt() float64 {
	return 1 / float64(ebiten.TPS())
}

func (a *app) Update() error {
	if state := a.relay.State(); state == network.StateDisconnected || state == network.StateError {
		if err := a.relay.LastError(); err != nil {
			return fmt.Errorf("%w: %v", errConnectionLost, err)
		}
		return errConnectionLost
	}

	switch {
	case a.solver != nil:
		return a.solver.Update(a.input.Poll(), a.dt())
	case a.dispatcher != nil:
		a.updateDesk()
		return a.dispatcher.Update(a.dt())
	default:
		return a.updateLobby()
	}
}

func (a *app) updateLobby() error {
	if err := a.lobby.Update(); err != nil {
		return err
	}

	switch a.lobby.Phase() {
	case game.LobbyIdle:
		if !a.autoJoined {
			a.autoJoined = true
			switch {
			case a.opts.join != "":
				return a.lobby.JoinRoom(a.opts.join)
			case a.opts.create:
				return a.lobby.CreateRoom()
			}
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
			return a.lobby.CreateRoom()
		}
		if code, ok := a.typed(unicode.IsLetter); ok {
			return a.lobby.JoinRoom(code)
		}
	case game.LobbyInRoom:
		if a.opts.role != nil && !a.autoRoled {
			a.autoRoled = true
			return a.lobby.SelectRole(*a.opts.role)
		}
		if inpututil.IsKeyJustPressed(ebiten.Key1) {
			return a.lobby.SelectRole(model.RoleDispatcher)
		}
		if inpututil.IsKeyJustPressed(ebiten.Key2) {
			return a.lobby.SelectRole(model.RoleSolver)
		}
	case game.LobbyStarted:
		return a.startSession()
	}
	return nil
}

func (a *app) startSession() error {
	role, _ := a.lobby.Started()
	backlog := a.lobby.TakeBacklog()

	switch role {
	case model.RoleSolver:
		world, err := solver.NewWorld(a.rules, a.levels, model.NewSolverState(), a.logger.WithPrefix("solver"))
		if err != nil {
			return err
		}
		a.solver = game.NewSolverSession(a.relay, world, a.logger.WithPrefix("solver"))
		return a.solver.Apply(backlog)
	default:
		session, err := game.NewDispatcherSession(a.relay, dispatcher.NewDesk(a.opts.monitorCode), a.levels, a.rules.Player, a.logger.WithPrefix("dispatcher"))
		if err != nil {
			return err
		}
		a.dispatcher = session
		return a.dispatcher.Apply(backlog)
	}
}

func (a *app) updateDesk() {
	desk := a.dispatcher.Desk()
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		desk.OpenButtonStation()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		desk.ToggleDoorSign()
	}
	if code, ok := a.typed(unicode.IsDigit); ok {
		if !desk.UnlockMonitor(code) {
			a.logger.Info("monitor stays locked")
		}
	}
}

// typed collects characters accepted by keep and returns the entry when
// Enter is pressed.
func (a *app) typed(keep func(rune) bool) (string, bool) {
	for _, r := range ebiten.AppendInputChars(nil) {
		if keep(r) {
			a.entry = append(a.entry, unicode.ToUpper(r))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(a.entry) > 0 {
		a.entry = a.entry[:len(a.entry)-1]
	}
	if !inpututil.IsKeyJustPressed(ebiten.KeyEnter) || len(a.entry) == 0 {
		return "", false
	}
	out := string(a.entry)
	a.entry = a.entry[:0]
	return out, true
}

func (a *app) Draw(screen *ebiten.Image) {
	surface := screenSurface{screen: screen, height: float64(a.height)}
	var status strings.Builder

	switch {
	case a.solver != nil:
		a.solver.Draw(surface)
		drawFade(screen, a.solver.Fade().Alpha())
		st := a.solver.World().State()
		fmt.Fprintf(&status, "SOLVER  level %d  exit open: %v", st.CurrentLevel, st.IsExitOpen())
		if a.solver.World().Finished() {
			status.WriteString("\nall levels complete")
		}
	case a.dispatcher != nil:
		a.dispatcher.Draw(surface)
		drawFade(screen, a.dispatcher.Fade().Alpha())
		ds := a.dispatcher.Desk().State()
		fmt.Fprintf(&status, "DISPATCHER  button station: %v  door sign: %v  monitor: %v\n",
			ds.ButtonStationOpen, ds.DoorSignOpen, ds.MonitorUnlocked)
		fmt.Fprintf(&status, "F1 open station  F2 toggle sign  code+Enter unlock: %s", string(a.entry))
	default:
		fmt.Fprintf(&status, "lobby: %s\n", a.lobby.Phase())
		switch a.lobby.Phase() {
		case game.LobbyIdle:
			fmt.Fprintf(&status, "F1 create room, or type a code and Enter: %s\n", string(a.entry))
		case game.LobbyInRoom:
			room := a.lobby.Room()
			fmt.Fprintf(&status, "room %s  players %d\n1 dispatcher  2 solver\n", room.Code, len(room.Players))
		}
		if msg := a.lobby.LastError(); msg != "" {
			fmt.Fprintf(&status, "error: %s\n", msg)
		}
	}
	ebitenutil.DebugPrint(screen, status.String())
}

func (a *app) Layout(_, _ int) (int, int) {
	return a.width, a.height
}
