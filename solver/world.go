// Package solver simulates the solver peer: a platformer avatar moving
// through a sequence of levels whose progress is shared with the dispatcher.
package solver

import (
	"errors"
	"fmt"

	"github.com/automoto/friendlyjam/assets"
	"github.com/automoto/friendlyjam/config"
	"github.com/automoto/friendlyjam/shared/collision"
	"github.com/automoto/friendlyjam/shared/leveldata"
	"github.com/automoto/friendlyjam/shared/model"
	"github.com/charmbracelet/log"
)

// ErrSessionFailed marks a terminal gameplay failure. The session cannot
// continue and the peer should be told.
var ErrSessionFailed = errors.New("session failed")

// World owns the solver's level, avatar, items and its half of the shared state.
type World struct {
	rules      config.SolverRules
	controller Controller
	levels     leveldata.Repository
	logger     *log.Logger

	level    leveldata.Level
	geometry *Geometry
	Player   *Player
	Items    []*Item

	state      model.SolverState
	dispatcher model.DispatcherState
	dirty      bool
	finished   bool
}

// NewWorld starts at state.CurrentLevel.
func NewWorld(rules config.SolverRules, levels leveldata.Repository, state model.SolverState, logger *log.Logger) (*World, error) {
	if logger == nil {
		logger = log.Default()
	}
	w := &World{
		rules:      rules,
		controller: Controller{Rules: rules},
		levels:     levels,
		logger:     logger,
		state:      state,
	}
	if err := w.enter(state.CurrentLevel); err != nil {
		return nil, err
	}
	return w, nil
}

// enter loads level index. Past the last level the world is finished and
// keeps showing the last level.
func (w *World) enter(index int) error {
	w.finished = index >= w.levels.Count()
	if w.finished {
		index = w.levels.Count() - 1
	}
	return w.loadLevel(index)
}

func (w *World) loadLevel(index int) error {
	level, ok := w.levels.Level(index)
	if !ok {
		return fmt.Errorf("level %d of %d does not exist", index, w.levels.Count())
	}
	w.level = level
	w.geometry = BuildGeometry(level)
	w.Items = w.Items[:0]
	for _, def := range level.Items {
		w.Items = append(w.Items, newItem(def))
	}
	w.Player = NewPlayer(w.rules.Player, w.geometry.Spawn)
	w.Player.ControlTimeout = w.rules.Player.SpawnControlTimeout
	w.logger.Debug("level loaded", "index", index, "name", level.Name)
	return nil
}

func (w *World) State() model.SolverState          { return w.state }
func (w *World) Dispatcher() model.DispatcherState { return w.dispatcher }
func (w *World) Geometry() *Geometry               { return w.geometry }
func (w *World) Level() leveldata.Level            { return w.level }

// Finished reports whether the player walked out of the last level.
func (w *World) Finished() bool { return w.finished }

func (w *World) setState(s model.SolverState) {
	if s != w.state {
		w.state = s
		w.dirty = true
	}
}

// TakeStateChange returns the solver state if it changed since the last call.
func (w *World) TakeStateChange() (model.SolverState, bool) {
	if !w.dirty {
		return w.state, false
	}
	w.dirty = false
	return w.state, true
}

// MergeDispatcher applies the dispatcher's latest state. An unlocked
// monitor disarms the trashcan.
func (w *World) MergeDispatcher(s model.DispatcherState) {
	w.dispatcher = s
	if s.MonitorUnlocked && w.state.TrashcanEvil {
		next := w.state
		next.TrashcanEvil = false
		w.setState(next)
		w.logger.Debug("trashcan disarmed by dispatcher")
	}
}

// ReplaceState adopts a state replayed by the server, reloading the level
// when it differs from the local one.
func (w *World) ReplaceState(s model.SolverState) error {
	if s.CurrentLevel != w.state.CurrentLevel {
		if err := w.enter(s.CurrentLevel); err != nil {
			return err
		}
	}
	w.state = s
	// The replayed copy may predate the dispatcher's mirrored state.
	w.MergeDispatcher(w.dispatcher)
	return nil
}

func (w *World) environment() Environment {
	return Environment{Geometry: w.geometry, ExitOpen: w.state.IsExitOpen(), Items: w.Items}
}

// Update advances the world by one tick of dt seconds.
func (w *World) Update(in Input, dt float64) error {
	if w.finished {
		return nil
	}

	env := w.environment()
	for _, it := range w.Items {
		it.fall(w.geometry, w.rules.ItemGravity, dt, env.ExitOpen)
	}

	w.controller.Step(w.Player, in, env, dt)

	if in.Pressed(ActionPickup) {
		if err := w.pickup(); err != nil {
			return err
		}
	}

	box := w.Player.Collider.AABB()
	if w.state.IsExitOpen() && box.Overlaps(w.geometry.Transition) {
		return w.advance()
	}
	if w.geometry.OutOfBounds(box) {
		w.logger.Debug("player out of bounds, respawning", "x", box.Min.X, "y", box.Min.Y)
		w.Player.Respawn(w.rules.Player, w.geometry.Spawn, w.rules.Player.SpawnControlTimeout)
	}
	return nil
}

func (w *World) pickup() error {
	for i, it := range w.Items {
		if !it.CanPickup || !collision.Check(w.Player.Collider, it.Collider) {
			continue
		}
		w.Items = append(w.Items[:i], w.Items[i+1:]...)

		next := w.state
		if it.Trap {
			if next.TrashcanEvil {
				return fmt.Errorf("%w: picked up the evil %s", ErrSessionFailed, it.Kind)
			}
			next.SolvedBubbleCode = true
		}
		if it.Unlocks && next.LevelsCompleted <= next.CurrentLevel {
			next.LevelsCompleted = next.CurrentLevel + 1
		}
		w.setState(next)
		w.logger.Debug("picked up item", "kind", it.Kind, "unlocks", it.Unlocks)
		return nil
	}
	return nil
}

func (w *World) advance() error {
	next := w.state
	next.CurrentLevel++
	if err := w.enter(next.CurrentLevel); err != nil {
		return err
	}
	w.setState(next)
	if w.finished {
		w.logger.Info("all levels completed")
	}
	return nil
}

// Visit reports every drawable of the world in back-to-front order.
func (w *World) Visit(draw func(box collision.AABB, sprite assets.Sprite)) {
	VisitGeometry(w.geometry, w.state.IsExitOpen(), draw)
	for _, it := range w.Items {
		id := assets.SpriteFish
		if it.Kind == leveldata.ItemCinderBlock {
			id = assets.SpriteCinderBlock
		}
		draw(it.Collider.AABB(), assets.Sprite{ID: id})
	}
	p := w.Player
	draw(p.Collider.AABB(), assets.PlayerSprite(p.Grounded(), p.Velocity.X != 0, p.AnimationTime))
}

// VisitGeometry reports the static drawables of a level.
func VisitGeometry(g *Geometry, exitOpen bool, draw func(box collision.AABB, sprite assets.Sprite)) {
	draw(g.Bounds, assets.Sprite{ID: assets.SpriteLevelBounds})
	for _, c := range g.Walls {
		draw(c.AABB(), assets.Sprite{ID: assets.SpriteWall})
	}
	for _, c := range g.Platforms {
		draw(c.AABB(), assets.Sprite{ID: assets.SpritePlatform})
	}
	if g.Entrance != nil {
		draw(g.Entrance.AABB(), assets.Sprite{ID: assets.SpriteDoorClosed})
	}
	if g.Exit != nil {
		id := assets.SpriteDoorClosed
		if exitOpen {
			id = assets.SpriteDoorOpen
			draw(g.Transition, assets.Sprite{ID: assets.SpriteTransition})
		}
		draw(g.Exit.AABB(), assets.Sprite{ID: id})
	}
}
