// Package dispatcher models the dispatcher peer's desk: the switches it owns
// and a read-only mirror of the solver's progress.
package dispatcher

import "github.com/automoto/friendlyjam/shared/model"

// DefaultMonitorCode unlocks the monitor unless configured otherwise.
const DefaultMonitorCode = "0451"

// Desk is the dispatcher's half of the session. Only the dispatcher peer
// writes State; the solver fields are replaced from relayed messages.
type Desk struct {
	monitorCode string

	state  model.DispatcherState
	synced model.DispatcherState // last state handed to the relay
	solver model.SolverState
	player *model.PlayerSnapshot
}

func NewDesk(monitorCode string) *Desk {
	if monitorCode == "" {
		monitorCode = DefaultMonitorCode
	}
	return &Desk{monitorCode: monitorCode, solver: model.NewSolverState()}
}

func (d *Desk) State() model.DispatcherState { return d.state }
func (d *Desk) Solver() model.SolverState    { return d.solver }

// Player returns the last relayed solver avatar, if any.
func (d *Desk) Player() (model.PlayerSnapshot, bool) {
	if d.player == nil {
		return model.PlayerSnapshot{}, false
	}
	return *d.player, true
}

func (d *Desk) set(next model.DispatcherState) {
	d.state = next
}

// OpenButtonStation opens the button station. It stays open.
func (d *Desk) OpenButtonStation() {
	next := d.state
	next.ButtonStationOpen = true
	d.set(next)
}

// ToggleDoorSign flips the door sign.
func (d *Desk) ToggleDoorSign() {
	next := d.state
	next.DoorSignOpen = !next.DoorSignOpen
	d.set(next)
}

// UnlockMonitor unlocks the monitor when the button station is open and code
// matches. It reports whether the monitor is unlocked afterwards.
func (d *Desk) UnlockMonitor(code string) bool {
	if d.state.MonitorUnlocked {
		return true
	}
	if !d.state.ButtonStationOpen || code != d.monitorCode {
		return false
	}
	next := d.state
	next.MonitorUnlocked = true
	d.set(next)
	return true
}

// ReplaceState adopts a dispatcher state replayed by the server.
func (d *Desk) ReplaceState(s model.DispatcherState) {
	d.state = s
	d.synced = s
}

// MergeSolver mirrors the solver's relayed state.
func (d *Desk) MergeSolver(s model.SolverState) {
	d.solver = s
}

// MergePlayer mirrors the solver's relayed avatar.
func (d *Desk) MergePlayer(p model.PlayerSnapshot) {
	d.player = &p
}

// TakeStateChange returns the dispatcher state if it differs from the last
// one taken.
func (d *Desk) TakeStateChange() (model.DispatcherState, bool) {
	if d.state == d.synced {
		return d.state, false
	}
	d.synced = d.state
	return d.state, true
}
