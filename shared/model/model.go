// Package model holds the state shared between the two peers of a session.
// Each role is the only writer of its own half.
package model

import (
	"fmt"
	"strings"

	"github.com/automoto/friendlyjam/shared/fixed"
)

// ClientID identifies one transport connection for its lifetime.
type ClientID int64

// Role is the part a peer plays in a session.
type Role int

const (
	RoleDispatcher Role = iota
	RoleSolver
)

func (r Role) String() string {
	switch r {
	case RoleDispatcher:
		return "dispatcher"
	case RoleSolver:
		return "solver"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Other returns the complementary role.
func (r Role) Other() Role {
	if r == RoleDispatcher {
		return RoleSolver
	}
	return RoleDispatcher
}

func (r Role) Valid() bool {
	return r == RoleDispatcher || r == RoleSolver
}

// ParseRole accepts the role names case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dispatcher":
		return RoleDispatcher, nil
	case "solver":
		return RoleSolver, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// DispatcherState is written only by the dispatcher peer.
type DispatcherState struct {
	ButtonStationOpen bool
	DoorSignOpen      bool
	MonitorUnlocked   bool
}

// SolverState is written only by the solver peer.
type SolverState struct {
	CurrentLevel     int
	LevelsCompleted  int
	TrashcanEvil     bool
	SolvedBubbleCode bool
}

func NewSolverState() SolverState {
	return SolverState{TrashcanEvil: true}
}

// IsExitOpen reports whether the current level's exit door lets the player through.
func (s SolverState) IsExitOpen() bool {
	return s.CurrentLevel < s.LevelsCompleted
}

// PlayerState is the controller's coarse movement state.
type PlayerState int

const (
	PlayerGrounded PlayerState = iota
	PlayerAirborn
)

func (s PlayerState) String() string {
	if s == PlayerGrounded {
		return "grounded"
	}
	return "airborn"
}

// PlayerSnapshot is the ephemeral, network-facing view of the solver's avatar.
type PlayerSnapshot struct {
	X, Y          fixed.Num
	VelX, VelY    fixed.Num
	State         PlayerState
	FacingLeft    bool
	AnimationTime fixed.Num
	Level         int
}

// RoomInfo describes a room to its members. Players are listed in slot order.
type RoomInfo struct {
	Code    string
	Players []ClientID
}
