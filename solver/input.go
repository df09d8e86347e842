package solver

// Action is a logical solver control.
type Action int

const (
	ActionMoveLeft Action = iota
	ActionMoveRight
	ActionJump
	ActionPickup
	ActionCount // Must be last - used for array sizing
)

func (a Action) String() string {
	switch a {
	case ActionMoveLeft:
		return "move_left"
	case ActionMoveRight:
		return "move_right"
	case ActionJump:
		return "jump"
	case ActionPickup:
		return "pickup"
	default:
		return "unknown"
	}
}

// Input is one frame of controls: which actions are held and which were
// pressed this frame.
type Input struct {
	held    [ActionCount]bool
	pressed [ActionCount]bool
}

// Hold marks a as held for the frame.
func (in *Input) Hold(a Action) {
	in.held[a] = true
}

// Press marks a as pressed this frame. A press is also a hold.
func (in *Input) Press(a Action) {
	in.pressed[a] = true
	in.held[a] = true
}

func (in Input) Held(a Action) bool    { return in.held[a] }
func (in Input) Pressed(a Action) bool { return in.pressed[a] }

// Direction returns -1, 0 or 1 from the movement actions.
func (in Input) Direction() float64 {
	dir := 0.0
	if in.held[ActionMoveLeft] {
		dir--
	}
	if in.held[ActionMoveRight] {
		dir++
	}
	return dir
}
