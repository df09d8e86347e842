package solver

import (
	"github.com/automoto/friendlyjam/config"
	"github.com/automoto/friendlyjam/shared/collision"
	"github.com/automoto/friendlyjam/shared/fixed"
	"github.com/automoto/friendlyjam/shared/model"
)

// timerEpsilon absorbs float drift when a timer counts down to zero.
const timerEpsilon = 1e-9

// Player is the solver's avatar. Timers count down in seconds and are
// inactive at zero.
type Player struct {
	Collider       collision.Collider
	Velocity       collision.Vec2
	State          model.PlayerState
	ControlTimeout float64
	FacingLeft     bool
	CanHoldJump    bool
	CoyoteTime     float64
	JumpBuffer     float64
	AnimationTime  float64
}

// NewPlayer places a player with its feet centered on spawn.
func NewPlayer(rules config.PlayerRules, spawn collision.Vec2) *Player {
	return &Player{
		Collider: collision.NewRect(spawn.X-rules.Width/2, spawn.Y, rules.Width, rules.Height),
		State:    model.PlayerAirborn,
	}
}

// Respawn puts the player back on spawn at rest.
func (p *Player) Respawn(rules config.PlayerRules, spawn collision.Vec2, controlTimeout float64) {
	*p = *NewPlayer(rules, spawn)
	p.ControlTimeout = controlTimeout
}

// Feet is the ground probe: a thin strip straddling the bottom edge.
func (p *Player) Feet(probe float64) collision.Collider {
	box := p.Collider.AABB()
	w := box.Width() * 0.8
	return collision.NewRect(box.Center().X-w/2, box.Min.Y-probe, w, 2*probe)
}

func (p *Player) Grounded() bool {
	return p.State == model.PlayerGrounded
}

// Snapshot converts the player to its network form.
func (p *Player) Snapshot(level int) model.PlayerSnapshot {
	return model.PlayerSnapshot{
		X:             fixed.FromFloat(p.Collider.Pos.X),
		Y:             fixed.FromFloat(p.Collider.Pos.Y),
		VelX:          fixed.FromFloat(p.Velocity.X),
		VelY:          fixed.FromFloat(p.Velocity.Y),
		State:         p.State,
		FacingLeft:    p.FacingLeft,
		AnimationTime: fixed.FromFloat(p.AnimationTime),
		Level:         level,
	}
}

// tickTimer counts t down by dt and clears it once it runs out.
func tickTimer(t *float64, dt float64) {
	if *t <= 0 {
		return
	}
	*t -= dt
	if *t <= timerEpsilon {
		*t = 0
	}
}
