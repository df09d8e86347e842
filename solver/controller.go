package solver

import (
	"math"

	"github.com/automoto/friendlyjam/config"
	"github.com/automoto/friendlyjam/shared/collision"
	"github.com/automoto/friendlyjam/shared/gamemath"
	"github.com/automoto/friendlyjam/shared/model"
)

// Controller advances a Player by one fixed tick. It owns no state; the
// environment it collides with is passed in on every step.
type Controller struct {
	Rules config.SolverRules
}

// Environment is what the player collides with during a tick.
type Environment struct {
	Geometry *Geometry
	ExitOpen bool
	Items    []*Item
}

// Step runs one tick: timers, input, gravity, horizontal control, jump,
// integration, collision resolution and the ground probe, in that order.
func (c Controller) Step(p *Player, in Input, env Environment, dt float64) {
	r := c.Rules

	tickTimer(&p.CoyoteTime, dt)
	tickTimer(&p.JumpBuffer, dt)
	tickTimer(&p.ControlTimeout, dt)

	if in.Pressed(ActionJump) {
		p.JumpBuffer = r.BufferTime
	}
	if !in.Held(ActionJump) {
		p.CanHoldJump = false
	}

	if p.Velocity.X != 0 {
		p.FacingLeft = p.Velocity.X < 0
	}

	p.Velocity = p.Velocity.Add(collision.V(r.Gravity.X, r.Gravity.Y).Scale(dt))

	switch {
	case p.Velocity.Y < 0:
		p.Velocity.Y += r.Gravity.Y * (r.FallMultiplier - 1) * dt
		p.Velocity.Y = gamemath.ClampSpeed(p.Velocity.Y, r.FreeFallSpeed)
	case p.Velocity.Y > 0 && !p.CanHoldJump:
		p.Velocity.Y += r.Gravity.Y * (r.LowMultiplier - 1) * dt
	}

	// Horizontal input has no authority while the control timeout runs.
	dir := 0.0
	if p.ControlTimeout == 0 {
		dir = in.Direction()
		p.Velocity.X = gamemath.Approach(p.Velocity.X, dir*r.MoveSpeed, c.horizontalAccel(p, dir)*dt)
	}

	if p.JumpBuffer > 0 && (p.Grounded() || p.CoyoteTime > 0) {
		p.Velocity.Y = r.JumpStrength
		p.Velocity.X += r.JumpPush * dir
		p.State = model.PlayerAirborn
		p.JumpBuffer = 0
		p.CoyoteTime = 0
		p.CanHoldJump = true
	}

	prevBottom := p.Collider.Bottom()
	p.Collider = p.Collider.Translate(p.Velocity.Scale(dt))

	c.collide(p, env, prevBottom)
	c.probeGround(p, env)

	p.AnimationTime += dt
}

// horizontalAccel picks the acceleration constant for steering toward dir.
func (c Controller) horizontalAccel(p *Player, dir float64) float64 {
	r := c.Rules
	speeding := gamemath.Speeding(p.Velocity.X, dir*r.MoveSpeed)
	switch {
	case p.Grounded() && speeding:
		return r.AccelerationGround
	case p.Grounded():
		return r.DecelerationGround
	case speeding:
		return r.AccelerationAir
	default:
		return r.DecelerationAir
	}
}

// collide resolves statics and doors, then one-way platforms, then
// pushable items.
func (c Controller) collide(p *Player, env Environment, prevBottom float64) {
	g := env.Geometry
	resolveSolids(&p.Collider, &p.Velocity, g.Blockers(p.Collider.AABB(), env.ExitOpen))
	landOnPlatform(&p.Collider, &p.Velocity, prevBottom, g.NearbyPlatforms(p.Collider.AABB()))

	for _, it := range env.Items {
		if !it.Solid() {
			continue
		}
		col, ok := collision.Collide(p.Collider, it.Collider)
		if !ok {
			continue
		}
		if it.Pushable && math.Abs(col.Normal.X) > math.Abs(col.Normal.Y) {
			half := col.Resolve().Scale(0.5)
			p.Collider = p.Collider.Translate(half)
			it.Collider = it.Collider.Translate(half.Neg())
			var iv collision.Vec2
			resolveSolids(&it.Collider, &iv, g.Blockers(it.Collider.AABB(), env.ExitOpen))
			if col, ok = collision.Collide(p.Collider, it.Collider); !ok {
				continue
			}
		}
		p.Collider = p.Collider.Translate(col.Resolve())
		if into := p.Velocity.Dot(col.Normal); into > 0 {
			p.Velocity = p.Velocity.Sub(col.Normal.Scale(into))
		}
	}
}

// probeGround recomputes the grounded state from scratch every tick.
func (c Controller) probeGround(p *Player, env Environment) {
	grounded := false
	if p.Velocity.Y <= 0 {
		feet := p.Feet(c.Rules.Player.FeetProbe)
		box := feet.AABB()
		grounded = overlapsAny(feet, env.Geometry.Blockers(box, env.ExitOpen))
		if !grounded {
			bottom := p.Collider.Bottom()
			for _, plat := range env.Geometry.NearbyPlatforms(box) {
				if bottom >= plat.Top()-platformTolerance && collision.Check(feet, plat) {
					grounded = true
					break
				}
			}
		}
		for _, it := range env.Items {
			if grounded {
				break
			}
			grounded = it.Solid() && collision.Check(feet, it.Collider)
		}
	}

	if grounded {
		p.State = model.PlayerGrounded
		p.CoyoteTime = c.Rules.CoyoteTime
		p.Velocity.Y = 0
		return
	}
	p.State = model.PlayerAirborn
}

func overlapsAny(c collision.Collider, others []collision.Collider) bool {
	for _, o := range others {
		if collision.Check(c, o) {
			return true
		}
	}
	return false
}
