package main

import (
	"github.com/automoto/friendlyjam/solver"
	"github.com/hajimehoshi/ebiten/v2"
)

// InputBinding represents a single key or button binding for an action
type InputBinding struct {
	Keys                   []ebiten.Key
	StandardGamepadButtons []ebiten.StandardGamepadButton
}

const analogDeadzone = 0.25

var bindings = map[solver.Action]InputBinding{
	solver.ActionMoveLeft: {
		Keys:                   []ebiten.Key{ebiten.KeyLeft, ebiten.KeyA},
		StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftLeft},
	},
	solver.ActionMoveRight: {
		Keys:                   []ebiten.Key{ebiten.KeyRight, ebiten.KeyD},
		StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftRight},
	},
	solver.ActionJump: {
		Keys: []ebiten.Key{ebiten.KeyX, ebiten.KeyW, ebiten.KeySpace},
		// A / Cross button
		StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightBottom},
	},
	solver.ActionPickup: {
		Keys: []ebiten.Key{ebiten.KeyZ, ebiten.KeyE},
		// X / Square button
		StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightLeft},
	},
}

// inputPoller turns raw device state into solver input, deriving presses
// from the previous frame.
type inputPoller struct {
	current    [solver.ActionCount]bool
	previous   [solver.ActionCount]bool
	gamepadIDs []ebiten.GamepadID
}

func (p *inputPoller) Poll() solver.Input {
	p.previous = p.current
	p.current = [solver.ActionCount]bool{}
	p.gamepadIDs = ebiten.AppendGamepadIDs(p.gamepadIDs[:0])

	for action, binding := range bindings {
		for _, key := range binding.Keys {
			if ebiten.IsKeyPressed(key) {
				p.current[action] = true
			}
		}
		for _, gpID := range p.gamepadIDs {
			if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
				continue
			}
			for _, btn := range binding.StandardGamepadButtons {
				if ebiten.IsStandardGamepadButtonPressed(gpID, btn) {
					p.current[action] = true
				}
			}
		}
	}

	for _, gpID := range p.gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
			continue
		}
		horizontal := ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if horizontal < -analogDeadzone {
			p.current[solver.ActionMoveLeft] = true
		}
		if horizontal > analogDeadzone {
			p.current[solver.ActionMoveRight] = true
		}
	}

	var in solver.Input
	for a := solver.Action(0); a < solver.ActionCount; a++ {
		switch {
		case p.current[a] && !p.previous[a]:
			in.Press(a)
		case p.current[a]:
			in.Hold(a)
		}
	}
	return in
}
