package assets

import (
	"embed"
	"fmt"
	"image/color"

	"github.com/automoto/friendlyjam/assets/animations"
	"github.com/automoto/friendlyjam/shared/leveldata"
)

//go:embed all:levels
var levelFS embed.FS

// Levels loads the embedded solver levels in play order.
func Levels() (leveldata.Levels, error) {
	levels, err := leveldata.LoadAllLevels(levelFS, "levels")
	if err != nil {
		return nil, fmt.Errorf("embedded levels: %w", err)
	}
	return levels, nil
}

// SpriteID names a drawable. Renderers without textures fall back to Color.
type SpriteID int

const (
	SpriteLevelBounds SpriteID = iota
	SpriteWall
	SpriteDoorOpen
	SpriteDoorClosed
	SpritePlatform
	SpritePlayerIdle
	SpritePlayerRunning
	SpritePlayerJump
	SpriteFish
	SpriteCinderBlock
	SpriteTransition
)

// Sprite is a draw handle: which sprite and which of its frames.
type Sprite struct {
	ID    SpriteID
	Frame int
}

var palette = map[SpriteID]color.RGBA{
	SpriteLevelBounds:   {0x1d, 0x1f, 0x2b, 0xff},
	SpriteWall:          {0x4a, 0x4e, 0x69, 0xff},
	SpriteDoorOpen:      {0x3c, 0xb3, 0x71, 0xff},
	SpriteDoorClosed:    {0xb3, 0x3c, 0x3c, 0xff},
	SpritePlatform:      {0xc8, 0xa0, 0x64, 0xff},
	SpritePlayerIdle:    {0xf2, 0xe9, 0xe4, 0xff},
	SpritePlayerRunning: {0xf2, 0xe9, 0xe4, 0xff},
	SpritePlayerJump:    {0xff, 0xf5, 0xc0, 0xff},
	SpriteFish:          {0x5d, 0xa9, 0xe9, 0xff},
	SpriteCinderBlock:   {0x8a, 0x8a, 0x8a, 0xff},
	SpriteTransition:    {0x3c, 0xb3, 0x71, 0x40},
}

// Color returns the flat placeholder colour of a sprite. Odd animation
// frames are drawn slightly darker so movement stays visible.
func (s Sprite) Color() color.RGBA {
	c, ok := palette[s.ID]
	if !ok {
		return color.RGBA{0xff, 0x00, 0xff, 0xff}
	}
	if s.Frame%2 == 1 {
		c.R = c.R / 8 * 7
		c.G = c.G / 8 * 7
		c.B = c.B / 8 * 7
	}
	return c
}

// Player animations keyed by sprite. Frame counts match the solver sheets.
var playerAnimations = map[SpriteID]animations.Animation{
	SpritePlayerIdle:    animations.NewAnimation(0, 1, 1, 0.5),
	SpritePlayerRunning: animations.NewAnimation(0, 3, 1, 0.1),
	SpritePlayerJump:    animations.NewAnimation(0, 1, 1, 0.15).Freeze(),
}

// PlayerSprite picks the player's sprite from its movement and animation clock.
func PlayerSprite(grounded, moving bool, animationTime float64) Sprite {
	id := SpritePlayerJump
	switch {
	case grounded && moving:
		id = SpritePlayerRunning
	case grounded:
		id = SpritePlayerIdle
	}
	anim := playerAnimations[id]
	return Sprite{ID: id, Frame: anim.FrameAt(animationTime)}
}
