package main

import (
	"image/color"

	"github.com/automoto/friendlyjam/assets"
	"github.com/automoto/friendlyjam/shared/collision"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// screenSurface draws world boxes as filled rectangles, flipping the
// y-up world onto the y-down screen.
type screenSurface struct {
	screen *ebiten.Image
	height float64
}

func (s screenSurface) Draw(box collision.AABB, sprite assets.Sprite) {
	c := sprite.Color()
	if sprite.Frame%2 == 1 {
		c = dim(c)
	}
	vector.FillRect(s.screen,
		float32(box.Min.X), float32(s.height-box.Max.Y),
		float32(box.Width()), float32(box.Height()),
		c, false)
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R - c.R/8, G: c.G - c.G/8, B: c.B - c.B/8, A: c.A}
}

func drawFade(screen *ebiten.Image, alpha float64) {
	if alpha <= 0 {
		return
	}
	b := screen.Bounds()
	vector.FillRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()),
		color.RGBA{A: uint8(alpha * 255)}, false)
}
