package game

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const fadeDuration = 0.4

// Fade is the level-transition overlay: it jumps to opaque when a new level
// is entered and eases back to clear.
type Fade struct {
	tween *gween.Tween
	alpha float32
}

func (f *Fade) Start() {
	f.tween = gween.New(1, 0, fadeDuration, ease.OutQuad)
	f.alpha = 1
}

func (f *Fade) Update(dt float64) {
	if f.tween == nil {
		return
	}
	alpha, done := f.tween.Update(float32(dt))
	f.alpha = alpha
	if done {
		f.tween = nil
		f.alpha = 0
	}
}

// Alpha is the overlay opacity in [0, 1].
func (f *Fade) Alpha() float64 { return float64(f.alpha) }

func (f *Fade) Active() bool { return f.tween != nil }
