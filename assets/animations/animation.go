package animations

// Animation maps a clock in seconds to a frame index. It holds no mutable
// state, so both peers derive the same frame from a replicated clock.
type Animation struct {
	First            int
	Last             int
	Step             int     // how many indices we move per frame
	FrameTime        float64 // seconds each frame stays on screen
	FreezeOnComplete bool    // If true, stay on last frame instead of looping
}

func NewAnimation(first, last, step int, frameTime float64) Animation {
	return Animation{
		First:     first,
		Last:      last,
		Step:      step,
		FrameTime: frameTime,
	}
}

// Freeze returns a copy that holds its last frame once played through.
func (a Animation) Freeze() Animation {
	a.FreezeOnComplete = true
	return a
}

func (a Animation) frames() int {
	if a.Step <= 0 || a.Last < a.First {
		return 1
	}
	return (a.Last-a.First)/a.Step + 1
}

// FrameAt returns the frame shown t seconds after the animation started.
func (a Animation) FrameAt(t float64) int {
	if a.FrameTime <= 0 || t < 0 {
		return a.First
	}
	n := int(t / a.FrameTime)
	count := a.frames()
	if n >= count {
		if a.FreezeOnComplete {
			n = count - 1
		} else {
			n %= count
		}
	}
	return a.First + n*a.Step
}
