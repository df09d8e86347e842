// Package gamemath holds small scalar helpers shared by the movement code.
package gamemath

// Approach moves current toward target by at most maxDelta without overshooting.
func Approach(current, target, maxDelta float64) float64 {
	if current < target {
		current += maxDelta
		if current > target {
			return target
		}
		return current
	}
	current -= maxDelta
	if current < target {
		return target
	}
	return current
}

// ClampSpeed clamps a value to [-max, max].
func ClampSpeed(speed, max float64) float64 {
	if speed > max {
		return max
	}
	if speed < -max {
		return -max
	}
	return speed
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// Speeding reports whether moving from current toward target increases speed
// in the same direction, as opposed to braking or reversing.
func Speeding(current, target float64) bool {
	if target == 0 {
		return false
	}
	if current == 0 {
		return true
	}
	return Sign(current) == Sign(target) && abs(target) > abs(current)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
