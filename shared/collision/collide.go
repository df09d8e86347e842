// Package collision implements exact narrow-phase tests between rectangles,
// rotated rectangles and circles using the separating axis theorem.
package collision

import "math"

// Epsilon is the overlap below which two shapes count as merely touching.
const Epsilon = 1e-9

// Collision describes how far A penetrates B. Normal is a unit vector
// pointing from A toward B; moving A by -Normal*Penetration separates them.
type Collision struct {
	Normal      Vec2
	Penetration float64
}

// Resolve returns the translation that separates A from B.
func (c Collision) Resolve() Vec2 {
	return c.Normal.Scale(-c.Penetration)
}

type collideFunc func(a, b Collider) (Collision, bool)

// dispatch is indexed by [a.Kind][b.Kind] and covers every shape pair.
var dispatch = [kindCount][kindCount]collideFunc{
	KindRect: {
		KindRect:   collideRectRect,
		KindCircle: collideRectCircle,
	},
	KindCircle: {
		KindRect:   flip(collideRectCircle),
		KindCircle: collideCircleCircle,
	},
}

// Collide reports whether a and b overlap and, if so, the penetration of a into b.
func Collide(a, b Collider) (Collision, bool) {
	return dispatch[a.Shape.Kind][b.Shape.Kind](a, b)
}

// Check reports whether a and b overlap.
func Check(a, b Collider) bool {
	_, ok := Collide(a, b)
	return ok
}

// Deepest returns the candidate a penetrates the most together with its index.
// Ties keep the earliest candidate.
func Deepest(a Collider, candidates []Collider) (Collision, int, bool) {
	best, idx := Collision{}, -1
	for i, b := range candidates {
		col, ok := Collide(a, b)
		if !ok {
			continue
		}
		if idx < 0 || col.Penetration > best.Penetration {
			best, idx = col, i
		}
	}
	return best, idx, idx >= 0
}

func flip(f collideFunc) collideFunc {
	return func(a, b Collider) (Collision, bool) {
		col, ok := f(b, a)
		col.Normal = col.Normal.Neg()
		return col, ok
	}
}

func project(points []Vec2, axis Vec2) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		d := p.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

func collideRectRect(a, b Collider) (Collision, bool) {
	ca, cb := a.corners(), b.corners()
	aa, ba := a.axes(), b.axes()
	axes := [4]Vec2{aa[0], aa[1], ba[0], ba[1]}

	best := Collision{Penetration: math.Inf(1)}
	d := b.Pos.Sub(a.Pos)
	for _, axis := range axes {
		alo, ahi := project(ca[:], axis)
		blo, bhi := project(cb[:], axis)
		overlap := math.Min(ahi, bhi) - math.Max(alo, blo)
		if overlap <= Epsilon {
			return Collision{}, false
		}
		if overlap < best.Penetration {
			n := axis
			if d.Dot(axis) < 0 {
				n = axis.Neg()
			}
			best = Collision{Normal: n, Penetration: overlap}
		}
	}
	return best, true
}

func collideCircleCircle(a, b Collider) (Collision, bool) {
	d := b.Pos.Sub(a.Pos)
	dist := d.Len()
	pen := a.Shape.Radius + b.Shape.Radius - dist
	if pen <= Epsilon {
		return Collision{}, false
	}
	n := V(0, 1)
	if dist > 0 {
		n = d.Scale(1 / dist)
	}
	return Collision{Normal: n, Penetration: pen}, true
}

func collideRectCircle(r, c Collider) (Collision, bool) {
	hw, hh := r.Shape.Width/2, r.Shape.Height/2
	local := c.Pos.Sub(r.Pos).Rotate(-r.Rotation)
	radius := c.Shape.Radius

	closest := Vec2{clamp(local.X, -hw, hw), clamp(local.Y, -hh, hh)}
	if closest != local {
		diff := local.Sub(closest)
		dist := diff.Len()
		pen := radius - dist
		if pen <= Epsilon {
			return Collision{}, false
		}
		return Collision{Normal: diff.Scale(1 / dist).Rotate(r.Rotation), Penetration: pen}, true
	}

	// Center inside the rectangle: push out through the nearest face.
	dx, dy := hw-math.Abs(local.X), hh-math.Abs(local.Y)
	var n Vec2
	var pen float64
	if dx < dy {
		n, pen = V(sign(local.X), 0), dx+radius
	} else {
		n, pen = V(0, sign(local.Y)), dy+radius
	}
	return Collision{Normal: n.Rotate(r.Rotation), Penetration: pen}, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
