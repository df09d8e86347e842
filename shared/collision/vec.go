package collision

import "math"

// Vec2 is a point or direction in world space. Y grows upward.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Neg() Vec2            { return Vec2{-v.X, -v.Y} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }

// Rotate returns v rotated counter-clockwise by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	if angle == 0 {
		return v
	}
	s, c := math.Sincos(angle)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// AABB is an axis-aligned box given by its minimum and maximum corners.
type AABB struct {
	Min, Max Vec2
}

// BoxAt builds an AABB from a bottom-left corner and a size.
func BoxAt(x, y, w, h float64) AABB {
	return AABB{Min: Vec2{x, y}, Max: Vec2{x + w, y + h}}
}

func (b AABB) Width() float64  { return b.Max.X - b.Min.X }
func (b AABB) Height() float64 { return b.Max.Y - b.Min.Y }
func (b AABB) Center() Vec2    { return Vec2{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2} }

// Overlaps reports whether the interiors of b and o intersect.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X < o.Max.X && o.Min.X < b.Max.X && b.Min.Y < o.Max.Y && o.Min.Y < b.Max.Y
}
