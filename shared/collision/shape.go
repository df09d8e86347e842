package collision

import "math"

// Kind enumerates the closed set of supported shapes.
type Kind int

const (
	KindRect Kind = iota
	KindCircle
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Shape is a collider outline centered on the origin of its collider.
// Rect uses Width and Height; Circle uses Radius.
type Shape struct {
	Kind   Kind
	Width  float64
	Height float64
	Radius float64
}

func Rect(w, h float64) Shape     { return Shape{Kind: KindRect, Width: w, Height: h} }
func Circle(radius float64) Shape { return Shape{Kind: KindCircle, Radius: radius} }

// Collider places a Shape in the world. Pos is the shape's center and
// Rotation is counter-clockwise in radians (rectangles only).
type Collider struct {
	Pos      Vec2
	Rotation float64
	Shape    Shape
}

// NewRect builds an axis-aligned rectangle collider from its bottom-left corner.
func NewRect(x, y, w, h float64) Collider {
	return Collider{Pos: Vec2{x + w/2, y + h/2}, Shape: Rect(w, h)}
}

// NewCircle builds a circle collider around center.
func NewCircle(center Vec2, radius float64) Collider {
	return Collider{Pos: center, Shape: Circle(radius)}
}

// Translate returns c moved by d.
func (c Collider) Translate(d Vec2) Collider {
	c.Pos = c.Pos.Add(d)
	return c
}

// AABB returns the axis-aligned bounds of c.
func (c Collider) AABB() AABB {
	switch c.Shape.Kind {
	case KindCircle:
		r := Vec2{c.Shape.Radius, c.Shape.Radius}
		return AABB{Min: c.Pos.Sub(r), Max: c.Pos.Add(r)}
	default:
		hw, hh := c.Shape.Width/2, c.Shape.Height/2
		if c.Rotation != 0 {
			s, co := math.Sincos(c.Rotation)
			s, co = math.Abs(s), math.Abs(co)
			hw, hh = hw*co+hh*s, hw*s+hh*co
		}
		return AABB{Min: Vec2{c.Pos.X - hw, c.Pos.Y - hh}, Max: Vec2{c.Pos.X + hw, c.Pos.Y + hh}}
	}
}

func (c Collider) Bottom() float64 { return c.AABB().Min.Y }
func (c Collider) Top() float64    { return c.AABB().Max.Y }

// axes returns the unit face normals of a rectangle collider.
func (c Collider) axes() [2]Vec2 {
	return [2]Vec2{V(1, 0).Rotate(c.Rotation), V(0, 1).Rotate(c.Rotation)}
}

func (c Collider) corners() [4]Vec2 {
	hw, hh := c.Shape.Width/2, c.Shape.Height/2
	ax := c.axes()
	x, y := ax[0].Scale(hw), ax[1].Scale(hh)
	return [4]Vec2{
		c.Pos.Add(x).Add(y),
		c.Pos.Sub(x).Add(y),
		c.Pos.Sub(x).Sub(y),
		c.Pos.Add(x).Sub(y),
	}
}
