package solver

import (
	"math"

	"github.com/automoto/friendlyjam/shared/collision"
	"github.com/automoto/friendlyjam/shared/leveldata"
)

// Item is a live level object spawned from leveldata.
type Item struct {
	leveldata.Item
	Collider collision.Collider
	Velocity collision.Vec2
}

func newItem(def leveldata.Item) *Item {
	b := def.Bounds
	c := collision.NewRect(b.X, b.Y, b.W, b.H)
	if def.Circle {
		c = collision.NewCircle(collision.V(b.X+b.W/2, b.Y+b.H/2), math.Min(b.W, b.H)/2)
	}
	return &Item{Item: def, Collider: c}
}

// Solid reports whether the player collides with the item. Collectibles
// are walked through.
func (it *Item) Solid() bool {
	return it.Pushable || !it.CanPickup
}

// fall applies gravity and settles the item on walls and platforms.
func (it *Item) fall(g *Geometry, gravity, dt float64, exitOpen bool) {
	if !it.HasGravity {
		return
	}
	prevBottom := it.Collider.Bottom()
	it.Velocity.Y += gravity * dt
	it.Collider = it.Collider.Translate(collision.V(0, it.Velocity.Y*dt))

	resolveSolids(&it.Collider, &it.Velocity, g.Blockers(it.Collider.AABB(), exitOpen))
	landOnPlatform(&it.Collider, &it.Velocity, prevBottom, g.NearbyPlatforms(it.Collider.AABB()))
}

// maxResolvePasses bounds how many separate contacts are resolved per tick.
const maxResolvePasses = 4

// resolveSolids pushes c out of the deepest overlapping candidate, one
// contact per pass, and removes the velocity component driving into it.
// It reports the normals it resolved against.
func resolveSolids(c *collision.Collider, v *collision.Vec2, candidates []collision.Collider) []collision.Vec2 {
	var normals []collision.Vec2
	for pass := 0; pass < maxResolvePasses; pass++ {
		col, _, ok := collision.Deepest(*c, candidates)
		if !ok {
			break
		}
		*c = c.Translate(col.Resolve())
		if into := v.Dot(col.Normal); into > 0 {
			*v = v.Sub(col.Normal.Scale(into))
		}
		normals = append(normals, col.Normal)
	}
	return normals
}

// platformTolerance is how far below a platform top a body may already be
// and still count as landing on it.
const platformTolerance = 0.01

// landOnPlatform snaps c onto the highest one-way platform it fell onto.
// Bodies moving up, or that were already below the platform top before
// this tick's move, pass through.
func landOnPlatform(c *collision.Collider, v *collision.Vec2, prevBottom float64, platforms []collision.Collider) bool {
	if v.Y > 0 {
		return false
	}
	best, found := 0.0, false
	for _, plat := range platforms {
		top := plat.Top()
		if prevBottom < top-platformTolerance || !collision.Check(*c, plat) {
			continue
		}
		if !found || top > best {
			best, found = top, true
		}
	}
	if !found {
		return false
	}
	*c = c.Translate(collision.V(0, best-c.Bottom()))
	v.Y = 0
	return true
}
