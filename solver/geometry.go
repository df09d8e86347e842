package solver

import (
	"math"

	"github.com/automoto/friendlyjam/shared/collision"
	"github.com/automoto/friendlyjam/shared/leveldata"
	"github.com/solarlune/resolv"
)

const (
	tagSolid        = "solid"
	tagDoorEntrance = "door_entrance"
	tagDoorExit     = "door_exit"
	tagPlatform     = "platform"

	wallThickness     = 32.0
	platformThickness = 4.0
	spaceMargin       = 64.0
	cellSize          = 16
	queryPadding      = 1.0 // so touching neighbours share a cell
)

// Geometry is the static collision layout of one level. Exact tests use the
// collision package; a resolv space narrows the candidates first.
type Geometry struct {
	Bounds     collision.AABB
	Spawn      collision.Vec2
	Transition collision.AABB

	Walls     []collision.Collider // floor, ceiling, side walls and level solids
	Platforms []collision.Collider
	Entrance  *collision.Collider
	Exit      *collision.Collider

	space *resolv.Space
	probe *resolv.Object
}

func rectCollider(r leveldata.Rect) collision.Collider {
	return collision.NewRect(r.X, r.Y, r.W, r.H)
}

// BuildGeometry builds walls, floor, ceiling, doors and platforms for a level.
func BuildGeometry(level leveldata.Level) *Geometry {
	w, h := level.Width, level.Height
	g := &Geometry{
		Bounds:     collision.BoxAt(0, 0, w, h),
		Spawn:      collision.V(level.Spawn.X, level.Spawn.Y),
		Transition: collision.BoxAt(level.Transition.X, level.Transition.Y, level.Transition.W, level.Transition.H),
		space: resolv.NewSpace(
			int(math.Ceil(w+2*spaceMargin)), int(math.Ceil(h+2*spaceMargin)), cellSize, cellSize),
	}

	t := wallThickness
	g.Walls = []collision.Collider{
		collision.NewRect(-t, -t, w+2*t, t), // floor
		collision.NewRect(-t, h, w+2*t, t),  // ceiling
		collision.NewRect(-t, 0, t, h),      // left
		collision.NewRect(w, 0, t, h),       // right
	}
	for _, s := range level.Solids {
		g.Walls = append(g.Walls, rectCollider(s))
	}
	for _, c := range g.Walls {
		g.add(c, tagSolid)
	}

	if level.DoorEntrance {
		c := rectCollider(level.Entrance)
		g.Entrance = &c
		g.add(c, tagDoorEntrance)
	}
	if level.DoorExit {
		c := rectCollider(level.Exit)
		g.Exit = &c
		g.add(c, tagDoorExit)
	}

	for _, p := range level.Platforms {
		c := collision.NewRect(p.Pos.X, p.Pos.Y-platformThickness, p.Width, platformThickness)
		g.Platforms = append(g.Platforms, c)
		g.add(c, tagPlatform)
	}

	g.probe = resolv.NewObject(0, 0, 1, 1)
	g.space.Add(g.probe)
	return g
}

func (g *Geometry) add(c collision.Collider, tag string) {
	box := c.AABB()
	obj := resolv.NewObject(box.Min.X+spaceMargin, box.Min.Y+spaceMargin, box.Width(), box.Height(), tag)
	obj.Data = c
	g.space.Add(obj)
}

// nearby returns the colliders with any of tags whose broad-phase cells touch box.
func (g *Geometry) nearby(box collision.AABB, tags ...string) []collision.Collider {
	g.probe.X = box.Min.X + spaceMargin - queryPadding
	g.probe.Y = box.Min.Y + spaceMargin - queryPadding
	g.probe.W = math.Max(box.Width(), 1) + 2*queryPadding
	g.probe.H = math.Max(box.Height(), 1) + 2*queryPadding
	g.probe.Update()

	check := g.probe.Check(0, 0, tags...)
	if check == nil {
		return nil
	}
	out := make([]collision.Collider, 0, len(check.Objects))
	for _, obj := range check.Objects {
		if c, ok := obj.Data.(collision.Collider); ok {
			out = append(out, c)
		}
	}
	return out
}

// Blockers returns the solid colliders near box. The exit door only blocks
// while it is closed; the entrance door always blocks.
func (g *Geometry) Blockers(box collision.AABB, exitOpen bool) []collision.Collider {
	if exitOpen {
		return g.nearby(box, tagSolid, tagDoorEntrance)
	}
	return g.nearby(box, tagSolid, tagDoorEntrance, tagDoorExit)
}

// NearbyPlatforms returns the one-way platforms near box.
func (g *Geometry) NearbyPlatforms(box collision.AABB) []collision.Collider {
	return g.nearby(box, tagPlatform)
}

// OutOfBounds reports whether box has left the level far enough that the
// player can no longer get back.
func (g *Geometry) OutOfBounds(box collision.AABB) bool {
	t := wallThickness
	return box.Max.Y < g.Bounds.Min.Y-t || box.Min.Y > g.Bounds.Max.Y+t ||
		box.Max.X < g.Bounds.Min.X-t || box.Min.X > g.Bounds.Max.X+t
}
