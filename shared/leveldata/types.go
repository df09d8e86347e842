// Package leveldata parses solver levels from TMX files. Coordinates are
// converted to world space with Y growing upward from the bottom of the map.
// It has no dependencies on ebitengine or resolv, pure data only.
package leveldata

// Rect is an axis-aligned rectangle given by its bottom-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Point is a world-space position.
type Point struct {
	X, Y float64
}

// Platform is a one-way ledge: its top edge starts at Pos and spans Width.
type Platform struct {
	Pos   Point
	Width float64
}

// ItemKind selects an item's sprite and behaviour.
type ItemKind int

const (
	ItemFish ItemKind = iota
	ItemCinderBlock
)

func (k ItemKind) String() string {
	switch k {
	case ItemFish:
		return "fish"
	case ItemCinderBlock:
		return "cinder_block"
	default:
		return "unknown"
	}
}

// Item is a level object the player can push or collect.
type Item struct {
	Kind       ItemKind
	Bounds     Rect
	Circle     bool // collide as a circle inscribed in Bounds
	Pushable   bool
	CanPickup  bool
	HasGravity bool
	Unlocks    bool // collecting it completes the level
	Trap       bool // collecting it while the trashcan is evil ends the session
}

// Level is one solver room.
type Level struct {
	Name          string
	Width, Height float64
	Spawn         Point
	Transition    Rect
	DoorEntrance  bool
	DoorExit      bool
	Entrance      Rect
	Exit          Rect
	Solids        []Rect
	Platforms     []Platform
	Items         []Item
}
