package leveldata

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

var ErrNoSpawn = errors.New("level has no spawn point")

// Object group and object names recognised in level files.
const (
	groupMarkers   = "Markers"
	groupDoors     = "Doors"
	groupSolids    = "Solids"
	groupPlatforms = "Platforms"
	groupItems     = "Items"

	markerSpawn      = "spawn"
	markerTransition = "transition"
	doorEntrance     = "entrance"
	doorExit         = "exit"
)

// LoadLevel parses a TMX file. It takes an fs.FS so callers can pass
// embed.FS (client) or os.DirFS (tools and tests).
func LoadLevel(fsys fs.FS, tmxPath string) (*Level, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	level := &Level{
		Name:   strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		Width:  float64(levelMap.Width * levelMap.TileWidth),
		Height: float64(levelMap.Height * levelMap.TileHeight),
	}

	// TMX is y-down with object origins at the top-left corner.
	toWorld := func(o *tiled.Object) Rect {
		return Rect{X: o.X, Y: level.Height - o.Y - o.Height, W: o.Width, H: o.Height}
	}

	hasSpawn := false
	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case groupMarkers:
			for _, o := range og.Objects {
				switch o.Name {
				case markerSpawn:
					level.Spawn = Point{X: o.X, Y: level.Height - o.Y}
					hasSpawn = true
				case markerTransition:
					level.Transition = toWorld(o)
				}
			}
		case groupDoors:
			for _, o := range og.Objects {
				switch o.Name {
				case doorEntrance:
					level.DoorEntrance = true
					level.Entrance = toWorld(o)
				case doorExit:
					level.DoorExit = true
					level.Exit = toWorld(o)
				}
			}
		case groupSolids:
			for _, o := range og.Objects {
				level.Solids = append(level.Solids, toWorld(o))
			}
		case groupPlatforms:
			for _, o := range og.Objects {
				r := toWorld(o)
				level.Platforms = append(level.Platforms, Platform{
					Pos:   Point{X: r.X, Y: r.Y + r.H},
					Width: r.W,
				})
			}
		case groupItems:
			for _, o := range og.Objects {
				item, err := parseItem(o, toWorld(o))
				if err != nil {
					return nil, fmt.Errorf("%s: %w", tmxPath, err)
				}
				level.Items = append(level.Items, item)
			}
		}
	}

	if !hasSpawn {
		return nil, fmt.Errorf("%s: %w", tmxPath, ErrNoSpawn)
	}

	// Platforms left-to-right for stable geometry order
	sort.SliceStable(level.Platforms, func(i, j int) bool {
		return level.Platforms[i].Pos.X < level.Platforms[j].Pos.X
	})

	return level, nil
}

func parseItem(o *tiled.Object, bounds Rect) (Item, error) {
	kindName := o.Properties.GetString("kind")
	if kindName == "" {
		kindName = o.Class
	}
	if kindName == "" {
		kindName = o.Type //nolint:staticcheck // TMX uses type= attribute
	}

	var kind ItemKind
	switch kindName {
	case "fish":
		kind = ItemFish
	case "cinder_block":
		kind = ItemCinderBlock
	default:
		return Item{}, fmt.Errorf("item %d: unknown kind %q", o.ID, kindName)
	}

	return Item{
		Kind:       kind,
		Bounds:     bounds,
		Circle:     o.Properties.GetString("shape") == "circle",
		Pushable:   o.Properties.GetBool("pushable"),
		CanPickup:  o.Properties.GetBool("can_pickup"),
		HasGravity: o.Properties.GetBool("has_gravity"),
		Unlocks:    o.Properties.GetBool("unlocks"),
		Trap:       o.Properties.GetBool("trap"),
	}, nil
}

// LoadAllLevels discovers all .tmx files in levelsDir within fsys and returns
// them ordered by file name.
func LoadAllLevels(fsys fs.FS, levelsDir string) (Levels, error) {
	pattern := levelsDir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no .tmx files found in %s", levelsDir)
	}

	sort.Strings(matches)
	levels := make(Levels, 0, len(matches))
	for _, path := range matches {
		level, err := LoadLevel(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		levels = append(levels, *level)
	}
	return levels, nil
}

// Repository hands out levels by index.
type Repository interface {
	Level(index int) (Level, bool)
	Count() int
}

// Levels is an in-memory Repository.
type Levels []Level

func (l Levels) Level(index int) (Level, bool) {
	if index < 0 || index >= len(l) {
		return Level{}, false
	}
	return l[index], true
}

func (l Levels) Count() int { return len(l) }
