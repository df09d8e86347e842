package leveldata

import (
	"errors"
	"os"
	"testing"
)

func TestLoadLevel(t *testing.T) {
	level, err := LoadLevel(os.DirFS("testdata"), "levels/00_room.tmx")
	if err != nil {
		t.Fatalf("LoadLevel() error = %v", err)
	}

	if level.Name != "00_room" {
		t.Errorf("Name = %q, expected 00_room", level.Name)
	}
	if level.Width != 320 || level.Height != 160 {
		t.Errorf("size = %vx%v, expected 320x160", level.Width, level.Height)
	}
	if level.Spawn != (Point{X: 32, Y: 0}) {
		t.Errorf("Spawn = %+v, expected {32 0}", level.Spawn)
	}
	if level.Transition != (Rect{X: 314, Y: 0, W: 6, H: 48}) {
		t.Errorf("Transition = %+v", level.Transition)
	}
	if !level.DoorEntrance || !level.DoorExit {
		t.Errorf("doors = %v/%v, expected both present", level.DoorEntrance, level.DoorExit)
	}
	if level.Exit != (Rect{X: 312, Y: 0, W: 8, H: 48}) {
		t.Errorf("Exit = %+v", level.Exit)
	}
	if len(level.Solids) != 1 || level.Solids[0] != (Rect{X: 280, Y: 0, W: 16, H: 16}) {
		t.Errorf("Solids = %+v", level.Solids)
	}
}

func TestLoadLevelPlatformsSortedLeftToRight(t *testing.T) {
	level, err := LoadLevel(os.DirFS("testdata"), "levels/00_room.tmx")
	if err != nil {
		t.Fatalf("LoadLevel() error = %v", err)
	}

	want := []Platform{
		{Pos: Point{X: 80, Y: 32}, Width: 48},
		{Pos: Point{X: 200, Y: 64}, Width: 64},
	}
	if len(level.Platforms) != len(want) {
		t.Fatalf("Platforms = %+v", level.Platforms)
	}
	for i := range want {
		if level.Platforms[i] != want[i] {
			t.Errorf("Platforms[%d] = %+v, expected %+v", i, level.Platforms[i], want[i])
		}
	}
}

func TestLoadLevelItems(t *testing.T) {
	level, err := LoadLevel(os.DirFS("testdata"), "levels/00_room.tmx")
	if err != nil {
		t.Fatalf("LoadLevel() error = %v", err)
	}
	if len(level.Items) != 2 {
		t.Fatalf("Items = %+v", level.Items)
	}

	key, crate := level.Items[0], level.Items[1]
	if key.Kind != ItemFish || !key.CanPickup || !key.Unlocks || !key.Circle || key.Pushable {
		t.Errorf("key = %+v", key)
	}
	if crate.Kind != ItemCinderBlock || !crate.Pushable || !crate.HasGravity || crate.CanPickup {
		t.Errorf("crate = %+v", crate)
	}
	if crate.Bounds != (Rect{X: 150, Y: 0, W: 16, H: 16}) {
		t.Errorf("crate.Bounds = %+v", crate.Bounds)
	}
}

func TestLoadLevelWithoutDoors(t *testing.T) {
	level, err := LoadLevel(os.DirFS("testdata"), "levels/01_bare.tmx")
	if err != nil {
		t.Fatalf("LoadLevel() error = %v", err)
	}
	if level.DoorEntrance || level.DoorExit {
		t.Error("bare level should have no doors")
	}
	if len(level.Platforms) != 0 || len(level.Items) != 0 {
		t.Errorf("bare level has content: %+v", level)
	}
}

func TestLoadLevelRequiresSpawn(t *testing.T) {
	_, err := LoadLevel(os.DirFS("testdata"), "broken/no_spawn.tmx")
	if !errors.Is(err, ErrNoSpawn) {
		t.Errorf("LoadLevel() error = %v, expected ErrNoSpawn", err)
	}
}

func TestLoadAllLevels(t *testing.T) {
	levels, err := LoadAllLevels(os.DirFS("testdata"), "levels")
	if err != nil {
		t.Fatalf("LoadAllLevels() error = %v", err)
	}
	if levels.Count() != 2 {
		t.Fatalf("Count() = %d, expected 2", levels.Count())
	}
	first, ok := levels.Level(0)
	if !ok || first.Name != "00_room" {
		t.Errorf("Level(0) = %q, %v", first.Name, ok)
	}
	if _, ok := levels.Level(2); ok {
		t.Error("Level(2) should be out of range")
	}

	if _, err := LoadAllLevels(os.DirFS("testdata"), "missing"); err == nil {
		t.Error("LoadAllLevels(missing) expected error")
	}
}
