package assets

import "testing"

func TestEmbeddedLevels(t *testing.T) {
	levels, err := Levels()
	if err != nil {
		t.Fatalf("Levels() error = %v", err)
	}
	if levels.Count() < 3 {
		t.Fatalf("Count() = %d, expected at least 3", levels.Count())
	}

	for i := 0; i < levels.Count(); i++ {
		level, _ := levels.Level(i)
		if !level.DoorExit {
			t.Errorf("level %s has no exit door", level.Name)
		}
		if level.Transition.W <= 0 {
			t.Errorf("level %s has no transition region", level.Name)
		}
		unlocks := 0
		for _, item := range level.Items {
			if item.Unlocks {
				unlocks++
			}
		}
		if unlocks == 0 {
			t.Errorf("level %s cannot be completed", level.Name)
		}
	}
}

func TestPlayerSprite(t *testing.T) {
	tests := []struct {
		name             string
		grounded, moving bool
		clock            float64
		want             Sprite
	}{
		{"idle", true, false, 0.6, Sprite{ID: SpritePlayerIdle, Frame: 1}},
		{"running", true, true, 0.25, Sprite{ID: SpritePlayerRunning, Frame: 2}},
		{"airborne", false, true, 2, Sprite{ID: SpritePlayerJump, Frame: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlayerSprite(tt.grounded, tt.moving, tt.clock); got != tt.want {
				t.Errorf("PlayerSprite() = %+v, expected %+v", got, tt.want)
			}
		})
	}
}
