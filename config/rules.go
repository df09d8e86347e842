package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/rules.yaml
var defaultRulesYAML []byte

// Vec is a two-component YAML vector.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PlayerRules sizes the solver avatar.
type PlayerRules struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	FeetProbe float64 `yaml:"feet_probe"` // how far the ground probe reaches below the feet

	SpawnControlTimeout float64 `yaml:"spawn_control_timeout"`
}

// SolverRules tunes the platformer controller.
type SolverRules struct {
	BufferTime         float64 `yaml:"buffer_time"`
	CoyoteTime         float64 `yaml:"coyote_time"`
	Gravity            Vec     `yaml:"gravity"`
	FallMultiplier     float64 `yaml:"fall_multiplier"`
	FreeFallSpeed      float64 `yaml:"free_fall_speed"`
	LowMultiplier      float64 `yaml:"low_multiplier"`
	MoveSpeed          float64 `yaml:"move_speed"`
	AccelerationGround float64 `yaml:"acceleration_ground"`
	AccelerationAir    float64 `yaml:"acceleration_air"`
	DecelerationGround float64 `yaml:"deceleration_ground"`
	DecelerationAir    float64 `yaml:"deceleration_air"`
	JumpPush           float64 `yaml:"jump_push"`
	JumpStrength       float64 `yaml:"jump_strength"`

	Player      PlayerRules `yaml:"player"`
	ItemGravity float64     `yaml:"item_gravity"`
}

// DefaultSolverRules returns the rules shipped with the game.
func DefaultSolverRules() SolverRules {
	var rules SolverRules
	if err := yaml.Unmarshal(defaultRulesYAML, &rules); err != nil {
		panic(fmt.Sprintf("embedded rules.yaml is invalid: %v", err))
	}
	return rules
}

// Validate rejects rules the controller cannot run with.
func (r SolverRules) Validate() error {
	var errs []error
	positive := map[string]float64{
		"buffer_time":         r.BufferTime,
		"coyote_time":         r.CoyoteTime,
		"free_fall_speed":     r.FreeFallSpeed,
		"move_speed":          r.MoveSpeed,
		"acceleration_ground": r.AccelerationGround,
		"acceleration_air":    r.AccelerationAir,
		"deceleration_ground": r.DecelerationGround,
		"deceleration_air":    r.DecelerationAir,
		"jump_strength":       r.JumpStrength,
		"player.width":        r.Player.Width,
		"player.height":       r.Player.Height,
		"player.feet_probe":   r.Player.FeetProbe,
	}
	for name, v := range positive {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	if r.FallMultiplier < 1 || r.LowMultiplier < 1 {
		errs = append(errs, errors.New("fall_multiplier and low_multiplier must be at least 1"))
	}
	return errors.Join(errs...)
}

// LoadRules loads solver rules.
// Search order: customPath -> ~/.friendlyjam/rules.yaml -> ./configs/rules.yaml -> embedded default
func LoadRules(customPath string) (SolverRules, error) {
	rules := DefaultSolverRules()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return rules, fmt.Errorf("failed to read rules %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &rules); err != nil {
			return rules, fmt.Errorf("failed to parse rules %s: %w", customPath, err)
		}
		return rules, rules.Validate()
	}

	for _, path := range []string{userConfigPath("rules.yaml"), filepath.Join("configs", "rules.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := DefaultSolverRules()
		if err := yaml.Unmarshal(data, &candidate); err == nil && candidate.Validate() == nil {
			return candidate, nil
		}
	}

	return rules, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".friendlyjam", filename)
}
