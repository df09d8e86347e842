package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultSolverRulesValid(t *testing.T) {
	rules := DefaultSolverRules()
	if err := rules.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rules.CoyoteTime != 0.1 {
		t.Errorf("CoyoteTime = %v, expected 0.1", rules.CoyoteTime)
	}
	if rules.Gravity.Y >= 0 {
		t.Errorf("Gravity.Y = %v, expected downward gravity", rules.Gravity.Y)
	}
}

func TestLoadRulesCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("jump_strength: 500\nmove_speed: 90\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	if rules.JumpStrength != 500 || rules.MoveSpeed != 90 {
		t.Errorf("LoadRules() = jump %v move %v, expected 500 and 90", rules.JumpStrength, rules.MoveSpeed)
	}
	if rules.CoyoteTime != DefaultSolverRules().CoyoteTime {
		t.Error("fields missing from the file should keep their defaults")
	}
}

func TestLoadRulesRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative speed", "move_speed: -1\n"},
		{"low multiplier", "low_multiplier: 0.5\n"},
		{"broken yaml", "move_speed: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rules.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadRules(path); err == nil {
				t.Error("LoadRules() expected error")
			}
		})
	}
}

func TestLoadRulesMissingCustomPath(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadRules() expected error for a missing file")
	}
}

func TestLoadServerConfig(t *testing.T) {
	cfg, err := LoadServerConfig("")
	if err != nil {
		t.Fatalf("LoadServerConfig(\"\") error = %v", err)
	}
	if cfg.TickRate != 2 || cfg.IdleTimeout != 30*time.Second {
		t.Errorf("defaults = %+v", cfg)
	}

	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9999\"\ntest_mode: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig() error = %v", err)
	}
	if cfg.Addr != ":9999" || !cfg.TestMode || cfg.TickRate != 2 {
		t.Errorf("LoadServerConfig() = %+v", cfg)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "test")
	logger.Info("hidden")
	logger.Warn("shown", "room", "ABCD")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "ABCD") {
		t.Errorf("log output = %q", out)
	}
}
