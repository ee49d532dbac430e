package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConfig_Defaults(t *testing.T) {
	cfgFile = ""
	defer func() { cfgFile = "" }()

	cfg, err := resolveConfig(runOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Simulation.FrameRate != 60 {
		t.Errorf("expected default frame rate 60, got %d", cfg.Simulation.FrameRate)
	}
	if cfg.Simulation.TimeScale != 1.0 {
		t.Errorf("expected default time scale 1.0, got %f", cfg.Simulation.TimeScale)
	}
}

func TestResolveConfig_FlagOverrides(t *testing.T) {
	cfgFile = ""
	defer func() { cfgFile = "" }()

	cfg, err := resolveConfig(runOptions{
		frameRate:   120,
		timeScale:   0.5,
		durationMs:  250,
		drainBudget: 16,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Simulation.FrameRate != 120 {
		t.Errorf("expected frame rate 120, got %d", cfg.Simulation.FrameRate)
	}
	if cfg.Simulation.TimeScale != 0.5 {
		t.Errorf("expected time scale 0.5, got %f", cfg.Simulation.TimeScale)
	}
	if cfg.Simulation.DurationMillis != 250 {
		t.Errorf("expected duration 250ms, got %d", cfg.Simulation.DurationMillis)
	}
	if cfg.Dispatcher.DrainBudget != 16 {
		t.Errorf("expected drain budget 16, got %d", cfg.Dispatcher.DrainBudget)
	}
}

func TestResolveConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tickbridge.config.json")
	content := `{
		"version": "1.0",
		"simulation": {"frameRate": 30, "timeScale": 2.0}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfgFile = path
	defer func() { cfgFile = "" }()

	cfg, err := resolveConfig(runOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Simulation.FrameRate != 30 {
		t.Errorf("expected frame rate 30 from file, got %d", cfg.Simulation.FrameRate)
	}
	if cfg.Simulation.TimeScale != 2.0 {
		t.Errorf("expected time scale 2.0 from file, got %f", cfg.Simulation.TimeScale)
	}

	// Flags still win over the file
	cfg, err = resolveConfig(runOptions{frameRate: 144})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Simulation.FrameRate != 144 {
		t.Errorf("expected flag override 144, got %d", cfg.Simulation.FrameRate)
	}
}

func TestResolveConfig_BadFile(t *testing.T) {
	cfgFile = filepath.Join(t.TempDir(), "missing.json")
	defer func() { cfgFile = "" }()

	if _, err := resolveConfig(runOptions{}); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestNewRunCmd_Flags(t *testing.T) {
	cmd := newRunCmd()

	for _, name := range []string{"frame-rate", "time-scale", "duration", "producers", "drain-budget", "notify"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("run command is missing flag %q", name)
		}
	}
}

func TestNewVersionCmd(t *testing.T) {
	version = "1.2.3"
	cmd := newVersionCmd()
	if cmd.Use != "version" {
		t.Errorf("unexpected use string: %q", cmd.Use)
	}
}
