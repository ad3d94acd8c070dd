package config

import (
	"os"
	"testing"
)

func TestDefaultStage2Config_Valid(t *testing.T) {
	cfg := DefaultStage2Config()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got error: %v", err)
	}
	if cfg.TimeWindow.StepSeconds != 30 {
		t.Errorf("expected default step_seconds=30, got %d", cfg.TimeWindow.StepSeconds)
	}
	if cfg.MaxWorkers != 30 {
		t.Errorf("expected default max_workers=30, got %d", cfg.MaxWorkers)
	}
}

func TestStage2Config_Validate_StepSecondsOutOfRange(t *testing.T) {
	cfg := DefaultStage2Config()
	cfg.TimeWindow.StepSeconds = 61
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for step_seconds=61, got nil")
	}
	cfg.TimeWindow.StepSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for step_seconds=0, got nil")
	}
}

func TestStage2Config_Validate_BadMode(t *testing.T) {
	cfg := DefaultStage2Config()
	cfg.Mode = "sometimes"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid mode, got nil")
	}
}

func TestStage2Config_EnvOverride(t *testing.T) {
	t.Setenv("ORBIT_ENGINE_STAGE2_TIME_WINDOW___STEP_SECONDS", "10")
	t.Setenv("ORBIT_ENGINE_STAGE2_MAX_WORKERS", "8")

	cfg, err := LoadStage2Config("")
	if err != nil {
		t.Fatalf("LoadStage2Config: %v", err)
	}
	if cfg.TimeWindow.StepSeconds != 10 {
		t.Errorf("expected overridden step_seconds=10, got %d", cfg.TimeWindow.StepSeconds)
	}
	if cfg.MaxWorkers != 8 {
		t.Errorf("expected overridden max_workers=8, got %d", cfg.MaxWorkers)
	}
}

func TestLoadStage2Config_RejectsNonYAML(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "cfg-*.txt")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := LoadStage2Config(f.Name()); err == nil {
		t.Error("expected error for non-yaml extension, got nil")
	}
}
