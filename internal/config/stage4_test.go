package config

import "testing"

func TestDefaultStage4Config_Valid(t *testing.T) {
	cfg := DefaultStage4Config()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got error: %v", err)
	}
	starlink := cfg.PoolOptimizationTargets[ConstellationStarlink]
	if starlink.MinPoolSize != 10 || starlink.MaxPoolSize != 15 {
		t.Errorf("unexpected starlink pool bounds: %+v", starlink)
	}
	oneweb := cfg.PoolOptimizationTargets[ConstellationOneWeb]
	if oneweb.MinPoolSize != 3 || oneweb.MaxPoolSize != 6 {
		t.Errorf("unexpected oneweb pool bounds: %+v", oneweb)
	}
}

func TestStage4Config_Validate_BadBounds(t *testing.T) {
	cfg := DefaultStage4Config()
	cfg.PoolOptimizationTargets[ConstellationStarlink] = PoolOptimizationTarget{MinPoolSize: 10, MaxPoolSize: 5, TargetCoverageRate: 0.95}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for max < min, got nil")
	}
}

func TestStage4Config_Validate_BadCoverageRate(t *testing.T) {
	cfg := DefaultStage4Config()
	cfg.PoolOptimizationTargets[ConstellationOneWeb] = PoolOptimizationTarget{MinPoolSize: 3, MaxPoolSize: 6, TargetCoverageRate: 1.5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for coverage rate > 1, got nil")
	}
}
