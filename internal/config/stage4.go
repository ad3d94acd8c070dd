package config

import (
	"fmt"

	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
)

// PoolOptimizationTarget is the per-constellation pool-optimization
// target config (spec §6).
type PoolOptimizationTarget struct {
	MinPoolSize        int     `yaml:"min_pool_size"`
	MaxPoolSize         int     `yaml:"max_pool_size"`
	TargetCoverageRate float64 `yaml:"target_coverage_rate"`
}

// Stage4Config is the visibility/pool-optimization stage config.
// Elevation thresholds are inherited from stage-1 config per spec §6;
// stage 4 only carries pool-optimization parameters.
type Stage4Config struct {
	PoolOptimizationTargets map[string]PoolOptimizationTarget `yaml:"pool_optimization_targets"`
	ConfigSourcePriority    struct {
		AutoMergeStage1 bool `yaml:"auto_merge_stage1"`
	} `yaml:"config_source_priority"`
}

// DefaultStage4Config returns the spec-mandated defaults.
func DefaultStage4Config() *Stage4Config {
	c := &Stage4Config{
		PoolOptimizationTargets: map[string]PoolOptimizationTarget{
			ConstellationStarlink: {MinPoolSize: 10, MaxPoolSize: 15, TargetCoverageRate: 0.95},
			ConstellationOneWeb:   {MinPoolSize: 3, MaxPoolSize: 6, TargetCoverageRate: 0.90},
		},
	}
	c.ConfigSourcePriority.AutoMergeStage1 = true
	return c
}

// Validate enforces stage 4 config invariants.
func (c *Stage4Config) Validate() error {
	for name, t := range c.PoolOptimizationTargets {
		if t.MinPoolSize <= 0 || t.MaxPoolSize < t.MinPoolSize {
			return &pipelineerrors.ConfigError{Stage: 4, Detail: fmt.Sprintf("%s: invalid pool size bounds [%d,%d]", name, t.MinPoolSize, t.MaxPoolSize)}
		}
		if t.TargetCoverageRate <= 0 || t.TargetCoverageRate > 1 {
			return &pipelineerrors.ConfigError{Stage: 4, Detail: fmt.Sprintf("%s: target_coverage_rate must be in (0,1], got %f", name, t.TargetCoverageRate)}
		}
	}
	return nil
}

// LoadStage4Config loads, defaults and validates the stage 4 config.
// Env overrides are intentionally omitted here: per-constellation map
// keys don't fit the flat PARENT___CHILD___KEY scheme without an
// additional constellation segment, and spec §6 does not name a stage-4
// env override beyond the generic process-wide ones in ProcessEnv.
func LoadStage4Config(path string) (*Stage4Config, error) {
	c := DefaultStage4Config()
	if path != "" {
		if err := LoadYAML(4, path, c); err != nil {
			return nil, err
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
