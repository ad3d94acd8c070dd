package config

import (
	"fmt"

	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
)

// Stage3Config is the coordinate-transformation stage config (spec
// §4.5, §6).
type Stage3Config struct {
	Coordinate struct {
		SourceFrame     string `yaml:"source_frame"`
		TargetFrame     string `yaml:"target_frame"`
		TimeCorrections bool   `yaml:"time_corrections"`
		PolarMotion     bool   `yaml:"polar_motion"`
		NutationModel   string `yaml:"nutation_model"`
	} `yaml:"coordinate"`
	Precision struct {
		TargetAccuracyM float64 `yaml:"target_accuracy_m"`
	} `yaml:"precision"`
	Cache struct {
		Enabled            bool `yaml:"enabled"`
		MaxSizeMB          int  `yaml:"max_size_mb"`
		MinAgeHours         int  `yaml:"min_age_hours"`
		GeometricPrefilter struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"geometric_prefilter"`
	} `yaml:"cache"`
	Parallel struct {
		MaxWorkers int `yaml:"max_workers"`
	} `yaml:"parallel"`
	// ConfigSourcePriority mirrors stage 4's config key of the same name
	// (spec §6): constellation-specific elevation thresholds are
	// inherited from stage-1 config, and this is the stage where that
	// threshold is actually applied (connectability per (satellite,
	// timestamp)).
	ConfigSourcePriority struct {
		AutoMergeStage1 bool `yaml:"auto_merge_stage1"`
	} `yaml:"config_source_priority"`
}

// DefaultStage3Config returns the spec-mandated defaults.
func DefaultStage3Config() *Stage3Config {
	c := &Stage3Config{}
	c.Coordinate.SourceFrame = "TEME"
	c.Coordinate.TargetFrame = "WGS84"
	c.Coordinate.TimeCorrections = true
	c.Coordinate.PolarMotion = true
	c.Coordinate.NutationModel = "IAU2000A"
	c.Precision.TargetAccuracyM = 0.5
	c.Cache.Enabled = true
	c.Cache.MaxSizeMB = 500
	c.Cache.MinAgeHours = 24
	c.Cache.GeometricPrefilter.Enabled = false
	c.Parallel.MaxWorkers = 30
	c.ConfigSourcePriority.AutoMergeStage1 = true
	return c
}

// Validate enforces stage 3 config invariants. The geometric prefilter's
// semantics are unspecified by spec §9 ("implementers should not
// guess"), so enabling it is rejected outright rather than silently
// accepted.
func (c *Stage3Config) Validate() error {
	if c.Coordinate.SourceFrame != "TEME" {
		return &pipelineerrors.ConfigError{Stage: 3, Detail: fmt.Sprintf("coordinate.source_frame must be TEME, got %q", c.Coordinate.SourceFrame)}
	}
	if c.Coordinate.TargetFrame != "WGS84" {
		return &pipelineerrors.ConfigError{Stage: 3, Detail: fmt.Sprintf("coordinate.target_frame must be WGS84, got %q", c.Coordinate.TargetFrame)}
	}
	if c.Coordinate.NutationModel != "IAU2000A" {
		return &pipelineerrors.ConfigError{Stage: 3, Detail: fmt.Sprintf("coordinate.nutation_model must be IAU2000A, got %q", c.Coordinate.NutationModel)}
	}
	if c.Precision.TargetAccuracyM <= 0 {
		return &pipelineerrors.ConfigError{Stage: 3, Detail: "precision.target_accuracy_m must be positive"}
	}
	if c.Cache.MaxSizeMB <= 0 {
		return &pipelineerrors.ConfigError{Stage: 3, Detail: "cache.max_size_mb must be positive"}
	}
	if c.Cache.GeometricPrefilter.Enabled {
		return &pipelineerrors.ConfigError{Stage: 3, Detail: "cache.geometric_prefilter.enabled=true has no defined semantics; leave disabled"}
	}
	if c.Parallel.MaxWorkers <= 0 {
		return &pipelineerrors.ConfigError{Stage: 3, Detail: "parallel.max_workers must be positive"}
	}
	return nil
}

// ApplyEnvOverrides overlays ORBIT_ENGINE_STAGE3_* variables onto c.
func (c *Stage3Config) ApplyEnvOverrides() error {
	if err := OverrideString(3, &c.Coordinate.SourceFrame, "coordinate", "source_frame"); err != nil {
		return err
	}
	if err := OverrideString(3, &c.Coordinate.TargetFrame, "coordinate", "target_frame"); err != nil {
		return err
	}
	if err := OverrideBool(3, &c.Coordinate.TimeCorrections, "coordinate", "time_corrections"); err != nil {
		return err
	}
	if err := OverrideBool(3, &c.Coordinate.PolarMotion, "coordinate", "polar_motion"); err != nil {
		return err
	}
	if err := OverrideString(3, &c.Coordinate.NutationModel, "coordinate", "nutation_model"); err != nil {
		return err
	}
	if err := OverrideFloat(3, &c.Precision.TargetAccuracyM, "precision", "target_accuracy_m"); err != nil {
		return err
	}
	if err := OverrideBool(3, &c.Cache.Enabled, "cache", "enabled"); err != nil {
		return err
	}
	if err := OverrideInt(3, &c.Cache.MaxSizeMB, "cache", "max_size_mb"); err != nil {
		return err
	}
	if err := OverrideInt(3, &c.Parallel.MaxWorkers, "parallel", "max_workers"); err != nil {
		return err
	}
	return OverrideBool(3, &c.ConfigSourcePriority.AutoMergeStage1, "config_source_priority", "auto_merge_stage1")
}

// LoadStage3Config loads, defaults, overrides and validates the stage 3
// config in one call.
func LoadStage3Config(path string) (*Stage3Config, error) {
	c := DefaultStage3Config()
	if path != "" {
		if err := LoadYAML(3, path, c); err != nil {
			return nil, err
		}
	}
	if err := c.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
