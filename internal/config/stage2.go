package config

import (
	"fmt"
	"time"

	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
)

// Stage2Config is the orbital-propagation stage config (spec §4.4, §6).
type Stage2Config struct {
	TimeWindow struct {
		// Start is the time grid's window start time, RFC3339 (spec §3:
		// "Constructed from a single window start time + step + point
		// count" — independent of any satellite's TLE epoch). Empty
		// means "anchor the grid on the wall-clock time of the run".
		Start       string `yaml:"start"`
		StepSeconds int    `yaml:"step_seconds"`
		PointCount  int    `yaml:"point_count"`
	} `yaml:"time_window"`
	MaxWorkers int    `yaml:"max_workers"`
	Mode       string `yaml:"mode"` // auto|enabled|disabled sampling
}

// DefaultStage2Config returns the spec-mandated defaults.
func DefaultStage2Config() *Stage2Config {
	c := &Stage2Config{MaxWorkers: 30, Mode: "auto"}
	c.TimeWindow.StepSeconds = 30
	c.TimeWindow.PointCount = 240
	return c
}

// Validate enforces the bounds spec §6 places on stage 2 config.
func (c *Stage2Config) Validate() error {
	if c.TimeWindow.Start != "" {
		if _, err := time.Parse(time.RFC3339, c.TimeWindow.Start); err != nil {
			return &pipelineerrors.ConfigError{Stage: 2, Detail: fmt.Sprintf("time_window.start must be RFC3339, got %q: %v", c.TimeWindow.Start, err)}
		}
	}
	if c.TimeWindow.StepSeconds < 1 || c.TimeWindow.StepSeconds > 60 {
		return &pipelineerrors.ConfigError{Stage: 2, Detail: fmt.Sprintf("time_window.step_seconds must be in [1,60], got %d", c.TimeWindow.StepSeconds)}
	}
	if c.TimeWindow.PointCount <= 0 {
		return &pipelineerrors.ConfigError{Stage: 2, Detail: fmt.Sprintf("time_window.point_count must be positive, got %d", c.TimeWindow.PointCount)}
	}
	if c.MaxWorkers <= 0 {
		return &pipelineerrors.ConfigError{Stage: 2, Detail: fmt.Sprintf("max_workers must be positive, got %d", c.MaxWorkers)}
	}
	switch c.Mode {
	case "auto", "enabled", "disabled":
	default:
		return &pipelineerrors.ConfigError{Stage: 2, Detail: fmt.Sprintf("mode must be auto|enabled|disabled, got %q", c.Mode)}
	}
	return nil
}

// ApplyEnvOverrides overlays ORBIT_ENGINE_STAGE2_* variables onto c.
func (c *Stage2Config) ApplyEnvOverrides() error {
	if err := OverrideString(2, &c.TimeWindow.Start, "time_window", "start"); err != nil {
		return err
	}
	if err := OverrideInt(2, &c.TimeWindow.StepSeconds, "time_window", "step_seconds"); err != nil {
		return err
	}
	if err := OverrideInt(2, &c.TimeWindow.PointCount, "time_window", "point_count"); err != nil {
		return err
	}
	if err := OverrideInt(2, &c.MaxWorkers, "max_workers"); err != nil {
		return err
	}
	return OverrideString(2, &c.Mode, "mode")
}

// LoadStage2Config loads, defaults, overrides and validates the stage 2
// config in one call. If path is empty, defaults plus env overrides are
// used (no file on disk is required).
func LoadStage2Config(path string) (*Stage2Config, error) {
	c := DefaultStage2Config()
	if path != "" {
		if err := LoadYAML(2, path, c); err != nil {
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
