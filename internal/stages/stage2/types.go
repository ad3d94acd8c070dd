// Package stage2 implements orbital propagation (component C): per-
// satellite SGP4 time-series propagation over a shared time grid,
// partitioned across workers and packaged with run-level metadata
// (spec.md §4.4).
package stage2

import "github.com/cedarwud/orbit-engine-sub004/internal/stages/stage1"

// TimeSeriesPoint is one (satellite, timestamp) TEME state (spec.md §3,
// §6).
type TimeSeriesPoint struct {
	Timestamp         string  `json:"timestamp"`
	MinutesSinceEpoch float64 `json:"minutes_since_epoch"`
	X                 float64 `json:"x"`
	Y                 float64 `json:"y"`
	Z                 float64 `json:"z"`
	VX                float64 `json:"vx"`
	VY                float64 `json:"vy"`
	VZ                float64 `json:"vz"`
}

// SatelliteSeries is one satellite's full propagated time series.
type SatelliteSeries struct {
	Constellation string            `json:"constellation"`
	NoradID       string            `json:"norad_id"`
	Name          string            `json:"name"`
	TimeSeries    []TimeSeriesPoint `json:"time_series"`
}

// Metadata is the stage-2 run-level summary spec.md §4.4 names: time
// window bounds, step, per-constellation mean orbital period, worker
// count, duration.
type Metadata struct {
	TimeWindowStartUTC       string             `json:"time_window_start_utc"`
	StepSeconds              int                `json:"step_seconds"`
	PointCount               int                `json:"point_count"`
	WorkerCount               int                `json:"worker_count"`
	DurationMS               int64              `json:"duration_ms"`
	MeanOrbitalPeriodMinutes map[string]float64 `json:"mean_orbital_period_minutes"`
	InputSatelliteCount      int                `json:"input_satellite_count"`
	OutputSatelliteCount     int                `json:"output_satellite_count"`
	DroppedSatelliteCount    int                `json:"dropped_satellite_count"`
	// ConstellationConfigs carries stage 1's per-constellation overrides
	// (e.g. elevation threshold) forward unchanged, so stage 3/4 can
	// honor config_source_priority.auto_merge_stage1 without stage 2
	// needing to interpret them itself (spec.md §6).
	ConstellationConfigs map[string]stage1.ConstellationConfig `json:"constellation_configs,omitempty"`
}

// Payload is the stage-2 output (spec.md §6): map satellite_id →
// { time_series, ... } plus run metadata.
type Payload struct {
	Stage      string                     `json:"stage"`
	Satellites map[string]SatelliteSeries `json:"satellites"`
	Metadata   Metadata                   `json:"metadata"`
}
