// Package stage3 implements coordinate transformation (component D):
// TEME→ECEF→WGS84 geodetic using internal/coord's IAU 2006 precession,
// ten-term 1980 nutation series (not the full IAU 2000A series) and IERS
// corrections, content-addressed and cached (spec.md §4.5).
package stage3

import "github.com/cedarwud/orbit-engine-sub004/internal/stages/stage1"

// VisibilityMetrics is computed eagerly in Stage 3 since spec.md §6's
// wire schema embeds it directly in the stage-3 payload (stage 4 then
// reuses it "if not already present", per spec.md §4.6.1).
type VisibilityMetrics struct {
	ElevationDeg     float64 `json:"elevation_deg"`
	AzimuthDeg       float64 `json:"azimuth_deg"`
	DistanceKM       float64 `json:"distance_km"`
	IsConnectable    bool    `json:"is_connectable"`
	ThresholdApplied float64 `json:"threshold_applied"`
}

// Position is the WGS84 geodetic fix for one (satellite, timestamp).
type Position struct {
	LatDeg float64 `json:"lat"`
	LonDeg float64 `json:"lon"`
	AltKM  float64 `json:"alt_km"`
}

// TimeSeriesPoint is one (satellite, timestamp) geodetic + visibility
// record (spec.md §3, §6).
type TimeSeriesPoint struct {
	Timestamp         string            `json:"timestamp"`
	VisibilityMetrics VisibilityMetrics `json:"visibility_metrics"`
	Position          Position          `json:"position"`
}

// SatelliteSeries is one satellite's full geodetic time series.
type SatelliteSeries struct {
	Constellation string            `json:"constellation"`
	TimeSeries    []TimeSeriesPoint `json:"time_series"`
}

// Metadata is the stage-3 run-level summary (spec.md §6: coordinate
// system, nutation model, polar motion flag, target accuracy).
type Metadata struct {
	CoordinateSystem      string  `json:"coordinate_system"`
	NutationModel         string  `json:"nutation_model"`
	PolarMotion           bool    `json:"polar_motion"`
	TargetAccuracyM       float64 `json:"target_accuracy_m"`
	InputSatelliteCount   int     `json:"input_satellite_count"`
	OutputSatelliteCount  int     `json:"output_satellite_count"`
	DroppedSatelliteCount int     `json:"dropped_satellite_count"`
	CacheHit              bool    `json:"cache_hit"`
	ContentHash           string  `json:"content_hash"`
	// ConstellationConfigs carries stage 1's per-constellation overrides
	// forward from stage 2's metadata, so stage 4 can confirm the
	// elevation-threshold inheritance it requested actually happened
	// (spec.md §6).
	ConstellationConfigs map[string]stage1.ConstellationConfig `json:"constellation_configs,omitempty"`
}

// Payload is the stage-3 output (spec.md §6).
type Payload struct {
	Stage      string                     `json:"stage"`
	Satellites map[string]SatelliteSeries `json:"satellites"`
	Metadata   Metadata                   `json:"metadata"`
}
