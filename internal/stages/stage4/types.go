// Package stage4 implements visibility/feasibility analysis and the
// dynamic satellite pool optimizer (component E, the greedy Set-Cover
// solver from spec.md §4.6.3), plus the NTPU coverage analysis that
// follows it.
package stage4

import "github.com/cedarwud/orbit-engine-sub004/internal/stages/stage3"

// Candidate is one satellite with at least one connectable timestamp,
// carrying its full visibility time series (spec.md §4.6.2).
type Candidate struct {
	SatelliteID    string                  `json:"satellite_id"`
	Constellation  string                  `json:"constellation"`
	TimeSeries     []stage3.TimeSeriesPoint `json:"time_series"`
	ServiceWindow  ServiceWindow           `json:"service_window"`
}

// ServiceWindow summarizes a candidate's connectable stretches.
type ServiceWindow struct {
	ConnectableCount int     `json:"connectable_count"`
	FirstConnectable string  `json:"first_connectable,omitempty"`
	LastConnectable  string  `json:"last_connectable,omitempty"`
	MaxElevationDeg  float64 `json:"max_elevation_deg"`
	// ContinuityScore is the longest unbroken run of connectable
	// timestamps divided by the total grid length, in [0,1] (spec.md
	// §3: candidate-pool entries carry a continuity score alongside
	// the connectable-minute/first/last summary).
	ContinuityScore float64 `json:"continuity_score"`
}

// CoverageGap is a maximal run of timestamps whose visible count falls
// outside a constellation's target band (spec.md §4.6.3).
type CoverageGap struct {
	StartTimestamp string  `json:"start"`
	EndTimestamp   string  `json:"end"`
	DurationMin    float64 `json:"duration_min"`
	MinVisible     int     `json:"min_visible"`
	Severity       string  `json:"severity"` // minor|warning|critical
}

// OptimizationResult is one constellation's Set-Cover outcome (spec.md
// §4.6.3).
type OptimizationResult struct {
	CoverageRate            float64       `json:"coverage_rate"`
	SelectedCount            int           `json:"selected_count"`
	CoverageGaps             []CoverageGap `json:"coverage_gaps"`
	ContinuousCoverageHours  float64       `json:"continuous_coverage_hours"`
}

// NTPUConstellationAnalysis is the per-constellation coverage summary
// (spec.md §4.6.4).
type NTPUConstellationAnalysis struct {
	TimestampsCovered  int     `json:"timestamps_covered"`
	AverageVisible     float64 `json:"average_visible_count"`
	MaxVisible         int     `json:"max_visible_count"`
	MinVisible         int     `json:"min_visible_count"`
	GapCount           int     `json:"coverage_gap_count"`
}

// NTPUAnalysis is the combined + per-constellation coverage analysis.
type NTPUAnalysis struct {
	Combined    NTPUConstellationAnalysis            `json:"combined"`
	PerConstellation map[string]NTPUConstellationAnalysis `json:"per_constellation"`
}

// Metadata is the stage-4 run-level summary.
type Metadata struct {
	InputSatelliteCount  int `json:"input_satellite_count"`
	CandidateCount       int `json:"candidate_count"`
	OptimizedPoolCount   int `json:"optimized_pool_count"`
}

// Payload is the stage-4 output (spec.md §6).
type Payload struct {
	Stage                string                           `json:"stage"`
	ConnectableSatellites map[string][]Candidate          `json:"connectable_satellites"`
	OptimizedPools        map[string][]Candidate          `json:"optimized_pools"`
	NTPUAnalysis          NTPUAnalysis                     `json:"ntpu_analysis"`
	OptimizationResults   map[string]OptimizationResult    `json:"optimization_results"`
	Metadata              Metadata                         `json:"metadata"`
}
