package stage4

import (
	"testing"
	"time"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage1"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage3"
)

func starlinkPayload(threshold float64) Payload {
	start := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	pts := []stage3.TimeSeriesPoint{
		{
			Timestamp: start.Format(time.RFC3339),
			VisibilityMetrics: stage3.VisibilityMetrics{
				ElevationDeg:     threshold + 1,
				IsConnectable:    true,
				ThresholdApplied: threshold,
			},
		},
	}
	return Payload{
		ConnectableSatellites: map[string][]Candidate{
			config.ConstellationStarlink: {
				{SatelliteID: "SAT-1", Constellation: config.ConstellationStarlink, TimeSeries: pts},
			},
		},
	}
}

// TestStage1ThresholdsHonored_OverrideApplied mirrors spec.md §6: when
// auto_merge_stage1 is set and stage 1 supplied a non-default Starlink
// threshold, every candidate point for that constellation must carry
// the inherited value, not the stage-3 default.
func TestStage1ThresholdsHonored_OverrideApplied(t *testing.T) {
	p := &Processor{
		Cfg: &config.Stage4Config{},
		lastConstellationConfigs: map[string]stage1.ConstellationConfig{
			config.ConstellationStarlink: {ElevationThresholdDeg: 7.5},
		},
	}
	p.Cfg.ConfigSourcePriority.AutoMergeStage1 = true

	if !p.stage1ThresholdsHonored(starlinkPayload(7.5)) {
		t.Error("expected inherited threshold to be honored")
	}
	if p.stage1ThresholdsHonored(starlinkPayload(5.0)) {
		t.Error("expected mismatch against the inherited threshold to be caught")
	}
}

// TestStage1ThresholdsHonored_FlagOff confirms the check is a no-op
// when auto_merge_stage1 is disabled, regardless of what stage 1 sent.
func TestStage1ThresholdsHonored_FlagOff(t *testing.T) {
	p := &Processor{
		Cfg: &config.Stage4Config{},
		lastConstellationConfigs: map[string]stage1.ConstellationConfig{
			config.ConstellationStarlink: {ElevationThresholdDeg: 7.5},
		},
	}
	p.Cfg.ConfigSourcePriority.AutoMergeStage1 = false

	if !p.stage1ThresholdsHonored(starlinkPayload(5.0)) {
		t.Error("expected no-op when auto_merge_stage1 is false")
	}
}

// TestStage1ThresholdsHonored_NoOverride confirms a zero-value override
// (stage 1 didn't set one) is ignored rather than compared literally.
func TestStage1ThresholdsHonored_NoOverride(t *testing.T) {
	p := &Processor{
		Cfg: &config.Stage4Config{},
		lastConstellationConfigs: map[string]stage1.ConstellationConfig{
			config.ConstellationStarlink: {},
		},
	}
	p.Cfg.ConfigSourcePriority.AutoMergeStage1 = true

	if !p.stage1ThresholdsHonored(starlinkPayload(5.0)) {
		t.Error("expected zero-value override to be skipped")
	}
}
