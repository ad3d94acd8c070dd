package stage3

import (
	"context"
	"testing"
	"time"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	"github.com/cedarwud/orbit-engine-sub004/internal/iers"
	"github.com/cedarwud/orbit-engine-sub004/internal/runtimectx"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage1"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage2"
)

func testUpstream() stage2.Payload {
	start := time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)
	series := make([]stage2.TimeSeriesPoint, 0, 5)
	for i := 0; i < 5; i++ {
		ts := start.Add(time.Duration(i) * time.Minute)
		series = append(series, stage2.TimeSeriesPoint{
			Timestamp:         ts.Format(time.RFC3339),
			MinutesSinceEpoch: float64(i),
			X:                 6900 + float64(i),
			Y:                 100,
			Z:                 200,
			VX:                -1, VY: 7, VZ: 0.5,
		})
	}
	return stage2.Payload{
		Stage: "stage2_orbital_calculation",
		Satellites: map[string]stage2.SatelliteSeries{
			"SAT-1": {Constellation: config.ConstellationStarlink, NoradID: "1", Name: "T1", TimeSeries: series},
		},
		Metadata: stage2.Metadata{InputSatelliteCount: 1, OutputSatelliteCount: 1},
	}
}

func testEngine() *Engine {
	return &Engine{
		Cfg: config.DefaultStage3Config(),
		Rt:  runtimectx.RuntimeContext{IERS: iers.Default(), MaxWorkers: 2},
	}
}

func TestEngine_Run_Nominal(t *testing.T) {
	eng := testEngine()
	out, warnings, errs, err := eng.Run(context.Background(), testUpstream())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("unexpected per-satellite errors: %v", errs)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	series, ok := out.Satellites["SAT-1"]
	if !ok {
		t.Fatal("expected SAT-1 in output")
	}
	if len(series.TimeSeries) != 5 {
		t.Fatalf("expected 5 points, got %d", len(series.TimeSeries))
	}
	for _, pt := range series.TimeSeries {
		if pt.Position.LatDeg < -90 || pt.Position.LatDeg > 90 {
			t.Errorf("lat out of range: %f", pt.Position.LatDeg)
		}
		if pt.VisibilityMetrics.AzimuthDeg < 0 || pt.VisibilityMetrics.AzimuthDeg > 360 {
			t.Errorf("azimuth out of range: %f", pt.VisibilityMetrics.AzimuthDeg)
		}
	}
}

func TestEngine_Run_EmptyInput(t *testing.T) {
	eng := testEngine()
	if _, _, _, err := eng.Run(context.Background(), stage2.Payload{}); err == nil {
		t.Error("expected error for empty satellite input")
	}
}

// TestEngine_Run_InheritsStage1ElevationThreshold mirrors spec.md §6:
// a stage-1 override for a constellation must change the threshold
// transformOne applies, not just the default constant.
func TestEngine_Run_InheritsStage1ElevationThreshold(t *testing.T) {
	eng := testEngine()
	upstream := testUpstream()
	upstream.Metadata.ConstellationConfigs = map[string]stage1.ConstellationConfig{
		config.ConstellationStarlink: {ElevationThresholdDeg: 40},
	}

	out, _, _, err := eng.Run(context.Background(), upstream)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	series := out.Satellites["SAT-1"]
	for _, pt := range series.TimeSeries {
		if pt.VisibilityMetrics.ThresholdApplied != 40 {
			t.Errorf("ThresholdApplied = %v, want the stage-1 override of 40", pt.VisibilityMetrics.ThresholdApplied)
		}
	}
	if out.Metadata.ConstellationConfigs[config.ConstellationStarlink].ElevationThresholdDeg != 40 {
		t.Error("expected stage-1 overrides to be forwarded on stage-3 metadata")
	}
}

func TestResolveElevationThresholds_AutoMergeDisabled(t *testing.T) {
	cfg := config.DefaultStage3Config()
	cfg.ConfigSourcePriority.AutoMergeStage1 = false
	thresholds := resolveElevationThresholds(cfg, map[string]stage1.ConstellationConfig{
		config.ConstellationStarlink: {ElevationThresholdDeg: 40},
	})
	if thresholds[config.ConstellationStarlink] != config.ElevationThresholdDeg(config.ConstellationStarlink) {
		t.Error("expected default threshold when auto_merge_stage1 is disabled")
	}
}

func TestCacheKey_DeterministicAndSensitiveToInput(t *testing.T) {
	cfg := config.DefaultStage3Config()
	a := CacheKey(testUpstream(), cfg)
	b := CacheKey(testUpstream(), cfg)
	if a != b {
		t.Error("CacheKey should be deterministic for identical input")
	}

	altered := testUpstream()
	series := altered.Satellites["SAT-1"]
	series.TimeSeries = series.TimeSeries[:len(series.TimeSeries)-1]
	altered.Satellites["SAT-1"] = series
	c := CacheKey(altered, cfg)
	if c == a {
		t.Error("CacheKey should change when the time grid changes")
	}
}

// TestCacheKey_SensitiveToStage1Override confirms a cached stage-3
// result isn't reused across different inherited elevation thresholds,
// since those change transformOne's is_connectable computation.
func TestCacheKey_SensitiveToStage1Override(t *testing.T) {
	cfg := config.DefaultStage3Config()
	plain := testUpstream()
	overridden := testUpstream()
	overridden.Metadata.ConstellationConfigs = map[string]stage1.ConstellationConfig{
		config.ConstellationStarlink: {ElevationThresholdDeg: 40},
	}

	if CacheKey(plain, cfg) == CacheKey(overridden, cfg) {
		t.Error("CacheKey should change when stage-1's inherited threshold changes")
	}
}
