package stage4

import (
	"testing"
	"time"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage3"
)

// TestBuildCandidates_ConstellationThreshold mirrors spec.md §8 seed
// scenario 2: the same elevation sequence is connectable under the
// Starlink 5° threshold but not under OneWeb's 10° threshold.
func TestBuildCandidates_ConstellationThreshold(t *testing.T) {
	start := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	elevations := []float64{4.9, 5.0, 5.1, 4.0}

	mkSeries := func(constellation string, threshold float64) stage3.SatelliteSeries {
		pts := make([]stage3.TimeSeriesPoint, len(elevations))
		for i, el := range elevations {
			pts[i] = stage3.TimeSeriesPoint{
				Timestamp: start.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
				VisibilityMetrics: stage3.VisibilityMetrics{
					ElevationDeg:     el,
					DistanceKM:       500,
					IsConnectable:    el >= threshold,
					ThresholdApplied: threshold,
				},
			}
		}
		return stage3.SatelliteSeries{Constellation: constellation, TimeSeries: pts}
	}

	upstream := stage3.Payload{
		Stage: "stage3_coordinate_transformation_real",
		Satellites: map[string]stage3.SatelliteSeries{
			"SAT-STARLINK": mkSeries(config.ConstellationStarlink, 5.0),
			"SAT-ONEWEB":   mkSeries(config.ConstellationOneWeb, 10.0),
		},
	}

	candidates := buildCandidates(upstream)
	starlink, ok := candidates[config.ConstellationStarlink]
	if !ok || len(starlink) != 1 {
		t.Fatalf("expected 1 starlink candidate, got %v", candidates[config.ConstellationStarlink])
	}
	if starlink[0].ServiceWindow.ConnectableCount != 2 {
		t.Errorf("expected 2 connectable points, got %d", starlink[0].ServiceWindow.ConnectableCount)
	}
	if want := 0.5; starlink[0].ServiceWindow.ContinuityScore != want {
		t.Errorf("ContinuityScore = %v, want %v (longest run 2 / grid length 4)", starlink[0].ServiceWindow.ContinuityScore, want)
	}
	if _, ok := candidates[config.ConstellationOneWeb]; ok {
		t.Error("oneweb satellite should not be a candidate under the 10deg threshold")
	}
}

func TestEngine_Run_EmptyInput(t *testing.T) {
	eng := &Engine{Targets: config.DefaultPoolTargets()}
	if _, err := eng.Run(stage3.Payload{}); err == nil {
		t.Error("expected error for empty satellite input")
	}
}
