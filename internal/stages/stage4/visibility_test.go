package stage4

import (
	"testing"
	"time"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage3"
)

func TestBuildCandidates_ContinuityScoreLongestRun(t *testing.T) {
	start := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	connectable := []bool{true, true, true, false, true}

	pts := make([]stage3.TimeSeriesPoint, len(connectable))
	for i, c := range connectable {
		pts[i] = stage3.TimeSeriesPoint{
			Timestamp: start.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
			VisibilityMetrics: stage3.VisibilityMetrics{
				ElevationDeg:  10,
				IsConnectable: c,
			},
		}
	}

	upstream := stage3.Payload{
		Satellites: map[string]stage3.SatelliteSeries{
			"SAT-1": {Constellation: config.ConstellationStarlink, TimeSeries: pts},
		},
	}

	candidates := buildCandidates(upstream)
	cand := candidates[config.ConstellationStarlink][0]
	if cand.ServiceWindow.ConnectableCount != 4 {
		t.Errorf("ConnectableCount = %d, want 4", cand.ServiceWindow.ConnectableCount)
	}
	if want := 0.6; cand.ServiceWindow.ContinuityScore != want {
		t.Errorf("ContinuityScore = %v, want %v (longest run 3 / grid length 5)", cand.ServiceWindow.ContinuityScore, want)
	}
}

func TestBuildCandidates_ContinuityScoreFullyConnectable(t *testing.T) {
	start := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	pts := make([]stage3.TimeSeriesPoint, 3)
	for i := range pts {
		pts[i] = stage3.TimeSeriesPoint{
			Timestamp:         start.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
			VisibilityMetrics: stage3.VisibilityMetrics{ElevationDeg: 10, IsConnectable: true},
		}
	}
	upstream := stage3.Payload{
		Satellites: map[string]stage3.SatelliteSeries{
			"SAT-1": {Constellation: config.ConstellationStarlink, TimeSeries: pts},
		},
	}
	cand := buildCandidates(upstream)[config.ConstellationStarlink][0]
	if cand.ServiceWindow.ContinuityScore != 1.0 {
		t.Errorf("ContinuityScore = %v, want 1.0", cand.ServiceWindow.ContinuityScore)
	}
}
