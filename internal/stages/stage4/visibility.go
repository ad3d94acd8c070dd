package stage4

import (
	"sort"

	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage3"
)

// buildCandidates groups stage-3 satellites by constellation and keeps
// only those with at least one connectable timestamp (spec.md §4.6.2).
// Visibility metrics are taken as-is from stage 3, which already
// computed them eagerly.
func buildCandidates(upstream stage3.Payload) map[string][]Candidate {
	byConstellation := make(map[string][]Candidate)
	for id, series := range upstream.Satellites {
		window := ServiceWindow{}
		connectable := false
		longestRun, currentRun := 0, 0
		for _, pt := range series.TimeSeries {
			if !pt.VisibilityMetrics.IsConnectable {
				currentRun = 0
				continue
			}
			connectable = true
			window.ConnectableCount++
			if window.FirstConnectable == "" {
				window.FirstConnectable = pt.Timestamp
			}
			window.LastConnectable = pt.Timestamp
			if pt.VisibilityMetrics.ElevationDeg > window.MaxElevationDeg {
				window.MaxElevationDeg = pt.VisibilityMetrics.ElevationDeg
			}
			currentRun++
			if currentRun > longestRun {
				longestRun = currentRun
			}
		}
		if !connectable {
			continue
		}
		if total := len(series.TimeSeries); total > 0 {
			window.ContinuityScore = float64(longestRun) / float64(total)
		}
		byConstellation[series.Constellation] = append(byConstellation[series.Constellation], Candidate{
			SatelliteID:   id,
			Constellation: series.Constellation,
			TimeSeries:    series.TimeSeries,
			ServiceWindow: window,
		})
	}

	for constellation := range byConstellation {
		sort.Slice(byConstellation[constellation], func(i, j int) bool {
			return byConstellation[constellation][i].SatelliteID < byConstellation[constellation][j].SatelliteID
		})
	}
	return byConstellation
}
