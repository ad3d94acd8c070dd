package stage4

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
)

// gridStepSeconds estimates the time grid's step from its first two
// entries; falls back to 30s (spec.md §6's default) if the grid is too
// short to measure or the timestamps don't parse.
func gridStepSeconds(grid []string) float64 {
	if len(grid) < 2 {
		return 30
	}
	t0, err0 := time.Parse(time.RFC3339, grid[0])
	t1, err1 := time.Parse(time.RFC3339, grid[1])
	if err0 != nil || err1 != nil {
		return 30
	}
	return t1.Sub(t0).Seconds()
}

// classifyGapSeverity implements spec.md §4.6.3's severity rule:
// critical iff min_visible=0 or duration > 10 min; warning iff
// min_visible < target_min/2 or duration > 5 min; else minor.
func classifyGapSeverity(minVisible int, durationMin float64, targetMin int) string {
	if minVisible == 0 || durationMin > 10 {
		return "critical"
	}
	if float64(minVisible) < float64(targetMin)/2 || durationMin > 5 {
		return "warning"
	}
	return "minor"
}

// coverageGaps finds maximal runs of grid timestamps whose coverage
// count falls outside the target band (spec.md §4.6.3).
func coverageGaps(coverage coverageSet, grid []string, band config.PoolTargetBand) []CoverageGap {
	stepSeconds := gridStepSeconds(grid)
	var gaps []CoverageGap

	inGap := false
	var start string
	runLen := 0
	minVisible := 0

	flush := func(endIdx int) {
		if !inGap {
			return
		}
		durationMin := float64(runLen) * stepSeconds / 60
		gaps = append(gaps, CoverageGap{
			StartTimestamp: start,
			EndTimestamp:   grid[endIdx],
			DurationMin:    durationMin,
			MinVisible:     minVisible,
			Severity:       classifyGapSeverity(minVisible, durationMin, band.TargetMin),
		})
		inGap = false
	}

	for i, t := range grid {
		n := len(coverage[t])
		outOfBand := n < band.TargetMin || n > band.TargetMax
		if outOfBand {
			if !inGap {
				inGap = true
				start = t
				runLen = 0
				minVisible = n
			}
			runLen++
			if n < minVisible {
				minVisible = n
			}
		} else {
			flush(i - 1)
		}
	}
	if inGap {
		flush(len(grid) - 1)
	}
	return gaps
}

// continuousCoverageHours returns the longest run of grid timestamps
// whose coverage count stays within the target band (spec.md §4.6.3).
func continuousCoverageHours(coverage coverageSet, grid []string, band config.PoolTargetBand) float64 {
	stepSeconds := gridStepSeconds(grid)
	best, current := 0, 0
	for _, t := range grid {
		n := len(coverage[t])
		if n >= band.TargetMin && n <= band.TargetMax {
			current++
			if current > best {
				best = current
			}
		} else {
			current = 0
		}
	}
	return float64(best) * stepSeconds / 3600
}

// connectableCountAt returns the number of candidates connectable at
// timestamp t.
func connectableCountAt(candidates []Candidate, t string) int {
	n := 0
	for _, c := range candidates {
		for _, pt := range c.TimeSeries {
			if pt.Timestamp == t && pt.VisibilityMetrics.IsConnectable {
				n++
				break
			}
		}
	}
	return n
}

// ntpuConstellationAnalysis computes spec.md §4.6.4's per-constellation
// summary over a set of candidates (not the optimized pool — the raw
// connectable set).
func ntpuConstellationAnalysis(candidates []Candidate, grid []string) NTPUConstellationAnalysis {
	if len(grid) == 0 {
		return NTPUConstellationAnalysis{}
	}
	stepSeconds := gridStepSeconds(grid)
	gapThresholdCount := int(5 * 60 / stepSeconds)
	if gapThresholdCount < 1 {
		gapThresholdCount = 1
	}

	counts := make([]float64, len(grid))
	covered, max, min := 0, 0, -1
	gapRun := 0
	gapCount := 0
	for i, t := range grid {
		n := connectableCountAt(candidates, t)
		counts[i] = float64(n)
		if n > 0 {
			covered++
		}
		if n > max {
			max = n
		}
		if min == -1 || n < min {
			min = n
		}
		if n == 0 {
			gapRun++
		} else {
			if gapRun >= gapThresholdCount {
				gapCount++
			}
			gapRun = 0
		}
	}
	if gapRun >= gapThresholdCount {
		gapCount++
	}
	if min == -1 {
		min = 0
	}

	return NTPUConstellationAnalysis{
		TimestampsCovered: covered,
		AverageVisible:    stat.Mean(counts, nil),
		MaxVisible:        max,
		MinVisible:        min,
		GapCount:          gapCount,
	}
}

// ntpuAnalysis computes the combined + per-constellation coverage
// summary across all candidates (spec.md §4.6.4).
func ntpuAnalysis(byConstellation map[string][]Candidate) NTPUAnalysis {
	perConstellation := make(map[string]NTPUConstellationAnalysis, len(byConstellation))
	var combinedCandidates []Candidate
	var combinedGrid []string
	for constellation, candidates := range byConstellation {
		grid := timeGridOf(candidates)
		perConstellation[constellation] = ntpuConstellationAnalysis(candidates, grid)
		combinedCandidates = append(combinedCandidates, candidates...)
		if len(grid) > len(combinedGrid) {
			combinedGrid = grid
		}
	}
	return NTPUAnalysis{
		Combined:         ntpuConstellationAnalysis(combinedCandidates, combinedGrid),
		PerConstellation: perConstellation,
	}
}
