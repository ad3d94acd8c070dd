package stage4

import (
	"sort"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
)

// coverageSet tracks, for each timestamp in the grid, the set of
// already-selected satellite ids connectable at that timestamp
// (spec.md §4.6.3).
type coverageSet map[string]map[string]bool

func newCoverageSet(grid []string) coverageSet {
	c := make(coverageSet, len(grid))
	for _, t := range grid {
		c[t] = map[string]bool{}
	}
	return c
}

func (c coverageSet) rate(band config.PoolTargetBand) float64 {
	if len(c) == 0 {
		return 0
	}
	inBand := 0
	for _, sats := range c {
		n := len(sats)
		if n >= band.TargetMin && n <= band.TargetMax {
			inBand++
		}
	}
	return float64(inBand) / float64(len(c))
}

func (c coverageSet) hasZeroCoverage() bool {
	for _, sats := range c {
		if len(sats) == 0 {
			return true
		}
	}
	return false
}

// timeGridOf returns the canonical, sorted timestamp grid shared by a
// constellation's candidates (stage 3 emits a full-length time series
// per satellite regardless of connectability, so any candidate's
// series carries the whole grid).
func timeGridOf(candidates []Candidate) []string {
	if len(candidates) == 0 {
		return nil
	}
	grid := make([]string, 0, len(candidates[0].TimeSeries))
	for _, pt := range candidates[0].TimeSeries {
		grid = append(grid, pt.Timestamp)
	}
	sort.Strings(grid)
	return grid
}

// contribution implements spec.md §4.6.3's scoring function: the
// number of covered-but-under-target timestamps a candidate would add,
// minus a penalty for timestamps already at or above the target
// maximum.
func contribution(cand Candidate, coverage coverageSet, band config.PoolTargetBand) (score int, penalty int) {
	for _, pt := range cand.TimeSeries {
		if !pt.VisibilityMetrics.IsConnectable {
			continue
		}
		covered := coverage[pt.Timestamp]
		n := len(covered)
		if n < band.TargetMin {
			score++
		}
		if n >= band.TargetMax {
			penalty++
		}
	}
	return score - penalty, penalty
}

// optimizePool runs the greedy Set-Cover algorithm for one
// constellation's candidates (spec.md §4.6.3), returning the selected
// pool, the per-timestamp coverage, and the grid it was computed over.
func optimizePool(candidates []Candidate, band config.PoolTargetBand) ([]Candidate, coverageSet, []string) {
	grid := timeGridOf(candidates)
	coverage := newCoverageSet(grid)
	if len(candidates) == 0 {
		return nil, coverage, grid
	}

	remaining := make([]Candidate, len(candidates))
	copy(remaining, candidates)
	sort.Slice(remaining, func(i, j int) bool { return remaining[i].SatelliteID < remaining[j].SatelliteID })

	var selected []Candidate
	for len(selected) < band.HardCap {
		rate := coverage.rate(band)
		if rate >= 0.95 && !coverage.hasZeroCoverage() {
			break
		}

		bestIdx := -1
		bestScore := 0
		bestPenalty := 0
		for i, cand := range remaining {
			score, penalty := contribution(cand, coverage, band)
			if bestIdx == -1 ||
				score > bestScore ||
				(score == bestScore && penalty < bestPenalty) {
				bestIdx, bestScore, bestPenalty = i, score, penalty
			}
		}
		if bestIdx == -1 || bestScore <= 0 {
			break
		}

		best := remaining[bestIdx]
		selected = append(selected, best)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)

		for _, pt := range best.TimeSeries {
			if pt.VisibilityMetrics.IsConnectable {
				coverage[pt.Timestamp][best.SatelliteID] = true
			}
		}
	}

	return selected, coverage, grid
}
