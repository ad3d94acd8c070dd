package stage4

import (
	"testing"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
)

// buildSyntheticCoverage fabricates a coverageSet whose per-timestamp
// visible count matches counts, using distinct dummy satellite ids per
// slot so len(coverage[t]) == counts[i].
func buildSyntheticCoverage(grid []string, counts []int) coverageSet {
	cov := newCoverageSet(grid)
	for i, t := range grid {
		for s := 0; s < counts[i]; s++ {
			cov[t][string(rune('a'+s))] = true
		}
	}
	return cov
}

// TestCoverageGaps_SingleCriticalGap mirrors spec.md §8 seed scenario
// 4: 100 timestamps with visible counts [10]*40 + [0]*5 + [10]*55,
// target band [10,15]. Expects coverage_rate 0.95 and one critical gap
// of duration 5*step (min_visible=0).
func TestCoverageGaps_SingleCriticalGap(t *testing.T) {
	grid := gridOf(100, 30)
	counts := make([]int, 100)
	for i := range counts {
		switch {
		case i < 40:
			counts[i] = 10
		case i < 45:
			counts[i] = 0
		default:
			counts[i] = 10
		}
	}
	cov := buildSyntheticCoverage(grid, counts)
	band := config.PoolTargetBand{TargetMin: 10, TargetMax: 15, HardCap: 15}

	rate := cov.rate(band)
	if rate != 0.95 {
		t.Errorf("expected coverage_rate 0.95, got %f", rate)
	}

	gaps := coverageGaps(cov, grid, band)
	if len(gaps) != 1 {
		t.Fatalf("expected exactly 1 gap, got %d: %v", len(gaps), gaps)
	}
	gap := gaps[0]
	if gap.Severity != "critical" {
		t.Errorf("expected critical severity, got %s", gap.Severity)
	}
	if gap.MinVisible != 0 {
		t.Errorf("expected min_visible 0, got %d", gap.MinVisible)
	}
	wantDuration := 5 * 30.0 / 60
	if gap.DurationMin != wantDuration {
		t.Errorf("expected duration %f min, got %f", wantDuration, gap.DurationMin)
	}
}

func TestContinuousCoverageHours_LongestRun(t *testing.T) {
	grid := gridOf(10, 60)
	counts := []int{10, 10, 10, 0, 10, 10, 10, 10, 0, 10}
	cov := buildSyntheticCoverage(grid, counts)
	band := config.PoolTargetBand{TargetMin: 10, TargetMax: 15, HardCap: 15}

	hours := continuousCoverageHours(cov, grid, band)
	want := 4 * 60.0 / 3600
	if hours != want {
		t.Errorf("expected %f hours, got %f", want, hours)
	}
}
