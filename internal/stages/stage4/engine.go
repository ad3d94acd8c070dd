package stage4

import (
	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage3"
)

// Engine runs the visibility/candidate-pool/Set-Cover/coverage chain
// over a stage-3 payload (spec.md §4.6).
type Engine struct {
	Targets map[string]config.PoolTargetBand
}

// Run builds candidates, optimizes each constellation's pool via
// greedy Set-Cover, and computes the coverage analyses.
func (e *Engine) Run(upstream stage3.Payload) (Payload, error) {
	if len(upstream.Satellites) == 0 {
		return Payload{}, &pipelineerrors.InputSchemaError{Stage: 4, Detail: "stage3 payload has no satellites"}
	}

	byConstellation := buildCandidates(upstream)

	optimizedPools := make(map[string][]Candidate, len(byConstellation))
	optimizationResults := make(map[string]OptimizationResult, len(byConstellation))
	optimizedCount := 0

	for constellation, candidates := range byConstellation {
		band, ok := e.Targets[constellation]
		if !ok {
			continue // no pool target defined for this constellation; left out of optimized_pools
		}
		selected, coverage, grid := optimizePool(candidates, band)
		optimizedPools[constellation] = selected
		optimizedCount += len(selected)
		optimizationResults[constellation] = OptimizationResult{
			CoverageRate:            coverage.rate(band),
			SelectedCount:           len(selected),
			CoverageGaps:            coverageGaps(coverage, grid, band),
			ContinuousCoverageHours: continuousCoverageHours(coverage, grid, band),
		}
	}

	candidateCount := 0
	for _, candidates := range byConstellation {
		candidateCount += len(candidates)
	}

	return Payload{
		Stage:                 "stage4_link_analysis",
		ConnectableSatellites: byConstellation,
		OptimizedPools:        optimizedPools,
		NTPUAnalysis:          ntpuAnalysis(byConstellation),
		OptimizationResults:   optimizationResults,
		Metadata: Metadata{
			InputSatelliteCount: len(upstream.Satellites),
			CandidateCount:      candidateCount,
			OptimizedPoolCount:  optimizedCount,
		},
	}, nil
}
