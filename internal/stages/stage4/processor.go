package stage4

import (
	"fmt"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage1"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage3"
	"github.com/cedarwud/orbit-engine-sub004/internal/validation"
)

// Processor implements stages.Processor for stage 4 (spec.md §4.6):
// candidate pools, greedy Set-Cover optimization, NTPU coverage
// analysis.
type Processor struct {
	Cfg     *config.Stage4Config
	BaseDir string

	// lastConstellationConfigs is stage 1's per-constellation overrides,
	// forwarded unchanged through stage 2 and stage 3's metadata, kept
	// here so SelfValidate can confirm config_source_priority.auto_merge_stage1
	// actually took effect upstream (spec.md §6).
	lastConstellationConfigs map[string]stage1.ConstellationConfig
}

func NewProcessor(cfg *config.Stage4Config, baseDir string) *Processor {
	return &Processor{Cfg: cfg, BaseDir: baseDir}
}

func (p *Processor) targets() map[string]config.PoolTargetBand {
	bands := make(map[string]config.PoolTargetBand, len(p.Cfg.PoolOptimizationTargets))
	for constellation, t := range p.Cfg.PoolOptimizationTargets {
		bands[constellation] = config.PoolTargetBand{
			TargetMin: t.MinPoolSize,
			TargetMax: t.MaxPoolSize,
			HardCap:   t.MaxPoolSize,
		}
	}
	return bands
}

// ValidateInput checks the stage-3 payload shape.
func (p *Processor) ValidateInput(upstream interface{}) (bool, []error, []string) {
	payload, err := stage3.DecodePayload(upstream)
	if err != nil {
		return false, []error{&pipelineerrors.InputSchemaError{Stage: 4, Detail: err.Error()}}, nil
	}
	if payload.Stage != "stage3_coordinate_transformation_real" {
		return false, []error{&pipelineerrors.InputSchemaError{Stage: 4, Detail: fmt.Sprintf("unexpected stage tag %q", payload.Stage)}}, nil
	}
	if len(payload.Satellites) == 0 {
		return false, []error{&pipelineerrors.InputSchemaError{Stage: 4, Detail: "empty satellite input"}}, nil
	}
	return true, nil, nil
}

// Process runs the Stage 4 visibility/pool engine.
func (p *Processor) Process(upstream interface{}) (interface{}, error) {
	payload, err := stage3.DecodePayload(upstream)
	if err != nil {
		return nil, &pipelineerrors.InputSchemaError{Stage: 4, Detail: err.Error()}
	}

	p.lastConstellationConfigs = payload.Metadata.ConstellationConfigs

	engine := &Engine{Targets: p.targets()}
	return engine.Run(payload)
}

// ValidateOutput enforces spec.md §4.6.3/§4.6.4's acceptance criteria
// before persisting: Starlink coverage_rate >= 0.95 is hard, zero
// critical gaps is mandatory across all constellations.
func (p *Processor) ValidateOutput(payload interface{}) (bool, []error, []string) {
	out, ok := payload.(Payload)
	if !ok {
		return false, []error{&pipelineerrors.ValidationError{Stage: 4, CheckName: "output_type", Detail: "payload is not a stage4.Payload"}}, nil
	}
	var errs []error
	var warnings []string

	if starlink, ok := out.OptimizationResults[config.ConstellationStarlink]; ok {
		if starlink.CoverageRate < 0.95 {
			errs = append(errs, &pipelineerrors.ValidationError{Stage: 4, CheckName: "starlink_coverage_rate", Detail: fmt.Sprintf("coverage_rate %f below 0.95", starlink.CoverageRate)})
		}
	}
	if oneweb, ok := out.OptimizationResults[config.ConstellationOneWeb]; ok {
		if oneweb.CoverageRate < 0.90 {
			warnings = append(warnings, fmt.Sprintf("oneweb coverage_rate %f below soft threshold 0.90", oneweb.CoverageRate))
		}
	}
	for constellation, result := range out.OptimizationResults {
		for _, gap := range result.CoverageGaps {
			if gap.Severity == "critical" {
				errs = append(errs, &pipelineerrors.ValidationError{Stage: 4, CheckName: "zero_critical_gaps", Detail: fmt.Sprintf("%s: critical gap %s-%s", constellation, gap.StartTimestamp, gap.EndTimestamp)})
			}
		}
	}
	return len(errs) == 0, errs, warnings
}

// SelfValidate builds the layer-1 checklist spec.md §4.6.4/§4.7
// requires.
func (p *Processor) SelfValidate(payload interface{}) (stages.LayerOneReport, error) {
	out, ok := payload.(Payload)
	if !ok {
		return stages.LayerOneReport{}, fmt.Errorf("stage4 self-validate: payload is not stage4.Payload")
	}

	checklist := validation.NewChecklist()

	starlinkOK := true
	if starlink, ok := out.OptimizationResults[config.ConstellationStarlink]; ok {
		starlinkOK = starlink.CoverageRate >= 0.95
	}
	checklist.Check("starlink_coverage_rate", starlinkOK)

	onewebOK := true
	if oneweb, ok := out.OptimizationResults[config.ConstellationOneWeb]; ok {
		onewebOK = oneweb.CoverageRate >= 0.90
	}
	checklist.Check("oneweb_coverage_rate", onewebOK)

	zeroCritical := true
	for _, result := range out.OptimizationResults {
		for _, gap := range result.CoverageGaps {
			if gap.Severity == "critical" {
				zeroCritical = false
			}
		}
	}
	checklist.Check("zero_critical_gaps", zeroCritical)

	hardCapsRespected := true
	for constellation, pool := range out.OptimizedPools {
		band, ok := p.targets()[constellation]
		if ok && len(pool) > band.HardCap {
			hardCapsRespected = false
		}
	}
	checklist.Check("pool_within_hard_cap", hardCapsRespected)

	checklist.Check("candidate_pool_non_empty", out.Metadata.CandidateCount > 0)

	checklist.Check("elevation_threshold_inherited_from_stage1", p.stage1ThresholdsHonored(out))

	var sample []interface{}
	for constellation, pool := range out.OptimizedPools {
		if len(sample) >= validation.MaxSampleSize {
			break
		}
		sample = append(sample, map[string]interface{}{"constellation": constellation, "selected_count": len(pool)})
	}

	return stages.LayerOneReport{
		Stage:     4,
		StageName: "stage4_visibility_pool_optimization",
		Checks:    checklist.Results(),
		DataSummary: map[string]interface{}{
			"candidate_count":      out.Metadata.CandidateCount,
			"optimized_pool_count": out.Metadata.OptimizedPoolCount,
			"optimization_results": out.OptimizationResults,
		},
		Metadata: map[string]interface{}{
			"input_satellite_count": out.Metadata.InputSatelliteCount,
		},
		Sample: sample,
	}, nil
}

// stage1ThresholdsHonored checks that, when config_source_priority.
// auto_merge_stage1 is set, every candidate point in a constellation
// stage 1 overrode actually carries that override's threshold (spec.md
// §6: "constellation-specific elevation thresholds are inherited from
// stage-1 config"). With the flag off, or no stage-1 override present,
// there is nothing to inherit and the check trivially passes.
func (p *Processor) stage1ThresholdsHonored(out Payload) bool {
	if !p.Cfg.ConfigSourcePriority.AutoMergeStage1 {
		return true
	}
	for constellation, override := range p.lastConstellationConfigs {
		if override.ElevationThresholdDeg <= 0 {
			continue
		}
		for _, candidate := range out.ConnectableSatellites[constellation] {
			for _, pt := range candidate.TimeSeries {
				if pt.VisibilityMetrics.ThresholdApplied != override.ElevationThresholdDeg {
					return false
				}
			}
		}
	}
	return true
}

// SaveValidationSnapshot persists the layer-1 report.
func (p *Processor) SaveValidationSnapshot(report stages.LayerOneReport) error {
	return stages.SaveSnapshot(p.BaseDir, report)
}

var _ stages.Processor = (*Processor)(nil)
