package stage2

import (
	"context"
	"fmt"
	"math"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage1"
	"github.com/cedarwud/orbit-engine-sub004/internal/validation"
)

// Processor implements stages.Processor for stage 2 (spec.md §4.3,
// §4.4).
type Processor struct {
	Cfg     *config.Stage2Config
	BaseDir string

	lastErrs     []error
	lastWarnings []string
}

func NewProcessor(cfg *config.Stage2Config, baseDir string) *Processor {
	return &Processor{Cfg: cfg, BaseDir: baseDir}
}

// ValidateInput checks the stage-1 payload shape (spec.md §4.3).
func (p *Processor) ValidateInput(upstream interface{}) (bool, []error, []string) {
	payload, err := stage1.DecodePayload(upstream)
	if err != nil {
		return false, []error{&pipelineerrors.InputSchemaError{Stage: 2, Detail: err.Error()}}, nil
	}
	if payload.Stage != "stage1_orbital_calculation" {
		return false, []error{&pipelineerrors.InputSchemaError{Stage: 2, Detail: fmt.Sprintf("unexpected stage tag %q", payload.Stage)}}, nil
	}
	if len(payload.Satellites) == 0 {
		return false, []error{&pipelineerrors.InputSchemaError{Stage: 2, Detail: "empty satellite input"}}, nil
	}
	return true, nil, nil
}

// Process runs the Stage 2 propagation engine (spec.md §4.4). It must
// not write files.
func (p *Processor) Process(upstream interface{}) (interface{}, error) {
	payload, err := stage1.DecodePayload(upstream)
	if err != nil {
		return nil, &pipelineerrors.InputSchemaError{Stage: 2, Detail: err.Error()}
	}

	engine := &Engine{Cfg: p.Cfg}
	out, warnings, errs, err := engine.Run(context.Background(), payload.Satellites, payload.Metadata.ConstellationConfigs)
	p.lastErrs = errs
	p.lastWarnings = warnings
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateOutput enforces spec.md §4.4's structural check before
// persisting: every position is finite (no NaN or Inf). The position
// magnitude band is checked in SelfValidate, not here.
func (p *Processor) ValidateOutput(payload interface{}) (bool, []error, []string) {
	out, ok := payload.(Payload)
	if !ok {
		return false, []error{&pipelineerrors.ValidationError{Stage: 2, CheckName: "output_type", Detail: "payload is not a stage2.Payload"}}, nil
	}
	var errs []error
	for id, series := range out.Satellites {
		for _, pt := range series.TimeSeries {
			mag := math.Sqrt(pt.X*pt.X + pt.Y*pt.Y + pt.Z*pt.Z)
			if math.IsNaN(mag) || math.IsInf(mag, 0) {
				errs = append(errs, &pipelineerrors.ValidationError{Stage: 2, CheckName: "finite_position", Detail: fmt.Sprintf("satellite %s: non-finite position", id)})
			}
		}
	}
	return len(errs) == 0, errs, nil
}

// SelfValidate builds the layer-1 checklist spec.md §4.4/§4.7 requires.
func (p *Processor) SelfValidate(payload interface{}) (stages.LayerOneReport, error) {
	out, ok := payload.(Payload)
	if !ok {
		return stages.LayerOneReport{}, fmt.Errorf("stage2 self-validate: payload is not stage2.Payload")
	}

	checklist := validation.NewChecklist()

	checklist.Check("satellite_survival_rate", out.Metadata.OutputSatelliteCount >= int(0.95*float64(out.Metadata.InputSatelliteCount)))

	allFinite := true
	allInBand := true
	minLen := -1
	var sample []interface{}
	for id, series := range out.Satellites {
		if minLen == -1 || len(series.TimeSeries) < minLen {
			minLen = len(series.TimeSeries)
		}
		for _, pt := range series.TimeSeries {
			mag := math.Sqrt(pt.X*pt.X + pt.Y*pt.Y + pt.Z*pt.Z)
			vmag := math.Sqrt(pt.VX*pt.VX + pt.VY*pt.VY + pt.VZ*pt.VZ)
			if math.IsNaN(mag) || math.IsInf(mag, 0) || math.IsNaN(vmag) || math.IsInf(vmag, 0) {
				allFinite = false
			}
			if mag < 6500 || mag > 9000 {
				allInBand = false
			}
		}
		if len(sample) < validation.MaxSampleSize {
			sample = append(sample, map[string]interface{}{"satellite_id": id, "constellation": series.Constellation, "points": len(series.TimeSeries)})
		}
	}
	if minLen == -1 {
		minLen = 0
	}

	checklist.Check("no_nan_or_inf", allFinite)
	checklist.Check("position_magnitude_band", allInBand)
	checklist.Check("time_series_length", minLen >= 180)

	periodsOK := true
	for constellation, period := range out.Metadata.MeanOrbitalPeriodMinutes {
		lo, hi := config.OrbitalPeriodBandMinutes(constellation)
		if period < lo || period > hi {
			periodsOK = false
		}
	}
	checklist.Check("mean_orbital_period_band", periodsOK)

	checklist.Check("catastrophic_drop_rate", !pipelineerrors.DropRateExceeded(out.Metadata.DroppedSatelliteCount, out.Metadata.InputSatelliteCount))

	return stages.LayerOneReport{
		Stage:     2,
		StageName: "stage2_orbital_propagation",
		Checks:    checklist.Results(),
		DataSummary: map[string]interface{}{
			"satellite_count":      out.Metadata.OutputSatelliteCount,
			"dropped_count":        out.Metadata.DroppedSatelliteCount,
			"min_time_series_len":  minLen,
			"mean_orbital_periods": out.Metadata.MeanOrbitalPeriodMinutes,
		},
		Metadata: map[string]interface{}{
			"algorithm":          "SGP4 (J2 secular theory)",
			"worker_count":       out.Metadata.WorkerCount,
			"time_window_start":  out.Metadata.TimeWindowStartUTC,
			"step_seconds":       out.Metadata.StepSeconds,
		},
		Sample: sample,
	}, nil
}

// SaveValidationSnapshot persists the layer-1 report (the only
// permitted processor side effect besides returning the payload, per
// spec.md §4.3).
func (p *Processor) SaveValidationSnapshot(report stages.LayerOneReport) error {
	return stages.SaveSnapshot(p.BaseDir, report)
}

var _ stages.Processor = (*Processor)(nil)
