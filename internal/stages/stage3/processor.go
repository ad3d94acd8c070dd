package stage3

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cedarwud/orbit-engine-sub004/internal/artifact"
	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/iers"
	"github.com/cedarwud/orbit-engine-sub004/internal/runtimectx"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage2"
	"github.com/cedarwud/orbit-engine-sub004/internal/validation"
)

// Processor implements stages.Processor for stage 3 (spec.md §4.5):
// TEME->ECEF->geodetic coordinate transformation, content-addressed
// and cached.
type Processor struct {
	Cfg     *config.Stage3Config
	BaseDir string

	cacheHit    bool
	contentHash string
}

func NewProcessor(cfg *config.Stage3Config, baseDir string) *Processor {
	return &Processor{Cfg: cfg, BaseDir: baseDir}
}

// ValidateInput checks the stage-2 payload shape.
func (p *Processor) ValidateInput(upstream interface{}) (bool, []error, []string) {
	payload, err := stage2.DecodePayload(upstream)
	if err != nil {
		return false, []error{&pipelineerrors.InputSchemaError{Stage: 3, Detail: err.Error()}}, nil
	}
	if payload.Stage != "stage2_orbital_calculation" {
		return false, []error{&pipelineerrors.InputSchemaError{Stage: 3, Detail: fmt.Sprintf("unexpected stage tag %q", payload.Stage)}}, nil
	}
	if len(payload.Satellites) == 0 {
		return false, []error{&pipelineerrors.InputSchemaError{Stage: 3, Detail: "empty satellite input"}}, nil
	}
	return true, nil, nil
}

// cachePath returns the path of the stage-3 content-addressed blob
// store. Unlike spec.md §6's one-cache-file-per-hash naming,
// TensorStore is itself a multi-entry content-addressed store, so a
// single shared file holds every cached stage-3 result.
func (p *Processor) cachePath() string {
	return filepath.Join(p.BaseDir, "cache", "stage3", "stage3_cache.db")
}

// Process runs the Stage 3 coordinate-transformation engine (spec.md
// §4.5), short-circuiting on a cache hit keyed by CacheKey.
func (p *Processor) Process(upstream interface{}) (interface{}, error) {
	payload, err := stage2.DecodePayload(upstream)
	if err != nil {
		return nil, &pipelineerrors.InputSchemaError{Stage: 3, Detail: err.Error()}
	}

	hash := CacheKey(payload, p.Cfg)
	p.contentHash = hash

	store, err := artifact.OpenTensorStore(p.cachePath())
	if err != nil {
		return nil, &pipelineerrors.ResourceError{Stage: 3, Detail: err.Error()}
	}
	defer store.Close()

	now := time.Now()
	if p.Cfg.Cache.Enabled {
		hit, err := store.Has(hash)
		if err != nil {
			return nil, &pipelineerrors.ResourceError{Stage: 3, Detail: err.Error()}
		}
		if hit {
			var out Payload
			if err := store.Get(hash, &out, now); err != nil {
				return nil, &pipelineerrors.ResourceError{Stage: 3, Detail: err.Error()}
			}
			out.Metadata.CacheHit = true
			out.Metadata.ContentHash = hash
			p.cacheHit = true
			return out, nil
		}
	}

	rt := runtimectx.RuntimeContext{
		IERS:       iers.Default(),
		MaxWorkers: p.Cfg.Parallel.MaxWorkers,
	}
	engine := &Engine{Cfg: p.Cfg, Rt: rt}
	out, _, _, err := engine.Run(context.Background(), payload)
	if err != nil {
		return nil, err
	}
	out.Metadata.ContentHash = hash
	out.Metadata.CacheHit = false

	if p.Cfg.Cache.Enabled {
		if _, err := store.Put(out, now); err != nil {
			return nil, &pipelineerrors.ResourceError{Stage: 3, Detail: err.Error()}
		}
		maxBytes := int64(p.Cfg.Cache.MaxSizeMB) * 1024 * 1024
		minAge := time.Duration(p.Cfg.Cache.MinAgeHours) * time.Hour
		if _, _, err := store.EvictLRUOverMinAge(maxBytes, minAge, now); err != nil {
			return nil, &pipelineerrors.ResourceError{Stage: 3, Detail: err.Error()}
		}
	}

	return out, nil
}

// ValidateOutput enforces spec.md §4.5's geodetic/topocentric range
// checks before persisting.
func (p *Processor) ValidateOutput(payload interface{}) (bool, []error, []string) {
	out, ok := payload.(Payload)
	if !ok {
		return false, []error{&pipelineerrors.ValidationError{Stage: 3, CheckName: "output_type", Detail: "payload is not a stage3.Payload"}}, nil
	}
	var errs []error
	for id, series := range out.Satellites {
		for _, pt := range series.TimeSeries {
			if pt.Position.LatDeg < -90 || pt.Position.LatDeg > 90 {
				errs = append(errs, &pipelineerrors.ValidationError{Stage: 3, CheckName: "latitude_range", Detail: fmt.Sprintf("satellite %s: lat %f out of range", id, pt.Position.LatDeg)})
			}
			if pt.Position.LonDeg < -180 || pt.Position.LonDeg > 180 {
				errs = append(errs, &pipelineerrors.ValidationError{Stage: 3, CheckName: "longitude_range", Detail: fmt.Sprintf("satellite %s: lon %f out of range", id, pt.Position.LonDeg)})
			}
			if pt.VisibilityMetrics.ElevationDeg < -90 || pt.VisibilityMetrics.ElevationDeg > 90 {
				errs = append(errs, &pipelineerrors.ValidationError{Stage: 3, CheckName: "elevation_range", Detail: fmt.Sprintf("satellite %s: elevation %f out of range", id, pt.VisibilityMetrics.ElevationDeg)})
			}
			if pt.VisibilityMetrics.AzimuthDeg < 0 || pt.VisibilityMetrics.AzimuthDeg > 360 {
				errs = append(errs, &pipelineerrors.ValidationError{Stage: 3, CheckName: "azimuth_range", Detail: fmt.Sprintf("satellite %s: azimuth %f out of range", id, pt.VisibilityMetrics.AzimuthDeg)})
			}
		}
	}
	return len(errs) == 0, errs, nil
}

// SelfValidate builds the layer-1 checklist spec.md §4.5/§4.7 requires.
func (p *Processor) SelfValidate(payload interface{}) (stages.LayerOneReport, error) {
	out, ok := payload.(Payload)
	if !ok {
		return stages.LayerOneReport{}, fmt.Errorf("stage3 self-validate: payload is not stage3.Payload")
	}

	checklist := validation.NewChecklist()
	checklist.Check("satellite_survival_rate", out.Metadata.OutputSatelliteCount >= int(0.95*float64(out.Metadata.InputSatelliteCount)))

	latOK, lonOK, altOK, elevOK, azOK := true, true, true, true, true
	minLen := -1
	var sample []interface{}
	for id, series := range out.Satellites {
		if minLen == -1 || len(series.TimeSeries) < minLen {
			minLen = len(series.TimeSeries)
		}
		for _, pt := range series.TimeSeries {
			if pt.Position.LatDeg < -90 || pt.Position.LatDeg > 90 {
				latOK = false
			}
			if pt.Position.LonDeg < -180 || pt.Position.LonDeg > 180 {
				lonOK = false
			}
			if pt.Position.AltKM < 150 || pt.Position.AltKM > 2500 {
				altOK = false
			}
			if pt.VisibilityMetrics.ElevationDeg < -90 || pt.VisibilityMetrics.ElevationDeg > 90 {
				elevOK = false
			}
			if pt.VisibilityMetrics.AzimuthDeg < 0 || pt.VisibilityMetrics.AzimuthDeg > 360 {
				azOK = false
			}
		}
		if len(sample) < validation.MaxSampleSize {
			sample = append(sample, map[string]interface{}{"satellite_id": id, "constellation": series.Constellation, "points": len(series.TimeSeries)})
		}
	}
	if minLen == -1 {
		minLen = 0
	}

	checklist.Check("latitude_band", latOK)
	checklist.Check("longitude_band", lonOK)
	checklist.Check("altitude_band", altOK)
	checklist.Check("elevation_band", elevOK)
	checklist.Check("azimuth_band", azOK)
	checklist.Check("catastrophic_drop_rate", !pipelineerrors.DropRateExceeded(out.Metadata.DroppedSatelliteCount, out.Metadata.InputSatelliteCount))

	return stages.LayerOneReport{
		Stage:     3,
		StageName: "stage3_coordinate_transformation",
		Checks:    checklist.Results(),
		DataSummary: map[string]interface{}{
			"satellite_count": out.Metadata.OutputSatelliteCount,
			"dropped_count":   out.Metadata.DroppedSatelliteCount,
			"min_time_series_len": minLen,
		},
		Metadata: map[string]interface{}{
			"content_hash":     out.Metadata.ContentHash,
			"cache_hit":        out.Metadata.CacheHit,
			"nutation_model":   out.Metadata.NutationModel,
			"target_accuracy_m": out.Metadata.TargetAccuracyM,
		},
		Sample: sample,
	}, nil
}

// SaveValidationSnapshot persists the layer-1 report.
func (p *Processor) SaveValidationSnapshot(report stages.LayerOneReport) error {
	return stages.SaveSnapshot(p.BaseDir, report)
}

var _ stages.Processor = (*Processor)(nil)
