package stage3

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	"github.com/cedarwud/orbit-engine-sub004/internal/coord"
	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/runtimectx"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage1"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage2"
	"github.com/cedarwud/orbit-engine-sub004/internal/workerpool"
)

// satelliteWork is one satellite's stage-2 series plus the per-run
// ground station ECEF fix (precomputed once, shared read-only across
// workers per spec §4.5 step 5).
type satelliteWork struct {
	id            string
	series        stage2.SatelliteSeries
	stationECEF   r3.Vec
}

// Engine runs the TEME->ECEF->geodetic->topocentric chain over a
// stage-2 payload, partitioned by satellite across a worker pool
// (spec §4.5 step 6, same partition scheme as stage 2).
type Engine struct {
	Cfg   *config.Stage3Config
	Rt    runtimectx.RuntimeContext
}

// Run transforms every satellite's time series. It never drops a
// satellite outright (unlike stage 2's epoch-staleness rule): a point
// whose transform is non-finite is skipped, and a satellite becomes a
// PerSatelliteError and is dropped only when every one of its points
// fails.
func (e *Engine) Run(ctx context.Context, upstream stage2.Payload) (Payload, []string, []error, error) {
	if len(upstream.Satellites) == 0 {
		return Payload{}, nil, nil, &pipelineerrors.InputSchemaError{Stage: 3, Detail: "stage2 payload has no satellites"}
	}

	station := config.NTPU
	stationECEF := coord.GeodeticToECEF(station.LatDeg, station.LonDeg, station.AltitudeM)
	thresholds := resolveElevationThresholds(e.Cfg, upstream.Metadata.ConstellationConfigs)

	items := make([]workerpool.Item[string, satelliteWork], 0, len(upstream.Satellites))
	for id, series := range upstream.Satellites {
		items = append(items, workerpool.Item[string, satelliteWork]{
			Key:   id,
			Value: satelliteWork{id: id, series: series, stationECEF: stationECEF},
		})
	}

	maxWorkers := e.Cfg.Parallel.MaxWorkers
	if e.Rt.MaxWorkers > 0 {
		maxWorkers = e.Rt.MaxWorkers
	}

	results, err := workerpool.Run(ctx, items, maxWorkers,
		func(ctx context.Context, key string, value satelliteWork) (SatelliteSeries, error) {
			return e.transformOne(value, station, thresholds)
		},
		func(a, b workerpool.Result[string, SatelliteSeries]) bool { return a.Key < b.Key },
	)
	if err != nil {
		return Payload{}, nil, nil, err
	}

	out := make(map[string]SatelliteSeries, len(results))
	var warnings []string
	var errs []error
	dropped := 0
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			warnings = append(warnings, fmt.Sprintf("satellite %s dropped: %v", r.Key, r.Err))
			dropped++
			continue
		}
		out[r.Key] = r.Out
	}

	if pipelineerrors.DropRateExceeded(dropped, len(upstream.Satellites)) {
		return Payload{}, warnings, errs, &pipelineerrors.ValidationError{
			Stage: 3, CheckName: "catastrophic_drop_rate",
			Detail: fmt.Sprintf("%d/%d satellites dropped, exceeds 5%%", dropped, len(upstream.Satellites)),
		}
	}

	payload := Payload{
		Stage:      "stage3_coordinate_transformation_real",
		Satellites: out,
		Metadata: Metadata{
			CoordinateSystem:      e.Cfg.Coordinate.TargetFrame,
			NutationModel:         e.Cfg.Coordinate.NutationModel,
			PolarMotion:           e.Cfg.Coordinate.PolarMotion,
			TargetAccuracyM:       e.Cfg.Precision.TargetAccuracyM,
			InputSatelliteCount:   len(upstream.Satellites),
			OutputSatelliteCount:  len(out),
			DroppedSatelliteCount: dropped,
			ConstellationConfigs:  upstream.Metadata.ConstellationConfigs,
		},
	}
	return payload, warnings, errs, nil
}

// transformOne converts one satellite's full stage-2 time series to
// geodetic + visibility records. A per-timestamp failure (unparseable
// timestamp or non-finite geodetic/topocentric result) skips that point
// without recording it; the satellite as a whole only fails, with a
// PerSatelliteError, if none of its points survive.
func (e *Engine) transformOne(w satelliteWork, station config.GroundStation, thresholds map[string]float64) (SatelliteSeries, error) {
	points := make([]TimeSeriesPoint, 0, len(w.series.TimeSeries))
	threshold, ok := thresholds[w.series.Constellation]
	if !ok {
		threshold = config.ElevationThresholdDeg(w.series.Constellation)
	}

	for _, p := range w.series.TimeSeries {
		ts, err := time.Parse(time.RFC3339, p.Timestamp)
		if err != nil {
			continue
		}
		teme := r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
		ecef := coord.TEMEToECEF(teme, ts, e.Rt.IERS)
		latDeg, lonDeg, altM := coord.ECEFToGeodetic(ecef)
		if !finite3(latDeg, lonDeg, altM) {
			continue
		}

		topo := coord.ComputeTopocentric(station.LatDeg, station.LonDeg, w.stationECEF, ecef)
		if !finite3(topo.ElevationDeg, topo.AzimuthDeg, topo.SlantRangeKM) {
			continue
		}

		connectable := topo.ElevationDeg >= threshold && topo.SlantRangeKM >= config.SlantRangeFloorKM

		points = append(points, TimeSeriesPoint{
			Timestamp: p.Timestamp,
			VisibilityMetrics: VisibilityMetrics{
				ElevationDeg:     topo.ElevationDeg,
				AzimuthDeg:       topo.AzimuthDeg,
				DistanceKM:       topo.SlantRangeKM,
				IsConnectable:    connectable,
				ThresholdApplied: threshold,
			},
			Position: Position{LatDeg: latDeg, LonDeg: lonDeg, AltKM: altM / 1000},
		})
	}

	if len(points) == 0 {
		return SatelliteSeries{}, &pipelineerrors.PerSatelliteError{SatelliteID: w.id, Reason: "no timestamp produced a finite coordinate transform"}
	}

	return SatelliteSeries{Constellation: w.series.Constellation, TimeSeries: points}, nil
}

// resolveElevationThresholds builds the per-constellation threshold
// lookup used by transformOne: the spec-default constant
// (config.ElevationThresholdDeg), overridden by stage 1's
// ConstellationConfigs when cfg.ConfigSourcePriority.AutoMergeStage1 is
// set and stage 1 supplied a non-zero override for that constellation
// (spec.md §6: "constellation-specific elevation thresholds are
// inherited from stage-1 config").
func resolveElevationThresholds(cfg *config.Stage3Config, fromStage1 map[string]stage1.ConstellationConfig) map[string]float64 {
	thresholds := map[string]float64{
		config.ConstellationStarlink: config.ElevationThresholdDeg(config.ConstellationStarlink),
		config.ConstellationOneWeb:   config.ElevationThresholdDeg(config.ConstellationOneWeb),
	}
	if !cfg.ConfigSourcePriority.AutoMergeStage1 {
		return thresholds
	}
	for constellation, override := range fromStage1 {
		if override.ElevationThresholdDeg > 0 {
			thresholds[constellation] = override.ElevationThresholdDeg
		}
	}
	return thresholds
}

func finite3(a, b, c float64) bool {
	return finite1(a) && finite1(b) && finite1(c)
}

func finite1(v float64) bool {
	return v == v && v < 1e18 && v > -1e18 // excludes NaN and runaway magnitudes
}
