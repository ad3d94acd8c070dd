package stage2

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/sgp4"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage1"
	"github.com/cedarwud/orbit-engine-sub004/internal/workerpool"
)

// timeGrid is the ordered, finite, monotonically increasing sequence of
// UTC timestamps shared by every satellite in one run (spec.md §3).
func timeGrid(start time.Time, stepSeconds, pointCount int) []time.Time {
	grid := make([]time.Time, pointCount)
	step := time.Duration(stepSeconds) * time.Second
	for i := 0; i < pointCount; i++ {
		grid[i] = start.Add(time.Duration(i) * step)
	}
	return grid
}

const epochStalenessThreshold = 7 * 24 * time.Hour

type satelliteWork struct {
	sat stage1.Satellite
}

type satelliteOutcome struct {
	series SatelliteSeries
	err    error
	warn   string
}

// Engine runs the Stage 2 propagation algorithm (spec.md §4.4).
type Engine struct {
	Cfg *config.Stage2Config
}

// Run propagates every satellite over the configured time grid,
// partitioned across MaxWorkers, and returns the assembled payload
// along with per-satellite warnings/errors for the caller's layer-1
// bookkeeping.
func (e *Engine) Run(ctx context.Context, satellites []stage1.Satellite, constellationConfigs map[string]stage1.ConstellationConfig) (Payload, []string, []error, error) {
	if len(satellites) == 0 {
		return Payload{}, nil, nil, &pipelineerrors.InputSchemaError{Stage: 2, Detail: "empty satellite input"}
	}

	// The time grid's window start is a run-level input independent of
	// any satellite's TLE epoch (spec.md §3); it comes from config, not
	// from satellites[0]. An unset config start anchors the grid on the
	// wall-clock time of the run.
	windowStart := time.Now().UTC()
	if e.Cfg.TimeWindow.Start != "" {
		parsed, err := time.Parse(time.RFC3339, e.Cfg.TimeWindow.Start)
		if err != nil {
			return Payload{}, nil, nil, &pipelineerrors.ConfigError{Stage: 2, Detail: fmt.Sprintf("time_window.start must be RFC3339, got %q: %v", e.Cfg.TimeWindow.Start, err)}
		}
		windowStart = parsed
	}
	grid := timeGrid(windowStart, e.Cfg.TimeWindow.StepSeconds, e.Cfg.TimeWindow.PointCount)
	windowCenter := grid[len(grid)/2]

	items := make([]workerpool.Item[string, satelliteWork], 0, len(satellites))
	for _, sat := range satellites {
		items = append(items, workerpool.Item[string, satelliteWork]{Key: sat.SatelliteID, Value: satelliteWork{sat: sat}})
	}

	fn := func(_ context.Context, key string, work satelliteWork) (satelliteOutcome, error) {
		return propagateOne(work.sat, grid, windowCenter)
	}
	less := func(a, b workerpool.Result[string, satelliteOutcome]) bool { return a.Key < b.Key }

	start := time.Now()
	results, err := workerpool.Run(ctx, items, e.Cfg.MaxWorkers, fn, less)
	if err != nil {
		return Payload{}, nil, nil, &pipelineerrors.CancellationError{Stage: 2}
	}

	seriesByID := make(map[string]SatelliteSeries, len(results))
	var warnings []string
	var errs []error
	dropped := 0
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			dropped++
			failed++
			continue
		}
		if r.Out.warn != "" {
			warnings = append(warnings, r.Out.warn)
		}
		if r.Out.warn != "" && len(r.Out.series.TimeSeries) == 0 {
			dropped++
			continue
		}
		seriesByID[r.Key] = r.Out.series
	}

	// Epoch-staleness drops are warnings only; the fatal 5% rule counts
	// satellites that failed with a PerSatelliteError.
	if pipelineerrors.DropRateExceeded(failed, len(satellites)) {
		return Payload{}, warnings, errs, &pipelineerrors.ResourceError{Stage: 2, Detail: fmt.Sprintf("satellite failure rate exceeded 5%%: %d/%d failed", failed, len(satellites))}
	}

	meanPeriods := meanOrbitalPeriods(satellites, seriesByID)

	payload := Payload{
		Stage:      "stage2_orbital_calculation",
		Satellites: seriesByID,
		Metadata: Metadata{
			TimeWindowStartUTC:       windowStart.UTC().Format(time.RFC3339),
			StepSeconds:              e.Cfg.TimeWindow.StepSeconds,
			PointCount:               e.Cfg.TimeWindow.PointCount,
			WorkerCount:              e.Cfg.MaxWorkers,
			DurationMS:               time.Since(start).Milliseconds(),
			MeanOrbitalPeriodMinutes: meanPeriods,
			InputSatelliteCount:      len(satellites),
			OutputSatelliteCount:     len(seriesByID),
			DroppedSatelliteCount:    dropped,
			ConstellationConfigs:     constellationConfigs,
		},
	}
	return payload, warnings, errs, nil
}

// propagateOne computes the full time series for a single satellite,
// dropping satellites whose epoch is too stale (spec.md §8 boundary
// behavior) or whose TLE/propagation fails (PerSatelliteError, spec.md
// §7).
func propagateOne(sat stage1.Satellite, grid []time.Time, windowCenter time.Time) (satelliteOutcome, error) {
	epoch, err := time.Parse(time.RFC3339, sat.EpochDatetime)
	if err != nil {
		return satelliteOutcome{}, &pipelineerrors.PerSatelliteError{SatelliteID: sat.SatelliteID, Reason: fmt.Sprintf("invalid epoch: %v", err)}
	}
	if d := windowCenter.Sub(epoch); d > epochStalenessThreshold || -d > epochStalenessThreshold {
		return satelliteOutcome{warn: fmt.Sprintf("satellite %s: epoch staleness, dropped (epoch %s, window center %s)", sat.SatelliteID, epoch, windowCenter)}, nil
	}

	el, err := sgp4.ParseElements(sat.TLELine1, sat.TLELine2)
	if err != nil {
		return satelliteOutcome{}, &pipelineerrors.PerSatelliteError{SatelliteID: sat.SatelliteID, Reason: fmt.Sprintf("TLE parse: %v", err)}
	}

	points := make([]TimeSeriesPoint, 0, len(grid))
	for _, t := range grid {
		deltaMinutes := t.Sub(epoch).Minutes()
		state, err := sgp4.Propagate(el, deltaMinutes)
		if err != nil {
			return satelliteOutcome{}, &pipelineerrors.PerSatelliteError{SatelliteID: sat.SatelliteID, Reason: fmt.Sprintf("propagate: %v", err)}
		}
		if !finite(state.PositionKM) || !finite(state.VelocityKMS) {
			return satelliteOutcome{}, &pipelineerrors.PerSatelliteError{SatelliteID: sat.SatelliteID, Reason: "non-finite propagated state"}
		}
		points = append(points, TimeSeriesPoint{
			Timestamp:         t.UTC().Format(time.RFC3339),
			MinutesSinceEpoch: deltaMinutes,
			X:                 state.PositionKM.X,
			Y:                 state.PositionKM.Y,
			Z:                 state.PositionKM.Z,
			VX:                state.VelocityKMS.X,
			VY:                state.VelocityKMS.Y,
			VZ:                state.VelocityKMS.Z,
		})
	}

	return satelliteOutcome{series: SatelliteSeries{
		Constellation: sat.Constellation,
		NoradID:       sat.NoradID,
		Name:          sat.Name,
		TimeSeries:    points,
	}}, nil
}

func finite(v r3.Vec) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// meanOrbitalPeriods derives the per-constellation mean orbital period
// in minutes from each surviving satellite's mean motion (rev/day),
// re-parsed from its TLE rather than carried forward, since Stage 2's
// own output doesn't retain mean motion directly.
func meanOrbitalPeriods(satellites []stage1.Satellite, surviving map[string]SatelliteSeries) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, sat := range satellites {
		if _, ok := surviving[sat.SatelliteID]; !ok {
			continue
		}
		el, err := sgp4.ParseElements(sat.TLELine1, sat.TLELine2)
		if err != nil || el.MeanMotionRevDay <= 0 {
			continue
		}
		periodMinutes := 1440.0 / el.MeanMotionRevDay
		sums[sat.Constellation] += periodMinutes
		counts[sat.Constellation]++
	}
	out := make(map[string]float64, len(sums))
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out[name] = sums[name] / float64(counts[name])
	}
	return out
}
