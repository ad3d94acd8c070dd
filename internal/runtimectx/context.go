// Package runtimectx carries the pipeline's per-run dependencies as an
// explicit value rather than package-level globals or environment-
// variable lookups scattered through the stages (spec §9: "Global
// mutable state → explicit context").
//
// Grounded on the teacher's SensorRuntime bundle
// (internal/lidar/pipeline/runtime.go), which plays the same role for
// per-sensor dependencies (frame builder, background manager, analysis
// run manager) instead of package-level singletons.
package runtimectx

import (
	"github.com/cedarwud/orbit-engine-sub004/internal/config"
)

// RuntimeContext bundles the config, the IERS table handle, and the
// worker count for a single pipeline run. It is constructed once by the
// controller and passed by value (its IERS field is a pointer, shared
// read-only) into each stage's processor.
type RuntimeContext struct {
	Env        config.ProcessEnv
	GroundStation config.GroundStation
	IERS       IERSTable
	MaxWorkers int
	RunID      string
}

// IERSTable is the read-only handle to IERS Bulletin A data (UT1-UTC,
// polar motion), loaded once per stage-3 run (spec §5: "IERS table:
// loaded once per stage-3 run, read-only thereafter").
type IERSTable interface {
	// UT1MinusUTC returns the UT1-UTC offset in seconds for the given
	// MJD (modified Julian date).
	UT1MinusUTC(mjd float64) float64
	// PolarMotion returns (xp, yp) in arcseconds for the given MJD.
	PolarMotion(mjd float64) (xp, yp float64)
}

// New builds a RuntimeContext for a run, defaulting MaxWorkers from the
// process environment when not explicitly overridden by a stage config.
func New(env config.ProcessEnv, iers IERSTable, runID string) RuntimeContext {
	return RuntimeContext{
		Env:           env,
		GroundStation: config.NTPU,
		IERS:          iers,
		MaxWorkers:    env.MaxWorkers,
		RunID:         runID,
	}
}
