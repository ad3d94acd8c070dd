// Package errors defines the pipeline's error taxonomy (spec §7).
//
// Every non-PerSatelliteError type here is fatal once returned from a
// stage boundary: the controller halts the run rather than continuing
// with partial results. PerSatelliteError is the sole recoverable kind;
// it is meant to be collected and counted by a stage, not returned
// directly to the controller.
package errors

import "fmt"

// ConfigError signals malformed YAML, an unknown key type, or a missing
// required constant. Surfaced at processor construction.
type ConfigError struct {
	Stage  int
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("stage %d: config error: %s", e.Stage, e.Detail)
}

// InputSchemaError signals an upstream payload missing expected fields or
// a mismatched stage tag. Surfaced by validate_input.
type InputSchemaError struct {
	Stage  int
	Detail string
}

func (e *InputSchemaError) Error() string {
	return fmt.Sprintf("stage %d: input schema error: %s", e.Stage, e.Detail)
}

// PerSatelliteError wraps a recoverable per-satellite failure (SGP4
// numeric failure, TLE decode failure, bad geodetic conversion). It is
// logged and the satellite is dropped; it only becomes fatal when the
// aggregate drop rate exceeds 5% of the stage's input.
type PerSatelliteError struct {
	SatelliteID string
	Reason      string
}

func (e *PerSatelliteError) Error() string {
	return fmt.Sprintf("satellite %s: %s", e.SatelliteID, e.Reason)
}

// ValidationError signals a layer-1 or layer-2 check failure. Fatal; the
// pipeline halts with the failing check's message.
type ValidationError struct {
	Stage     int
	CheckName string
	Detail    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("stage %d: validation check %q failed: %s", e.Stage, e.CheckName, e.Detail)
}

// ResourceError signals a disk write failure or IERS download failure.
// Fatal for the current stage; no retries are attempted.
type ResourceError struct {
	Stage  int
	Detail string
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("stage %d: resource error: %s", e.Stage, e.Detail)
}

// CancellationError signals an explicit stop request. Fatal, status
// failed.
type CancellationError struct {
	Stage int
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("stage %d: cancelled", e.Stage)
}

// DropRateExceeded reports whether the fraction of per-satellite
// failures out of total input crosses the 5% catastrophic threshold
// from spec §4.4/§7.
func DropRateExceeded(dropped, total int) bool {
	if total == 0 {
		return false
	}
	return float64(dropped)/float64(total) > 0.05
}
