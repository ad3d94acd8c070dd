// Package stage1 is the typed boundary to the external TLE-loading
// collaborator (spec.md §1: "TLE file loading and format/checksum
// validation" is explicitly out of scope). It defines only the payload
// shape stage 2 consumes (spec.md §6) and a passthrough Executor so the
// registry can describe the full six-stage chain.
package stage1

import (
	"fmt"

	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages"
)

// Satellite is one TLE record as handed to stage 2 (spec.md §6).
type Satellite struct {
	SatelliteID   string `json:"satellite_id"`
	Name          string `json:"name"`
	NoradID       string `json:"norad_id"`
	Constellation string `json:"constellation"`
	TLELine1      string `json:"tle_line1"`
	TLELine2      string `json:"tle_line2"`
	EpochDatetime string `json:"epoch_datetime"`
}

// ObservationLocation describes the fixed ground station as surfaced in
// stage-1 metadata (spec.md §6).
type ObservationLocation struct {
	Name   string  `json:"name"`
	LatDeg float64 `json:"lat"`
	LonDeg float64 `json:"lon"`
	AltM   float64 `json:"alt_m"`
}

// ConstellationConfig is a per-constellation override carried forward
// from stage 1 (spec.md §6: "constellation-specific elevation
// thresholds are inherited from stage-1 config"). A zero
// ElevationThresholdDeg means stage 1 did not override the
// constellation's default threshold.
type ConstellationConfig struct {
	ElevationThresholdDeg float64 `json:"elevation_threshold_deg"`
}

// Metadata is the stage-1 payload's metadata block.
type Metadata struct {
	ConstellationConfigs  map[string]ConstellationConfig `json:"constellation_configs"`
	ResearchConfiguration struct {
		ObservationLocation ObservationLocation `json:"observation_location"`
	} `json:"research_configuration"`
}

// Payload is the stage-1 output (spec.md §6): "stage1_orbital_calculation".
type Payload struct {
	Stage      string      `json:"stage"`
	Satellites []Satellite `json:"satellites"`
	Metadata   Metadata    `json:"metadata"`
}

// PassthroughExecutor satisfies stages.Executor for stage 1 without
// performing any TLE loading itself — the external collaborator is
// assumed to have already produced outputs/stage1/stage1_output_*.json
// on disk by the time the controller resolves this stage.
type PassthroughExecutor struct{}

func (PassthroughExecutor) StageNumber() int       { return 1 }
func (PassthroughExecutor) StageName() string      { return "stage1_tle_loading" }
func (PassthroughExecutor) RequiresUpstream() bool { return false }
func (PassthroughExecutor) OutputPattern() string  { return "stage1_output" }

func (PassthroughExecutor) LoadConfig() (interface{}, error) { return nil, nil }

func (PassthroughExecutor) CreateProcessor(interface{}) (stages.Processor, error) {
	return nil, &pipelineerrors.ConfigError{Stage: 1, Detail: "stage 1 is an external collaborator boundary and has no in-process processor"}
}

var _ stages.Executor = PassthroughExecutor{}

// DecodePayload re-decodes a generic upstream map (as loaded from disk
// by the controller template) into a typed stage-1 Payload.
func DecodePayload(raw interface{}) (Payload, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return Payload{}, fmt.Errorf("stage1 upstream payload: expected object, got %T", raw)
	}
	return decodeViaJSON(m)
}
