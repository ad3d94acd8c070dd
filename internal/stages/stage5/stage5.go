// Package stage5 is the typed boundary to the external signal-analysis
// collaborator (spec.md §1: "3GPP RSRP/RSRQ/SINR and ITU-R P.676
// atmospheric attenuation computations" is explicitly out of scope). It
// defines the payload shape downstream collaborators expect from stage
// 4 and a passthrough Executor so the registry can describe the full
// six-stage chain.
package stage5

import (
	"fmt"

	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages"
)

// Payload is the stage-5 output (spec.md §6): "stage5_signal_analysis".
// Its field shape is opaque to this pipeline — stage 6 only needs the
// stage tag to validate the boundary.
type Payload struct {
	Stage string                 `json:"stage"`
	Data  map[string]interface{} `json:"-"`
}

// PassthroughExecutor satisfies stages.Executor for stage 5 without
// performing any signal analysis itself — the external collaborator is
// assumed to have already produced outputs/stage5/stage5_signal_analysis_*.json
// on disk by the time the controller resolves stage 6.
type PassthroughExecutor struct{}

func (PassthroughExecutor) StageNumber() int       { return 5 }
func (PassthroughExecutor) StageName() string      { return "stage5_signal_analysis" }
func (PassthroughExecutor) RequiresUpstream() bool { return true }
func (PassthroughExecutor) OutputPattern() string  { return "stage5_signal_analysis" }

func (PassthroughExecutor) LoadConfig() (interface{}, error) { return nil, nil }

func (PassthroughExecutor) CreateProcessor(interface{}) (stages.Processor, error) {
	return nil, &pipelineerrors.ConfigError{Stage: 5, Detail: "stage 5 is an external collaborator boundary and has no in-process processor"}
}

var _ stages.Executor = PassthroughExecutor{}

// DecodePayload re-decodes a generic upstream value into a typed
// stage-5 Payload, checking only the stage tag this pipeline owns.
func DecodePayload(raw interface{}) (Payload, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return Payload{}, fmt.Errorf("stage5 upstream payload: expected object, got %T", raw)
	}
	stage, _ := m["stage"].(string)
	return Payload{Stage: stage, Data: m}, nil
}
