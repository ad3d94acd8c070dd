// Package stage6 is the typed boundary to the external handover-event
// collaborator (spec.md §1: "3GPP A3/A4/A5/D2 event detection and
// reinforcement-learning dataset emission" is explicitly out of
// scope). It defines a passthrough Executor so the registry can
// describe the full six-stage chain; there is no stage 7 to validate a
// stage tag against, so this package carries no payload decoder.
package stage6

import (
	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages"
)

// PassthroughExecutor satisfies stages.Executor for stage 6 without
// performing any handover-event detection itself.
type PassthroughExecutor struct{}

func (PassthroughExecutor) StageNumber() int       { return 6 }
func (PassthroughExecutor) StageName() string      { return "stage6_research" }
func (PassthroughExecutor) RequiresUpstream() bool { return true }
func (PassthroughExecutor) OutputPattern() string  { return "stage6_research" }

func (PassthroughExecutor) LoadConfig() (interface{}, error) { return nil, nil }

func (PassthroughExecutor) CreateProcessor(interface{}) (stages.Processor, error) {
	return nil, &pipelineerrors.ConfigError{Stage: 6, Detail: "stage 6 is an external collaborator boundary and has no in-process processor"}
}

var _ stages.Executor = PassthroughExecutor{}
