package stage2

import (
	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages"
)

// StageExecutor satisfies stages.Executor for stage 2 (spec.md §4.2).
type StageExecutor struct {
	BaseDir    string
	ConfigPath string // empty uses defaults + env overrides only
}

func (e StageExecutor) StageNumber() int       { return 2 }
func (e StageExecutor) StageName() string      { return "stage2_orbital_propagation" }
func (e StageExecutor) RequiresUpstream() bool { return true }
func (e StageExecutor) OutputPattern() string  { return "orbital_propagation_output" }

func (e StageExecutor) LoadConfig() (interface{}, error) {
	cfg, err := config.LoadStage2Config(e.ConfigPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (e StageExecutor) CreateProcessor(cfg interface{}) (stages.Processor, error) {
	s2cfg, ok := cfg.(*config.Stage2Config)
	if !ok {
		return nil, &pipelineerrors.ConfigError{Stage: 2, Detail: "config is not *config.Stage2Config"}
	}
	return NewProcessor(s2cfg, e.BaseDir), nil
}

var _ stages.Executor = StageExecutor{}
