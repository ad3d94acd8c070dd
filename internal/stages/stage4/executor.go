package stage4

import (
	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages"
)

// StageExecutor satisfies stages.Executor for stage 4 (spec.md §4.2).
type StageExecutor struct {
	BaseDir    string
	ConfigPath string
}

func (e StageExecutor) StageNumber() int       { return 4 }
func (e StageExecutor) StageName() string      { return "stage4_visibility_pool_optimization" }
func (e StageExecutor) RequiresUpstream() bool { return true }
func (e StageExecutor) OutputPattern() string  { return "stage4_link_analysis" }

func (e StageExecutor) LoadConfig() (interface{}, error) {
	cfg, err := config.LoadStage4Config(e.ConfigPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (e StageExecutor) CreateProcessor(cfg interface{}) (stages.Processor, error) {
	s4cfg, ok := cfg.(*config.Stage4Config)
	if !ok {
		return nil, &pipelineerrors.ConfigError{Stage: 4, Detail: "config is not *config.Stage4Config"}
	}
	return NewProcessor(s4cfg, e.BaseDir), nil
}

var _ stages.Executor = StageExecutor{}
