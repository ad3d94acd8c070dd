package stage3

import (
	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages"
)

// StageExecutor satisfies stages.Executor for stage 3 (spec.md §4.2).
type StageExecutor struct {
	BaseDir    string
	ConfigPath string
}

func (e StageExecutor) StageNumber() int       { return 3 }
func (e StageExecutor) StageName() string      { return "stage3_coordinate_transformation" }
func (e StageExecutor) RequiresUpstream() bool { return true }
func (e StageExecutor) OutputPattern() string  { return "stage3_coordinate_transformation_real" }

func (e StageExecutor) LoadConfig() (interface{}, error) {
	cfg, err := config.LoadStage3Config(e.ConfigPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (e StageExecutor) CreateProcessor(cfg interface{}) (stages.Processor, error) {
	s3cfg, ok := cfg.(*config.Stage3Config)
	if !ok {
		return nil, &pipelineerrors.ConfigError{Stage: 3, Detail: "config is not *config.Stage3Config"}
	}
	return NewProcessor(s3cfg, e.BaseDir), nil
}

var _ stages.Executor = StageExecutor{}
