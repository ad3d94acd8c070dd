package stages

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/cedarwud/orbit-engine-sub004/internal/artifact"
	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
	"github.com/cedarwud/orbit-engine-sub004/internal/validation"
)

// Controller drives execution of the six-stage chain in one of three
// modes (spec.md §4.1). It knows only the Executor/Processor contracts;
// stage-to-stage payload schemas stay opaque to it.
type Controller struct {
	Registry *Registry
	BaseDir  string
}

// NewController builds a controller writing outputs/snapshots/cache
// under baseDir.
func NewController(registry *Registry, baseDir string) *Controller {
	return &Controller{Registry: registry, BaseDir: baseDir}
}

// RunAll executes the in-scope stage range (2..4) in order, feeding
// each stage's in-memory result to the next. Stages 1, 5 and 6 are
// external-collaborator boundaries (spec.md §1): stage 1's output is
// expected to already be on disk before a run starts, and stages 5/6
// consume stage 4's output in a separate process. Requesting any of
// them individually via RunSingle still resolves to their passthrough
// Executor, which reports the boundary explicitly rather than silently
// no-op'ing.
func (c *Controller) RunAll() RunResult {
	return c.runSequence(c.Registry.Stages(2, 4), nil)
}

// RunSingle executes exactly one stage, forcing its upstream input to
// be loaded from disk even if a prior in-memory result would otherwise
// be available.
func (c *Controller) RunSingle(stage int) RunResult {
	return c.runSequence([]int{stage}, nil)
}

// RunRange executes a non-empty ordered list of stage numbers; the
// first stage loads its input from disk, subsequent stages receive
// their predecessor's in-memory result (spec.md §4.1).
func (c *Controller) RunRange(stageNumbers []int) RunResult {
	return c.runSequence(stageNumbers, nil)
}

// runSequence implements the shared run_all/run_single/run_range
// algorithm (spec.md §4.1): resolve each stage's executor, execute it,
// run both validation layers, fail fast on the first error.
func (c *Controller) runSequence(stageNumbers []int, seed map[int]interface{}) RunResult {
	runID := uuid.New().String()
	log.Printf("run %s: stages %v", runID, stageNumbers)

	results := make(map[int]interface{})
	for k, v := range seed {
		results[k] = v
	}
	durations := make(map[int]time.Duration)
	start := time.Now()

	for i, n := range stageNumbers {
		ex, ok := c.Registry.Executor(n)
		if !ok {
			msg := fmt.Sprintf("no executor registered for stage %d", n)
			log.Print(msg)
			return RunResult{Success: false, LastStage: n, Message: msg, Durations: durations, RunID: runID}
		}

		// The first stage in a run_single/run_range sequence always
		// forces a disk load, even when an in-memory result for n-1
		// exists from a previous run_all invocation of this controller.
		forceDiskLoad := i == 0
		stageStart := time.Now()
		result, err := c.runStage(ex, results, forceDiskLoad, runID)
		durations[n] = time.Since(stageStart)

		if err != nil {
			log.Printf("run %s: stage %d failed: %v", runID, n, err)
			return RunResult{Success: false, LastStage: n, Message: err.Error(), Durations: durations, RunID: runID}
		}
		if result.Status != StatusSuccess {
			msg := fmt.Sprintf("stage %d: status=%s", n, result.Status)
			log.Print(msg)
			return RunResult{Success: false, LastStage: n, Message: msg, Durations: durations, RunID: runID}
		}
		results[n] = result.Payload
	}

	log.Printf("run %s: pipeline completed in %s", runID, time.Since(start))
	last := 0
	if len(stageNumbers) > 0 {
		last = stageNumbers[len(stageNumbers)-1]
	}
	return RunResult{Success: true, LastStage: last, Message: "ok", Durations: durations, RunID: runID}
}

// runStage implements the fixed execution template of spec.md §4.2:
// banner, clean old outputs, load upstream, load config, process,
// persist output, run both validation layers.
func (c *Controller) runStage(ex Executor, results map[int]interface{}, forceDiskLoad bool, runID string) (StageResult, error) {
	stage := ex.StageNumber()
	log.Printf("=== run %s: stage %d: %s ===", runID, stage, ex.StageName())

	outDir := artifact.OutputDir(c.BaseDir, stage)
	if err := os.RemoveAll(outDir); err != nil {
		return StageResult{}, &pipelineerrors.ResourceError{Stage: stage, Detail: fmt.Sprintf("clean old outputs: %v", err)}
	}

	var upstream interface{}
	if ex.RequiresUpstream() {
		if existing, ok := results[stage-1]; ok && !forceDiskLoad {
			upstream = existing
		} else {
			path, err := artifact.LatestOutput(c.BaseDir, stage-1, upstreamPatternFor(stage-1))
			if err != nil {
				return StageResult{}, &pipelineerrors.InputSchemaError{Stage: stage, Detail: fmt.Sprintf("load upstream: %v", err)}
			}
			var raw map[string]interface{}
			if err := artifact.ReadJSON(path, &raw); err != nil {
				return StageResult{}, &pipelineerrors.InputSchemaError{Stage: stage, Detail: fmt.Sprintf("decode upstream: %v", err)}
			}
			upstream = raw
		}
	}

	cfg, err := ex.LoadConfig()
	if err != nil {
		return StageResult{}, err
	}
	processor, err := ex.CreateProcessor(cfg)
	if err != nil {
		return StageResult{}, err
	}

	if ok, errs, warnings := processor.ValidateInput(upstream); !ok {
		for _, w := range warnings {
			log.Printf("stage %d warning: %s", stage, w)
		}
		return StageResult{}, &pipelineerrors.InputSchemaError{Stage: stage, Detail: firstError(errs)}
	}

	payload, err := processor.Process(upstream)
	if err != nil {
		return StageResult{}, err
	}

	if ok, errs, warnings := processor.ValidateOutput(payload); !ok {
		for _, w := range warnings {
			log.Printf("stage %d warning: %s", stage, w)
		}
		return StageResult{}, &pipelineerrors.ValidationError{Stage: stage, CheckName: "validate_output", Detail: firstError(errs)}
	}

	now := time.Now()
	if _, err := artifact.WriteJSON(c.BaseDir, stage, ex.OutputPattern(), payload, now); err != nil {
		return StageResult{}, &pipelineerrors.ResourceError{Stage: stage, Detail: fmt.Sprintf("persist output: %v", err)}
	}

	report, err := processor.SelfValidate(payload)
	if err != nil {
		return StageResult{}, err
	}
	if err := processor.SaveValidationSnapshot(report); err != nil {
		return StageResult{}, &pipelineerrors.ResourceError{Stage: stage, Detail: fmt.Sprintf("write validation snapshot: %v", err)}
	}

	snapDir := artifact.SnapshotDir(c.BaseDir)
	snap, err := validation.Read(snapDir, stage)
	if err != nil {
		return StageResult{}, &pipelineerrors.ResourceError{Stage: stage, Detail: fmt.Sprintf("read validation snapshot: %v", err)}
	}
	if ok, msg := validation.ExternalValidate(stage, snap); !ok {
		return StageResult{}, &pipelineerrors.ValidationError{Stage: stage, CheckName: "layer2_external", Detail: msg}
	}

	return StageResult{
		Stage:   stage,
		Status:  StatusSuccess,
		Payload: payload,
		Metrics: Metrics{DurationMS: time.Since(now).Milliseconds()},
	}, nil
}

func firstError(errs []error) string {
	if len(errs) == 0 {
		return "validation failed"
	}
	return errs[0].Error()
}

// upstreamPatternFor returns the on-disk output filename stem for a
// stage number, used when a downstream stage loads its predecessor's
// result from disk (spec.md §6 artifact path conventions).
func upstreamPatternFor(stage int) string {
	switch stage {
	case 1:
		return "stage1_output"
	case 2:
		return "orbital_propagation_output"
	case 3:
		return "stage3_coordinate_transformation_real"
	case 4:
		return "stage4_link_analysis"
	case 5:
		return "stage5_signal_analysis"
	default:
		return fmt.Sprintf("stage%d_output", stage)
	}
}
