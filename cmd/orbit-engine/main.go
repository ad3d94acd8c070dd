package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cedarwud/orbit-engine-sub004/internal/stages"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage1"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage2"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage3"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage4"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage5"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage6"
)

var (
	baseDir    = flag.String("base-dir", ".", "pipeline run root (outputs/, cache/, snapshots/ live here)")
	stageFlag  = flag.Int("stage", 0, "run exactly one stage (1-6), loading its upstream from disk")
	stagesFlag = flag.String("stages", "", "run a range or list of stages, e.g. \"2-4\" or \"2,3,4\"")
)

func buildRegistry(dir string) *stages.Registry {
	r := stages.NewRegistry()
	r.Register(stage1.PassthroughExecutor{})
	r.Register(stage2.StageExecutor{BaseDir: dir})
	r.Register(stage3.StageExecutor{BaseDir: dir})
	r.Register(stage4.StageExecutor{BaseDir: dir})
	r.Register(stage5.PassthroughExecutor{})
	r.Register(stage6.PassthroughExecutor{})
	return r
}

// parseStageList accepts either "A-B" (a contiguous range) or
// "A,B,C" (an explicit list), per spec.md §6's CLI surface.
func parseStageList(spec string) ([]int, error) {
	if strings.Contains(spec, "-") {
		parts := strings.SplitN(spec, "-", 2)
		lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid range start %q: %w", parts[0], err)
		}
		hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid range end %q: %w", parts[1], err)
		}
		if hi < lo {
			return nil, fmt.Errorf("stage range %d-%d is empty", lo, hi)
		}
		out := make([]int, 0, hi-lo+1)
		for n := lo; n <= hi; n++ {
			out = append(out, n)
		}
		return out, nil
	}

	var out []int
	for _, tok := range strings.Split(spec, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("invalid stage number %q: %w", tok, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func main() {
	flag.Parse()

	registry := buildRegistry(*baseDir)
	controller := stages.NewController(registry, *baseDir)

	start := time.Now()
	var result stages.RunResult

	switch {
	case *stageFlag != 0:
		result = controller.RunSingle(*stageFlag)
	case *stagesFlag != "":
		stageNumbers, err := parseStageList(*stagesFlag)
		if err != nil {
			log.Printf("invalid --stages value: %v", err)
			os.Exit(1)
		}
		result = controller.RunRange(stageNumbers)
	default:
		result = controller.RunAll()
	}

	if !result.Success {
		fmt.Printf("pipeline failed at stage %d: %s\n", result.LastStage, result.Message)
		os.Exit(1)
	}

	fmt.Printf("run id: %s\n", result.RunID)
	fmt.Println("stage durations:")
	for stage, d := range result.Durations {
		fmt.Printf("  stage %d: %s\n", stage, d)
	}
	fmt.Printf("total elapsed: %s\n", time.Since(start))
	os.Exit(0)
}
