// Package stages holds the pipeline controller, the per-stage executor
// registry, and the shared Processor/Executor contracts every stage
// package implements (component G).
//
// Grounded on the teacher's layer-aligned stage interfaces in
// internal/lidar/pipeline/tracking_pipeline.go (ForegroundStage,
// PerceptionStage, TrackingStage, ObjectStage) — generalized from the
// teacher's fixed L3-L6 real-time chain to a registry-driven
// run_all/run_single/run_range controller over six named stages.
package stages

import (
	"time"

	"github.com/cedarwud/orbit-engine-sub004/internal/validation"
)

// Status is a StageResult's outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusPartial Status = "partial"
)

// Metrics captures the per-stage resource accounting spec.md §3 asks a
// StageResult to carry.
type Metrics struct {
	DurationMS int64 `json:"duration_ms"`
	MemoryMB   float64 `json:"memory_mb,omitempty"`
	CPUPercent float64 `json:"cpu_percent,omitempty"`
}

// StageResult is the uniform envelope every processor returns (spec.md
// §3). Payload is deliberately untyped here: stage-to-stage payload
// schemas are opaque to the controller (spec.md §4.1), each stage
// package defines and consumes its own concrete shape.
type StageResult struct {
	Stage    int
	Status   Status
	Payload  interface{}
	Errors   []error
	Warnings []string
	Metrics  Metrics
}

// Processor is the contract shared by all six stages (spec.md §4.3).
// process (Process) MUST NOT write files; SaveValidationSnapshot is the
// only permitted side effect besides returning the payload.
type Processor interface {
	ValidateInput(upstream interface{}) (ok bool, errs []error, warnings []string)
	Process(upstream interface{}) (payload interface{}, err error)
	ValidateOutput(payload interface{}) (ok bool, errs []error, warnings []string)
	SelfValidate(payload interface{}) (report LayerOneReport, err error)
	SaveValidationSnapshot(report LayerOneReport) error
}

// LayerOneReport is what SelfValidate hands back to the executor
// template before the snapshot is persisted: the check map plus the
// data a layer-1 snapshot needs (spec.md §4.7, §6 ValidationSnapshot
// schema).
type LayerOneReport struct {
	Stage       int
	StageName   string
	Checks      map[string]validation.CheckStatus
	DataSummary map[string]interface{}
	Metadata    map[string]interface{}
	Sample      []interface{}
}

// Executor is the uniform per-stage shape spec.md §4.2 names. The
// execution template itself (banner, output cleanup, upstream load,
// persist, validate) lives in controller.go and is not overridable —
// Executor implementations supply only LoadConfig and CreateProcessor.
type Executor interface {
	StageNumber() int
	StageName() string
	RequiresUpstream() bool
	LoadConfig() (interface{}, error)
	CreateProcessor(cfg interface{}) (Processor, error)
	// OutputPattern is the filename stem used when persisting this
	// stage's JSON output (spec.md §6, e.g. "orbital_propagation_output").
	OutputPattern() string
}

// Validator is the layer-2 external snapshot checker for one stage
// (spec.md §4.7).
type Validator func(stage int, snapshotPath string) (ok bool, message string)

// RunResult is what run_all/run_single/run_range return to the CLI
// (spec.md §4.1).
type RunResult struct {
	Success   bool
	LastStage int
	Message   string
	Durations map[int]time.Duration
	RunID     string
}
