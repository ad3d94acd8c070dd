package stages

import (
	"github.com/cedarwud/orbit-engine-sub004/internal/artifact"
	"github.com/cedarwud/orbit-engine-sub004/internal/validation"
)

// SaveSnapshot builds a ValidationSnapshot from a processor's layer-1
// report and writes it to baseDir's well-known snapshot directory. Every
// stage's Processor.SaveValidationSnapshot implementation delegates here
// so the on-disk shape stays uniform across stages.
func SaveSnapshot(baseDir string, report LayerOneReport) error {
	snap := validation.NewSnapshot(report.Stage, report.StageName, report.Checks, report.DataSummary, report.Metadata, report.Sample)
	return validation.Write(artifact.SnapshotDir(baseDir), snap)
}
