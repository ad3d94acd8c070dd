// Package artifact handles on-disk persistence for pipeline outputs: the
// timestamped JSON result files each stage writes to outputs/stageN/, and
// the content-addressed blob store standing in for the HDF5 tensor/cache
// files spec.md's wire format names (no HDF5 binding exists anywhere in
// the retrieved example pack; see DESIGN.md).
package artifact

import (
	"fmt"
	"path/filepath"
	"time"
)

// OutputDir returns the directory a stage writes its timestamped JSON
// results into: outputs/stageN/.
func OutputDir(baseDir string, stage int) string {
	return filepath.Join(baseDir, "outputs", fmt.Sprintf("stage%d", stage))
}

// OutputPath returns a timestamped output path for a stage, following the
// <pattern>_<UTC_YYYYMMDD_HHMMSS>.json naming convention.
func OutputPath(baseDir string, stage int, pattern string, ts time.Time) string {
	name := fmt.Sprintf("%s_%s.json", pattern, ts.UTC().Format("20060102_150405"))
	return filepath.Join(OutputDir(baseDir, stage), name)
}

// SnapshotDir returns the directory validation snapshots live in.
func SnapshotDir(baseDir string) string {
	return filepath.Join(baseDir, "snapshots")
}

// CachePath returns the content-addressed cache file path for a stage,
// e.g. cache/stage3/stage3_cache_<sha256>.h5, or cache/iers/<name>.h5 when
// stage is 0 (used for the shared IERS table cache).
func CachePath(baseDir string, stage int, contentHash string) string {
	if stage == 0 {
		return filepath.Join(baseDir, "cache", "iers", fmt.Sprintf("iers_%s.h5", contentHash))
	}
	name := fmt.Sprintf("stage%d_cache_%s.h5", stage, contentHash)
	return filepath.Join(baseDir, "cache", fmt.Sprintf("stage%d", stage), name)
}
