package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// WriteJSON persists a stage result payload to its timestamped output
// path and returns the path written.
func WriteJSON(baseDir string, stage int, pattern string, payload interface{}, ts time.Time) (string, error) {
	dir := OutputDir(baseDir, stage)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	path := OutputPath(baseDir, stage, pattern, ts)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return path, nil
}

// ReadJSON loads a previously written stage result back into dst.
func ReadJSON(path string, dst interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read output %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal output %s: %w", path, err)
	}
	return nil
}

// LatestOutput finds the most recently timestamped file under a stage's
// output directory matching pattern, for run_single's upstream-load path
// (spec.md §4.1: "loads the most recent prior-stage output from disk").
func LatestOutput(baseDir string, stage int, pattern string) (string, error) {
	dir := OutputDir(baseDir, stage)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("list output dir %s: %w", dir, err)
	}
	prefix := pattern + "_"
	var latest string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) > len(prefix) && name[:len(prefix)] == prefix && name > latest {
			latest = name
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no output found for stage %d pattern %q in %s", stage, pattern, dir)
	}
	return dir + string(os.PathSeparator) + latest, nil
}
