package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	pipelineerrors "github.com/cedarwud/orbit-engine-sub004/internal/errors"
)

// maxConfigFileSize bounds how large a stageN_*.yaml document may be, the
// same defensive check the teacher applies to its own config file loads.
const maxConfigFileSize = 1 * 1024 * 1024 // 1MB

// LoadYAML reads and parses a YAML config file for the given stage,
// enforcing extension and size limits before unmarshalling into out.
func LoadYAML(stage int, path string, out interface{}) error {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return &pipelineerrors.ConfigError{Stage: stage, Detail: fmt.Sprintf("config file must have .yaml/.yml extension, got %q", ext)}
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return &pipelineerrors.ConfigError{Stage: stage, Detail: fmt.Sprintf("failed to stat config file: %v", err)}
	}
	if info.Size() > maxConfigFileSize {
		return &pipelineerrors.ConfigError{Stage: stage, Detail: fmt.Sprintf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)}
	}

	raw, err := os.ReadFile(cleanPath)
	if err != nil {
		return &pipelineerrors.ConfigError{Stage: stage, Detail: fmt.Sprintf("failed to read config file: %v", err)}
	}

	if err := yaml.Unmarshal(raw, out); err != nil {
		return &pipelineerrors.ConfigError{Stage: stage, Detail: fmt.Sprintf("failed to parse yaml: %v", err)}
	}
	return nil
}

// EnvOverride reads an ORBIT_ENGINE_STAGE{N}_PARENT___CHILD___KEY style
// environment variable and, if set, returns its value and true. The
// triple-underscore is the nested-key path separator per spec §6.
func EnvOverride(stage int, path ...string) (string, bool) {
	name := fmt.Sprintf("ORBIT_ENGINE_STAGE%d_%s", stage, strings.ToUpper(strings.Join(path, "___")))
	v, ok := os.LookupEnv(name)
	return v, ok
}

// OverrideBool applies an env override onto dst if the corresponding
// variable is set, coercing the string to bool.
func OverrideBool(stage int, dst *bool, path ...string) error {
	v, ok := EnvOverride(stage, path...)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return &pipelineerrors.ConfigError{Stage: stage, Detail: fmt.Sprintf("%s: not a bool: %q", strings.Join(path, "___"), v)}
	}
	*dst = b
	return nil
}

// OverrideInt applies an env override onto dst if the corresponding
// variable is set, coercing the string to int.
func OverrideInt(stage int, dst *int, path ...string) error {
	v, ok := EnvOverride(stage, path...)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return &pipelineerrors.ConfigError{Stage: stage, Detail: fmt.Sprintf("%s: not an int: %q", strings.Join(path, "___"), v)}
	}
	*dst = n
	return nil
}

// OverrideFloat applies an env override onto dst if the corresponding
// variable is set, coercing the string to float64.
func OverrideFloat(stage int, dst *float64, path ...string) error {
	v, ok := EnvOverride(stage, path...)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return &pipelineerrors.ConfigError{Stage: stage, Detail: fmt.Sprintf("%s: not a float: %q", strings.Join(path, "___"), v)}
	}
	*dst = f
	return nil
}

// OverrideString applies an env override onto dst if the corresponding
// variable is set.
func OverrideString(stage int, dst *string, path ...string) error {
	v, ok := EnvOverride(stage, path...)
	if !ok {
		return nil
	}
	*dst = v
	return nil
}

// ProcessEnv holds the process-wide environment variables read once at
// startup (spec §6).
type ProcessEnv struct {
	TestMode           bool
	SamplingMode       string // "0" | "1" | "auto"
	Stage3NoPrefilter  bool
	MaxWorkers         int
}

// LoadProcessEnv reads the process-wide environment variables. Defaults
// match spec §6: sampling off, prefilter disabled by default (i.e.
// NoPrefilter=true), 30 workers.
func LoadProcessEnv() ProcessEnv {
	env := ProcessEnv{
		SamplingMode:      "auto",
		Stage3NoPrefilter: true,
		MaxWorkers:        30,
	}
	if v, ok := os.LookupEnv("ORBIT_ENGINE_TEST_MODE"); ok {
		env.TestMode = v == "1"
	}
	if v, ok := os.LookupEnv("ORBIT_ENGINE_SAMPLING_MODE"); ok {
		env.SamplingMode = v
	}
	if v, ok := os.LookupEnv("ORBIT_ENGINE_STAGE3_NO_PREFILTER"); ok {
		env.Stage3NoPrefilter = v == "1"
	}
	if v, ok := os.LookupEnv("ORBIT_ENGINE_MAX_WORKERS"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			env.MaxWorkers = n
		}
	}
	return env
}
