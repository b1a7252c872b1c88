// ABOUTME: Targets file: named API endpoints with their bearer tokens
// ABOUTME: Parsed directly with yaml.v3 to keep target names case-sensitive

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Target struct {
	API   string      `yaml:"api"`
	Team  string      `yaml:"team"`
	Token TargetToken `yaml:"token"`
}

type TargetToken struct {
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

type targetsFile struct {
	Targets map[string]Target `yaml:"targets"`
}

// LoadTargets reads the targets file. A missing file is an empty target set.
func LoadTargets(path string) (map[string]Target, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]Target{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	var parsed targetsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}
	if parsed.Targets == nil {
		parsed.Targets = map[string]Target{}
	}
	return parsed.Targets, nil
}

// SelectTarget resolves a named target, falling back to the bare API URL when
// no target name is configured.
func SelectTarget(cfg *Config, targets map[string]Target) (Target, error) {
	if cfg.API.Target == "" {
		return Target{API: cfg.API.URL}, nil
	}
	target, ok := targets[cfg.API.Target]
	if !ok {
		return Target{}, fmt.Errorf("unknown target %q", cfg.API.Target)
	}
	return target, nil
}
