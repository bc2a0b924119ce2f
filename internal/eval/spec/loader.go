package spec

import (
	"fmt"
	"os"

	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/metrics"
	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/runner"
	"gopkg.in/yaml.v3"
)

func LoadFromFile(path string) (*EvalSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*EvalSpec, error) {
	var s EvalSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse spec YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

var validDatasetTypes = map[string]bool{
	"csv":      true,
	"postgres": true,
	"sqlite":   true,
}

func validate(s *EvalSpec) error {
	if s.Dataset.Type == "" {
		return fmt.Errorf("dataset has no type")
	}
	if !validDatasetTypes[s.Dataset.Type] {
		return fmt.Errorf("dataset has invalid type %q", s.Dataset.Type)
	}
	switch s.Dataset.Type {
	case "csv", "sqlite":
		if s.Dataset.Path == "" {
			return fmt.Errorf("%s dataset has no path", s.Dataset.Type)
		}
	case "postgres":
		if s.Dataset.Connection == "" {
			return fmt.Errorf("postgres dataset has no connection")
		}
	}
	if s.Dataset.Type != "csv" && s.Dataset.Table == "" {
		s.Dataset.Table = "scored_edges"
	}
	if s.Dataset.BatchSize <= 0 {
		s.Dataset.BatchSize = 1024
	}

	if s.Metrics.K <= 0 {
		s.Metrics.K = runner.DefaultK
	}
	if len(s.Metrics.Names) == 0 {
		s.Metrics.Names = metrics.DefaultNames()
	}
	for _, name := range s.Metrics.Names {
		if _, ok := metrics.ByName(name); !ok {
			return fmt.Errorf("unknown metric %q", name)
		}
	}
	if s.Metrics.Undefined == "" {
		s.Metrics.Undefined = string(runner.UndefinedExclude)
	}
	switch runner.UndefinedPolicy(s.Metrics.Undefined) {
	case runner.UndefinedExclude, runner.UndefinedPropagate:
	default:
		return fmt.Errorf("unknown undefined policy %q", s.Metrics.Undefined)
	}

	return nil
}

// RunnerConfig converts the metrics block into a runner configuration.
func (s *EvalSpec) RunnerConfig() runner.Config {
	return runner.Config{
		K:         s.Metrics.K,
		Metrics:   s.Metrics.Names,
		Undefined: runner.UndefinedPolicy(s.Metrics.Undefined),
	}
}
