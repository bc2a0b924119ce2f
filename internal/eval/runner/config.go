package runner

import (
	"fmt"

	"github.com/DjordjeVuckovic/rank-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/metrics"
)

// UndefinedPolicy decides how entities with an undefined metric value (no
// positives, or never observed) enter the final mean. The choice is always
// explicit; an undefined entity never leaks into a scalar unnoticed.
type UndefinedPolicy string

const (
	// UndefinedExclude averages over defined entities only and reports how
	// many were excluded.
	UndefinedExclude UndefinedPolicy = "exclude"
	// UndefinedPropagate lets a single undefined entity turn the scalar into
	// NaN.
	UndefinedPropagate UndefinedPolicy = "propagate"
)

const DefaultK = 20

type Config struct {
	K         int
	Metrics   []string
	Undefined UndefinedPolicy
}

func DefaultConfig() Config {
	return Config{
		K:         DefaultK,
		Metrics:   metrics.DefaultNames(),
		Undefined: UndefinedExclude,
	}
}

func (c Config) validate() error {
	if c.K <= 0 {
		return apperr.NewValidation(fmt.Sprintf("k must be positive, got %d", c.K))
	}
	if len(c.Metrics) == 0 {
		return apperr.NewValidation("at least one metric is required")
	}
	for _, name := range c.Metrics {
		if _, ok := metrics.ByName(name); !ok {
			return apperr.NewValidation(fmt.Sprintf("unknown metric %q", name))
		}
	}
	switch c.Undefined {
	case UndefinedExclude, UndefinedPropagate:
	default:
		return apperr.NewValidation(fmt.Sprintf("unknown undefined policy %q", c.Undefined))
	}
	return nil
}
