package runner

import "time"

// MetricResult is one reduced scalar. Undefined counts the entities whose
// per-entity value was NaN before reduction, regardless of policy.
type MetricResult struct {
	Name      string
	Score     float64
	Undefined int
}

type PassResult struct {
	K         int
	Undefined UndefinedPolicy
	Metrics   []MetricResult

	EntityCount int
	BatchCount  int
	EdgeCount   int
	Elapsed     time.Duration
}
