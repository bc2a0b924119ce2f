package report

import (
	"math"
	"runtime"
	"time"

	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/runner"
)

type Report struct {
	Meta    PassMeta      `json:"meta"`
	Config  ReportConfig  `json:"config"`
	Pass    PassInfo      `json:"pass"`
	Metrics []MetricEntry `json:"metrics"`
}

type PassMeta struct {
	Timestamp   time.Time       `json:"timestamp"`
	Dataset     string          `json:"dataset,omitempty"`
	Environment EnvironmentInfo `json:"environment"`
}

type ReportConfig struct {
	K         int    `json:"k"`
	Undefined string `json:"undefined"`
}

type PassInfo struct {
	Entities  int           `json:"entities"`
	Batches   int           `json:"batches"`
	Edges     int           `json:"edges"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	ElapsedMS float64       `json:"elapsed_ms"`
}

// MetricEntry carries one reduced scalar. Score is nil when the metric came
// back undefined (NaN under the propagate policy, or no defined entities),
// so the JSON encoding stays valid and the undefined state stays visible.
type MetricEntry struct {
	Name      string   `json:"name"`
	Score     *float64 `json:"score"`
	Undefined int      `json:"undefined_entities"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

// Generate converts a finished pass into a serializable report.
func Generate(result *runner.PassResult, dataset string) *Report {
	r := &Report{
		Meta: PassMeta{
			Timestamp:   time.Now().UTC(),
			Dataset:     dataset,
			Environment: NewEnvironmentInfo(),
		},
		Config: ReportConfig{
			K:         result.K,
			Undefined: string(result.Undefined),
		},
		Pass: PassInfo{
			Entities:  result.EntityCount,
			Batches:   result.BatchCount,
			Edges:     result.EdgeCount,
			Elapsed:   result.Elapsed,
			ElapsedMS: float64(result.Elapsed.Microseconds()) / 1000,
		},
	}

	for _, m := range result.Metrics {
		entry := MetricEntry{Name: m.Name, Undefined: m.Undefined}
		if !math.IsNaN(m.Score) {
			score := m.Score
			entry.Score = &score
		}
		r.Metrics = append(r.Metrics, entry)
	}

	return r
}
