// Package runner drives one evaluation pass: it feeds a batch source through
// a streaming top-K ranker, applies the configured metric formulas to the
// finalized ranking and reduces each to a scalar mean across entities.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/metrics"
	"github.com/DjordjeVuckovic/rank-hunter/internal/ingest"
	"github.com/DjordjeVuckovic/rank-hunter/internal/ranker"
)

type Runner struct {
	config Config
}

func New(cfg Config) *Runner {
	return &Runner{config: cfg}
}

// Run consumes the source once and returns the reduced metric scalars in the
// order the config lists them. The context is checked between batches; the
// merge of a single batch always completes once started.
func (r *Runner) Run(ctx context.Context, registry *ranker.Registry, src ingest.Source) (*PassResult, error) {
	if err := r.config.validate(); err != nil {
		return nil, err
	}

	rk, err := ranker.New(registry, r.config.K)
	if err != nil {
		return nil, fmt.Errorf("create ranker: %w", err)
	}

	started := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pass aborted: %w", err)
		}

		batch, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read batch %d: %w", rk.Batches()+1, err)
		}

		if err := rk.Observe(batch); err != nil {
			return nil, fmt.Errorf("observe batch %d: %w", rk.Batches()+1, err)
		}
	}

	ranking := rk.Finalize()
	slog.Info("Pass consumed",
		"entities", registry.Len(),
		"batches", rk.Batches(),
		"edges", rk.Edges(),
	)

	results, err := Reduce(ranking, r.config.Metrics, r.config.Undefined)
	if err != nil {
		return nil, err
	}

	return &PassResult{
		K:           r.config.K,
		Undefined:   r.config.Undefined,
		Metrics:     results,
		EntityCount: registry.Len(),
		BatchCount:  rk.Batches(),
		EdgeCount:   rk.Edges(),
		Elapsed:     time.Since(started),
	}, nil
}

// Reduce applies the named metric formulas to a finalized ranking and
// collapses each per-entity vector to its mean under the undefined policy.
// Shared by the pass runner and the ingestion service, which drives the
// ranker incrementally instead of from a source.
func Reduce(ranking *ranker.Ranking, names []string, policy UndefinedPolicy) ([]MetricResult, error) {
	results := make([]MetricResult, 0, len(names))
	for _, name := range names {
		fn, ok := metrics.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", name)
		}

		values := fn(ranking.TopKLabels, ranking.Positives)
		score, undefined := reduceMean(values, policy)
		results = append(results, MetricResult{Name: name, Score: score, Undefined: undefined})
	}
	return results, nil
}

func reduceMean(values []float64, policy UndefinedPolicy) (float64, int) {
	var (
		sum       float64
		defined   int
		undefined int
	)
	for _, v := range values {
		if math.IsNaN(v) {
			undefined++
			continue
		}
		sum += v
		defined++
	}

	if policy == UndefinedPropagate && undefined > 0 {
		return math.NaN(), undefined
	}
	if defined == 0 {
		return math.NaN(), undefined
	}
	return sum / float64(defined), undefined
}
