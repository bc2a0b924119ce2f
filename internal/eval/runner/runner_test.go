package runner

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/DjordjeVuckovic/rank-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/rank-hunter/internal/ingest"
	"github.com/DjordjeVuckovic/rank-hunter/internal/ranker"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioBatches(id uuid.UUID) []ranker.Batch {
	return []ranker.Batch{
		{Edges: []ranker.ScoredEdge{
			{Entity: id, Score: 0.9, Label: 1},
			{Entity: id, Score: 0.7, Label: 0},
		}},
		{Edges: []ranker.ScoredEdge{
			{Entity: id, Score: 0.5, Label: 1},
			{Entity: id, Score: 0.2, Label: 1},
		}},
	}
}

func TestRun_Composite(t *testing.T) {
	id := uuid.New()
	reg, err := ranker.NewRegistry([]uuid.UUID{id})
	require.NoError(t, err)

	r := New(Config{K: 3, Metrics: []string{"recall", "ndcg"}, Undefined: UndefinedExclude})
	result, err := r.Run(context.Background(), reg, ingest.NewMemorySource(scenarioBatches(id)...))
	require.NoError(t, err)

	assert.Equal(t, 3, result.K)
	assert.Equal(t, 1, result.EntityCount)
	assert.Equal(t, 2, result.BatchCount)
	assert.Equal(t, 4, result.EdgeCount)

	require.Len(t, result.Metrics, 2)
	assert.Equal(t, "recall", result.Metrics[0].Name)
	assert.InDelta(t, 2.0/3.0, result.Metrics[0].Score, 1e-12)
	assert.Equal(t, "ndcg", result.Metrics[1].Name)
	assert.InDelta(t, 1.5/(1.5+1/math.Log2(3)), result.Metrics[1].Score, 1e-12)
}

func TestRun_UndefinedExclude(t *testing.T) {
	scored := uuid.New()
	unseen := uuid.New()
	reg, err := ranker.NewRegistry([]uuid.UUID{scored, unseen})
	require.NoError(t, err)

	r := New(Config{K: 3, Metrics: []string{"recall"}, Undefined: UndefinedExclude})
	result, err := r.Run(context.Background(), reg, ingest.NewMemorySource(scenarioBatches(scored)...))
	require.NoError(t, err)

	// Mean over the one defined entity; the unseen one is excluded, not zero.
	assert.InDelta(t, 2.0/3.0, result.Metrics[0].Score, 1e-12)
	assert.Equal(t, 1, result.Metrics[0].Undefined)
}

func TestRun_UndefinedPropagate(t *testing.T) {
	scored := uuid.New()
	unseen := uuid.New()
	reg, err := ranker.NewRegistry([]uuid.UUID{scored, unseen})
	require.NoError(t, err)

	r := New(Config{K: 3, Metrics: []string{"recall"}, Undefined: UndefinedPropagate})
	result, err := r.Run(context.Background(), reg, ingest.NewMemorySource(scenarioBatches(scored)...))
	require.NoError(t, err)

	assert.True(t, math.IsNaN(result.Metrics[0].Score))
	assert.Equal(t, 1, result.Metrics[0].Undefined)
}

func TestRun_InvalidConfig(t *testing.T) {
	reg, err := ranker.NewRegistry(nil)
	require.NoError(t, err)
	src := ingest.NewMemorySource()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "zero k", cfg: Config{K: 0, Metrics: []string{"recall"}, Undefined: UndefinedExclude}},
		{name: "no metrics", cfg: Config{K: 3, Undefined: UndefinedExclude}},
		{name: "unknown metric", cfg: Config{K: 3, Metrics: []string{"map"}, Undefined: UndefinedExclude}},
		{name: "unknown policy", cfg: Config{K: 3, Metrics: []string{"recall"}, Undefined: "drop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg).Run(context.Background(), reg, src)
			var ve *apperr.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestRun_CancelledContext(t *testing.T) {
	id := uuid.New()
	reg, err := ranker.NewRegistry([]uuid.UUID{id})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(DefaultConfig())
	_, err = r.Run(ctx, reg, ingest.NewMemorySource(scenarioBatches(id)...))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_UnknownEntityAbortsPass(t *testing.T) {
	reg, err := ranker.NewRegistry([]uuid.UUID{uuid.New()})
	require.NoError(t, err)

	src := ingest.NewMemorySource(ranker.Batch{Edges: []ranker.ScoredEdge{
		{Entity: uuid.New(), Score: 0.5, Label: 1},
	}})

	r := New(Config{K: 3, Metrics: []string{"recall"}, Undefined: UndefinedExclude})
	_, err = r.Run(context.Background(), reg, src)

	var ue *apperr.UnknownEntityError
	assert.True(t, errors.As(err, &ue))
}

func TestReduceMean_AllUndefined(t *testing.T) {
	score, undefined := reduceMean([]float64{math.NaN(), math.NaN()}, UndefinedExclude)
	assert.True(t, math.IsNaN(score))
	assert.Equal(t, 2, undefined)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultK, cfg.K)
	assert.Equal(t, []string{"recall", "ndcg"}, cfg.Metrics)
	assert.Equal(t, UndefinedExclude, cfg.Undefined)
	assert.NoError(t, cfg.validate())
}
