package report

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *runner.PassResult {
	return &runner.PassResult{
		K:         3,
		Undefined: runner.UndefinedExclude,
		Metrics: []runner.MetricResult{
			{Name: "recall", Score: 2.0 / 3.0, Undefined: 1},
			{Name: "ndcg", Score: math.NaN(), Undefined: 2},
		},
		EntityCount: 5,
		BatchCount:  4,
		EdgeCount:   40,
		Elapsed:     12 * time.Millisecond,
	}
}

func TestGenerate(t *testing.T) {
	r := Generate(sampleResult(), "edges.csv")

	assert.Equal(t, "edges.csv", r.Meta.Dataset)
	assert.Equal(t, 3, r.Config.K)
	assert.Equal(t, "exclude", r.Config.Undefined)
	assert.Equal(t, 5, r.Pass.Entities)

	require.Len(t, r.Metrics, 2)
	require.NotNil(t, r.Metrics[0].Score)
	assert.InDelta(t, 2.0/3.0, *r.Metrics[0].Score, 1e-12)
	// NaN scalars become explicit nulls, never raw NaN in the report.
	assert.Nil(t, r.Metrics[1].Score)
	assert.Equal(t, 2, r.Metrics[1].Undefined)
}

func TestGenerate_ReportIsJSONSerializable(t *testing.T) {
	r := Generate(sampleResult(), "")

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"score":null`)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(Generate(sampleResult(), "edges.csv"), &buf)

	out := buf.String()
	assert.Contains(t, out, "Metric@3")
	assert.Contains(t, out, "recall")
	assert.Contains(t, out, "0.6667")
	assert.Contains(t, out, "undefined")
	assert.Contains(t, out, "edges.csv")
}
