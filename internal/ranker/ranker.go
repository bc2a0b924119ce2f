// Package ranker maintains streaming per-entity top-K selections over scored
// batches without ever materializing the full score matrix.
package ranker

import (
	"fmt"
	"math"
	"sort"

	"github.com/DjordjeVuckovic/rank-hunter/internal/apperr"
)

// slot pairs a score with the label of the item that produced it. Slots with
// score -Inf and label NaN mark positions where fewer real candidates have
// been seen than the buffer is wide.
type slot struct {
	score float64
	label float64
}

// Ranker accumulates, for every registered entity, the K highest-scored
// candidates seen so far plus the total count of positive-labeled candidates.
//
// Each entity owns a row of width 2K sorted descending by score. After every
// Observe the first K slots hold the true top-K of everything merged so far;
// the second K slots are stale and get overwritten by the next batch's local
// top-K before the row is re-sorted. Memory is O(N*K) regardless of stream
// length.
//
// Observing the same (entity, item) pair in two batches double-counts it:
// the merge has no per-item history to deduplicate against. Keeping the
// stream duplicate-free is the caller's responsibility.
//
// A Ranker is not safe for concurrent Observe calls; batches must be applied
// strictly one after another.
type Ranker struct {
	k         int
	registry  *Registry
	buf       [][]slot
	positives []int

	batches int
	edges   int
}

// Ranking is the finalized output of one evaluation pass: an N×K matrix of
// top-K labels sorted by descending score, and the per-entity count of all
// positive candidates observed, independent of top-K truncation. Label slots
// of entities with fewer than K observed candidates are NaN, as are entire
// rows of entities never seen in the stream.
type Ranking struct {
	TopKLabels [][]float64
	Positives  []int
}

func New(registry *Registry, k int) (*Ranker, error) {
	if k <= 0 {
		return nil, fmt.Errorf("top-k width must be positive, got %d", k)
	}
	n := registry.Len()
	buf := make([][]slot, n)
	for i := range buf {
		row := make([]slot, 2*k)
		for j := range row {
			row[j] = slot{score: math.Inf(-1), label: math.NaN()}
		}
		buf[i] = row
	}
	return &Ranker{
		k:         k,
		registry:  registry,
		buf:       buf,
		positives: make([]int, n),
	}, nil
}

func (r *Ranker) K() int { return r.k }

func (r *Ranker) Registry() *Registry { return r.registry }

// Batches returns how many batches have been observed so far.
func (r *Ranker) Batches() int { return r.batches }

// Edges returns how many scored edges have been observed so far.
func (r *Ranker) Edges() int { return r.edges }

// Observe merges one batch into the running top-K state. Every edge's entity
// must be registered; an unknown entity aborts the pass because row indices
// were fixed when the buffers were allocated.
func (r *Ranker) Observe(b Batch) error {
	groups := make(map[int][]slot)
	for _, e := range b.Edges {
		row, ok := r.registry.Row(e.Entity)
		if !ok {
			return apperr.NewUnknownEntity(e.Entity)
		}
		groups[row] = append(groups[row], slot{score: e.Score, label: e.Label})
		if e.Label > 0 {
			r.positives[row]++
		}
	}

	for row, cand := range groups {
		// Batch-local top-K. Stable keeps encounter order on score ties so
		// re-runs over the same stream produce the same internal ordering.
		sort.SliceStable(cand, func(i, j int) bool {
			return cand[i].score > cand[j].score
		})

		buf := r.buf[row]
		for i := 0; i < r.k; i++ {
			if i < len(cand) {
				buf[r.k+i] = cand[i]
			} else {
				buf[r.k+i] = slot{score: math.Inf(-1), label: math.NaN()}
			}
		}

		// Retained half plus fresh half, best K of the union wins.
		sort.SliceStable(buf, func(i, j int) bool {
			return buf[i].score > buf[j].score
		})
	}

	r.batches++
	r.edges += len(b.Edges)
	return nil
}

// Finalize reads out the accumulated state. The Ranker is single-pass;
// callers construct a fresh one per evaluation run.
func (r *Ranker) Finalize() *Ranking {
	n := r.registry.Len()
	labels := make([][]float64, n)
	for i := range labels {
		row := make([]float64, r.k)
		for j := 0; j < r.k; j++ {
			row[j] = r.buf[i][j].label
		}
		labels[i] = row
	}
	positives := make([]int, n)
	copy(positives, r.positives)
	return &Ranking{TopKLabels: labels, Positives: positives}
}
