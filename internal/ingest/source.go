// Package ingest provides batch sources feeding scored edges into an
// evaluation pass. Sources are consumed exactly once; producing the edges
// (model inference, file parsing, database scans) is their whole job, the
// ranker itself never blocks on I/O.
package ingest

import (
	"context"
	"io"

	"github.com/DjordjeVuckovic/rank-hunter/internal/ranker"
	"github.com/google/uuid"
)

// Source yields scored batches in stream order. Next returns io.EOF once the
// stream is exhausted.
type Source interface {
	Next(ctx context.Context) (ranker.Batch, error)
}

// MemorySource serves pre-built batches. Useful for library callers that
// already hold scored edges and for tests.
type MemorySource struct {
	batches []ranker.Batch
	pos     int
}

func NewMemorySource(batches ...ranker.Batch) *MemorySource {
	return &MemorySource{batches: batches}
}

func (s *MemorySource) Next(ctx context.Context) (ranker.Batch, error) {
	if err := ctx.Err(); err != nil {
		return ranker.Batch{}, err
	}
	if s.pos >= len(s.batches) {
		return ranker.Batch{}, io.EOF
	}
	b := s.batches[s.pos]
	s.pos++
	return b, nil
}

// DiscoverEntities scans batches for distinct entity IDs in first-seen order,
// for callers that do not pre-declare a registry.
func DiscoverEntities(batches []ranker.Batch) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, b := range batches {
		for _, e := range b.Edges {
			if _, ok := seen[e.Entity]; ok {
				continue
			}
			seen[e.Entity] = struct{}{}
			ids = append(ids, e.Entity)
		}
	}
	return ids
}
