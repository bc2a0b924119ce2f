package ranker

import "github.com/google/uuid"

// ScoredEdge is one scored (entity, candidate) pair with its relevance label.
// The candidate's column inside a batch is its encounter position within the
// entity's group, so callers only need to keep edges of one entity in the
// order they were scored.
type ScoredEdge struct {
	Entity uuid.UUID
	Score  float64
	Label  float64
}

// Batch is one unit of streamed model output. Group sizes per entity are
// variable and may exceed K.
type Batch struct {
	Edges []ScoredEdge
}

// Positives returns how many edges in the batch carry a positive label.
func (b Batch) Positives() int {
	var n int
	for _, e := range b.Edges {
		if e.Label > 0 {
			n++
		}
	}
	return n
}
