package ranker

import (
	"fmt"

	"github.com/google/uuid"
)

// Registry assigns every entity that can appear in the stream a stable row
// index 0..N-1. Row assignment is fixed at construction and never changes,
// which is what lets the Ranker allocate its buffers up front.
type Registry struct {
	ids  []uuid.UUID
	rows map[uuid.UUID]int
}

func NewRegistry(ids []uuid.UUID) (*Registry, error) {
	rows := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		if _, ok := rows[id]; ok {
			return nil, fmt.Errorf("duplicate entity %s in registry", id)
		}
		rows[id] = i
	}
	return &Registry{ids: ids, rows: rows}, nil
}

// Row returns the row index of an entity, or false if it was never declared.
func (r *Registry) Row(id uuid.UUID) (int, bool) {
	row, ok := r.rows[id]
	return row, ok
}

func (r *Registry) Len() int {
	return len(r.ids)
}

// Entities returns the registered IDs in row order.
func (r *Registry) Entities() []uuid.UUID {
	out := make([]uuid.UUID, len(r.ids))
	copy(out, r.ids)
	return out
}
