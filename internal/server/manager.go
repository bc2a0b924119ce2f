package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/DjordjeVuckovic/rank-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/metrics"
	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/runner"
	"github.com/DjordjeVuckovic/rank-hunter/internal/ranker"
	"github.com/google/uuid"
)

var ErrPassNotFound = errors.New("pass not found")

// PassManager keeps the live evaluation passes of the ingestion API. Batches
// for one pass are applied under the pass's own lock: merges mutate shared
// buffer rows, so two requests for the same pass must never interleave.
// Different passes observe concurrently.
type PassManager struct {
	mu     sync.RWMutex
	passes map[uuid.UUID]*evalPass
}

type evalPass struct {
	mu        sync.Mutex
	rk        *ranker.Ranker
	finalized bool
}

func (p *evalPass) observe(b ranker.Batch) (PassStats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// The pass may have been finalized between the map lookup and taking the
	// pass lock; accepting the batch then would silently drop it.
	if p.finalized {
		return PassStats{}, ErrPassNotFound
	}

	if err := p.rk.Observe(b); err != nil {
		return PassStats{}, err
	}
	return PassStats{Batches: p.rk.Batches(), Edges: p.rk.Edges()}, nil
}

// PassStats reports the observation progress of one pass.
type PassStats struct {
	Batches int
	Edges   int
}

func NewPassManager() *PassManager {
	return &PassManager{passes: make(map[uuid.UUID]*evalPass)}
}

// Create allocates a pass with a fixed entity registry and top-K width.
func (m *PassManager) Create(k int, entities []uuid.UUID) (uuid.UUID, error) {
	reg, err := ranker.NewRegistry(entities)
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid entity registry", err)
	}
	rk, err := ranker.New(reg, k)
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid pass config", err)
	}

	id := uuid.New()
	m.mu.Lock()
	m.passes[id] = &evalPass{rk: rk}
	m.mu.Unlock()

	return id, nil
}

func (m *PassManager) get(id uuid.UUID) (*evalPass, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.passes[id]
	if !ok {
		return nil, ErrPassNotFound
	}
	return p, nil
}

// Observe merges one batch into the pass.
func (m *PassManager) Observe(id uuid.UUID, b ranker.Batch) (PassStats, error) {
	p, err := m.get(id)
	if err != nil {
		return PassStats{}, err
	}
	return p.observe(b)
}

// Finalize reads the pass out, reduces the requested metrics and discards the
// pass; state never survives finalization. The request is validated before
// the pass is removed — a bad metric name or policy must not cost the caller
// a stream that cannot be replayed.
func (m *PassManager) Finalize(id uuid.UUID, names []string, policy runner.UndefinedPolicy) ([]runner.MetricResult, PassStats, error) {
	for _, name := range names {
		if _, ok := metrics.ByName(name); !ok {
			return nil, PassStats{}, apperr.NewValidation(fmt.Sprintf("unknown metric %q", name))
		}
	}
	switch policy {
	case runner.UndefinedExclude, runner.UndefinedPropagate:
	default:
		return nil, PassStats{}, apperr.NewValidation(fmt.Sprintf("unknown undefined policy %q", policy))
	}

	m.mu.Lock()
	p, ok := m.passes[id]
	if ok {
		delete(m.passes, id)
	}
	m.mu.Unlock()

	if !ok {
		return nil, PassStats{}, ErrPassNotFound
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.finalized = true

	results, err := runner.Reduce(p.rk.Finalize(), names, policy)
	if err != nil {
		return nil, PassStats{}, apperr.NewValidationWrap("finalize pass", err)
	}
	return results, PassStats{Batches: p.rk.Batches(), Edges: p.rk.Edges()}, nil
}

// Count returns how many passes are currently live.
func (m *PassManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.passes)
}
