// Package pg streams scored edges from a Postgres table. Model pipelines
// that score pairs offline usually land them in a table like
//
//	CREATE TABLE scored_edges (
//	    id        BIGSERIAL PRIMARY KEY,
//	    entity_id UUID NOT NULL,
//	    score     DOUBLE PRECISION NOT NULL,
//	    label     DOUBLE PRECISION NOT NULL
//	);
//
// and the source replays them in insertion order, batched client-side.
package pg

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/DjordjeVuckovic/rank-hunter/internal/ranker"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Source struct {
	db        *ConnectionPool
	table     string
	batchSize int
	rows      pgx.Rows
}

func NewSource(pool *ConnectionPool, table string, batchSize int) (*Source, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	return &Source{db: pool, table: table, batchSize: batchSize}, nil
}

// Entities performs the registry-discovery scan over the whole table. Runs
// before the first Next so row indices can be fixed up front.
func (s *Source) Entities(ctx context.Context) ([]uuid.UUID, error) {
	slog.Info("Scanning entity registry", "table", s.table)

	q := fmt.Sprintf(
		`SELECT entity_id FROM %s GROUP BY entity_id ORDER BY MIN(id)`,
		pgx.Identifier{s.table}.Sanitize(),
	)
	rows, err := s.db.GetConn().Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to scan entities: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entity row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entity rows: %w", err)
	}

	slog.Info("Entity registry scanned", "entities", len(ids))
	return ids, nil
}

func (s *Source) Next(ctx context.Context) (ranker.Batch, error) {
	if s.rows == nil {
		q := fmt.Sprintf(
			`SELECT entity_id, score, label FROM %s ORDER BY id`,
			pgx.Identifier{s.table}.Sanitize(),
		)
		rows, err := s.db.GetConn().Query(ctx, q)
		if err != nil {
			return ranker.Batch{}, fmt.Errorf("failed to query scored edges: %w", err)
		}
		s.rows = rows
	}

	var edges []ranker.ScoredEdge
	for len(edges) < s.batchSize && s.rows.Next() {
		var e ranker.ScoredEdge
		if err := s.rows.Scan(&e.Entity, &e.Score, &e.Label); err != nil {
			return ranker.Batch{}, fmt.Errorf("failed to scan edge row: %w", err)
		}
		edges = append(edges, e)
	}
	if err := s.rows.Err(); err != nil {
		return ranker.Batch{}, fmt.Errorf("error iterating edge rows: %w", err)
	}

	if len(edges) == 0 {
		return ranker.Batch{}, io.EOF
	}
	return ranker.Batch{Edges: edges}, nil
}

func (s *Source) Close() {
	if s.rows != nil {
		s.rows.Close()
	}
}
