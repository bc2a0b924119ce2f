package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"regexp"

	"github.com/DjordjeVuckovic/rank-hunter/internal/ranker"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource streams scored edges out of a local SQLite database, batching
// rows client-side. The table needs entity_id (uuid text), score and label
// columns; rowid order is the stream order.
type SQLiteSource struct {
	db        *sql.DB
	table     string
	batchSize int
	rows      *sql.Rows
}

func OpenSQLite(path, table string, batchSize int) (*SQLiteSource, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return &SQLiteSource{db: db, table: table, batchSize: batchSize}, nil
}

// Entities scans the table for distinct entity IDs, in first-row order so the
// pass registry is stable across runs.
func (s *SQLiteSource) Entities(ctx context.Context) ([]uuid.UUID, error) {
	q := fmt.Sprintf(
		`SELECT entity_id FROM %s GROUP BY entity_id ORDER BY MIN(rowid)`,
		s.table,
	)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("scan entities: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan entity row: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse entity id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entity rows: %w", err)
	}
	return ids, nil
}

func (s *SQLiteSource) Next(ctx context.Context) (ranker.Batch, error) {
	if s.rows == nil {
		q := fmt.Sprintf(
			`SELECT entity_id, score, label FROM %s ORDER BY rowid`,
			s.table,
		)
		rows, err := s.db.QueryContext(ctx, q)
		if err != nil {
			return ranker.Batch{}, fmt.Errorf("query scored edges: %w", err)
		}
		s.rows = rows
	}

	var edges []ranker.ScoredEdge
	for len(edges) < s.batchSize && s.rows.Next() {
		var (
			raw   string
			score float64
			label float64
		)
		if err := s.rows.Scan(&raw, &score, &label); err != nil {
			return ranker.Batch{}, fmt.Errorf("scan edge row: %w", err)
		}
		entity, err := uuid.Parse(raw)
		if err != nil {
			return ranker.Batch{}, fmt.Errorf("parse entity id %q: %w", raw, err)
		}
		edges = append(edges, ranker.ScoredEdge{Entity: entity, Score: score, Label: label})
	}
	if err := s.rows.Err(); err != nil {
		return ranker.Batch{}, fmt.Errorf("iterate edge rows: %w", err)
	}

	if len(edges) == 0 {
		return ranker.Batch{}, io.EOF
	}
	return ranker.Batch{Edges: edges}, nil
}

func (s *SQLiteSource) Close() error {
	if s.rows != nil {
		s.rows.Close()
	}
	return s.db.Close()
}
