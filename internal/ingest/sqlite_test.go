package ingest

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSQLite(t *testing.T, entities []uuid.UUID) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "edges.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE scored_edges (entity_id TEXT NOT NULL, score REAL NOT NULL, label REAL NOT NULL)`)
	require.NoError(t, err)

	for i, e := range entities {
		_, err = db.Exec(
			`INSERT INTO scored_edges (entity_id, score, label) VALUES (?, ?, ?)`,
			e.String(), float64(10-i)/10, float64(i%2),
		)
		require.NoError(t, err)
	}
	return path
}

func TestSQLiteSource_EntitiesFirstRowOrder(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()
	// Interleaved rows: the registry order follows each entity's first row,
	// not insertion frequency.
	path := seedSQLite(t, []uuid.UUID{b, a, b, c, a})

	src, err := OpenSQLite(path, "scored_edges", 4)
	require.NoError(t, err)
	defer src.Close()

	ids, err := src.Entities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b, a, c}, ids)
}

func TestSQLiteSource_NextBatching(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	path := seedSQLite(t, []uuid.UUID{a, b, a, b, a})

	src, err := OpenSQLite(path, "scored_edges", 2)
	require.NoError(t, err)
	defer src.Close()

	ctx := context.Background()

	first, err := src.Next(ctx)
	require.NoError(t, err)
	require.Len(t, first.Edges, 2)
	assert.Equal(t, a, first.Edges[0].Entity)
	assert.Equal(t, 1.0, first.Edges[0].Score)
	assert.Equal(t, 0.0, first.Edges[0].Label)
	assert.Equal(t, b, first.Edges[1].Entity)

	second, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Len(t, second.Edges, 2)

	// Five rows with a batch size of two leave a short final batch.
	third, err := src.Next(ctx)
	require.NoError(t, err)
	require.Len(t, third.Edges, 1)
	assert.Equal(t, a, third.Edges[0].Entity)

	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenSQLite_RejectsBadArguments(t *testing.T) {
	path := seedSQLite(t, []uuid.UUID{uuid.New()})

	_, err := OpenSQLite(path, "scored_edges", 0)
	assert.ErrorContains(t, err, "batch size")

	_, err = OpenSQLite(path, "scored_edges; DROP TABLE scored_edges", 8)
	assert.ErrorContains(t, err, "invalid table name")
}
