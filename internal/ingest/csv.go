package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/rank-hunter/internal/ranker"
	"github.com/google/uuid"
)

// CSVDataset is a fully parsed scored-edge file, split into fixed-size
// batches with the entity registry discovered from the rows. CSV files are
// small enough to hold in memory; the streaming sources are for databases.
type CSVDataset struct {
	Entities []uuid.UUID
	Batches  []ranker.Batch
}

// LoadCSV parses scored edges from r. The header must name the columns
// entity_id, score and label; extra columns are ignored.
func LoadCSV(r io.Reader, batchSize int) (*CSVDataset, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[h] = i
	}
	for _, required := range []string{"entity_id", "score", "label"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv header missing %q column", required)
		}
	}

	var (
		edges []ranker.ScoredEdge
		line  = 1
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		line++

		entity, err := uuid.Parse(row[cols["entity_id"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: parse entity id: %w", line, err)
		}
		score, err := strconv.ParseFloat(row[cols["score"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse score: %w", line, err)
		}
		label, err := strconv.ParseFloat(row[cols["label"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse label: %w", line, err)
		}

		edges = append(edges, ranker.ScoredEdge{Entity: entity, Score: score, Label: label})
	}

	ds := &CSVDataset{}
	for start := 0; start < len(edges); start += batchSize {
		end := min(start+batchSize, len(edges))
		ds.Batches = append(ds.Batches, ranker.Batch{Edges: edges[start:end]})
	}
	ds.Entities = DiscoverEntities(ds.Batches)

	return ds, nil
}

// LoadCSVFile loads a scored-edge CSV from disk.
func LoadCSVFile(path string, batchSize int) (*CSVDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	ds, err := LoadCSV(f, batchSize)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// Registry builds the pass registry from the discovered entities.
func (d *CSVDataset) Registry() (*ranker.Registry, error) {
	return ranker.NewRegistry(d.Entities)
}

// Source yields the dataset's batches in order.
func (d *CSVDataset) Source() *MemorySource {
	return NewMemorySource(d.Batches...)
}
