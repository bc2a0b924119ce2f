package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/report"
	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/runner"
	"github.com/DjordjeVuckovic/rank-hunter/internal/eval/spec"
	"github.com/DjordjeVuckovic/rank-hunter/internal/ingest"
	"github.com/DjordjeVuckovic/rank-hunter/internal/ingest/pg"
	"github.com/DjordjeVuckovic/rank-hunter/internal/ranker"
)

func main() {
	cfg := parseFlags()
	ctx := context.Background()

	var (
		runCfg  runner.Config
		dataset spec.Dataset
	)

	if cfg.SpecPath != "" {
		s, err := spec.LoadFromFile(cfg.SpecPath)
		if err != nil {
			slog.Error("Failed to load spec", "path", cfg.SpecPath, "error", err)
			os.Exit(1)
		}
		runCfg = s.RunnerConfig()
		dataset = s.Dataset
	} else {
		metricNames, err := cfg.parseMetrics()
		if err != nil {
			slog.Error("Invalid metrics", "error", err)
			os.Exit(1)
		}
		runCfg = runner.Config{
			K:         cfg.K,
			Metrics:   metricNames,
			Undefined: runner.UndefinedPolicy(cfg.Undefined),
		}
		dataset = quickDataset(cfg)
	}

	registry, src, cleanup, err := openDataset(ctx, dataset)
	if err != nil {
		slog.Error("Failed to open dataset", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	result, err := runner.New(runCfg).Run(ctx, registry, src)
	if err != nil {
		slog.Error("Evaluation failed", "error", err)
		os.Exit(1)
	}

	rpt := report.Generate(result, datasetName(dataset))
	report.WriteTable(rpt, os.Stdout)

	if cfg.Output != "" {
		if err := report.WriteJSON(rpt, cfg.Output); err != nil {
			slog.Error("Failed to write JSON report", "error", err)
			os.Exit(1)
		}
		slog.Info("Report written", "path", cfg.Output)
	}
}

func quickDataset(cfg cliConfig) spec.Dataset {
	d := spec.Dataset{Table: cfg.Table, BatchSize: cfg.BatchSize}
	switch {
	case cfg.CSVPath != "":
		d.Type = "csv"
		d.Path = cfg.CSVPath
	case cfg.PgConnStr != "":
		d.Type = "postgres"
		d.Connection = cfg.PgConnStr
	case cfg.SQLitePath != "":
		d.Type = "sqlite"
		d.Path = cfg.SQLitePath
	default:
		slog.Error("Quick mode requires --csv, --pg or --sqlite")
		os.Exit(1)
	}
	return d
}

func openDataset(ctx context.Context, d spec.Dataset) (*ranker.Registry, ingest.Source, func(), error) {
	switch d.Type {
	case "csv":
		ds, err := ingest.LoadCSVFile(d.Path, d.BatchSize)
		if err != nil {
			return nil, nil, nil, err
		}
		registry, err := ds.Registry()
		if err != nil {
			return nil, nil, nil, err
		}
		return registry, ds.Source(), func() {}, nil

	case "sqlite":
		src, err := ingest.OpenSQLite(d.Path, d.Table, d.BatchSize)
		if err != nil {
			return nil, nil, nil, err
		}
		entities, err := src.Entities(ctx)
		if err != nil {
			src.Close()
			return nil, nil, nil, err
		}
		registry, err := ranker.NewRegistry(entities)
		if err != nil {
			src.Close()
			return nil, nil, nil, err
		}
		return registry, src, func() { _ = src.Close() }, nil

	case "postgres":
		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: d.Connection})
		if err != nil {
			return nil, nil, nil, err
		}
		src, err := pg.NewSource(pool, d.Table, d.BatchSize)
		if err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		entities, err := src.Entities(ctx)
		if err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		registry, err := ranker.NewRegistry(entities)
		if err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return registry, src, func() { src.Close(); pool.Close() }, nil

	default:
		slog.Error("Unknown dataset type", "type", d.Type)
		os.Exit(1)
		return nil, nil, nil, nil
	}
}

func datasetName(d spec.Dataset) string {
	if d.Path != "" {
		return d.Path
	}
	if d.Table != "" {
		return d.Type + ":" + d.Table
	}
	return d.Type
}
