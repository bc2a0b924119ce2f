package main

import (
	"flag"
	"fmt"
	"strings"
)

type cliConfig struct {
	SpecPath   string
	CSVPath    string
	PgConnStr  string
	SQLitePath string
	Table      string
	K          int
	Metrics    string
	BatchSize  int
	Undefined  string
	Output     string
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.SpecPath, "spec", "", "Path to eval spec YAML (overrides quick-mode flags)")
	flag.StringVar(&cfg.CSVPath, "csv", "", "Path to scored-edge CSV file")
	flag.StringVar(&cfg.PgConnStr, "pg", "", "PostgreSQL connection string")
	flag.StringVar(&cfg.SQLitePath, "sqlite", "", "Path to SQLite database")
	flag.StringVar(&cfg.Table, "table", "scored_edges", "Scored-edge table name (pg/sqlite)")
	flag.IntVar(&cfg.K, "k", 20, "Top-K width")
	flag.StringVar(&cfg.Metrics, "metrics", "recall,ndcg", "Metrics to compute, comma-separated")
	flag.IntVar(&cfg.BatchSize, "batch-size", 1024, "Edges per batch")
	flag.StringVar(&cfg.Undefined, "undefined", "exclude", "Undefined-entity policy: exclude or propagate")
	flag.StringVar(&cfg.Output, "output", "", "Output path for the JSON report")

	flag.Parse()
	return cfg
}

func (c cliConfig) parseMetrics() ([]string, error) {
	parts := strings.Split(c.Metrics, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			return nil, fmt.Errorf("empty metric name in %q", c.Metrics)
		}
		names = append(names, name)
	}
	return names, nil
}
